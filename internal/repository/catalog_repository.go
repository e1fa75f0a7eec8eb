package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/collection-calendar/internal/model"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListCities(ctx context.Context) ([]model.City, error) {
	var cities []model.City
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, name_pt, name_en, name_es, country_code
		FROM cities
		ORDER BY name ASC
	`).Scan(&cities).Error; err != nil {
		return nil, err
	}

	var zones []model.Zone
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, city_id, name, name_pt, name_en, name_es, circuit_code
		FROM zones
		ORDER BY name ASC
	`).Scan(&zones).Error; err != nil {
		return nil, err
	}

	return attachZones(cities, zones), nil
}

func (r *CatalogRepository) GetCity(ctx context.Context, id uuid.UUID) (*model.City, error) {
	var city model.City
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, name_pt, name_en, name_es, country_code
		FROM cities
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&city).Error; err != nil {
		return nil, err
	}
	if city.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	var zones []model.Zone
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, city_id, name, name_pt, name_en, name_es, circuit_code
		FROM zones
		WHERE city_id = ?
		ORDER BY name ASC
	`, id).Scan(&zones).Error; err != nil {
		return nil, err
	}
	if zones == nil {
		zones = []model.Zone{}
	}
	city.Zones = zones
	return &city, nil
}

func (r *CatalogRepository) GetZone(ctx context.Context, id uuid.UUID) (*model.Zone, error) {
	var zone model.Zone
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, city_id, name, name_pt, name_en, name_es, circuit_code
		FROM zones
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&zone).Error; err != nil {
		return nil, err
	}
	if zone.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &zone, nil
}

func (r *CatalogRepository) ListGarbageTypes(ctx context.Context) ([]model.GarbageType, error) {
	var types []model.GarbageType
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, code, name_pt, name_en, name_es, color_hex, icon
		FROM garbage_types
		ORDER BY code ASC
	`).Scan(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *CatalogRepository) GetGarbageType(ctx context.Context, id uuid.UUID) (*model.GarbageType, error) {
	var gt model.GarbageType
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, code, name_pt, name_en, name_es, color_hex, icon
		FROM garbage_types
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&gt).Error; err != nil {
		return nil, err
	}
	if gt.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &gt, nil
}

func (r *CatalogRepository) CreateGarbageType(ctx context.Context, gt model.GarbageType) (*model.GarbageType, error) {
	var saved model.GarbageType
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO garbage_types (code, name_pt, name_en, name_es, color_hex, icon)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (code) DO NOTHING
		RETURNING id, code, name_pt, name_en, name_es, color_hex, icon
	`, gt.Code, gt.NamePT, gt.NameEN, gt.NameES, gt.ColorHex, gt.Icon).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrDuplicatedKey
	}
	return &saved, nil
}

func attachZones(cities []model.City, zones []model.Zone) []model.City {
	index := make(map[uuid.UUID]int, len(cities))
	for i := range cities {
		cities[i].Zones = []model.Zone{}
		index[cities[i].ID] = i
	}
	for _, zone := range zones {
		if pos, ok := index[zone.CityID]; ok {
			cities[pos].Zones = append(cities[pos].Zones, zone)
		}
	}
	return cities
}
