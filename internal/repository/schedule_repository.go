package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/collection-calendar/internal/model"
)

const scheduleColumns = `
	id,
	zone_id,
	garbage_type_id,
	day_of_week,
	week_interval,
	to_char(start_date, 'YYYY-MM-DD') AS start_date,
	to_char(end_date, 'YYYY-MM-DD') AS end_date,
	is_active
`

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListActiveByZone returns the rule snapshot the resolver works on.
func (r *ScheduleRepository) ListActiveByZone(ctx context.Context, zoneID uuid.UUID) ([]model.CollectionSchedule, error) {
	var rows []model.CollectionSchedule
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+scheduleColumns+`
		FROM collection_schedules
		WHERE zone_id = ? AND is_active
		ORDER BY start_date ASC, created_at ASC
	`, zoneID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepository) ListByZone(ctx context.Context, zoneID uuid.UUID) ([]model.CollectionSchedule, error) {
	var rows []model.CollectionSchedule
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+scheduleColumns+`
		FROM collection_schedules
		WHERE zone_id = ?
		ORDER BY is_active DESC, day_of_week ASC, start_date ASC
	`, zoneID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.CollectionSchedule, error) {
	var row model.CollectionSchedule
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+scheduleColumns+`
		FROM collection_schedules
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *ScheduleRepository) Create(ctx context.Context, s model.CollectionSchedule) (*model.CollectionSchedule, error) {
	var saved model.CollectionSchedule
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO collection_schedules (
			zone_id,
			garbage_type_id,
			day_of_week,
			week_interval,
			start_date,
			end_date,
			is_active
		) VALUES (?, ?, ?, ?, ?::date, ?::date, ?)
		RETURNING `+scheduleColumns,
		s.ZoneID,
		s.GarbageTypeID,
		s.DayOfWeek,
		s.WeekInterval,
		s.StartDate,
		s.EndDate,
		s.IsActive,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, s model.CollectionSchedule) (*model.CollectionSchedule, error) {
	var saved model.CollectionSchedule
	err := r.db.WithContext(ctx).Raw(`
		UPDATE collection_schedules
		SET garbage_type_id = ?,
			day_of_week = ?,
			week_interval = ?,
			start_date = ?::date,
			end_date = ?::date,
			is_active = ?,
			updated_at = NOW()
		WHERE id = ?
		RETURNING `+scheduleColumns,
		s.GarbageTypeID,
		s.DayOfWeek,
		s.WeekInterval,
		s.StartDate,
		s.EndDate,
		s.IsActive,
		s.ID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

// Deactivate keeps the row so past calendars stay reproducible.
func (r *ScheduleRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE collection_schedules
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = ?
	`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
