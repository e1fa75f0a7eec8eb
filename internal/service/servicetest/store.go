// Package servicetest provides in-memory stores for service and handler tests.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/collection-calendar/internal/model"
)

// Store implements the catalog, schedule and device stores over maps.
// Slices keep insertion order so results are deterministic.
type Store struct {
	mu sync.Mutex

	Cities        []model.City
	Zones         []model.Zone
	GarbageTypes  []model.GarbageType
	Schedules     []model.CollectionSchedule
	Devices       []model.DeviceToken
	Notifications []model.NotificationSchedule

	// Err, when set, is returned by every call.
	Err error
}

func New() *Store {
	return &Store{}
}

func (s *Store) AddCity(name string) model.City {
	s.mu.Lock()
	defer s.mu.Unlock()
	city := model.City{ID: uuid.New(), Name: name, NamePT: name, NameEN: name, NameES: name, CountryCode: "PT"}
	s.Cities = append(s.Cities, city)
	return city
}

func (s *Store) AddZone(cityID uuid.UUID, name string) model.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	zone := model.Zone{ID: uuid.New(), CityID: cityID, Name: name, NamePT: name, NameEN: name, NameES: name}
	s.Zones = append(s.Zones, zone)
	return zone
}

func (s *Store) AddGarbageType(code, namePT, color string) model.GarbageType {
	s.mu.Lock()
	defer s.mu.Unlock()
	gt := model.GarbageType{ID: uuid.New(), Code: code, NamePT: namePT, NameEN: namePT, NameES: namePT, ColorHex: color}
	s.GarbageTypes = append(s.GarbageTypes, gt)
	return gt
}

func (s *Store) AddSchedule(zoneID, typeID uuid.UUID, day time.Weekday, interval int, start string) model.CollectionSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule := model.CollectionSchedule{
		ID:            uuid.New(),
		ZoneID:        zoneID,
		GarbageTypeID: typeID,
		DayOfWeek:     int(day),
		WeekInterval:  interval,
		StartDate:     start,
		IsActive:      true,
	}
	s.Schedules = append(s.Schedules, rule)
	return rule
}

// PendingFor returns the device's reminders still in scheduled state.
func (s *Store) PendingFor(deviceTokenID uuid.UUID) []model.NotificationSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.NotificationSchedule
	for _, n := range s.Notifications {
		if n.DeviceTokenID == deviceTokenID && n.Status == model.NotificationStatusScheduled {
			out = append(out, n)
		}
	}
	return out
}

func (s *Store) ListCities(_ context.Context) ([]model.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	cities := make([]model.City, 0, len(s.Cities))
	for _, city := range s.Cities {
		city.Zones = s.zonesOf(city.ID)
		cities = append(cities, city)
	}
	return cities, nil
}

func (s *Store) GetCity(_ context.Context, id uuid.UUID) (*model.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, city := range s.Cities {
		if city.ID == id {
			city.Zones = s.zonesOf(city.ID)
			return &city, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) zonesOf(cityID uuid.UUID) []model.Zone {
	zones := make([]model.Zone, 0)
	for _, zone := range s.Zones {
		if zone.CityID == cityID {
			zones = append(zones, zone)
		}
	}
	return zones
}

func (s *Store) GetZone(_ context.Context, id uuid.UUID) (*model.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, zone := range s.Zones {
		if zone.ID == id {
			return &zone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) ListGarbageTypes(_ context.Context) ([]model.GarbageType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.GarbageType(nil), s.GarbageTypes...), nil
}

func (s *Store) GetGarbageType(_ context.Context, id uuid.UUID) (*model.GarbageType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, gt := range s.GarbageTypes {
		if gt.ID == id {
			return &gt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) CreateGarbageType(_ context.Context, gt model.GarbageType) (*model.GarbageType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, existing := range s.GarbageTypes {
		if existing.Code == gt.Code {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	gt.ID = uuid.New()
	s.GarbageTypes = append(s.GarbageTypes, gt)
	return &gt, nil
}

func (s *Store) ListActiveByZone(_ context.Context, zoneID uuid.UUID) ([]model.CollectionSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.CollectionSchedule
	for _, rule := range s.Schedules {
		if rule.ZoneID == zoneID && rule.IsActive {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (s *Store) ListByZone(_ context.Context, zoneID uuid.UUID) ([]model.CollectionSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.CollectionSchedule
	for _, rule := range s.Schedules {
		if rule.ZoneID == zoneID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (*model.CollectionSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, rule := range s.Schedules {
		if rule.ID == id {
			return &rule, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) Create(_ context.Context, rule model.CollectionSchedule) (*model.CollectionSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rule.ID = uuid.New()
	s.Schedules = append(s.Schedules, rule)
	return &rule, nil
}

func (s *Store) Update(_ context.Context, rule model.CollectionSchedule) (*model.CollectionSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for i := range s.Schedules {
		if s.Schedules[i].ID == rule.ID {
			s.Schedules[i] = rule
			return &rule, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) Deactivate(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.Schedules {
		if s.Schedules[i].ID == id {
			s.Schedules[i].IsActive = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *Store) device(token string) (int, bool) {
	for i, device := range s.Devices {
		if device.Token == token {
			return i, true
		}
	}
	return 0, false
}

func (s *Store) GetByToken(_ context.Context, token string) (*model.DeviceToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	i, ok := s.device(token)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	device := s.Devices[i]
	return &device, nil
}

func (s *Store) Insert(_ context.Context, token string, deviceID *string, zoneID uuid.UUID) (*model.DeviceToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, ok := s.device(token); ok {
		return nil, gorm.ErrDuplicatedKey
	}
	device := model.DeviceToken{
		ID:                   uuid.New(),
		Token:                token,
		DeviceID:             deviceID,
		ZoneID:               &zoneID,
		NotificationsEnabled: true,
		CreatedAt:            time.Now(),
	}
	s.Devices = append(s.Devices, device)
	return &device, nil
}

func (s *Store) Reactivate(_ context.Context, token string, deviceID *string, zoneID *uuid.UUID) (*model.DeviceToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	i, ok := s.device(token)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if deviceID != nil {
		s.Devices[i].DeviceID = deviceID
	}
	if zoneID != nil {
		id := *zoneID
		s.Devices[i].ZoneID = &id
	}
	s.Devices[i].NotificationsEnabled = true
	device := s.Devices[i]
	return &device, nil
}

func (s *Store) UpdateZone(_ context.Context, token string, zoneID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	i, ok := s.device(token)
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Devices[i].ZoneID = &zoneID
	return nil
}

func (s *Store) SetEnabled(_ context.Context, token string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	i, ok := s.device(token)
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Devices[i].NotificationsEnabled = enabled
	return nil
}

func (s *Store) ListEnabled(_ context.Context) ([]model.DeviceToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.DeviceToken
	for _, device := range s.Devices {
		if device.NotificationsEnabled && device.ZoneID != nil {
			out = append(out, device)
		}
	}
	return out, nil
}

func (s *Store) CancelScheduled(_ context.Context, deviceTokenID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.cancel(deviceTokenID)
	return nil
}

func (s *Store) cancel(deviceTokenID uuid.UUID) {
	for i := range s.Notifications {
		n := &s.Notifications[i]
		if n.DeviceTokenID == deviceTokenID && n.Status == model.NotificationStatusScheduled {
			n.Status = model.NotificationStatusCancelled
		}
	}
}

func (s *Store) ReplaceScheduled(_ context.Context, deviceTokenID uuid.UUID, plan []model.NotificationSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.cancel(deviceTokenID)
	for _, n := range plan {
		n.ID = uuid.New()
		n.DeviceTokenID = deviceTokenID
		n.Status = model.NotificationStatusScheduled
		s.Notifications = append(s.Notifications, n)
	}
	return nil
}

func (s *Store) ListDue(_ context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	var due []model.Reminder
	for _, n := range s.Notifications {
		if n.Status != model.NotificationStatusScheduled || n.NotificationAt.After(now) {
			continue
		}
		var device *model.DeviceToken
		for i := range s.Devices {
			if s.Devices[i].ID == n.DeviceTokenID {
				device = &s.Devices[i]
			}
		}
		if device == nil || !device.NotificationsEnabled || device.ZoneID == nil {
			continue
		}
		var gt model.GarbageType
		for _, candidate := range s.GarbageTypes {
			if candidate.ID == n.GarbageTypeID {
				gt = candidate
			}
		}
		due = append(due, model.Reminder{
			NotificationID: n.ID,
			Token:          device.Token,
			ZoneID:         *device.ZoneID,
			ScheduledDate:  n.ScheduledDate,
			NotificationAt: n.NotificationAt,
			GarbageType:    gt,
		})
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].NotificationAt.Before(due[j].NotificationAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *Store) MarkStatus(_ context.Context, notificationID uuid.UUID, status model.NotificationStatus, externalID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.Notifications {
		if s.Notifications[i].ID == notificationID {
			s.Notifications[i].Status = status
			if externalID != nil {
				s.Notifications[i].ExternalID = externalID
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
