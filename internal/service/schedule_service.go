package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nurpe/collection-calendar/internal/model"
	"github.com/nurpe/collection-calendar/internal/schedule"
)

const maxWeekInterval = 52

type ScheduleService struct {
	catalog CatalogStore
	repo    ScheduleStore
}

type ScheduleInput struct {
	ZoneID        uuid.UUID
	GarbageTypeID uuid.UUID
	DayOfWeek     int
	WeekInterval  int
	StartDate     string
	EndDate       *string
	IsActive      *bool
	Principal     model.Principal
}

func NewScheduleService(catalog CatalogStore, repo ScheduleStore) *ScheduleService {
	return &ScheduleService{catalog: catalog, repo: repo}
}

func (s *ScheduleService) ListByZone(ctx context.Context, principal model.Principal, zoneID uuid.UUID) ([]model.CollectionSchedule, error) {
	if !principal.CanEditSchedules() {
		return nil, ErrPermissionDenied
	}
	if _, err := s.catalog.GetZone(ctx, zoneID); err != nil {
		return nil, mapStoreError(err)
	}
	rows, err := s.repo.ListByZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.CollectionSchedule{}
	}
	return rows, nil
}

func (s *ScheduleService) Create(ctx context.Context, input ScheduleInput) (*model.CollectionSchedule, error) {
	rule, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Create(ctx, rule)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return saved, nil
}

func (s *ScheduleService) Update(ctx context.Context, id uuid.UUID, input ScheduleInput) (*model.CollectionSchedule, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if input.ZoneID == uuid.Nil {
		input.ZoneID = existing.ZoneID
	}
	if input.ZoneID != existing.ZoneID {
		return nil, fmt.Errorf("%w: a schedule cannot move to another zone", ErrInvalidInput)
	}
	if input.IsActive == nil {
		input.IsActive = &existing.IsActive
	}

	rule, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	rule.ID = id
	saved, err := s.repo.Update(ctx, rule)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return saved, nil
}

func (s *ScheduleService) Deactivate(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.CanEditSchedules() {
		return ErrPermissionDenied
	}
	return mapStoreError(s.repo.Deactivate(ctx, id))
}

func (s *ScheduleService) validate(ctx context.Context, input ScheduleInput) (model.CollectionSchedule, error) {
	if !input.Principal.CanEditSchedules() {
		return model.CollectionSchedule{}, ErrPermissionDenied
	}
	if input.ZoneID == uuid.Nil || input.GarbageTypeID == uuid.Nil {
		return model.CollectionSchedule{}, fmt.Errorf("%w: zone_id and garbage_type_id are required", ErrInvalidInput)
	}
	if input.WeekInterval > maxWeekInterval {
		return model.CollectionSchedule{}, fmt.Errorf("%w: week_interval must not exceed %d", ErrInvalidInput, maxWeekInterval)
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	rule := model.CollectionSchedule{
		ZoneID:        input.ZoneID,
		GarbageTypeID: input.GarbageTypeID,
		DayOfWeek:     input.DayOfWeek,
		WeekInterval:  input.WeekInterval,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		IsActive:      active,
	}
	compiled, err := schedule.CompileOne(rule)
	if err != nil {
		return model.CollectionSchedule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if compiled.End != nil && compiled.End.Before(compiled.Start) {
		return model.CollectionSchedule{}, fmt.Errorf("%w: end_date must not be before start_date", ErrInvalidInput)
	}
	// Store the canonical YYYY-MM-DD form.
	rule.StartDate = compiled.Start.String()
	if compiled.End != nil {
		end := compiled.End.String()
		rule.EndDate = &end
	}

	if _, err := s.catalog.GetZone(ctx, input.ZoneID); err != nil {
		return model.CollectionSchedule{}, mapStoreError(err)
	}
	if _, err := s.catalog.GetGarbageType(ctx, input.GarbageTypeID); err != nil {
		return model.CollectionSchedule{}, mapStoreError(err)
	}
	return rule, nil
}
