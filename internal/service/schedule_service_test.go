package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/collection-calendar/internal/model"
)

var (
	editor = model.Principal{UserID: uuid.New(), Role: model.UserRoleEditor}
	viewer = model.Principal{UserID: uuid.New(), Role: model.UserRoleViewer}
	admin  = model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin}
)

func strPtr(s string) *string { return &s }

func TestScheduleService_Create(t *testing.T) {
	f := newFixture()
	svc := NewScheduleService(f.store, f.store)

	saved, err := svc.Create(context.Background(), ScheduleInput{
		ZoneID:        f.zone.ID,
		GarbageTypeID: f.vidro.ID,
		DayOfWeek:     3,
		WeekInterval:  4,
		StartDate:     "2024-03-06",
		EndDate:       strPtr("2024-12-31"),
		Principal:     editor,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.True(t, saved.IsActive)
	assert.Equal(t, "2024-03-06", saved.StartDate)
	assert.Equal(t, "2024-12-31", *saved.EndDate)
}

func TestScheduleService_CreateValidation(t *testing.T) {
	f := newFixture()
	svc := NewScheduleService(f.store, f.store)
	valid := func() ScheduleInput {
		return ScheduleInput{
			ZoneID:        f.zone.ID,
			GarbageTypeID: f.papel.ID,
			DayOfWeek:     1,
			WeekInterval:  1,
			StartDate:     "2024-01-01",
			Principal:     editor,
		}
	}

	cases := map[string]struct {
		mutate func(*ScheduleInput)
		want   error
	}{
		"viewer":        {func(in *ScheduleInput) { in.Principal = viewer }, ErrPermissionDenied},
		"missing zone":  {func(in *ScheduleInput) { in.ZoneID = uuid.Nil }, ErrInvalidInput},
		"weekday":       {func(in *ScheduleInput) { in.DayOfWeek = 7 }, ErrInvalidInput},
		"interval zero": {func(in *ScheduleInput) { in.WeekInterval = 0 }, ErrInvalidInput},
		"interval big":  {func(in *ScheduleInput) { in.WeekInterval = 53 }, ErrInvalidInput},
		"start":         {func(in *ScheduleInput) { in.StartDate = "2024-1-1" }, ErrInvalidInput},
		"window":        {func(in *ScheduleInput) { in.EndDate = strPtr("2023-12-31") }, ErrInvalidInput},
		"unknown zone":  {func(in *ScheduleInput) { in.ZoneID = uuid.New() }, ErrNotFound},
		"unknown type":  {func(in *ScheduleInput) { in.GarbageTypeID = uuid.New() }, ErrNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			input := valid()
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestScheduleService_Update(t *testing.T) {
	f := newFixture()
	svc := NewScheduleService(f.store, f.store)
	ctx := context.Background()
	existing := f.store.Schedules[0]

	updated, err := svc.Update(ctx, existing.ID, ScheduleInput{
		GarbageTypeID: existing.GarbageTypeID,
		DayOfWeek:     2,
		WeekInterval:  2,
		StartDate:     "2024-01-02",
		Principal:     admin,
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, existing.ZoneID, updated.ZoneID)
	assert.Equal(t, 2, updated.DayOfWeek)
	assert.True(t, updated.IsActive)

	other := f.store.AddZone(f.city.ID, "Norte")
	_, err = svc.Update(ctx, existing.ID, ScheduleInput{
		ZoneID:        other.ID,
		GarbageTypeID: existing.GarbageTypeID,
		DayOfWeek:     2,
		WeekInterval:  1,
		StartDate:     "2024-01-02",
		Principal:     admin,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, uuid.New(), ScheduleInput{Principal: admin})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleService_ListAndDeactivate(t *testing.T) {
	f := newFixture()
	svc := NewScheduleService(f.store, f.store)
	ctx := context.Background()

	_, err := svc.ListByZone(ctx, viewer, f.zone.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	rows, err := svc.ListByZone(ctx, editor, f.zone.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, svc.Deactivate(ctx, editor, rows[0].ID))
	active, err := f.store.ListActiveByZone(ctx, f.zone.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	assert.ErrorIs(t, svc.Deactivate(ctx, editor, uuid.New()), ErrNotFound)
	assert.ErrorIs(t, svc.Deactivate(ctx, viewer, rows[1].ID), ErrPermissionDenied)

	empty := f.store.AddZone(f.city.ID, "Vazia")
	rows, err = svc.ListByZone(ctx, editor, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
