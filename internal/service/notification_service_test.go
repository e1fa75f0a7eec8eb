package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/collection-calendar/internal/model"
)

type recordingPublisher struct {
	sent []model.Reminder
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, reminder model.Reminder) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.sent = append(p.sent, reminder)
	return "msg-" + reminder.GarbageType.Code, nil
}

func newNotifications(f *fixture, publisher ReminderPublisher, now time.Time) *NotificationService {
	return NewNotificationService(f.store, f.store, f.store, publisher, f.cfg, nop()).WithClock(clockAt(now))
}

func TestNotificationService_RegisterPlansEveReminders(t *testing.T) {
	f := newFixture()
	svc := newNotifications(f, &recordingPublisher{}, wednesdayNoon)

	device, err := svc.RegisterDevice(context.Background(), RegisterDeviceInput{Token: " tok-1 ", ZoneID: &f.zone.ID})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", device.Token)
	assert.True(t, device.NotificationsEnabled)

	pending := f.store.PendingFor(device.ID)
	// Paper on four Mondays and glass on two Fridays within 28 days.
	require.Len(t, pending, 6)
	assert.Equal(t, "2024-01-15", pending[0].ScheduledDate)
	assert.Equal(t, f.papel.ID, pending[0].GarbageTypeID)
	assert.Equal(t, time.Date(2024, time.January, 14, 18, 0, 0, 0, lisbon), pending[0].NotificationAt)
	assert.Equal(t, "2024-01-19", pending[1].ScheduledDate)
	assert.Equal(t, f.vidro.ID, pending[1].GarbageTypeID)
}

func TestNotificationService_SkipsRemindersInThePast(t *testing.T) {
	f := newFixture()
	sundayEvening := time.Date(2024, time.January, 14, 19, 0, 0, 0, lisbon)
	svc := newNotifications(f, &recordingPublisher{}, sundayEvening)

	device, err := svc.RegisterDevice(context.Background(), RegisterDeviceInput{Token: "tok", ZoneID: &f.zone.ID})
	require.NoError(t, err)

	pending := f.store.PendingFor(device.ID)
	require.Len(t, pending, 5)
	assert.Equal(t, "2024-01-19", pending[0].ScheduledDate)
}

func TestNotificationService_RegisterValidation(t *testing.T) {
	f := newFixture()
	svc := newNotifications(f, &recordingPublisher{}, wednesdayNoon)
	ctx := context.Background()

	_, err := svc.RegisterDevice(ctx, RegisterDeviceInput{Token: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RegisterDevice(ctx, RegisterDeviceInput{Token: "new"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	unknown := uuid.New()
	_, err = svc.RegisterDevice(ctx, RegisterDeviceInput{Token: "new", ZoneID: &unknown})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationService_ReRegisterKeepsZone(t *testing.T) {
	f := newFixture()
	svc := newNotifications(f, &recordingPublisher{}, wednesdayNoon)
	ctx := context.Background()

	first, err := svc.RegisterDevice(ctx, RegisterDeviceInput{Token: "tok", ZoneID: &f.zone.ID})
	require.NoError(t, err)
	_, err = svc.Disable(ctx, "tok")
	require.NoError(t, err)

	again, err := svc.RegisterDevice(ctx, RegisterDeviceInput{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	require.NotNil(t, again.ZoneID)
	assert.Equal(t, f.zone.ID, *again.ZoneID)
	assert.True(t, again.NotificationsEnabled)
	assert.Len(t, f.store.PendingFor(again.ID), 6)
}

func TestNotificationService_DisableAndEnable(t *testing.T) {
	f := newFixture()
	svc := newNotifications(f, &recordingPublisher{}, wednesdayNoon)
	ctx := context.Background()

	device, err := svc.RegisterDevice(ctx, RegisterDeviceInput{Token: "tok", ZoneID: &f.zone.ID})
	require.NoError(t, err)

	disabled, err := svc.Disable(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, disabled.NotificationsEnabled)
	assert.Empty(t, f.store.PendingFor(device.ID))

	enabled, err := svc.Enable(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, enabled.NotificationsEnabled)
	assert.Len(t, f.store.PendingFor(device.ID), 6)

	_, err = svc.Disable(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationService_UpdateZone(t *testing.T) {
	f := newFixture()
	svc := newNotifications(f, &recordingPublisher{}, wednesdayNoon)
	ctx := context.Background()

	device, err := svc.RegisterDevice(ctx, RegisterDeviceInput{Token: "tok", ZoneID: &f.zone.ID})
	require.NoError(t, err)

	quiet := f.store.AddZone(f.city.ID, "Belém")
	moved, err := svc.UpdateZone(ctx, "tok", quiet.ID)
	require.NoError(t, err)
	assert.Equal(t, quiet.ID, *moved.ZoneID)
	assert.Empty(t, f.store.PendingFor(device.ID))

	_, err = svc.UpdateZone(ctx, "tok", uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationService_DispatchDue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	planner := newNotifications(f, &recordingPublisher{}, wednesdayNoon)
	device, err := planner.RegisterDevice(ctx, RegisterDeviceInput{Token: "tok", ZoneID: &f.zone.ID})
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	eve := time.Date(2024, time.January, 14, 18, 0, 0, 0, lisbon)
	result, err := newNotifications(f, publisher, eve).DispatchDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, DispatchResult{Sent: 1}, result)
	require.Len(t, publisher.sent, 1)
	assert.Equal(t, "tok", publisher.sent[0].Token)
	assert.Equal(t, "papel", publisher.sent[0].GarbageType.Code)
	assert.Len(t, f.store.PendingFor(device.ID), 5)

	failing := &recordingPublisher{err: errors.New("broker down")}
	later := time.Date(2024, time.January, 18, 18, 0, 0, 0, lisbon)
	result, err = newNotifications(f, failing, later).DispatchDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, DispatchResult{Failed: 1}, result)

	statuses := map[model.NotificationStatus]int{}
	for _, n := range f.store.Notifications {
		statuses[n.Status]++
	}
	assert.Equal(t, 1, statuses[model.NotificationStatusSent])
	assert.Equal(t, 1, statuses[model.NotificationStatusFailed])
	assert.Equal(t, 4, statuses[model.NotificationStatusScheduled])
}

func TestNotificationService_ReplanAllContinuesPastBrokenZones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := newNotifications(f, &recordingPublisher{}, wednesdayNoon)

	broken := f.store.AddZone(f.city.ID, "Broken")
	_, err := svc.RegisterDevice(ctx, RegisterDeviceInput{Token: "good", ZoneID: &f.zone.ID})
	require.NoError(t, err)
	_, err = svc.RegisterDevice(ctx, RegisterDeviceInput{Token: "bad", ZoneID: &broken.ID})
	require.NoError(t, err)
	f.store.AddSchedule(broken.ID, f.papel.ID, time.Monday, 1, "01/01/2024")

	planned, err := svc.ReplanAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, planned)
}
