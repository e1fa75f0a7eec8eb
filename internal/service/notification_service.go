package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/collection-calendar/internal/config"
	"github.com/nurpe/collection-calendar/internal/model"
	"github.com/nurpe/collection-calendar/internal/schedule"
)

const dispatchBatchSize = 100

// ReminderPublisher delivers one reminder and returns the transport's message id, if any.
type ReminderPublisher interface {
	Publish(ctx context.Context, reminder model.Reminder) (string, error)
}

type NotificationService struct {
	devices   DeviceStore
	snapshot  zoneSnapshot
	publisher ReminderPublisher
	loc       *time.Location
	hour      int
	horizon   int
	now       func() time.Time
	log       zerolog.Logger
}

type RegisterDeviceInput struct {
	Token    string
	DeviceID *string
	ZoneID   *uuid.UUID
}

type DispatchResult struct {
	Sent   int
	Failed int
}

func NewNotificationService(
	devices DeviceStore,
	catalog CatalogStore,
	schedules ScheduleStore,
	publisher ReminderPublisher,
	cfg *config.Config,
	log zerolog.Logger,
) *NotificationService {
	loc := cfg.Calendar.Location
	if loc == nil {
		loc = time.UTC
	}
	return &NotificationService{
		devices:   devices,
		snapshot:  zoneSnapshot{catalog: catalog, schedules: schedules},
		publisher: publisher,
		loc:       loc,
		hour:      cfg.Notify.Hour,
		horizon:   cfg.Notify.HorizonDays,
		now:       time.Now,
		log:       log.With().Str("component", "notifications").Logger(),
	}
}

func (s *NotificationService) WithClock(now func() time.Time) *NotificationService {
	s.now = now
	return s
}

// RegisterDevice stores a push token. Known tokens are re-enabled and keep
// their zone when none is given; unknown tokens need a zone.
func (s *NotificationService) RegisterDevice(ctx context.Context, input RegisterDeviceInput) (*model.DeviceToken, error) {
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if input.ZoneID != nil {
		if _, err := s.snapshot.catalog.GetZone(ctx, *input.ZoneID); err != nil {
			return nil, mapStoreError(err)
		}
	}

	var device *model.DeviceToken
	_, err := s.devices.GetByToken(ctx, token)
	switch {
	case err == nil:
		device, err = s.devices.Reactivate(ctx, token, input.DeviceID, input.ZoneID)
		if err != nil {
			return nil, mapStoreError(err)
		}
	case errors.Is(mapStoreError(err), ErrNotFound):
		if input.ZoneID == nil {
			return nil, fmt.Errorf("%w: zone_id is required for a new device", ErrInvalidInput)
		}
		device, err = s.devices.Insert(ctx, token, input.DeviceID, *input.ZoneID)
		if err != nil {
			return nil, mapStoreError(err)
		}
	default:
		return nil, err
	}

	if _, err := s.PlanReminders(ctx, *device); err != nil {
		return nil, err
	}
	return device, nil
}

func (s *NotificationService) UpdateZone(ctx context.Context, token string, zoneID uuid.UUID) (*model.DeviceToken, error) {
	if _, err := s.snapshot.catalog.GetZone(ctx, zoneID); err != nil {
		return nil, mapStoreError(err)
	}
	if err := s.devices.UpdateZone(ctx, token, zoneID); err != nil {
		return nil, mapStoreError(err)
	}
	return s.replanToken(ctx, token)
}

func (s *NotificationService) Enable(ctx context.Context, token string) (*model.DeviceToken, error) {
	if err := s.devices.SetEnabled(ctx, token, true); err != nil {
		return nil, mapStoreError(err)
	}
	return s.replanToken(ctx, token)
}

func (s *NotificationService) Disable(ctx context.Context, token string) (*model.DeviceToken, error) {
	device, err := s.devices.GetByToken(ctx, token)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if err := s.devices.CancelScheduled(ctx, device.ID); err != nil {
		return nil, err
	}
	if err := s.devices.SetEnabled(ctx, token, false); err != nil {
		return nil, mapStoreError(err)
	}
	device.NotificationsEnabled = false
	return device, nil
}

func (s *NotificationService) replanToken(ctx context.Context, token string) (*model.DeviceToken, error) {
	device, err := s.devices.GetByToken(ctx, token)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if _, err := s.PlanReminders(ctx, *device); err != nil {
		return nil, err
	}
	return device, nil
}

// PlanReminders replaces the device's pending reminders with one reminder per
// garbage type and collection day within the horizon, due at the configured
// hour on the evening before. Reminders already in the past are skipped.
func (s *NotificationService) PlanReminders(ctx context.Context, device model.DeviceToken) (int, error) {
	if !device.NotificationsEnabled || device.ZoneID == nil {
		return 0, s.devices.CancelScheduled(ctx, device.ID)
	}

	_, resolver, err := s.snapshot.load(ctx, *device.ZoneID)
	if err != nil {
		if isMalformed(err) {
			s.log.Error().Err(err).Str("zone_id", device.ZoneID.String()).Msg("cannot plan reminders")
		}
		return 0, err
	}

	plan := s.buildPlan(resolver)
	if err := s.devices.ReplaceScheduled(ctx, device.ID, plan); err != nil {
		return 0, err
	}
	s.log.Debug().
		Str("device_token_id", device.ID.String()).
		Int("reminders", len(plan)).
		Msg("reminders planned")
	return len(plan), nil
}

func (s *NotificationService) buildPlan(resolver *schedule.Resolver) []model.NotificationSchedule {
	now := s.now().In(s.loc)
	today := schedule.DateOf(now)

	plan := make([]model.NotificationSchedule, 0)
	for _, day := range resolver.Between(today, today.AddDays(s.horizon)) {
		if len(day.GarbageTypes) == 0 {
			continue
		}
		eve := day.Date.AddDays(-1)
		notifyAt := time.Date(eve.Year, eve.Month, eve.Day, s.hour, 0, 0, 0, s.loc)
		if notifyAt.Before(now) {
			continue
		}
		seen := make(map[uuid.UUID]struct{}, len(day.GarbageTypes))
		for _, gt := range day.GarbageTypes {
			if _, dup := seen[gt.ID]; dup {
				continue
			}
			seen[gt.ID] = struct{}{}
			plan = append(plan, model.NotificationSchedule{
				GarbageTypeID:  gt.ID,
				ScheduledDate:  day.Date.String(),
				NotificationAt: notifyAt,
				Status:         model.NotificationStatusScheduled,
			})
		}
	}
	return plan
}

// ReplanAll refreshes reminders of every enabled device. Failures are logged
// per device and do not stop the run.
func (s *NotificationService) ReplanAll(ctx context.Context) (int, error) {
	devices, err := s.devices.ListEnabled(ctx)
	if err != nil {
		return 0, err
	}
	planned := 0
	for _, device := range devices {
		if err := ctx.Err(); err != nil {
			return planned, err
		}
		n, err := s.PlanReminders(ctx, device)
		if err != nil {
			s.log.Error().Err(err).Str("device_token_id", device.ID.String()).Msg("replan failed")
			continue
		}
		planned += n
	}
	s.log.Info().Int("devices", len(devices)).Int("reminders", planned).Msg("reminders replanned")
	return planned, nil
}

// DispatchDue publishes every reminder whose time has come.
func (s *NotificationService) DispatchDue(ctx context.Context) (DispatchResult, error) {
	var result DispatchResult
	reminders, err := s.devices.ListDue(ctx, s.now(), dispatchBatchSize)
	if err != nil {
		return result, err
	}

	for _, reminder := range reminders {
		externalID, err := s.publisher.Publish(ctx, reminder)
		status := model.NotificationStatusSent
		if err != nil {
			status = model.NotificationStatusFailed
			result.Failed++
			s.log.Warn().Err(err).Str("notification_id", reminder.NotificationID.String()).Msg("publish reminder failed")
		} else {
			result.Sent++
		}

		var ext *string
		if externalID != "" {
			ext = &externalID
		}
		if err := s.devices.MarkStatus(ctx, reminder.NotificationID, status, ext); err != nil {
			return result, err
		}
	}

	if len(reminders) > 0 {
		s.log.Info().Int("sent", result.Sent).Int("failed", result.Failed).Msg("reminders dispatched")
	}
	return result, nil
}
