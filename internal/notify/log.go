package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nurpe/collection-calendar/internal/model"
)

// LogPublisher writes reminders to the log instead of delivering them.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "log-publisher").Logger()}
}

func (p *LogPublisher) Publish(_ context.Context, reminder model.Reminder) (string, error) {
	msg := NewMessage(reminder)
	p.log.Info().
		Str("notification_id", msg.NotificationID).
		Str("zone_id", msg.ZoneID).
		Str("garbage_type", msg.GarbageTypeCode).
		Str("scheduled_date", msg.ScheduledDate).
		Msg(msg.Body)
	return "", nil
}

func (p *LogPublisher) Close() error { return nil }
