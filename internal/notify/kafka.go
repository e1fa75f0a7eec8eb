package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/nurpe/collection-calendar/internal/config"
	"github.com/nurpe/collection-calendar/internal/model"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher hands reminders to a push gateway through a topic keyed by
// device token.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    zerolog.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, log zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return newKafkaPublisher(writer, cfg.Topic, log)
}

func newKafkaPublisher(writer messageWriter, topic string, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
		log:    log.With().Str("component", "kafka-publisher").Logger(),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, reminder model.Reminder) (string, error) {
	payload, err := NewMessage(reminder).Encode()
	if err != nil {
		return "", err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(reminder.Token),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "garbage_type", Value: []byte(reminder.GarbageType.Code)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("write to %s: %w", p.topic, err)
	}
	return reminder.NotificationID.String(), nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
