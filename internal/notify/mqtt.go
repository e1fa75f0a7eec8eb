package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/nurpe/collection-calendar/internal/config"
	"github.com/nurpe/collection-calendar/internal/model"
)

const publishTimeout = 10 * time.Second

type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher sends reminders to <prefix>/<zone id> so displays can
// subscribe per zone.
type MQTTPublisher struct {
	client mqttClient
	prefix string
	log    zerolog.Logger
}

func NewMQTTPublisher(cfg config.MQTTConfig, log zerolog.Logger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(publishTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.Broker, err)
	}
	return newMQTTPublisher(client, cfg.TopicPrefix, log), nil
}

func newMQTTPublisher(client mqttClient, prefix string, log zerolog.Logger) *MQTTPublisher {
	return &MQTTPublisher{
		client: client,
		prefix: strings.TrimRight(prefix, "/"),
		log:    log.With().Str("component", "mqtt-publisher").Logger(),
	}
}

func (p *MQTTPublisher) Topic(reminder model.Reminder) string {
	return p.prefix + "/" + reminder.ZoneID.String()
}

func (p *MQTTPublisher) Publish(ctx context.Context, reminder model.Reminder) (string, error) {
	payload, err := NewMessage(reminder).Encode()
	if err != nil {
		return "", err
	}

	topic := p.Topic(reminder)
	token := p.client.Publish(topic, 1, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(publishTimeout):
		return "", fmt.Errorf("publish to %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return "", fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.log.Debug().Str("topic", topic).Str("notification_id", reminder.NotificationID.String()).Msg("reminder published")
	return topic, nil
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
