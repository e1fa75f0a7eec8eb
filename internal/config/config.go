package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

const (
	TransportLog   = "log"
	TransportMQTT  = "mqtt"
	TransportKafka = "kafka"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type CalendarConfig struct {
	Timezone string
	Location *time.Location
}

type NotifyConfig struct {
	Transport    string
	Hour         int
	HorizonDays  int
	DispatchCron string
	ReplanCron   string
}

type MQTTConfig struct {
	Broker      string
	ClientID    string
	TopicPrefix string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Calendar    CalendarConfig
	Notify      NotifyConfig
	MQTT        MQTTConfig
	Kafka       KafkaConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Calendar: CalendarConfig{
			Timezone: v.GetString("CALENDAR_TIMEZONE"),
		},
		Notify: NotifyConfig{
			Transport:    strings.ToLower(strings.TrimSpace(v.GetString("NOTIFY_TRANSPORT"))),
			Hour:         v.GetInt("NOTIFY_HOUR"),
			HorizonDays:  v.GetInt("NOTIFY_HORIZON_DAYS"),
			DispatchCron: v.GetString("NOTIFY_DISPATCH_CRON"),
			ReplanCron:   v.GetString("NOTIFY_REPLAN_CRON"),
		},
		MQTT: MQTTConfig{
			Broker:      v.GetString("MQTT_BROKER"),
			ClientID:    v.GetString("MQTT_CLIENT_ID"),
			TopicPrefix: v.GetString("MQTT_TOPIC_PREFIX"),
		},
		Kafka: KafkaConfig{
			Brokers: parseList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}
	if cfg.Calendar.Timezone == "" {
		cfg.Calendar.Timezone = "Europe/Lisbon"
	}
	if cfg.Notify.Transport == "" {
		cfg.Notify.Transport = TransportLog
	}
	if !v.IsSet("NOTIFY_HOUR") {
		cfg.Notify.Hour = 18
	}
	if cfg.Notify.HorizonDays == 0 {
		cfg.Notify.HorizonDays = 28
	}
	if cfg.Notify.DispatchCron == "" {
		cfg.Notify.DispatchCron = "* * * * *"
	}
	if cfg.Notify.ReplanCron == "" {
		cfg.Notify.ReplanCron = "15 3 * * *"
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "collection-calendar"
	}
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = "collection/reminders"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "collection.reminders"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CALENDAR_TIMEZONE %q: %w", cfg.Calendar.Timezone, err)
	}
	cfg.Calendar.Location = loc
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Notify.Hour < 0 || cfg.Notify.Hour > 23 {
		return fmt.Errorf("NOTIFY_HOUR must be between 0 and 23")
	}
	if cfg.Notify.HorizonDays < 1 {
		return fmt.Errorf("NOTIFY_HORIZON_DAYS must be positive")
	}
	switch cfg.Notify.Transport {
	case TransportLog:
	case TransportMQTT:
		if cfg.MQTT.Broker == "" {
			return fmt.Errorf("MQTT_BROKER is required for mqtt transport")
		}
	case TransportKafka:
		if len(cfg.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required for kafka transport")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_TRANSPORT %q", cfg.Notify.Transport)
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
