package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	for key, value := range values {
		v.Set(key, value)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"DB_DSN":            "postgres://localhost/calendar",
		"JWT_ACCESS_SECRET": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "Europe/Lisbon", cfg.Calendar.Location.String())
	assert.Equal(t, TransportLog, cfg.Notify.Transport)
	assert.Equal(t, 18, cfg.Notify.Hour)
	assert.Equal(t, 28, cfg.Notify.HorizonDays)
}

func TestFromViperOverrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"DB_DSN":               "postgres://localhost/calendar",
		"JWT_ACCESS_SECRET":    "secret",
		"NOTIFY_TRANSPORT":     "Kafka",
		"KAFKA_BROKERS":        "k1:9092, k2:9092,",
		"NOTIFY_HOUR":          0,
		"CORS_ALLOWED_ORIGINS": "https://app.example.org",
		"CALENDAR_TIMEZONE":    "America/Sao_Paulo",
	}))
	require.NoError(t, err)

	assert.Equal(t, TransportKafka, cfg.Notify.Transport)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 0, cfg.Notify.Hour)
	assert.Equal(t, []string{"https://app.example.org"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "America/Sao_Paulo", cfg.Calendar.Location.String())
}

func TestFromViperValidation(t *testing.T) {
	base := map[string]any{
		"DB_DSN":            "postgres://localhost/calendar",
		"JWT_ACCESS_SECRET": "secret",
	}
	cases := map[string]map[string]any{
		"missing dsn":    {"DB_DSN": ""},
		"missing secret": {"JWT_ACCESS_SECRET": ""},
		"mqtt broker":    {"NOTIFY_TRANSPORT": "mqtt"},
		"kafka brokers":  {"NOTIFY_TRANSPORT": "kafka"},
		"transport":      {"NOTIFY_TRANSPORT": "pigeon"},
		"hour":           {"NOTIFY_HOUR": 24},
		"timezone":       {"CALENDAR_TIMEZONE": "Mars/Olympus"},
	}
	for name, overrides := range cases {
		values := map[string]any{}
		for k, v := range base {
			values[k] = v
		}
		for k, v := range overrides {
			values[k] = v
		}
		_, err := fromViper(newViper(values))
		assert.Error(t, err, name)
	}
}
