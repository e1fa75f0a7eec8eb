package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/collection-calendar/internal/config"
	"github.com/nurpe/collection-calendar/internal/model"
	"github.com/nurpe/collection-calendar/internal/service"
)

func sampleReminder() model.Reminder {
	return model.Reminder{
		NotificationID: uuid.MustParse("6f1c1b7e-0000-4000-8000-000000000001"),
		Token:          "device-token",
		ZoneID:         uuid.MustParse("6f1c1b7e-0000-4000-8000-0000000000aa"),
		ScheduledDate:  "2024-01-15",
		NotificationAt: time.Date(2024, time.January, 14, 18, 0, 0, 0, time.UTC),
		GarbageType: model.GarbageType{
			ID:       uuid.New(),
			Code:     "papel",
			NamePT:   "Papel",
			NameEN:   "Paper",
			ColorHex: "#2563EB",
		},
	}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(sampleReminder())

	assert.Equal(t, "Dia do Lixo - Recolha Amanhã", msg.Title)
	assert.Equal(t, "Amanhã será recolhido: Papel", msg.Body)
	assert.Equal(t, "papel", msg.GarbageTypeCode)
	assert.Equal(t, "2024-01-15", msg.ScheduledDate)

	raw, err := msg.Encode()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "device-token", decoded["token"])
}

type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error { return t.err }

type fakeMQTT struct {
	topic   string
	payload []byte
	err     error
}

func (f *fakeMQTT) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	f.topic = topic
	f.payload = payload.([]byte)
	return newFakeToken(f.err)
}

func (f *fakeMQTT) Disconnect(uint) {}

func TestMQTTPublisher(t *testing.T) {
	client := &fakeMQTT{}
	publisher := newMQTTPublisher(client, "collection/reminders/", zerolog.Nop())

	id, err := publisher.Publish(context.Background(), sampleReminder())
	require.NoError(t, err)
	assert.Equal(t, "collection/reminders/6f1c1b7e-0000-4000-8000-0000000000aa", client.topic)
	assert.Equal(t, client.topic, id)
	assert.Contains(t, string(client.payload), `"garbage_type_code":"papel"`)

	client.err = errors.New("broker gone")
	_, err = publisher.Publish(context.Background(), sampleReminder())
	assert.ErrorContains(t, err, "broker gone")
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newKafkaPublisher(writer, "collection.reminders", zerolog.Nop())
	reminder := sampleReminder()

	id, err := publisher.Publish(context.Background(), reminder)
	require.NoError(t, err)
	assert.Equal(t, reminder.NotificationID.String(), id)
	require.Len(t, writer.messages, 1)
	assert.Equal(t, []byte("device-token"), writer.messages[0].Key)

	writer.err = errors.New("leader not available")
	_, err = publisher.Publish(context.Background(), reminder)
	assert.ErrorContains(t, err, "collection.reminders")
}

func TestLogPublisher(t *testing.T) {
	id, err := NewLogPublisher(zerolog.Nop()).Publish(context.Background(), sampleReminder())
	require.NoError(t, err)
	assert.Empty(t, id)
}

type fakeJobs struct {
	dispatched int
	replanned  int
}

func (f *fakeJobs) DispatchDue(context.Context) (service.DispatchResult, error) {
	f.dispatched++
	return service.DispatchResult{}, nil
}

func (f *fakeJobs) ReplanAll(context.Context) (int, error) {
	f.replanned++
	return 0, errors.New("database down")
}

func TestScheduler(t *testing.T) {
	jobs := &fakeJobs{}
	s, err := NewScheduler(jobs, config.NotifyConfig{
		DispatchCron: "* * * * *",
		ReplanCron:   "15 3 * * *",
	}, time.UTC, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	s.dispatch()
	s.replan()
	assert.Equal(t, 1, jobs.dispatched)
	assert.Equal(t, 1, jobs.replanned)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestSchedulerRejectsBadExpression(t *testing.T) {
	_, err := NewScheduler(&fakeJobs{}, config.NotifyConfig{
		DispatchCron: "every minute",
		ReplanCron:   "15 3 * * *",
	}, nil, zerolog.Nop())
	assert.ErrorContains(t, err, "dispatch cron")
}
