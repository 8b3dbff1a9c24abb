package events

import (
	"context"
	"errors"
	"testing"

	"shareit/internal/config"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaSink(t *testing.T) {
	logger := zerolog.Nop()
	w := &fakeWriter{}
	sink := newKafkaSink(w, &logger)

	bus := NewEventBus(&logger)
	sink.Attach(bus)

	require.NoError(t, bus.PublishJSON(EventBookingApproved, BookingEventPayload{BookingID: 11, Status: "APPROVED"}))
	require.NoError(t, bus.PublishJSON(EventRequestCreated, RequestEventPayload{RequestID: 2}))

	require.Len(t, w.messages, 2)
	assert.Equal(t, "booking:11", string(w.messages[0].Key))
	assert.Equal(t, EventBookingApproved, header(w.messages[0], headerEventType))
	assert.NotEmpty(t, header(w.messages[0], headerEventID))
	assert.Contains(t, string(w.messages[0].Value), `"status":"APPROVED"`)
	assert.Equal(t, "request:2", string(w.messages[1].Key))

	require.NoError(t, sink.Close())
	assert.True(t, w.closed)
}

func TestKafkaSink_WriteError(t *testing.T) {
	logger := zerolog.Nop()
	sink := newKafkaSink(&fakeWriter{err: errors.New("broker unavailable")}, &logger)

	err := sink.Handle(&Event{Type: EventItemCreated, Payload: []byte(`{}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestNewKafkaSink_Validation(t *testing.T) {
	logger := zerolog.Nop()

	_, err := NewKafkaSink(config.KafkaConfig{Topic: "t"}, &logger)
	assert.Error(t, err)

	_, err = NewKafkaSink(config.KafkaConfig{Brokers: []string{"localhost:9092"}}, &logger)
	assert.Error(t, err)

	sink, err := NewKafkaSink(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "shareit.events"}, &logger)
	require.NoError(t, err)
	assert.NoError(t, sink.Close())
}
