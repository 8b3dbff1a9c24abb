package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus(nil)

	var received *Event
	var callCount int

	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 7, Status: "WAITING"})
	require.NoError(t, err)

	assert.Equal(t, 1, callCount)
	require.NotNil(t, received)
	assert.Equal(t, EventBookingCreated, received.Type)
	assert.Equal(t, "booking:7", received.Key)
	assert.NotEmpty(t, received.ID)

	var decoded BookingEventPayload
	require.NoError(t, json.Unmarshal(received.Payload, &decoded))
	assert.Equal(t, int64(7), decoded.BookingID)
	assert.Equal(t, "WAITING", decoded.Status)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	bus := NewEventBus(&logger)
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return errors.New("sink down") })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })

	bus.Publish(&Event{Type: "event"})

	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
	assert.Contains(t, buf.String(), "sink down")
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus(nil)
	bus.Publish(&Event{Type: "unknown"})
	assert.NoError(t, bus.PublishJSON("unknown", nil))

	var nilBus *EventBus
	assert.NoError(t, nilBus.PublishJSON("unknown", nil))
}

func TestNewJSONEvent(t *testing.T) {
	event, err := NewJSONEvent(EventCommentPosted, CommentEventPayload{CommentID: 1, ItemID: 3})
	require.NoError(t, err)
	assert.Equal(t, EventCommentPosted, event.Type)
	assert.Equal(t, "item:3", event.Key)
	assert.False(t, event.CreatedAt.IsZero())

	event, err = NewJSONEvent("plain", map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Empty(t, event.Key)

	_, err = NewJSONEvent("bad", make(chan int))
	assert.Error(t, err)
}
