package notify

import (
	"errors"
	"io"
	"testing"
	"time"

	"shareit/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func TestTelegramNotifier_BookingEvents(t *testing.T) {
	logger := zerolog.New(io.Discard)
	sender := &fakeSender{}
	bus := events.NewEventBus(&logger)
	NewTelegramNotifier(sender, 42, &logger).Attach(bus)

	start := time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)
	payload := events.BookingEventPayload{
		BookingID: 7, ItemID: 3, ItemName: "Drill <cordless>", BookerID: 2, OwnerID: 1,
		Status: "WAITING", Start: start, End: start.Add(time.Hour),
	}
	require.NoError(t, bus.PublishJSON(events.EventBookingCreated, payload))
	payload.Status = "APPROVED"
	require.NoError(t, bus.PublishJSON(events.EventBookingApproved, payload))
	require.NoError(t, bus.PublishJSON(events.EventItemCreated, events.ItemEventPayload{ItemID: 3}))

	require.Len(t, sender.sent, 2)
	first := sender.sent[0]
	assert.Equal(t, int64(42), first.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, first.ParseMode)
	assert.Contains(t, first.Text, "New booking</b> #7")
	assert.Contains(t, first.Text, "Drill &lt;cordless&gt;")
	assert.Contains(t, first.Text, "2026-07-02 10:00 - 2026-07-02 11:00")
	assert.Contains(t, sender.sent[1].Text, "Booking approved")
	assert.Contains(t, sender.sent[1].Text, "Status: APPROVED")
}

func TestTelegramNotifier_Errors(t *testing.T) {
	sender := &fakeSender{err: errors.New("chat not found")}
	n := NewTelegramNotifier(sender, 42, nil)

	event, err := events.NewJSONEvent(events.EventBookingRejected, events.BookingEventPayload{BookingID: 1})
	require.NoError(t, err)
	assert.ErrorContains(t, n.Handle(&event), "chat not found")

	assert.Error(t, n.Handle(&events.Event{Type: events.EventBookingCreated, Payload: []byte("{")}))
}

func TestFormatBooking_FallbackItemName(t *testing.T) {
	text := formatBooking(events.EventBookingRejected, events.BookingEventPayload{BookingID: 5, ItemID: 9, Status: "REJECTED"})
	assert.Contains(t, text, "Booking rejected")
	assert.Contains(t, text, "item #9")
}
