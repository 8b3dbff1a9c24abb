package service

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	Type    string
	Payload []byte
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) PublishJSON(eventType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Payload: raw})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// env wires all services onto one in-memory database with a fixed clock.
type env struct {
	db       *database.DB
	bus      *recordingPublisher
	now      time.Time
	users    *UserService
	items    *ItemService
	requests *RequestService
	bookings *BookingService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := &env{
		db:  db,
		bus: &recordingPublisher{},
		now: time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
	}
	e.users = NewUserService(db, &logger)
	e.items = NewItemService(db, e.bus, &logger)
	e.requests = NewRequestService(db, e.bus, &logger)
	e.bookings = NewBookingService(db, e.bus, &logger)

	clock := func() time.Time { return e.now }
	e.items.SetClock(clock)
	e.requests.SetClock(clock)
	e.bookings.SetClock(clock)
	return e
}

func (e *env) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), &models.User{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func (e *env) item(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	it, err := e.items.Create(context.Background(), ownerID, &models.Item{Name: name, Description: name + " for rent", Available: available})
	require.NoError(t, err)
	return it
}

func (e *env) booking(t *testing.T, bookerID, itemID int64, start, end time.Time) *models.BookingView {
	t.Helper()
	b, err := e.bookings.Create(context.Background(), bookerID, models.BookingInput{ItemID: itemID, Start: start, End: end})
	require.NoError(t, err)
	return b
}
