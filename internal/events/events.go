package events

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	EventBookingCreated  = "booking_created"
	EventBookingApproved = "booking_approved"
	EventBookingRejected = "booking_rejected"
	EventCommentPosted   = "comment_posted"
	EventItemCreated     = "item_created"
	EventRequestCreated  = "request_created"
)

// AllEventTypes lists every event type the services publish.
var AllEventTypes = []string{
	EventBookingCreated,
	EventBookingApproved,
	EventBookingRejected,
	EventCommentPosted,
	EventItemCreated,
	EventRequestCreated,
}

// BookingEventPayload describes the booking snapshot sent to consumers.
type BookingEventPayload struct {
	BookingID int64     `json:"booking_id"`
	ItemID    int64     `json:"item_id"`
	ItemName  string    `json:"item_name,omitempty"`
	BookerID  int64     `json:"booker_id"`
	OwnerID   int64     `json:"owner_id"`
	Status    string    `json:"status"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

func (p BookingEventPayload) EventKey() string { return keyOf("booking", p.BookingID) }

type CommentEventPayload struct {
	CommentID int64  `json:"comment_id"`
	ItemID    int64  `json:"item_id"`
	AuthorID  int64  `json:"author_id"`
	Text      string `json:"text"`
}

func (p CommentEventPayload) EventKey() string { return keyOf("item", p.ItemID) }

type ItemEventPayload struct {
	ItemID    int64  `json:"item_id"`
	OwnerID   int64  `json:"owner_id"`
	Name      string `json:"name"`
	RequestID *int64 `json:"request_id,omitempty"`
}

func (p ItemEventPayload) EventKey() string { return keyOf("item", p.ItemID) }

type RequestEventPayload struct {
	RequestID   int64  `json:"request_id"`
	RequestorID int64  `json:"requestor_id"`
	Description string `json:"description"`
}

func (p RequestEventPayload) EventKey() string { return keyOf("request", p.RequestID) }

// keyed payloads choose the partition key of their event.
type keyed interface {
	EventKey() string
}

func keyOf(kind string, id int64) string {
	return kind + ":" + strconv.FormatInt(id, 10)
}

// Event represents a lightweight domain event.
type Event struct {
	ID        string
	Type      string
	Key       string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewEventBus constructs an empty bus. Handler failures are logged to logger
// when it is non-nil.
func NewEventBus(logger *zerolog.Logger) *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler), logger: logger}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Handlers run synchronously
// in subscription order; a failing handler does not stop the others. Slow
// sinks subscribe through an AsyncSubscriber.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		if err := handler(event); err != nil && b.logger != nil {
			b.logger.Warn().Err(err).Str("event_type", event.Type).Str("event_id", event.ID).Msg("event handler failed")
		}
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}
	b.Publish(&event)
	return nil
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	event := Event{ID: uuid.NewString(), Type: eventType, Payload: raw, CreatedAt: time.Now()}
	if k, ok := payload.(keyed); ok {
		event.Key = k.EventKey()
	}
	return event, nil
}
