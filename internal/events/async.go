package events

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Subscriber is anything event handlers can be registered on.
type Subscriber interface {
	Subscribe(eventType string, handler EventHandler)
}

type queuedEvent struct {
	handler EventHandler
	event   *Event
}

// AsyncSubscriber registers handlers on a bus but runs them on its own
// goroutine, so publishers only pay for a channel send. When the buffer is
// full the event is dropped and the bus logs the failure.
type AsyncSubscriber struct {
	bus    *EventBus
	name   string
	queue  chan queuedEvent
	done   chan struct{}
	logger *zerolog.Logger
}

func NewAsyncSubscriber(bus *EventBus, name string, size int, logger *zerolog.Logger) *AsyncSubscriber {
	if size <= 0 {
		size = 100
	}
	return &AsyncSubscriber{
		bus:    bus,
		name:   name,
		queue:  make(chan queuedEvent, size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (a *AsyncSubscriber) Subscribe(eventType string, handler EventHandler) {
	a.bus.Subscribe(eventType, func(event *Event) error {
		select {
		case a.queue <- queuedEvent{handler: handler, event: event}:
			return nil
		default:
			return fmt.Errorf("%s queue is full, event dropped", a.name)
		}
	})
}

// Run handles queued events until ctx is done, then drains what is already
// buffered and returns.
func (a *AsyncSubscriber) Run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case <-ctx.Done():
			a.drain()
			return
		case q := <-a.queue:
			a.handle(q)
		}
	}
}

// Wait blocks until Run has returned.
func (a *AsyncSubscriber) Wait() {
	<-a.done
}

func (a *AsyncSubscriber) drain() {
	for {
		select {
		case q := <-a.queue:
			a.handle(q)
		default:
			return
		}
	}
}

func (a *AsyncSubscriber) handle(q queuedEvent) {
	if err := q.handler(q.event); err != nil && a.logger != nil {
		a.logger.Warn().Err(err).Str("subscriber", a.name).Str("event_type", q.event.Type).Str("event_id", q.event.ID).Msg("event handler failed")
	}
}
