package service

import (
	"context"
	"errors"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// base carries what every service shares: storage, the event publisher,
// a logger and the clock used for "now".
type base struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func newBase(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) base {
	return base{repo: repo, eventBus: eventBus, logger: logger, now: time.Now}
}

func (b *base) publish(eventType string, payload interface{}) {
	if b.eventBus == nil {
		return
	}
	if err := b.eventBus.PublishJSON(eventType, payload); err != nil {
		b.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

func (b *base) requireUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := b.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user with id %d is not found", userID)
	}
	return user, nil
}

func (b *base) requireItem(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := b.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err, "item with id %d is not found", itemID)
	}
	return item, nil
}

// notFoundOr turns a storage miss into a NotFound error with the given message
// and passes any other failure through.
func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, database.ErrNotFound) {
		return domain.NotFoundf(format, args...)
	}
	return err
}

// SetClock replaces the time source used for "now".
func (b *base) SetClock(now func() time.Time) {
	b.now = now
}
