package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/export"
	"shareit/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const deadLetterKey = "shareit:sheets:deadletter"

// BookingSource returns the bookings overlapping [from, to).
type BookingSource interface {
	GetBookingsForExport(ctx context.Context, from, to time.Time) ([]*models.BookingView, error)
}

// deadLetter is what a sync that exhausted its retries leaves in Redis.
type deadLetter struct {
	Error     string    `json:"error"`
	Attempts  int       `json:"attempts"`
	FailedAt  time.Time `json:"failed_at"`
	Bookings  int       `json:"bookings"`
	PeriodEnd time.Time `json:"period_end"`
}

// SheetsWorker keeps the bookings sheet in step with the database. Booking
// events mark the sheet stale; bursts of events collapse into one sync.
type SheetsWorker struct {
	source       BookingSource
	sheets       domain.SheetsWriter
	redis        *redis.Client
	retryPolicy  RetryPolicy
	trigger      chan struct{}
	pollInterval time.Duration
	daysBack     int
	daysAhead    int
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
	logger       zerolog.Logger
}

// NewSheetsWorker builds a worker with sane defaults. redisClient may be nil.
func NewSheetsWorker(source BookingSource, sheets domain.SheetsWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	w := &SheetsWorker{
		source:       source,
		sheets:       sheets,
		redis:        redisClient,
		retryPolicy:  retry.withDefaults(),
		trigger:      make(chan struct{}, 1),
		pollInterval: time.Hour,
		daysBack:     7,
		daysAhead:    30,
		now:          time.Now,
		sleep:        sleepCtx,
		logger:       zerolog.Nop(),
	}
	if logger != nil {
		w.logger = logger.With().Str("component", "sheets_worker").Logger()
	}
	return w
}

// Attach subscribes the worker to booking events.
func (w *SheetsWorker) Attach(bus events.Subscriber) {
	for _, eventType := range []string{events.EventBookingCreated, events.EventBookingApproved, events.EventBookingRejected} {
		bus.Subscribe(eventType, func(*events.Event) error {
			w.Trigger()
			return nil
		})
	}
}

// Trigger schedules a sync without blocking.
func (w *SheetsWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Start runs the sync loop until ctx is done. The sheet is also refreshed
// every poll interval so that bookings moving in and out of the window show up.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("sheets worker started")
	defer w.logger.Info().Msg("sheets worker stopped")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Trigger()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.trigger:
		case <-ticker.C:
		}
		if err := w.SyncOnce(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("sheets sync failed")
		}
	}
}

// SyncOnce pushes the current report, retrying with backoff. When every
// attempt fails the failure is recorded in the dead-letter list.
func (w *SheetsWorker) SyncOnce(ctx context.Context) error {
	period := export.PeriodAround(w.now(), w.daysBack, w.daysAhead)

	var (
		lastErr  error
		bookings []*models.BookingView
	)
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		bookings, lastErr = w.source.GetBookingsForExport(ctx, period.From, period.To)
		if lastErr == nil {
			lastErr = w.sheets.ReplaceBookingsSheet(ctx, bookings)
		}
		if lastErr == nil {
			w.logger.Debug().Int("bookings", len(bookings)).Int("attempt", attempt).Msg("bookings sheet updated")
			return nil
		}
		if attempt == w.retryPolicy.MaxRetries {
			break
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("retry_in", delay).Msg("sheets sync attempt failed")
		if err := w.sleep(ctx, delay); err != nil {
			return err
		}
	}

	w.pushDeadLetter(ctx, deadLetter{
		Error:     lastErr.Error(),
		Attempts:  w.retryPolicy.MaxRetries,
		FailedAt:  w.now(),
		Bookings:  len(bookings),
		PeriodEnd: period.To,
	})
	return fmt.Errorf("sync bookings sheet after %d attempts: %w", w.retryPolicy.MaxRetries, lastErr)
}

func (w *SheetsWorker) pushDeadLetter(ctx context.Context, entry deadLetter) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		w.logger.Error().Err(err).Msg("encode deadletter")
		return
	}
	if err := w.redis.LPush(ctx, deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Msg("deadletter push failed")
	}
}
