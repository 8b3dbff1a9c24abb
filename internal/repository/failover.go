package repository

import (
	"context"
	"sync"
	"time"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverQuotaRepository uses the primary store until it fails, then serves
// from the fallback and retries the primary once per recovery interval.
type FailoverQuotaRepository struct {
	primary  domain.QuotaRepository
	fallback domain.QuotaRepository
	logger   *zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	down     bool
	downFrom time.Time
}

func NewFailoverQuotaRepository(primary, fallback domain.QuotaRepository, logger *zerolog.Logger) *FailoverQuotaRepository {
	return &FailoverQuotaRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *FailoverQuotaRepository) usePrimary() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.down {
		return true
	}
	if r.now().Sub(r.downFrom) >= recoveryInterval {
		r.downFrom = r.now()
		return true
	}
	return false
}

func (r *FailoverQuotaRepository) markDown(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.down {
		r.logger.Error().Err(err).Msg("Primary quota store failed, falling back to memory")
	}
	r.down = true
	r.downFrom = r.now()
}

func (r *FailoverQuotaRepository) markUp() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		r.logger.Info().Msg("Primary quota store recovered")
	}
	r.down = false
}

func (r *FailoverQuotaRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			r.markUp()
			return allowed, nil
		}
		r.markDown(err)
	}
	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
