package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"cdrbot/internal/domain"
	"cdrbot/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverSessionRepository serves sessions from primary and switches to
// fallback on the first primary error, probing primary again once a minute.
type FailoverSessionRepository struct {
	primary  domain.SessionRepository
	fallback domain.SessionRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

// usePrimary reports whether primary should be tried: it is up, or due for a probe.
func (r *FailoverSessionRepository) usePrimary() (probe bool, ok bool) {
	if !r.isDown.Load() {
		return false, true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastCheck) > recoveryInterval {
		r.lastCheck = time.Now()
		return true, true
	}
	return false, false
}

func (r *FailoverSessionRepository) recovered() {
	if r.isDown.CompareAndSwap(true, false) {
		r.logger.Info().Msg("Primary session repository recovered")
	}
}

func (r *FailoverSessionRepository) Load(ctx context.Context, userID int64) (*models.Session, error) {
	if probe, ok := r.usePrimary(); ok {
		session, err := r.primary.Load(ctx, userID)
		if err == nil {
			if probe {
				r.recovered()
			}
			return session, nil
		}
		r.markDown(err)
	}
	return r.fallback.Load(ctx, userID)
}

func (r *FailoverSessionRepository) Save(ctx context.Context, session *models.Session) error {
	if probe, ok := r.usePrimary(); ok {
		err := r.primary.Save(ctx, session)
		if err == nil {
			if probe {
				r.recovered()
			}
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.Save(ctx, session)
}

func (r *FailoverSessionRepository) Delete(ctx context.Context, userID int64) error {
	if _, ok := r.usePrimary(); ok {
		err := r.primary.Delete(ctx, userID)
		if err == nil {
			// в fallback могла остаться копия с периода недоступности
			return r.fallback.Delete(ctx, userID)
		}
		r.markDown(err)
	}
	return r.fallback.Delete(ctx, userID)
}

func (r *FailoverSessionRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if _, ok := r.usePrimary(); ok {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}
	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
