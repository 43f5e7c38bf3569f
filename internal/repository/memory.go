package repository

import (
	"context"
	"sync"
	"time"

	"cdrbot/internal/models"

	"github.com/rs/zerolog"
)

type memoryEntry struct {
	session *models.Session
	touched time.Time
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// MemorySessionRepository keeps sessions in process memory. Entries not touched
// for longer than the TTL are removed by DeleteExpired.
type MemorySessionRepository struct {
	mu         sync.Mutex
	sessions   map[int64]memoryEntry
	rateLimits map[int64]*rateLimitEntry
	ttl        time.Duration
	now        func() time.Time
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions:   make(map[int64]memoryEntry),
		rateLimits: make(map[int64]*rateLimitEntry),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (r *MemorySessionRepository) Load(ctx context.Context, userID int64) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[userID]
	if !ok {
		return nil, nil
	}
	now := r.now()
	if r.expired(entry, now) {
		delete(r.sessions, userID)
		return nil, nil
	}
	entry.touched = now
	r.sessions[userID] = entry
	return entry.session.Clone(), nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	session.UpdatedAt = now
	r.sessions[session.UserID] = memoryEntry{session: session.Clone(), touched: now}
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) expired(entry memoryEntry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(entry.touched) > r.ttl
}

// DeleteExpired drops stale sessions and finished rate limit windows and
// returns how many sessions were removed.
func (r *MemorySessionRepository) DeleteExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.sessions {
		if r.expired(entry, now) {
			delete(r.sessions, id)
			removed++
		}
	}
	for id, rl := range r.rateLimits {
		if now.After(rl.expiresAt) {
			delete(r.rateLimits, id)
		}
	}
	return removed
}

// StartSweeper runs DeleteExpired every interval until ctx is done.
func (r *MemorySessionRepository) StartSweeper(ctx context.Context, interval time.Duration, logger *zerolog.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.DeleteExpired(r.now()); n > 0 && logger != nil {
					logger.Debug().Int("sessions", n).Msg("expired sessions removed")
				}
			}
		}
	}()
}

func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *MemorySessionRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, ok := r.rateLimits[userID]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
		r.rateLimits[userID] = entry
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}
