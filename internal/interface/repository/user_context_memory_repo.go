package repository

import (
	"context"
	"maps"
	"sync"
	"time"

	"flightquery-service/internal/domain/entity"
	"flightquery-service/internal/domain/repository"
)

// MemoryUserContextRepository implements UserContextRepository in process
// memory. Contexts do not survive a restart. A positive ttl makes Get treat
// entries older than ttl (by last write) as absent.
type MemoryUserContextRepository struct {
	mu       sync.RWMutex
	contexts map[string]*entity.UserContext
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryUserContextRepository creates an in-memory user context repository
func NewMemoryUserContextRepository(ttl time.Duration) *MemoryUserContextRepository {
	return &MemoryUserContextRepository{
		contexts: make(map[string]*entity.UserContext),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Set creates or replaces the context for a user
func (r *MemoryUserContextRepository) Set(ctx context.Context, uc *entity.UserContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	stored := &entity.UserContext{
		UserID:    uc.UserID,
		Payload:   maps.Clone(uc.Payload),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if prev, ok := r.contexts[uc.UserID]; ok {
		stored.CreatedAt = prev.CreatedAt
	}
	r.contexts[uc.UserID] = stored
	return nil
}

// Get finds a user context by user ID. Expired entries are dropped lazily.
func (r *MemoryUserContextRepository) Get(ctx context.Context, userID string) (*entity.UserContext, error) {
	r.mu.RLock()
	uc, ok := r.contexts[userID]
	r.mu.RUnlock()

	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.ttl > 0 && r.now().Sub(uc.UpdatedAt) > r.ttl {
		r.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have refreshed it.
		if cur, ok := r.contexts[userID]; ok && r.now().Sub(cur.UpdatedAt) > r.ttl {
			delete(r.contexts, userID)
		}
		r.mu.Unlock()
		return nil, repository.ErrNotFound
	}

	return &entity.UserContext{
		UserID:    uc.UserID,
		Payload:   maps.Clone(uc.Payload),
		CreatedAt: uc.CreatedAt,
		UpdatedAt: uc.UpdatedAt,
	}, nil
}
