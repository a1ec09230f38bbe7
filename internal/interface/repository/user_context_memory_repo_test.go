package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightquery-service/internal/domain/entity"
	"flightquery-service/internal/domain/repository"
)

func TestMemoryUserContextRepository_setAndGet(t *testing.T) {
	repo := NewMemoryUserContextRepository(0)
	ctx := context.Background()

	err := repo.Set(ctx, &entity.UserContext{
		UserID:  "u1",
		Payload: map[string]any{"lang": "en"},
	})
	require.NoError(t, err)

	uc, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", uc.UserID)
	assert.Equal(t, map[string]any{"lang": "en"}, uc.Payload)
	assert.False(t, uc.CreatedAt.IsZero())
	assert.False(t, uc.UpdatedAt.IsZero())
}

func TestMemoryUserContextRepository_getUnknown(t *testing.T) {
	repo := NewMemoryUserContextRepository(0)

	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryUserContextRepository_overwriteKeepsCreatedAt(t *testing.T) {
	repo := NewMemoryUserContextRepository(0)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, &entity.UserContext{UserID: "u1", Payload: map[string]any{"a": 1}}))
	first, err := repo.Get(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, repo.Set(ctx, &entity.UserContext{UserID: "u1", Payload: map[string]any{"b": 2}}))
	second, err := repo.Get(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"b": 2}, second.Payload)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestMemoryUserContextRepository_payloadIsolation(t *testing.T) {
	repo := NewMemoryUserContextRepository(0)
	ctx := context.Background()

	payload := map[string]any{"lang": "en"}
	require.NoError(t, repo.Set(ctx, &entity.UserContext{UserID: "u1", Payload: payload}))

	// Mutating the caller's map after Set must not affect the stored copy.
	payload["lang"] = "de"

	uc, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "en", uc.Payload["lang"])
}

func TestMemoryUserContextRepository_ttlExpiry(t *testing.T) {
	repo := NewMemoryUserContextRepository(time.Minute)

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return current }

	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, &entity.UserContext{UserID: "u1", Payload: map[string]any{"a": 1}}))

	// Still fresh just under the TTL.
	current = current.Add(59 * time.Second)
	_, err := repo.Get(ctx, "u1")
	require.NoError(t, err)

	// Expired past the TTL.
	current = current.Add(2 * time.Minute)
	_, err = repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// A later write revives the entry.
	require.NoError(t, repo.Set(ctx, &entity.UserContext{UserID: "u1", Payload: map[string]any{"a": 2}}))
	uc, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 2}, uc.Payload)
}
