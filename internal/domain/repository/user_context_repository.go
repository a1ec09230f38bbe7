package repository

import (
	"context"

	"flightquery-service/internal/domain/entity"
)

// UserContextRepository defines the interface for user context operations
type UserContextRepository interface {
	// Set stores or replaces the context for ctx.UserID.
	Set(ctx context.Context, uc *entity.UserContext) error
	// Get returns the stored context for userID, or an error wrapping
	// ErrNotFound when none exists.
	Get(ctx context.Context, userID string) (*entity.UserContext, error)
}
