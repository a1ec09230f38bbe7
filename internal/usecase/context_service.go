package usecase

import (
	"context"
	"errors"
	"fmt"

	"flightquery-service/internal/domain/entity"
	"flightquery-service/internal/domain/repository"
	"flightquery-service/pkg/logger"
)

// ContextService manages per-user conversational context. Lookups for
// unknown users return the empty payload sentinel, never an error, so a
// conversational caller does not have to distinguish "absent" from "failed".
type ContextService struct {
	repo   repository.UserContextRepository
	logger logger.Logger
}

// NewContextService creates a new context service
func NewContextService(repo repository.UserContextRepository, logger logger.Logger) *ContextService {
	return &ContextService{
		repo:   repo,
		logger: logger,
	}
}

// SetUserContext stores or replaces the payload for userID. The previous
// payload is discarded wholesale; there is no merge.
func (s *ContextService) SetUserContext(ctx context.Context, userID string, payload map[string]any) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id is empty", ErrInvalidArgument)
	}
	if payload == nil {
		payload = map[string]any{}
	}

	err := s.repo.Set(ctx, &entity.UserContext{
		UserID:  userID,
		Payload: payload,
	})
	if err != nil {
		return err
	}

	s.logger.Debug("User context stored", "userId", userID, "keys", len(payload))
	return nil
}

// GetUserContext returns the stored payload for userID, or an empty map when
// none exists.
func (s *ContextService) GetUserContext(ctx context.Context, userID string) (map[string]any, error) {
	uc, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	if uc.Payload == nil {
		return map[string]any{}, nil
	}
	return uc.Payload, nil
}
