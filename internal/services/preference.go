package services

import (
	"context"

	"github.com/ainews/apiserver/types"
)

// PreferenceRepository defines persistence operations for user preferences.
type PreferenceRepository interface {
	ListByUser(ctx context.Context, userID int) ([]types.UserPreference, error)
	Replace(ctx context.Context, userID int, preferences []types.UserPreference) ([]types.UserPreference, error)
}

// PreferenceService encapsulates preference use-cases.
type PreferenceService struct {
	repo PreferenceRepository
}

func NewPreferenceService(repo PreferenceRepository) *PreferenceService {
	return &PreferenceService{repo: repo}
}

func (s *PreferenceService) ListByUser(ctx context.Context, userID int) ([]types.UserPreference, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *PreferenceService) Replace(ctx context.Context, userID int, preferences []types.UserPreference) ([]types.UserPreference, error) {
	return s.repo.Replace(ctx, userID, preferences)
}
