package services

import (
	"context"

	"github.com/ainews/apiserver/types"
)

// SourceRepository defines persistence operations for news sources.
type SourceRepository interface {
	List(ctx context.Context, offset, limit int) ([]types.NewsSource, int, error)
	Get(ctx context.Context, id int) (types.NewsSource, error)
	Create(ctx context.Context, source types.NewsSource) (types.NewsSource, error)
}

// SourceService encapsulates news source use-cases.
type SourceService struct {
	repo SourceRepository
}

func NewSourceService(repo SourceRepository) *SourceService {
	return &SourceService{repo: repo}
}

func (s *SourceService) List(ctx context.Context, offset, limit int) ([]types.NewsSource, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *SourceService) Get(ctx context.Context, id int) (types.NewsSource, error) {
	return s.repo.Get(ctx, id)
}

func (s *SourceService) Create(ctx context.Context, source types.NewsSource) (types.NewsSource, error) {
	return s.repo.Create(ctx, source)
}
