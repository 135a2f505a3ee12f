package services

import (
	"context"

	"github.com/ainews/apiserver/types"
)

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	List(ctx context.Context, filter types.ArticleFilter, offset, limit int) ([]types.Article, int, error)
	Get(ctx context.Context, id int) (types.Article, error)
	Create(ctx context.Context, article types.Article) (types.Article, error)
	Update(ctx context.Context, article types.Article) (types.Article, error)
	Delete(ctx context.Context, id int) error
}

// ArticleService encapsulates article use-cases.
type ArticleService struct {
	repo ArticleRepository
}

func NewArticleService(repo ArticleRepository) *ArticleService {
	return &ArticleService{repo: repo}
}

func (s *ArticleService) List(ctx context.Context, filter types.ArticleFilter, offset, limit int) ([]types.Article, int, error) {
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *ArticleService) Get(ctx context.Context, id int) (types.Article, error) {
	return s.repo.Get(ctx, id)
}

func (s *ArticleService) Create(ctx context.Context, article types.Article) (types.Article, error) {
	return s.repo.Create(ctx, article)
}

func (s *ArticleService) Update(ctx context.Context, article types.Article) (types.Article, error) {
	return s.repo.Update(ctx, article)
}

func (s *ArticleService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
