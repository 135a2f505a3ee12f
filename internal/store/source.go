package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ainews/apiserver/types"
)

// SourceRepository handles persistence for news sources.
type SourceRepository struct {
	db *sql.DB
}

func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

func (r *SourceRepository) List(ctx context.Context, offset, limit int) ([]types.NewsSource, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `SELECT COUNT(1) FROM news_sources`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT id, name, url, rss_url, is_active, category, created_at
		FROM news_sources
		ORDER BY id
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, listQuery, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sources := make([]types.NewsSource, 0, limit)
	for rows.Next() {
		var source types.NewsSource
		if err := rows.Scan(
			&source.ID,
			&source.Name,
			&source.URL,
			&source.RSSURL,
			&source.IsActive,
			&source.Category,
			&source.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return sources, total, nil
}

func (r *SourceRepository) Get(ctx context.Context, id int) (types.NewsSource, error) {
	const query = `
		SELECT id, name, url, rss_url, is_active, category, created_at
		FROM news_sources
		WHERE id = $1`
	var source types.NewsSource
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&source.ID,
		&source.Name,
		&source.URL,
		&source.RSSURL,
		&source.IsActive,
		&source.Category,
		&source.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.NewsSource{}, ErrNotFound
		}
		return types.NewsSource{}, err
	}
	return source, nil
}

func (r *SourceRepository) Create(ctx context.Context, source types.NewsSource) (types.NewsSource, error) {
	source.CreatedAt = time.Now()

	const query = `
		INSERT INTO news_sources (name, url, rss_url, is_active, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		source.Name,
		source.URL,
		source.RSSURL,
		source.IsActive,
		source.Category,
		source.CreatedAt,
	).Scan(&source.ID); err != nil {
		return types.NewsSource{}, translateUniqueViolation(err)
	}
	return source, nil
}
