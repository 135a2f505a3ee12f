package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ainews/apiserver/types"
	"github.com/lib/pq"
)

// ArticleRepository handles persistence for articles and their tags.
type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleColumns = `
	a.id, a.title, a.url, a.summary, a.author, a.published_at, a.sentiment_score,
	a.source_id, s.name,
	COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.name IS NOT NULL), '{}')`

const articleJoins = `
	FROM articles a
	JOIN news_sources s ON s.id = a.source_id
	LEFT JOIN article_tags at ON at.article_id = a.id
	LEFT JOIN tags t ON t.id = at.tag_id`

// List returns a page of articles ordered by publication time,
// newest first, along with the total number of matches.
func (r *ArticleRepository) List(ctx context.Context, filter types.ArticleFilter, offset, limit int) ([]types.Article, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	where, args := buildArticleWhere(filter)

	countQuery := `SELECT COUNT(a.id) FROM articles a JOIN news_sources s ON s.id = a.source_id` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT` + articleColumns + articleJoins + where + `
		GROUP BY a.id, s.name
		ORDER BY a.published_at DESC NULLS LAST, a.id DESC
		OFFSET $` + fmt.Sprint(len(args)+1) + ` LIMIT $` + fmt.Sprint(len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	articles := make([]types.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func (r *ArticleRepository) Get(ctx context.Context, id int) (types.Article, error) {
	query := `SELECT` + articleColumns + articleJoins + `
		WHERE a.id = $1
		GROUP BY a.id, s.name`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return types.Article{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return types.Article{}, err
		}
		return types.Article{}, ErrNotFound
	}
	return scanArticle(rows)
}

// Create inserts an article and links its tags in one transaction.
// Tags are upserted by name. A duplicate article URL returns
// ErrConflict.
func (r *ArticleRepository) Create(ctx context.Context, article types.Article) (types.Article, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Article{}, err
	}
	defer tx.Rollback()

	const insertQuery = `
		INSERT INTO articles (title, url, summary, author, published_at, sentiment_score, source_id, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := tx.QueryRowContext(
		ctx,
		insertQuery,
		article.Title,
		article.URL,
		article.Summary,
		article.Author,
		article.PublishedAt,
		article.SentimentScore,
		article.SourceID,
		time.Now(),
	).Scan(&article.ID); err != nil {
		return types.Article{}, translateUniqueViolation(err)
	}

	if err := replaceArticleTags(ctx, tx, article.ID, article.Tags); err != nil {
		return types.Article{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Article{}, err
	}
	return article, nil
}

// Update rewrites an article's fields and replaces its tag links.
func (r *ArticleRepository) Update(ctx context.Context, article types.Article) (types.Article, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Article{}, err
	}
	defer tx.Rollback()

	const updateQuery = `
		UPDATE articles
		SET title = $1,
			url = $2,
			summary = $3,
			author = $4,
			published_at = $5,
			sentiment_score = $6,
			source_id = $7
		WHERE id = $8`
	result, err := tx.ExecContext(
		ctx,
		updateQuery,
		article.Title,
		article.URL,
		article.Summary,
		article.Author,
		article.PublishedAt,
		article.SentimentScore,
		article.SourceID,
		article.ID,
	)
	if err != nil {
		return types.Article{}, translateUniqueViolation(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Article{}, err
	}
	if affected == 0 {
		return types.Article{}, ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = $1`, article.ID); err != nil {
		return types.Article{}, err
	}
	if err := replaceArticleTags(ctx, tx, article.ID, article.Tags); err != nil {
		return types.Article{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Article{}, err
	}
	return article, nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func replaceArticleTags(ctx context.Context, tx *sql.Tx, articleID int, tags []string) error {
	for _, tag := range tags {
		var tagID int
		const upsertTag = `
			INSERT INTO tags (name)
			VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`
		if err := tx.QueryRowContext(ctx, upsertTag, tag).Scan(&tagID); err != nil {
			return err
		}

		const linkTag = `
			INSERT INTO article_tags (article_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT (article_id, tag_id) DO NOTHING`
		if _, err := tx.ExecContext(ctx, linkTag, articleID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func buildArticleWhere(filter types.ArticleFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("s.category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("a.title LIKE $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, clause := range clauses[1:] {
		where += " AND " + clause
	}
	return where, args
}

func scanArticle(rows *sql.Rows) (types.Article, error) {
	var article types.Article
	var tags pq.StringArray
	if err := rows.Scan(
		&article.ID,
		&article.Title,
		&article.URL,
		&article.Summary,
		&article.Author,
		&article.PublishedAt,
		&article.SentimentScore,
		&article.SourceID,
		&article.SourceName,
		&tags,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Article{}, ErrNotFound
		}
		return types.Article{}, err
	}
	article.Tags = []string(tags)
	return article, nil
}
