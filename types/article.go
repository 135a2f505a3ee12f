package types

import "time"

// Article is a news article joined with its source name and tag names.
type Article struct {
	ID             int        `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	URL            string     `json:"url" db:"url"`
	Summary        *string    `json:"summary" db:"summary"`
	Author         *string    `json:"author" db:"author"`
	PublishedAt    *time.Time `json:"published_at" db:"published_at"`
	SentimentScore *float64   `json:"sentiment_score" db:"sentiment_score"`
	SourceID       int        `json:"source_id" db:"source_id"`
	SourceName     string     `json:"source_name" db:"source_name"`
	Tags           []string   `json:"tags"`
}

// ArticleFilter narrows article listings.
type ArticleFilter struct {
	// Category matches the article's source category exactly.
	Category string
	// Search matches a substring of the article title.
	Search string
}
