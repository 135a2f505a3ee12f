package types

import "time"

// NewsSource is a feed that articles are attributed to.
type NewsSource struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	URL       string    `json:"url" db:"url"`
	RSSURL    *string   `json:"rss_url" db:"rss_url"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	Category  *string   `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
