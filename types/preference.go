package types

import "time"

// Preference types accepted by the API.
const (
	PreferenceTypeCategory = "category"
	PreferenceTypeSource   = "source"
	PreferenceTypeKeyword  = "keyword"
)

// UserPreference weights a category, source, or keyword for a user.
type UserPreference struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Type      string    `json:"preference_type" db:"preference_type"`
	Value     string    `json:"preference_value" db:"preference_value"`
	Weight    float64   `json:"weight" db:"weight"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
