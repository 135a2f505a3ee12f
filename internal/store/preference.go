package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/ainews/apiserver/types"
)

// PreferenceRepository handles persistence for user preferences.
type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) ListByUser(ctx context.Context, userID int) ([]types.UserPreference, error) {
	const query = `
		SELECT id, user_id, preference_type, preference_value, weight, created_at
		FROM user_preferences
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	preferences := make([]types.UserPreference, 0)
	for rows.Next() {
		var pref types.UserPreference
		if err := rows.Scan(
			&pref.ID,
			&pref.UserID,
			&pref.Type,
			&pref.Value,
			&pref.Weight,
			&pref.CreatedAt,
		); err != nil {
			return nil, err
		}
		preferences = append(preferences, pref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return preferences, nil
}

// Replace swaps a user's whole preference set in one transaction.
func (r *PreferenceRepository) Replace(ctx context.Context, userID int, preferences []types.UserPreference) ([]types.UserPreference, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	const insertQuery = `
		INSERT INTO user_preferences (user_id, preference_type, preference_value, weight, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	stored := make([]types.UserPreference, 0, len(preferences))
	for _, pref := range preferences {
		pref.UserID = userID
		pref.CreatedAt = now
		if err := tx.QueryRowContext(
			ctx,
			insertQuery,
			pref.UserID,
			pref.Type,
			pref.Value,
			pref.Weight,
			now,
		).Scan(&pref.ID); err != nil {
			return nil, err
		}
		stored = append(stored, pref)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}
