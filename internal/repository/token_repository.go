package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// TokenRepo is the token store: one `token` row per user holding the only
// bearer token currently accepted for that user.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Upsert inserts the user's token or replaces the existing one.  Replacing
// the row is what invalidates every token issued before it.
func (r *TokenRepo) Upsert(ctx context.Context, userID uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO token (userId, token) VALUES (?, ?) ON DUPLICATE KEY UPDATE token = VALUES(token)",
		userID, token)
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

// Get returns the live token of a user, or ErrNotFound when none was issued.
func (r *TokenRepo) Get(ctx context.Context, userID uint64) (string, error) {
	var token string
	err := r.DB.QueryRowContext(ctx,
		"SELECT token FROM token WHERE userId=? LIMIT 1", userID).Scan(&token)
	if err != nil {
		return "", notFound(err, "get token")
	}
	return token, nil
}
