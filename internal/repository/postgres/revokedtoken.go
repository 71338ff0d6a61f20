package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type RevokedTokenRepo struct {
	DB DBTX
}

const revokeToken = `-- name: Revoke token
INSERT INTO revoked_tokens (token, created_at, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (token) DO NOTHING
`

// Add token to blacklist
// Already revoked token keeps its original created_at
func (r *RevokedTokenRepo) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.DB.Exec(ctx, revokeToken, token, time.Now(), expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const isRevoked = `-- name: Is token revoked
SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = $1)
`

func (r *RevokedTokenRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	rows, _ := r.DB.Query(ctx, isRevoked, token)
	revoked, err := pgx.CollectOneRow(rows, pgx.RowTo[bool])
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return revoked, nil
}

const deleteExpired = `-- name: Delete revoked tokens that expired naturally
DELETE FROM revoked_tokens
WHERE expires_at < $1
`

func (r *RevokedTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteExpired, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}
