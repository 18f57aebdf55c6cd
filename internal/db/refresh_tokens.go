package db

import (
	"context"
	"time"

	"github.com/blogkit/backend/internal/model"
)

func (db *Postgres) CreateRefreshToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (jti, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := db.Pool.Exec(ctx, query, jti, userID, expiresAt)
	return err
}

func (db *Postgres) GetRefreshTokenByJTI(ctx context.Context, jti string) (*model.RefreshToken, error) {
	query := `
		SELECT jti, user_id, expires_at, is_revoked, replaced_by, created_at
		FROM refresh_tokens
		WHERE jti = $1
	`
	var token model.RefreshToken
	err := db.Pool.QueryRow(ctx, query, jti).Scan(
		&token.JTI,
		&token.UserID,
		&token.ExpiresAt,
		&token.IsRevoked,
		&token.ReplacedBy,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// RevokeRefreshToken marks the record revoked. Revoking an already-revoked
// record is a no-op, is_revoked never goes back to false, and replaced_by
// is only written while still NULL so the rotation lineage cannot be
// rewritten.
func (db *Postgres) RevokeRefreshToken(ctx context.Context, jti string, replacedBy *string) error {
	query := `
		UPDATE refresh_tokens
		SET is_revoked = TRUE,
		    replaced_by = COALESCE(replaced_by, $2)
		WHERE jti = $1
	`
	_, err := db.Pool.Exec(ctx, query, jti, replacedBy)
	return err
}
