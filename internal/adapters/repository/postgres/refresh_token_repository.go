package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) ports.RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Store(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, jwt_id, is_used, is_revoked, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.Token, token.JwtID, token.IsUsed, token.IsRevoked, token.CreatedAt, token.ExpiresAt)
	return err
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, jwt_id, is_used, is_revoked, created_at, expires_at
		FROM refresh_tokens
		WHERE token = $1
	`
	record := &domain.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&record.ID,
		&record.UserID,
		&record.Token,
		&record.JwtID,
		&record.IsUsed,
		&record.IsRevoked,
		&record.CreatedAt,
		&record.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// MarkUsed is the single-use commit point. The conditional update makes
// redemption linearizable per record: of any number of concurrent calls with
// the same secret, exactly one observes an affected row.
func (r *RefreshTokenRepository) MarkUsed(ctx context.Context, token string) (bool, error) {
	query := `UPDATE refresh_tokens SET is_used = true WHERE token = $1 AND is_used = false AND is_revoked = false`
	result, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET is_revoked = true WHERE id = $1`, id)
	return err
}
