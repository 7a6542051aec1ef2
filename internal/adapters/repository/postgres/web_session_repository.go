package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type WebSessionRepository struct {
	db *sql.DB
}

func NewWebSessionRepository(db *sql.DB) ports.WebSessionRepository {
	return &WebSessionRepository{db: db}
}

func (r *WebSessionRepository) Create(ctx context.Context, session *domain.WebSession) error {
	query := `
		INSERT INTO web_sessions (id, token, user_id, remember_me, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.Token, session.UserID, session.RememberMe, session.CreatedAt, session.ExpiresAt)
	return err
}

func (r *WebSessionRepository) GetByToken(ctx context.Context, token string) (*domain.WebSession, error) {
	query := `
		SELECT id, token, user_id, remember_me, created_at, expires_at
		FROM web_sessions
		WHERE token = $1 AND expires_at > NOW()
	`
	session := &domain.WebSession{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.ID,
		&session.Token,
		&session.UserID,
		&session.RememberMe,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (r *WebSessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE token = $1`, token)
	return err
}
