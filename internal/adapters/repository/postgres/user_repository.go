package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, full_name, password_hash, first_login, created_at FROM users WHERE email = $1 AND deleted_at IS NULL`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, email, full_name, password_hash, first_login, created_at FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User, roles []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO users (id, email, full_name, password_hash, first_login) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	if err := tx.QueryRowContext(ctx, query, user.ID, user.Email, user.FullName, user.PasswordHash, user.FirstLogin).Scan(&user.CreatedAt); err != nil {
		return err
	}

	for _, role := range roles {
		if _, err := tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, user.ID, role); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *UserRepository) Roles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var roles pq.StringArray
	query := `SELECT COALESCE(array_agg(role ORDER BY role), '{}') FROM user_roles WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&roles); err != nil {
		return nil, err
	}
	return []string(roles), nil
}

func (r *UserRepository) ClearFirstLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET first_login = false WHERE id = $1`, userID)
	return err
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.FirstLogin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
