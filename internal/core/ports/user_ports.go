package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, user *domain.User, roles []string) error
	Roles(ctx context.Context, userID uuid.UUID) ([]string, error)
	ClearFirstLogin(ctx context.Context, userID uuid.UUID) error
}
