package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
)

type RefreshTokenRepository interface {
	Store(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// MarkUsed flips is_used conditionally and reports whether this call won
	// the flip. Concurrent redemptions of the same secret must see exactly one
	// true result.
	MarkUsed(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

type WebSessionRepository interface {
	Create(ctx context.Context, session *domain.WebSession) error
	GetByToken(ctx context.Context, token string) (*domain.WebSession, error)
	Delete(ctx context.Context, token string) error
}

// TokenService mints and rotates access/refresh token pairs.
type TokenService interface {
	Issue(ctx context.Context, user *domain.User) (*domain.AuthResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*domain.AuthResult, error)
}

// AuthService handles credential verification and session lifecycle.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Register(ctx context.Context, input RegisterInput) (*domain.AuthResult, error)
	StartWebSession(ctx context.Context, userID uuid.UUID, rememberMe bool) (*domain.WebSession, error)
	EndWebSession(ctx context.Context, sessionToken string) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, []string, error)
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}
