package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type authService struct {
	users       ports.UserRepository
	sessions    ports.WebSessionRepository
	tokens      ports.TokenService
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

func NewAuthService(users ports.UserRepository, sessions ports.WebSessionRepository, tokens ports.TokenService, sessionTTL, rememberTTL time.Duration) ports.AuthService {
	return &authService{
		users:       users,
		sessions:    sessions,
		tokens:      tokens,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	if user.FirstLogin {
		if err := s.users.ClearFirstLogin(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to clear first-login flag: %w", err)
		}
	}
	return result, nil
}

func (s *authService) Register(ctx context.Context, input ports.RegisterInput) (*domain.AuthResult, error) {
	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleStudent
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		FirstLogin:   true,
	}
	if err := s.users.Create(ctx, user, []string{role}); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.tokens.Issue(ctx, user)
}

func (s *authService) StartWebSession(ctx context.Context, userID uuid.UUID, rememberMe bool) (*domain.WebSession, error) {
	token, err := randomSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	ttl := s.sessionTTL
	if rememberMe {
		ttl = s.rememberTTL
	}
	session := &domain.WebSession{
		ID:         uuid.New(),
		Token:      token,
		UserID:     userID,
		RememberMe: rememberMe,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

func (s *authService) EndWebSession(ctx context.Context, sessionToken string) error {
	return s.sessions.Delete(ctx, sessionToken)
}

func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, []string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	roles, err := s.users.Roles(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load roles: %w", err)
	}
	return user, roles, nil
}

func randomSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
