package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

const refreshSecretBytes = 35

type tokenService struct {
	codec         *TokenCodec
	users         ports.UserRepository
	refreshTokens ports.RefreshTokenRepository
	refreshTTL    time.Duration
}

func NewTokenService(codec *TokenCodec, users ports.UserRepository, refreshTokens ports.RefreshTokenRepository, refreshTTL time.Duration) ports.TokenService {
	return &tokenService{
		codec:         codec,
		users:         users,
		refreshTokens: refreshTokens,
		refreshTTL:    refreshTTL,
	}
}

// Issue mints an access token and its paired one-time refresh record. Every
// call appends a fresh record; existing rows are never touched here.
func (s *tokenService) Issue(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	roles, err := s.users.Roles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	jti := uuid.NewString()
	accessToken, err := s.codec.Encode(user, roles, jti)
	if err != nil {
		return nil, err
	}

	secret, err := randomSecret(refreshSecretBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh secret: %w", err)
	}

	record := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     secret,
		JwtID:     jti,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.refreshTokens.Store(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &domain.AuthResult{
		Token:        accessToken,
		RefreshToken: secret,
		UserID:       user.ID,
		Email:        user.Email,
		Roles:        roles,
	}, nil
}

// Refresh validates a presented access/refresh pair and rotates it. The first
// failing check short-circuits; no state changes happen before the mark-used
// commit. Marking the old record used precedes the new issuance, so a failure
// in between burns the old token and forces a re-login instead of leaving a
// replayable secret behind.
func (s *tokenService) Refresh(ctx context.Context, accessToken, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.codec.DecodeExpired(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", domain.ErrInvalidToken)
	}

	record, err := s.refreshTokens.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if record == nil {
		return nil, domain.ErrRefreshTokenNotFound
	}
	if record.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrRefreshTokenExpired
	}
	if record.IsUsed {
		return nil, domain.ErrRefreshTokenUsed
	}
	if record.IsRevoked {
		return nil, domain.ErrRefreshTokenRevoked
	}
	if record.JwtID != claims.ID {
		return nil, domain.ErrTokenMismatch
	}

	won, err := s.refreshTokens.MarkUsed(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to redeem refresh token: %w", err)
	}
	if !won {
		// Lost a concurrent redemption race; exactly one caller wins.
		return nil, domain.ErrRefreshTokenUsed
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad userId claim", domain.ErrInvalidToken)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	return s.Issue(ctx, user)
}

func randomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
