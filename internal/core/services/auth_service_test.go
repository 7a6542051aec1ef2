package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.WebSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.WebSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.WebSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) GetByToken(ctx context.Context, token string) (*domain.WebSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok || s.Expired(time.Now()) {
		return nil, nil
	}
	return s, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func newTestAuthService(t *testing.T) (ports.AuthService, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()
	codec, err := NewTokenCodec(testJWTSettings())
	require.NoError(t, err)

	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	tokens := NewTokenService(codec, users, newFakeRefreshRepo(), 30*24*time.Hour)
	return NewAuthService(users, sessions, tokens, 12*time.Hour, 30*24*time.Hour), users, sessions
}

func registeredUser(t *testing.T, users *fakeUserRepo, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "bob@example.com",
		FullName:     "Bob Doe",
		PasswordHash: string(hash),
		FirstLogin:   true,
	}
	users.add(user, domain.RoleStudent)
	return user
}

func TestLogin(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()
	user := registeredUser(t, users, "s3cret")

	result, err := svc.Login(ctx, user.Email, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.UserID)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.FirstLogin)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()
	user := registeredUser(t, users, "s3cret")

	_, err := svc.Login(ctx, user.Email, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegister(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, ports.RegisterInput{
		Email:    "carol@example.com",
		Password: "s3cret",
		FullName: "Carol Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleStudent}, result.Roles)

	user, err := users.GetByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.FirstLogin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))

	_, err = svc.Register(ctx, ports.RegisterInput{Email: "carol@example.com", Password: "other"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestWebSessionLifecycle(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	ctx := context.Background()
	userID := uuid.New()

	session, err := svc.StartWebSession(ctx, userID, false)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.False(t, session.RememberMe)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), session.ExpiresAt, 5*time.Second)

	remembered, err := svc.StartWebSession(ctx, userID, true)
	require.NoError(t, err)
	assert.True(t, remembered.RememberMe)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), remembered.ExpiresAt, 5*time.Second)

	require.NoError(t, svc.EndWebSession(ctx, session.Token))
	got, err := sessions.GetByToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
}
