package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebSession is the long-lived server-side identity session behind the
// session_id cookie. The access/refresh token cookies are reconciled against
// it on every request.
type WebSession struct {
	ID         uuid.UUID `json:"id"`
	Token      string    `json:"-"`
	UserID     uuid.UUID `json:"user_id"`
	RememberMe bool      `json:"remember_me"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (s *WebSession) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
