package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a one-time-use rotation record paired with a single access
// token through JwtID. Rows are append-only; redemption flips IsUsed exactly
// once and the row is kept afterwards as an audit trail.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"-"`
	JwtID     string    `json:"jwt_id"`
	IsUsed    bool      `json:"is_used"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResult is the response shape shared by login, register and refresh.
type AuthResult struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	UserID       uuid.UUID `json:"userId"`
	Email        string    `json:"email"`
	Roles        []string  `json:"roles"`
}
