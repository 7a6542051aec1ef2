package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/classtrack/ams/internal/config"
	"github.com/classtrack/ams/internal/core/domain"
)

// RoleList keeps the wire format of the original claim serializer: a single
// role is written as a bare string, multiple roles as an array. Both shapes
// are accepted on decode.
type RoleList []string

func (r RoleList) MarshalJSON() ([]byte, error) {
	if len(r) == 1 {
		return json.Marshal(r[0])
	}
	return json.Marshal([]string(r))
}

func (r *RoleList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = RoleList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*r = RoleList(many)
	return nil
}

// AccessClaims is the strongly-typed claim set carried by access tokens.
// Claim names are fixed for interop: sub is the email, userId the identity id.
type AccessClaims struct {
	Email    string   `json:"email"`
	UserID   string   `json:"userId"`
	FullName string   `json:"fullName"`
	Roles    RoleList `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec encodes, decodes and verifies signed access tokens. HS256 is the
// only accepted algorithm, enforced as an allow-list on every parse.
type TokenCodec struct {
	settings config.JWTSettings
}

func NewTokenCodec(settings config.JWTSettings) (*TokenCodec, error) {
	if len(settings.Key) == 0 {
		return nil, config.ErrMissingJWTKey
	}
	return &TokenCodec{settings: settings}, nil
}

func (c *TokenCodec) Encode(user *domain.User, roles []string, jti string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email:    user.Email,
		UserID:   user.ID.String(),
		FullName: user.FullName,
		Roles:    RoleList(roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        jti,
			Issuer:    c.settings.Issuer,
			Audience:  jwt.ClaimStrings{c.settings.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.settings.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.settings.Key)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Decode fully verifies a token: signature, algorithm, issuer, audience and
// expiry with zero leeway.
func (c *TokenCodec) Decode(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.settings.Issuer),
		jwt.WithAudience(c.settings.Audience),
		jwt.WithExpirationRequired(),
	)

	claims := &AccessClaims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, c.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// DecodeExpired verifies signature, algorithm, issuer and audience but
// accepts an expired token. This is the refresh-path decode: an expired but
// otherwise valid token is proof of prior authentication.
func (c *TokenCodec) DecodeExpired(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &AccessClaims{}
	if _, err := parser.ParseWithClaims(tokenStr, claims, c.keyFunc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	// WithoutClaimsValidation skips issuer/audience too, so re-check them.
	if claims.Issuer != c.settings.Issuer {
		return nil, fmt.Errorf("%w: unexpected issuer", domain.ErrInvalidToken)
	}
	if !containsAudience(claims.Audience, c.settings.Audience) {
		return nil, fmt.Errorf("%w: unexpected audience", domain.ErrInvalidToken)
	}
	return claims, nil
}

// PeekExpiry reads the expiry without verifying the signature. It exists only
// so the middleware can decide whether a refresh is worth attempting; it is
// never an authorization decision.
func (c *TokenCodec) PeekExpiry(tokenStr string) (time.Time, error) {
	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp", domain.ErrInvalidToken)
	}
	return claims.ExpiresAt.Time, nil
}

func (c *TokenCodec) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
	}
	return c.settings.Key, nil
}

func containsAudience(aud jwt.ClaimStrings, expected string) bool {
	for _, a := range aud {
		if a == expected {
			return true
		}
	}
	return false
}
