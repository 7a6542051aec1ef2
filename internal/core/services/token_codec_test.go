package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/ams/internal/config"
	"github.com/classtrack/ams/internal/core/domain"
)

func testJWTSettings() config.JWTSettings {
	return config.JWTSettings{
		Key:            []byte("test-secret"),
		Issuer:         "classtrack-ams",
		Audience:       "classtrack-ams",
		AccessTokenTTL: time.Hour,
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Email:    "alice@example.com",
		FullName: "Alice Doe",
	}
}

func TestNewTokenCodecRequiresKey(t *testing.T) {
	settings := testJWTSettings()
	settings.Key = nil

	_, err := NewTokenCodec(settings)
	assert.ErrorIs(t, err, config.ErrMissingJWTKey)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec, err := NewTokenCodec(testJWTSettings())
	require.NoError(t, err)

	user := testUser()
	jti := uuid.NewString()
	token, err := codec.Encode(user, []string{domain.RoleStudent}, jti)
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Email, claims.Subject)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.FullName, claims.FullName)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, RoleList{domain.RoleStudent}, claims.Roles)
}

func TestDecodeRejectsWrongKey(t *testing.T) {
	codec, err := NewTokenCodec(testJWTSettings())
	require.NoError(t, err)

	other := testJWTSettings()
	other.Key = []byte("a-different-secret")
	otherCodec, err := NewTokenCodec(other)
	require.NoError(t, err)

	token, err := otherCodec.Encode(testUser(), nil, uuid.NewString())
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestDecodeRejectsUnsignedToken(t *testing.T) {
	codec, err := NewTokenCodec(testJWTSettings())
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice@example.com",
		"iss": "classtrack-ams",
		"aud": "classtrack-ams",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Decode(tokenStr)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = codec.DecodeExpired(tokenStr)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestDecodeRejectsExpiredToken(t *testing.T) {
	settings := testJWTSettings()
	settings.AccessTokenTTL = -time.Minute
	codec, err := NewTokenCodec(settings)
	require.NoError(t, err)

	token, err := codec.Encode(testUser(), []string{domain.RoleStudent}, uuid.NewString())
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestDecodeExpiredAcceptsExpiredToken(t *testing.T) {
	settings := testJWTSettings()
	settings.AccessTokenTTL = -time.Minute
	codec, err := NewTokenCodec(settings)
	require.NoError(t, err)

	user := testUser()
	jti := uuid.NewString()
	token, err := codec.Encode(user, []string{domain.RoleTeacher}, jti)
	require.NoError(t, err)

	claims, err := codec.DecodeExpired(token)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, user.ID.String(), claims.UserID)
}

func TestDecodeExpiredRejectsWrongIssuerAndAudience(t *testing.T) {
	codec, err := NewTokenCodec(testJWTSettings())
	require.NoError(t, err)

	foreign := testJWTSettings()
	foreign.Issuer = "someone-else"
	foreignCodec, err := NewTokenCodec(foreign)
	require.NoError(t, err)

	token, err := foreignCodec.Encode(testUser(), nil, uuid.NewString())
	require.NoError(t, err)

	_, err = codec.DecodeExpired(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	foreign = testJWTSettings()
	foreign.Audience = "some-other-app"
	foreignCodec, err = NewTokenCodec(foreign)
	require.NoError(t, err)

	token, err = foreignCodec.Encode(testUser(), nil, uuid.NewString())
	require.NoError(t, err)

	_, err = codec.DecodeExpired(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestPeekExpiry(t *testing.T) {
	codec, err := NewTokenCodec(testJWTSettings())
	require.NoError(t, err)

	token, err := codec.Encode(testUser(), nil, uuid.NewString())
	require.NoError(t, err)

	exp, err := codec.PeekExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	_, err = codec.PeekExpiry("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRoleListWireFormat(t *testing.T) {
	single, err := json.Marshal(RoleList{domain.RoleAdmin})
	require.NoError(t, err)
	assert.JSONEq(t, `"Admin"`, string(single))

	many, err := json.Marshal(RoleList{domain.RoleAdmin, domain.RoleTeacher})
	require.NoError(t, err)
	assert.JSONEq(t, `["Admin","Teacher"]`, string(many))

	var fromString RoleList
	require.NoError(t, json.Unmarshal([]byte(`"Student"`), &fromString))
	assert.Equal(t, RoleList{domain.RoleStudent}, fromString)

	var fromArray RoleList
	require.NoError(t, json.Unmarshal([]byte(`["Admin","Teacher"]`), &fromArray))
	assert.Equal(t, RoleList{domain.RoleAdmin, domain.RoleTeacher}, fromArray)
}
