package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrMissingJWTKey is fatal at startup; the service refuses to run without a
// signing key rather than falling back to an insecure default.
var ErrMissingJWTKey = errors.New("JWT_KEY is not configured")

type JWTSettings struct {
	Key             []byte
	Issuer          string
	Audience        string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ExpiryBuffer    time.Duration
	SessionTTL      time.Duration
	RememberMeTTL   time.Duration
}

type Config struct {
	HTTPAddr string
	DBConn   string
	JWT      JWTSettings
}

func Load() (*Config, error) {
	key := os.Getenv("JWT_KEY")
	if key == "" {
		return nil, ErrMissingJWTKey
	}

	cfg := &Config{
		HTTPAddr: envOr("HTTP_ADDR", "0.0.0.0:8080"),
		DBConn:   dbConnString(),
		JWT: JWTSettings{
			Key:             []byte(key),
			Issuer:          envOr("JWT_ISSUER", "classtrack-ams"),
			Audience:        envOr("JWT_AUDIENCE", "classtrack-ams"),
			AccessTokenTTL:  time.Duration(envIntOr("JWT_EXPIRY_MINUTES", 60)) * time.Minute,
			RefreshTokenTTL: time.Duration(envIntOr("REFRESH_EXPIRY_DAYS", 30)) * 24 * time.Hour,
			ExpiryBuffer:    5 * time.Minute,
			SessionTTL:      12 * time.Hour,
			RememberMeTTL:   30 * 24 * time.Hour,
		},
	}
	return cfg, nil
}

func dbConnString() string {
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	dbName := os.Getenv("POSTGRES_DB")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
