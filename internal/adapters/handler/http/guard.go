package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/classtrack/ams/internal/core/services"
)

type contextKey string

const claimsKey contextKey = "accessClaims"

func withClaims(ctx context.Context, claims *services.AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*services.AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.AccessClaims)
	return claims, ok
}

// Guard authenticates API requests from a bearer header or the access token
// cookie. It runs after the reconciliation middleware, so a request that
// already carries verified claims passes straight through.
type Guard struct {
	codec *services.TokenCodec
}

func NewGuard(codec *services.TokenCodec) *Guard {
	return &Guard{codec: codec}
}

func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			token = cookieValue(r, accessTokenCookie)
		}
		if token == "" {
			http.Error(w, "missing access token", http.StatusUnauthorized)
			return
		}

		claims, err := g.codec.Decode(token)
		if err != nil {
			http.Error(w, "invalid access token", http.StatusUnauthorized)
			return
		}
		if claims.UserID == "" || claims.Email == "" {
			http.Error(w, "invalid access token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// RequireRoles allows the request through when the caller holds at least one
// of the given roles.
func (g *Guard) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				for _, held := range claims.Roles {
					if role == held {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
