package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
	"github.com/classtrack/ams/internal/core/services"
)

const sessionExpiredNotice = "Your session has expired. Please login again."
const authErrorNotice = "Authentication error. Please login again."

// Paths that never go through token reconciliation: login/logout themselves,
// the token endpoints, static assets and the public landing page.
var bypassPrefixes = []string{
	"/account/login",
	"/account/logout",
	"/account/denied",
	"/api/auth/login",
	"/api/auth/refresh",
	"/api/auth/register",
	"/css/",
	"/js/",
	"/lib/",
	"/favicon.ico",
	"/health",
}

// SessionMiddleware reconciles the server-side identity session against the
// access/refresh token cookies on every request. Any disagreement between the
// two ends in an idempotent forced sign-out and a redirect to login.
type SessionMiddleware struct {
	sessions ports.WebSessionRepository
	tokens   ports.TokenService
	codec    *services.TokenCodec
	logger   *slog.Logger
	buffer   time.Duration
	now      func() time.Time

	// pending holds token pairs minted by background near-expiry refreshes,
	// keyed by web-session token, until the next request claims them. Lost on
	// process exit; the next request simply re-evaluates near-expiry status.
	pending sync.Map
}

func NewSessionMiddleware(sessions ports.WebSessionRepository, tokens ports.TokenService, codec *services.TokenCodec, logger *slog.Logger, buffer time.Duration) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
		tokens:   tokens,
		codec:    codec,
		logger:   logger,
		buffer:   buffer,
		now:      time.Now,
	}
}

func (m *SessionMiddleware) Reconcile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bypassed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		session := m.currentSession(r)
		if session == nil {
			// Unauthenticated. Stray token cookies are leftovers from an
			// earlier session; drop them so they cannot confuse anything.
			if cookieValue(r, accessTokenCookie) != "" || cookieValue(r, refreshTokenCookie) != "" {
				m.logger.Info("clearing orphaned token cookies for unauthenticated request")
				clearAuthCookies(w)
			}
			next.ServeHTTP(w, r)
			return
		}

		accessToken := cookieValue(r, accessTokenCookie)
		if pair := m.claimPending(session.Token); pair != nil {
			setAuthCookies(w, pair, session.RememberMe)
			accessToken = pair.Token
		}

		if accessToken == "" {
			// Token deleted from the browser while the identity session
			// survived. The two must not disagree.
			m.logger.Warn("access token missing for authenticated session", "user_id", session.UserID)
			m.forceSignOut(w, r, session, sessionExpiredNotice)
			return
		}

		expiry, err := m.codec.PeekExpiry(accessToken)
		if err != nil {
			m.logger.Warn("unreadable access token", "user_id", session.UserID, "error", err)
			m.forceSignOut(w, r, session, authErrorNotice)
			return
		}

		now := m.now()
		switch {
		case expiry.Before(now):
			refreshed := m.refreshExpired(w, r, session, accessToken)
			if refreshed == "" {
				return
			}
			accessToken = refreshed
		case expiry.Before(now.Add(m.buffer)):
			m.refreshInBackground(session, accessToken, cookieValue(r, refreshTokenCookie))
		}

		claims, err := m.codec.Decode(accessToken)
		if err != nil {
			m.logger.Warn("access token failed verification", "user_id", session.UserID, "error", err)
			m.forceSignOut(w, r, session, authErrorNotice)
			return
		}
		if claims.UserID == "" || claims.Email == "" {
			m.logger.Warn("access token missing required claims", "user_id", session.UserID)
			m.forceSignOut(w, r, session, authErrorNotice)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// refreshExpired rotates an expired pair synchronously. It returns the new
// access token, or "" after having already written the forced sign-out
// response.
func (m *SessionMiddleware) refreshExpired(w http.ResponseWriter, r *http.Request, session *domain.WebSession, accessToken string) string {
	refreshToken := cookieValue(r, refreshTokenCookie)
	if refreshToken == "" {
		m.logger.Warn("access token expired and no refresh token present", "user_id", session.UserID)
		m.forceSignOut(w, r, session, sessionExpiredNotice)
		return ""
	}

	result, err := m.tokens.Refresh(r.Context(), accessToken, refreshToken)
	if err != nil {
		m.logger.Warn("token refresh failed", "user_id", session.UserID, "error", err)
		m.forceSignOut(w, r, session, sessionExpiredNotice)
		return ""
	}

	rememberMe := session.RememberMe || rememberMeRequested(r)
	setAuthCookies(w, result, rememberMe)
	m.logger.Info("access token refreshed", "user_id", session.UserID)
	return result.Token
}

// refreshInBackground rotates a near-expiry pair without blocking the request.
// The outcome is only logged; a minted pair waits in m.pending for the next
// request. Failures are swallowed by design: the next request re-evaluates
// near-expiry status fresh.
func (m *SessionMiddleware) refreshInBackground(session *domain.WebSession, accessToken, refreshToken string) {
	if refreshToken == "" {
		return
	}
	if _, loaded := m.pending.LoadOrStore(session.Token, (*domain.AuthResult)(nil)); loaded {
		// A rotation for this session is already in flight or waiting.
		return
	}

	go func() {
		result, err := m.tokens.Refresh(context.Background(), accessToken, refreshToken)
		if err != nil {
			m.pending.Delete(session.Token)
			m.logger.Warn("proactive token refresh failed", "user_id", session.UserID, "error", err)
			return
		}
		m.pending.Store(session.Token, result)
		m.logger.Info("access token proactively refreshed", "user_id", session.UserID)
	}()
}

func (m *SessionMiddleware) claimPending(sessionToken string) *domain.AuthResult {
	value, ok := m.pending.Load(sessionToken)
	if !ok {
		return nil
	}
	pair, _ := value.(*domain.AuthResult)
	if pair == nil {
		// Rotation still in flight.
		return nil
	}
	m.pending.Delete(sessionToken)
	return pair
}

// forceSignOut is the single convergence point for every inconsistent state.
// It is idempotent: the session row is deleted, all auth cookies are expired
// with the attributes they were set with, and the client is redirected to
// login with a human-readable notice.
func (m *SessionMiddleware) forceSignOut(w http.ResponseWriter, r *http.Request, session *domain.WebSession, notice string) {
	if err := m.sessions.Delete(r.Context(), session.Token); err != nil {
		m.logger.Error("failed to delete web session", "user_id", session.UserID, "error", err)
	}
	m.pending.Delete(session.Token)
	clearSessionCookie(w)
	clearAuthCookies(w)
	setNoticeCookie(w, notice)
	http.Redirect(w, r, "/account/login", http.StatusFound)
}

func (m *SessionMiddleware) currentSession(r *http.Request) *domain.WebSession {
	token := cookieValue(r, sessionCookie)
	if token == "" {
		return nil
	}
	session, err := m.sessions.GetByToken(r.Context(), token)
	if err != nil {
		m.logger.Error("failed to load web session", "error", err)
		return nil
	}
	if session == nil || session.Expired(m.now()) {
		return nil
	}
	return session
}

func bypassed(path string) bool {
	if path == "/" {
		return true
	}
	lower := strings.ToLower(path)
	for _, prefix := range bypassPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
