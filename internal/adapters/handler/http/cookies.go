package http

import (
	"net/http"
	"time"

	"github.com/classtrack/ams/internal/core/domain"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
	rememberMeCookie   = "remember_me"
	sessionCookie      = "session_id"
	noticeCookie       = "login_message"
)

const (
	accessCookieAge     = 12 * time.Hour
	rememberedCookieAge = 30 * 24 * time.Hour
	refreshCookieAge    = 30 * 24 * time.Hour
	noticeCookieAge     = 30 * time.Second
)

// setAuthCookies writes the token pair. The access cookie lives 12 hours, or
// 30 days when the user asked to be remembered; the refresh cookie always
// lives 30 days.
func setAuthCookies(w http.ResponseWriter, result *domain.AuthResult, rememberMe bool) {
	accessAge := accessCookieAge
	if rememberMe {
		accessAge = rememberedCookieAge
	}
	http.SetCookie(w, secureCookie(accessTokenCookie, result.Token, accessAge))
	http.SetCookie(w, secureCookie(refreshTokenCookie, result.RefreshToken, refreshCookieAge))
}

func setRememberMeCookie(w http.ResponseWriter, rememberMe bool) {
	value := "false"
	if rememberMe {
		value = "true"
	}
	http.SetCookie(w, secureCookie(rememberMeCookie, value, rememberedCookieAge))
}

func setSessionCookie(w http.ResponseWriter, token string, age time.Duration) {
	http.SetCookie(w, secureCookie(sessionCookie, token, age))
}

// setNoticeCookie leaves a short-lived, script-readable message explaining a
// forced sign-out. Deliberately not HttpOnly.
func setNoticeCookie(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    message,
		Path:     "/",
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(noticeCookieAge.Seconds()),
	})
}

// clearAuthCookies deletes the token cookies. Deletion carries the same
// attribute set used when setting them; browsers only reliably drop a cookie
// when HttpOnly/Secure/SameSite match.
func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, expiredCookie(accessTokenCookie))
	http.SetCookie(w, expiredCookie(refreshTokenCookie))
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, expiredCookie(sessionCookie))
}

func secureCookie(name, value string, age time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(age.Seconds()),
	}
}

func expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	}
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func rememberMeRequested(r *http.Request) bool {
	return cookieValue(r, rememberMeCookie) == "true"
}
