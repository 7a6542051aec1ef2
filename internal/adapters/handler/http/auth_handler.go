package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type AuthHandler struct {
	auth   ports.AuthService
	tokens ports.TokenService
}

func NewAuthHandler(auth ports.AuthService, tokens ports.TokenService) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type refreshRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role,omitempty"`
}

type errorResponse struct {
	Errors []string `json:"errors"`
}

// Login issues a token pair for API clients. No cookies are set here; see
// AccountLogin for the browser flow.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErrors(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeErrors(w, http.StatusBadRequest, domain.ErrInvalidCredentials.Error())
			return
		}
		writeErrors(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Refresh redeems a token pair. Every failure in the rotation taxonomy maps
// to the same client-visible message; the distinction lives in server logs.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Token == "" || req.RefreshToken == "" {
		writeErrors(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.tokens.Refresh(r.Context(), req.Token, req.RefreshToken)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, "refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeErrors(w, http.StatusBadRequest, "email, password and fullName are required")
		return
	}

	result, err := h.auth.Register(r.Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeErrors(w, http.StatusBadRequest, domain.ErrEmailTaken.Error())
			return
		}
		writeErrors(w, http.StatusInternalServerError, "registration failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Me returns the authenticated identity summary.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, roles, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":   user.ID,
		"email":    user.Email,
		"fullName": user.FullName,
		"roles":    roles,
	})
}

// AccountLogin is the browser flow: verifies credentials, starts a web
// session and delivers the token pair as cookies.
func (h *AuthHandler) AccountLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeErrors(w, http.StatusBadRequest, domain.ErrInvalidCredentials.Error())
			return
		}
		writeErrors(w, http.StatusInternalServerError, "login failed")
		return
	}

	session, err := h.auth.StartWebSession(r.Context(), result.UserID, req.RememberMe)
	if err != nil {
		writeErrors(w, http.StatusInternalServerError, "login failed")
		return
	}

	setSessionCookie(w, session.Token, session.ExpiresAt.Sub(session.CreatedAt))
	setAuthCookies(w, result, req.RememberMe)
	setRememberMeCookie(w, req.RememberMe)
	writeJSON(w, http.StatusOK, result)
}

// AccountLoginPage is the redirect target for forced sign-outs. The notice
// itself travels in the login_message cookie, read client-side.
func (h *AuthHandler) AccountLoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "please login"})
}

// AccountLogout ends the web session and clears every auth cookie.
func (h *AuthHandler) AccountLogout(w http.ResponseWriter, r *http.Request) {
	if token := cookieValue(r, sessionCookie); token != "" {
		_ = h.auth.EndWebSession(r.Context(), token)
	}
	clearSessionCookie(w)
	clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeErrors(w http.ResponseWriter, status int, messages ...string) {
	writeJSON(w, status, errorResponse{Errors: messages})
}
