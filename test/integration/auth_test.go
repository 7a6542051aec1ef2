package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/ams/internal/core/domain"
)

type authResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	UserID       string   `json:"userId"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
}

func postJSON(t *testing.T, app *TestApp, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := app.Client.Post(app.Server.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerUser(t *testing.T, app *TestApp, role string) (authResponse, string) {
	t.Helper()
	email := fmt.Sprintf("user-%s@example.com", uuid.NewString())
	resp := postJSON(t, app, "/api/auth/register", map[string]any{
		"email":    email,
		"password": "s3cret-pass",
		"fullName": "Test User",
		"role":     role,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeJSON[authResponse](t, resp), email
}

func TestAuthFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	// 1. Register and login
	registered, email := registerUser(t, app, domain.RoleStudent)
	assert.NotEmpty(t, registered.Token)
	assert.NotEmpty(t, registered.RefreshToken)

	resp := postJSON(t, app, "/api/auth/login", map[string]any{
		"email":    email,
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loggedIn := decodeJSON[authResponse](t, resp)
	assert.Equal(t, email, loggedIn.Email)
	assert.Equal(t, []string{domain.RoleStudent}, loggedIn.Roles)

	// 2. Wrong password is rejected
	resp = postJSON(t, app, "/api/auth/login", map[string]any{
		"email":    email,
		"password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// 3. The pair can be refreshed once
	resp = postJSON(t, app, "/api/auth/refresh", map[string]any{
		"token":        loggedIn.Token,
		"refreshToken": loggedIn.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := decodeJSON[authResponse](t, resp)
	assert.NotEqual(t, loggedIn.Token, rotated.Token)
	assert.NotEqual(t, loggedIn.RefreshToken, rotated.RefreshToken)

	// 4. Replaying the burned pair fails
	resp = postJSON(t, app, "/api/auth/refresh", map[string]any{
		"token":        loggedIn.Token,
		"refreshToken": loggedIn.RefreshToken,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// 5. Mixing pairs fails with the same opaque message
	resp = postJSON(t, app, "/api/auth/refresh", map[string]any{
		"token":        loggedIn.Token,
		"refreshToken": rotated.RefreshToken,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decodeJSON[map[string][]string](t, resp)
	assert.Equal(t, []string{"refresh failed"}, errBody["errors"])

	// 6. The rotated access token authenticates API calls
	req, err := http.NewRequest(http.MethodGet, app.Server.URL+"/api/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+rotated.Token)
	meResp, err := app.Client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, meResp.StatusCode)
	me := decodeJSON[map[string]any](t, meResp)
	assert.Equal(t, email, me["email"])
}

func TestBrowserSessionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, email := registerUser(t, app, domain.RoleStudent)

	resp := postJSON(t, app, "/account/login", map[string]any{
		"email":    email,
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var sessionToken, accessToken string
	for _, cookie := range resp.Cookies() {
		switch cookie.Name {
		case "session_id":
			sessionToken = cookie.Value
		case "access_token":
			accessToken = cookie.Value
		}
	}
	require.NotEmpty(t, sessionToken, "session_id cookie should be set")
	require.NotEmpty(t, accessToken, "access_token cookie should be set")

	// Session plus access cookie is reconciled and serves the request.
	req, err := http.NewRequest(http.MethodGet, app.Server.URL+"/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionToken})
	req.AddCookie(&http.Cookie{Name: "access_token", Value: accessToken})
	meResp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer meResp.Body.Close()
	assert.Equal(t, http.StatusOK, meResp.StatusCode)

	// Session without its access cookie forces a sign-out redirect.
	req, err = http.NewRequest(http.MethodGet, app.Server.URL+"/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionToken})
	signOutResp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer signOutResp.Body.Close()
	require.Equal(t, http.StatusFound, signOutResp.StatusCode)

	location, err := signOutResp.Location()
	require.NoError(t, err)
	assert.Equal(t, "/account/login", location.Path)

	var notice string
	for _, cookie := range signOutResp.Cookies() {
		if cookie.Name == "login_message" {
			notice = cookie.Value
		}
	}
	assert.NotEmpty(t, notice, "forced sign-out should leave a notice cookie")

	// The session row is gone; replaying the old session cookie is harmless.
	req, err = http.NewRequest(http.MethodGet, app.Server.URL+"/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionToken})
	req.AddCookie(&http.Cookie{Name: "access_token", Value: accessToken})
	replayResp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer replayResp.Body.Close()
	assert.Equal(t, http.StatusOK, replayResp.StatusCode, "bearer-less request falls through to the guard with a valid access cookie")
}
