// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcalibur215/mmhub/internal/platform/middleware"
	"github.com/xcalibur215/mmhub/internal/users/auth"
)

func newAuthServer(t *testing.T) (*httptest.Server, *fixture) {
	t.Helper()

	fx := newFixture(t)
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(auth.NewAuthenticator(fx.tokens, auth.NewResolver(fx.users))))
	router.Mount("/auth", auth.NewHandler(fx.service).Routes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, fx
}

func doJSON(t *testing.T, method, target, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	decoded := map[string]any{}
	_ = json.NewDecoder(response.Body).Decode(&decoded)
	return response, decoded
}

/*
TestScenario_RegisterLoginMe walks the full bearer lifecycle over HTTP.
*/
func TestScenario_RegisterLoginMe(t *testing.T) {
	server, _ := newAuthServer(t)

	// 1. Register
	response, body := doJSON(t, http.MethodPost, server.URL+"/auth/register", "", map[string]any{
		"email":      "alice@example.com",
		"username":   "alice",
		"password":   "secret123",
		"first_name": "Alice",
		"last_name":  "Liddell",
		"role":       "admin",
	})
	require.Equal(t, http.StatusCreated, response.StatusCode)
	created := body["data"].(map[string]any)
	assert.Equal(t, "user", created["role"], "caller-supplied role must be ignored")
	assert.NotContains(t, created, "password_hash")

	// 2. Login
	response, body = doJSON(t, http.MethodPost, server.URL+"/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)
	accessToken, _ := body["access_token"].(string)
	refreshToken, _ := body["refresh_token"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.Equal(t, "bearer", body["token_type"])
	summary := body["user"].(map[string]any)
	assert.Equal(t, created["id"], summary["id"])

	// 3. /me with the access token
	response, body = doJSON(t, http.MethodGet, server.URL+"/auth/me", accessToken, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	me := body["data"].(map[string]any)
	assert.Equal(t, created["id"], me["id"])
	assert.Equal(t, "alice@example.com", me["email"])

	// 4. /me with the refresh token is rejected
	response, body = doJSON(t, http.MethodGet, server.URL+"/auth/me", refreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, "Could not validate credentials", body["error"])
	assert.Equal(t, "Bearer", response.Header.Get("WWW-Authenticate"))

	// 5. Refresh with the refresh token, then reject the access token there
	response, body = doJSON(t, http.MethodPost, server.URL+"/auth/refresh", "", map[string]any{"refresh_token": refreshToken})
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.NotEmpty(t, body["access_token"])
	assert.EqualValues(t, 1800, body["expires_in"])

	response, _ = doJSON(t, http.MethodPost, server.URL+"/auth/refresh?refresh_token="+url.QueryEscape(accessToken), "", nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

/*
TestLogin_FormEncoded accepts the OAuth2 password form.
*/
func TestLogin_FormEncoded(t *testing.T) {
	server, fx := newAuthServer(t)
	fx.register(t, "alice@example.com", "alice", "secret123")

	form := url.Values{"username": {"alice@example.com"}, "password": {"secret123"}}
	response, err := http.Post(server.URL+"/auth/login", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)
}

/*
TestLogin_Failures verifies the HTTP mapping of each login failure.
*/
func TestLogin_Failures(t *testing.T) {
	server, fx := newAuthServer(t)
	user := fx.register(t, "alice@example.com", "alice", "secret123")

	response, wrongPassword := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", map[string]any{"login": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	response, unknownUser := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", map[string]any{"login": "nobody", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, wrongPassword, unknownUser)

	fx.users.mutate(t, user.ID, func(user *auth.User) { user.IsActive = false })
	response, body := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", map[string]any{"login": "alice", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, response.StatusCode)
	assert.Equal(t, "ACCOUNT_INACTIVE", body["code"])

	response, _ = doJSON(t, http.MethodPost, server.URL+"/auth/login", "", map[string]any{"password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

/*
TestRegister_Conflict verifies the 409 names the duplicated field.
*/
func TestRegister_Conflict(t *testing.T) {
	server, fx := newAuthServer(t)
	fx.register(t, "alice@example.com", "alice", "secret123")

	response, body := doJSON(t, http.MethodPost, server.URL+"/auth/register", "", map[string]any{
		"email":    "alice@example.com",
		"username": "alice-two",
		"password": "secret123",
	})
	require.Equal(t, http.StatusConflict, response.StatusCode)

	details := body["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "email", details[0].(map[string]any)["field"])
	assert.Equal(t, 1, fx.users.count())
}

/*
TestRegister_Validation rejects short passwords and malformed emails.
*/
func TestRegister_Validation(t *testing.T) {
	server, fx := newAuthServer(t)

	response, _ := doJSON(t, http.MethodPost, server.URL+"/auth/register", "", map[string]any{
		"email":    "not-an-email",
		"username": "al",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Zero(t, fx.users.count())
}

/*
TestMe_Anonymous requires a bearer token.
*/
func TestMe_Anonymous(t *testing.T) {
	server, _ := newAuthServer(t)

	response, _ := doJSON(t, http.MethodGet, server.URL+"/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

/*
TestPublicRoutes_StaleAccessHeader verifies that an expired access token in
the Authorization header does not block refresh, login or register.
*/
func TestPublicRoutes_StaleAccessHeader(t *testing.T) {
	server, fx := newAuthServer(t)
	bob := fx.register(t, "bob@example.com", "bob", "secret123")

	expired, err := fx.tokens.IssueAccessToken(bob.ID, -time.Second)
	require.NoError(t, err)
	refreshToken, err := fx.tokens.IssueRefreshToken(bob.ID)
	require.NoError(t, err)

	response, body := doJSON(t, http.MethodPost, server.URL+"/auth/refresh", expired, map[string]any{"refresh_token": refreshToken})
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.NotEmpty(t, body["access_token"])

	response, body = doJSON(t, http.MethodPost, server.URL+"/auth/login", expired, map[string]any{"login": "bob", "password": "secret123"})
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.NotEmpty(t, body["refresh_token"])

	response, _ = doJSON(t, http.MethodPost, server.URL+"/auth/register", expired, map[string]any{
		"email":    "carol@example.com",
		"username": "carol",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, response.StatusCode)

	response, body = doJSON(t, http.MethodGet, server.URL+"/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, "Could not validate credentials", body["error"])
}
