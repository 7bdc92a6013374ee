package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
)

func newAuthEnv(t *testing.T) (*testEnv, *AuthHandler) {
	env := newTestEnv(t)
	h := &AuthHandler{
		DB:            env.DB,
		JWTSecret:     []byte("test-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Producer:      env.Pub,
	}
	return env, h
}

func TestRegisterAndLogin(t *testing.T) {
	env, h := newAuthEnv(t)

	load := map[string]string{"username": "alex", "password": "hunter2"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/auth/register", load)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "alex", user.Username)
	require.Equal(t, "user", user.Role)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", load)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IsAdmin      bool   `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.False(t, resp.IsAdmin)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env, h := newAuthEnv(t)

	load := map[string]string{"username": "alex", "password": "hunter2"}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/auth/register", load)
	require.NoError(t, h.Register(c))

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/auth/register", load)
	err := h.Register(c)
	require.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	env, h := newAuthEnv(t)

	load := map[string]string{"username": "alex", "password": "hunter2"}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/auth/register", load)
	require.NoError(t, h.Register(c))

	bad := map[string]string{"username": "alex", "password": "wrong"}
	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", bad)
	err := h.Login(c)
	require.Error(t, err)
}
