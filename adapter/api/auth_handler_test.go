package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("register creates an account", func(t *testing.T) {
		var body map[string]string
		resp := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "new@example.com",
			"password": "password123",
		}, &body)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "new@example.com", body["email"])
		assert.NotEmpty(t, body["id"])
	})

	t.Run("register rejects a taken email", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "new@example.com",
			"password": "password123",
		}, nil)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("register rejects a weak password", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "weak@example.com",
			"password": "short",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("login returns a bearer token pair", func(t *testing.T) {
		var body map[string]any
		resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "new@example.com",
			"password": "password123",
		}, &body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["accessToken"])
		assert.NotEmpty(t, body["refreshToken"])
		assert.Equal(t, "Bearer", body["tokenType"])
	})

	t.Run("login with wrong password is unauthorized", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "new@example.com",
			"password": "wrong-password",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("refresh exchanges the refresh token", func(t *testing.T) {
		var login map[string]any
		resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "new@example.com",
			"password": "password123",
		}, &login)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var refreshed map[string]any
		resp = env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
			"refreshToken": login["refreshToken"].(string),
		}, &refreshed)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, refreshed["accessToken"])
	})

	t.Run("refresh rejects a garbage token", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
			"refreshToken": "garbage",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
