package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pitwall/internal/middleware"
	"pitwall/internal/models"
	"pitwall/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware_secret"

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	authService, err := services.NewAuthService(nil, services.TokenConfig{Secret: secret, Algorithm: "HS256"}, nil)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		claims, ok := middleware.Claims(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(claims.Nick)
	})
	app.Get("/admin", middleware.AuthRequired(authService), middleware.AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/unguarded", middleware.AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func token(t *testing.T, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "pierre@example.com",
		"nick": "pierre10",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func get(t *testing.T, app *fiber.App, path, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAuthRequired(t *testing.T) {
	app := newApp(t)

	resp := get(t, app, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))

	resp = get(t, app, "/me", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, app, "/me", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, app, "/me", "Bearer "+token(t, models.RoleUser))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pierre10", string(body))
}

func TestAdminRequired(t *testing.T) {
	app := newApp(t)

	resp := get(t, app, "/admin", "Bearer "+token(t, models.RoleUser))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = get(t, app, "/admin", "Bearer "+token(t, models.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = get(t, app, "/unguarded", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
