package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chartcyanvas/backend/internal/config"
	"github.com/chartcyanvas/backend/internal/middleware"
	"github.com/chartcyanvas/backend/internal/services"
	"github.com/chartcyanvas/backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	app  *fiber.App
	auth *services.AuthService
	db   *gorm.DB
}

func newApp(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, AdminHandle: "admin"}
	auth := services.NewAuthService(db, cfg)

	testutil.CreateUser(t, db, "admin", testutil.AsAdmin())
	testutil.CreateUser(t, db, "1234")

	app := fiber.New()
	app.Use(middleware.Identify(cfg, auth))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if u := middleware.CurrentUser(c); u != nil {
			return c.SendString(u.Handle)
		}
		return c.SendString("anonymous")
	})
	app.Get("/admin", middleware.AdminRequired(cfg), func(c *fiber.Ctx) error {
		return c.SendString("welcome")
	})
	return &fixture{app: app, auth: auth, db: db}
}

func (f *fixture) tokenFor(t *testing.T, handle string) string {
	t.Helper()
	user, err := services.NewUserService(f.db).FindByHandle(context.Background(), handle)
	require.NoError(t, err)
	token, err := f.auth.IssueToken(user)
	require.NoError(t, err)
	return token
}

func body(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestIdentify(t *testing.T) {
	f := newApp(t)
	app := f.app
	token := f.tokenFor(t, "1234")

	t.Run("anonymous", func(t *testing.T) {
		_, got := body(t, app, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, "anonymous", got)
	})

	t.Run("invalid token stays anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		status, got := body(t, app, req)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "anonymous", got)
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		_, got := body(t, app, req)
		assert.Equal(t, "1234", got)
	})

	t.Run("session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
		_, got := body(t, app, req)
		assert.Equal(t, "1234", got)
	})
}

func TestAdminRequired(t *testing.T) {
	f := newApp(t)
	app := f.app

	tests := []struct {
		name   string
		handle string
		status int
	}{
		{"anonymous", "", http.StatusForbidden},
		{"regular user", "1234", http.StatusForbidden},
		{"admin", "admin", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.handle != "" {
				req.Header.Set("Authorization", "Bearer "+f.tokenFor(t, tt.handle))
			}
			status, got := body(t, app, req)
			assert.Equal(t, tt.status, status)
			if tt.status == http.StatusForbidden {
				assert.JSONEq(t, `{"code":"forbidden"}`, got)
			}
		})
	}
}
