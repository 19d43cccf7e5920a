package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agriconnect/internal/config"
	"agriconnect/internal/core/domain"
	"agriconnect/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "mw-secret", TokenTTL: time.Hour},
	}
}

func protectedApp(cfg *config.Config, roles ...domain.Role) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/private", AuthMiddleware(cfg), RoleMiddleware(roles...), func(c *fiber.Ctx) error {
		id, role := CurrentUser(c)
		return c.JSON(fiber.Map{"id": id, "role": role})
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddlewareStoresIdentity(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg)

	token, err := jwt.GenerateAccessToken(42, "agent", cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)

	resp := get(t, app, "/private", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareRequiresBearer(t *testing.T) {
	app := protectedApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Basic abc")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg, domain.RoleAdmin, domain.RoleAgent)

	farmer, err := jwt.GenerateAccessToken(1, "farmer", cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)
	admin, err := jwt.GenerateAccessToken(2, "admin", cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(t, app, "/private", farmer).StatusCode)
	assert.Equal(t, http.StatusOK, get(t, app, "/private", admin).StatusCode)
}

func TestRoleMiddlewareWithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", RoleMiddleware(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, get(t, app, "/", "").StatusCode)
}

func TestCacheControl(t *testing.T) {
	app := fiber.New()
	app.Use(CacheControl(time.Hour))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNotFound) })

	assert.Equal(t, "public, max-age=3600", get(t, app, "/ok", "").Header.Get(fiber.HeaderCacheControl))
	assert.Empty(t, get(t, app, "/missing", "").Header.Get(fiber.HeaderCacheControl))
}

func TestAuthRateLimiter(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.AuthPerMinute = 2

	app := fiber.New()
	app.Post("/login", AuthRateLimiter(cfg), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestAuthRateLimiterDisabled(t *testing.T) {
	app := fiber.New()
	app.Post("/login", AuthRateLimiter(testConfig()), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestCustomErrorHandlerTooLarge(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })

	resp := get(t, app, "/", "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestSharedResourcesOverridesHelmet(t *testing.T) {
	app := fiber.New()
	Setup(app, testConfig())
	app.Get("/uploads/a.png", SharedResources(), func(c *fiber.Ctx) error { return c.SendString("img") })
	app.Get("/api/x", func(c *fiber.Ctx) error { return c.SendString("x") })

	assert.Equal(t, "cross-origin", get(t, app, "/uploads/a.png", "").Header.Get("Cross-Origin-Resource-Policy"))
	assert.Equal(t, "same-origin", get(t, app, "/api/x", "").Header.Get("Cross-Origin-Resource-Policy"))
}
