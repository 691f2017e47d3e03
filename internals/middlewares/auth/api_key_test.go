package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestKeyServiceVerify(t *testing.T) {
	ks := NewKeyService("pepper")
	hashed := ks.Register("raw-key-1")

	require.Equal(t, hashed, ks.Verify("raw-key-1"))
	require.Equal(t, "", ks.Verify("raw-key-2"))
	require.Equal(t, "", ks.Verify(""))
	require.False(t, ks.IsAdmin(hashed))

	adminHash := ks.RegisterAdmin("admin-key")
	require.True(t, ks.IsAdmin(adminHash))
}

func TestKeyServiceSaltChangesHash(t *testing.T) {
	a := NewKeyService("salt-a").Hash("key")
	b := NewKeyService("salt-b").Hash("key")
	require.NotEqual(t, a, b)
}

func newApp(ks *KeyService) *fiber.App {
	app := fiber.New()
	app.Get("/v1/ping", RequireAPIKey(ks), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	app.Get("/admin/ping", RequireAdminKey(ks), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestRequireAPIKey(t *testing.T) {
	ks := NewKeyService("pepper")
	ks.Register("raw-key-1")
	app := newApp(ks)

	req := httptest.NewRequest("GET", "/v1/ping", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/v1/ping", nil)
	req.Header.Set(HeaderAPIKey, "wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/v1/ping", nil)
	req.Header.Set(HeaderAPIKey, "raw-key-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdminKey(t *testing.T) {
	ks := NewKeyService("pepper")
	ks.Register("plain-key")
	ks.RegisterAdmin("admin-key")
	app := newApp(ks)

	// a valid key without admin scope is rejected
	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set(HeaderAPIKey, "plain-key")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set(HeaderAPIKey, "admin-key")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
