package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestPrivateCacheHeadersOnSuccess(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", PrivateCacheHeaders(30*time.Second), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/missing", PrivateCacheHeaders(30*time.Second), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	if err != nil {
		t.Fatalf("Test request failed: %v", err)
	}
	if got := resp.Header.Get("Cache-Control"); got != "private, max-age=30" {
		t.Errorf("Cache-Control = %q, want private, max-age=30", got)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	if err != nil {
		t.Fatalf("Test request failed: %v", err)
	}
	if got := resp.Header.Get("Cache-Control"); got != "" {
		t.Errorf("Expected no cache header on non-200, got %q", got)
	}
}

func TestNoCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/", NoCacheHeaders(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("Test request failed: %v", err)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-store, no-cache, must-revalidate" {
		t.Errorf("Cache-Control = %q", got)
	}
}
