package middleware

import (
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func TestVerificationRateLimitBlocksAfterBudget(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Post("/verification", VerificationRateLimit(cache, 2), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	for i, wantStatus := range []int{fiber.StatusCreated, fiber.StatusCreated, fiber.StatusTooManyRequests} {
		req := httptest.NewRequest(fiber.MethodPost, "/verification", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != wantStatus {
			t.Fatalf("request %d: expected %d got %d", i, wantStatus, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestVerificationRateLimitNoOpWithoutRedis(t *testing.T) {
	app := fiber.New()
	app.Post("/verification", VerificationRateLimit(nil, 1), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/verification", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("limiter without redis must be a no-op, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}
}
