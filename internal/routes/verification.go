package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tap-wallet/tap_wallet/internal/verification"
)

// RegisterVerificationRoutes wires identity verification endpoints. Session
// starts go through the rate limiter since each registers remotely.
func RegisterVerificationRoutes(r fiber.Router, h *verification.Handler, rateLimiter fiber.Handler) {
	r.Post("/verification", rateLimiter, h.Start)
	r.Get("/verification", h.Status)
	r.Delete("/verification", h.Forget)
}
