package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tap-wallet/tap_wallet/internal/settlement"
)

// RegisterPayRoutes wires the tap-to-pay endpoints.
func RegisterPayRoutes(r fiber.Router, h *settlement.Handler) {
	r.Post("/pay", h.Charge)
	r.Get("/pay/status", h.Status)
}
