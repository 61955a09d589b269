package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tap-wallet/tap_wallet/internal/deposit"
)

// RegisterDepositRoutes wires deposit endpoints.
func RegisterDepositRoutes(r fiber.Router, h *deposit.Handler) {
	r.Post("/deposits", h.Create)
}
