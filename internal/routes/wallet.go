package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tap-wallet/tap_wallet/internal/wallet"
)

// RegisterWalletRoutes wires funding source endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallet", h.Overview)
	r.Post("/wallet/reorder", h.Reorder)
}
