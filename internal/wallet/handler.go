package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tap-wallet/tap_wallet/internal/ledger"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type itemResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Priority             int    `json:"priority"`
	BalanceCents         int64  `json:"balance_cents"`
	RequiresVerification bool   `json:"requires_verification"`
	Disabled             bool   `json:"disabled"`
	PendingTxReference   string `json:"pending_tx_reference,omitempty"`
	PendingAmountCents   int64  `json:"pending_amount_cents,omitempty"`
}

type reorderRequest struct {
	FromIndex int `json:"from_index"`
	ToIndex   int `json:"to_index"`
}

// Overview returns funding sources ordered by priority plus the total balance.
func (h *Handler) Overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	items := make([]itemResponse, 0, len(overview.Items))
	for _, item := range overview.Items {
		items = append(items, itemResponse{
			ID:                   item.ID,
			Name:                 item.Name,
			Priority:             item.Priority,
			BalanceCents:         item.Balance,
			RequiresVerification: item.RequiresVerification,
			Disabled:             item.Disabled,
			PendingTxReference:   item.PendingTxReference,
			PendingAmountCents:   item.PendingAmount,
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"funding_sources":     items,
		"total_balance_cents": overview.TotalBalance,
		"verified":            overview.Verified,
	})
}

// Reorder moves one funding source to a new position in the priority order.
func (h *Handler) Reorder(c *fiber.Ctx) error {
	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.Reorder(c.UserContext(), req.FromIndex, req.ToIndex); err != nil {
		if errors.Is(err, ledger.ErrIndexOutOfRange) {
			return fiber.NewError(http.StatusBadRequest, "reorder index out of range")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
