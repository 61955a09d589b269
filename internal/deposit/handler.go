package deposit

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tap-wallet/tap_wallet/internal/ledger"
)

// Handler exposes deposit endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a deposit handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type depositRequest struct {
	SourceID    string `json:"source_id"`
	AmountCents int64  `json:"amount_cents"`
}

// Create initiates a deposit on a funding source.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Deposit(c.UserContext(), req.SourceID, req.AmountCents)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrPendingExists):
			return fiber.NewError(http.StatusConflict, "a deposit is already pending on this funding source")
		case errors.Is(err, ledger.ErrUnknownSource):
			return fiber.NewError(http.StatusNotFound, "unknown funding source")
		case errors.Is(err, ledger.ErrNegativeAmount):
			return fiber.NewError(http.StatusBadRequest, "deposit amount must be positive")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"source_id":    result.SourceID,
		"amount_cents": result.Amount,
		"tx_reference": result.TxReference,
		"initiated_at": result.InitiatedAt,
	})
}
