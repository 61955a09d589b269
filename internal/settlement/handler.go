package settlement

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the tap-to-pay charge endpoints.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a charge handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type chargeRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

// Charge starts a charge. The engine processes asynchronously; callers
// follow progress via Status.
func (h *Handler) Charge(c *fiber.Ctx) error {
	var req chargeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	_, err := h.engine.Charge(c.UserContext(), req.AmountCents)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			return fiber.NewError(http.StatusBadRequest, "charge amount must be positive")
		case errors.Is(err, ErrChargeInProgress):
			return fiber.NewError(http.StatusConflict, "charge already in progress")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"state": StateProcessing,
	})
}

// Status reports the charge state machine snapshot.
func (h *Handler) Status(c *fiber.Ctx) error {
	snap := h.engine.Status()

	payload := fiber.Map{
		"state":         snap.State,
		"error_message": snap.ErrorMessage,
	}
	if snap.LastOutcome != nil {
		outcome := fiber.Map{
			"charge_id":    snap.LastOutcome.ChargeID,
			"amount_cents": snap.LastOutcome.Amount,
		}
		if snap.LastOutcome.Err != nil {
			outcome["error"] = snap.LastOutcome.Err.Error()
		} else {
			outcome["source_id"] = snap.LastOutcome.SourceID
			outcome["new_balance_cents"] = snap.LastOutcome.NewBalance
		}
		payload["last_outcome"] = outcome
	}

	return c.Status(http.StatusOK).JSON(payload)
}
