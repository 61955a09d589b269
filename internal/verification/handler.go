package verification

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes identity verification endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a verification handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Start registers a new verification session and begins polling for proof.
func (h *Handler) Start(c *fiber.Ctx) error {
	sessionID, err := h.service.StartSession(c.UserContext())
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionActive):
			return fiber.NewError(http.StatusConflict, "a verification session is already in progress")
		case errors.Is(err, ErrRegistrationFailed):
			return fiber.NewError(http.StatusBadGateway, "failed to register the session on the registry")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"session_id": sessionID,
		"status":     StatusPending,
	})
}

// Status reports the verification state, including passport fields once
// verified.
func (h *Handler) Status(c *fiber.Ctx) error {
	snap := h.service.Status()

	payload := fiber.Map{
		"verified": snap.Verified,
	}
	if snap.Status != "" {
		payload["status"] = snap.Status
	}
	if snap.SessionID != "" {
		payload["session_id"] = snap.SessionID
	}
	if snap.Reason != "" {
		payload["reason"] = snap.Reason
	}
	if snap.Verified {
		payload["nationality"] = snap.Identity.Nationality
		payload["passport_number"] = snap.Identity.PassportNumber
	}

	return c.Status(http.StatusOK).JSON(payload)
}

// Forget clears the verified identity and cancels any active session.
func (h *Handler) Forget(c *fiber.Ctx) error {
	h.service.Forget()
	return c.SendStatus(http.StatusNoContent)
}
