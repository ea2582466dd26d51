package request

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes money request HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a money request HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	RequesterID string          `json:"requester_id"`
	RecipientID string          `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	Message     string          `json:"message"`
}

// Create opens a new money request.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	mr, err := h.service.Create(c.UserContext(), CreateInput{
		RequesterID: req.RequesterID,
		RecipientID: req.RecipientID,
		Amount:      req.Amount,
		Message:     req.Message,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrMissingParty) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to create money request")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Money request created successfully",
		"request": mr,
	})
}

// ListForUser lists requests where the user is requester or recipient.
func (h *Handler) ListForUser(c *fiber.Ctx) error {
	requests, err := h.service.ListForUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to fetch user requests")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"requests": requests})
}

// Approve marks a pending request approved.
func (h *Handler) Approve(c *fiber.Ctx) error {
	if err := h.service.Approve(c.UserContext(), c.Params("id")); err != nil {
		return transitionError(err, "approve")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Money request approved successfully"})
}

// Reject marks a pending request rejected.
func (h *Handler) Reject(c *fiber.Ctx) error {
	if err := h.service.Reject(c.UserContext(), c.Params("id")); err != nil {
		return transitionError(err, "reject")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Money request rejected successfully"})
}

// Cancel deletes a pending request.
func (h *Handler) Cancel(c *fiber.Ctx) error {
	if err := h.service.Cancel(c.UserContext(), c.Params("id")); err != nil {
		return transitionError(err, "cancel")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Money request cancelled successfully"})
}

func transitionError(err error, action string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "money request not found")
	case errors.Is(err, ErrNotPending):
		return fiber.NewError(http.StatusBadRequest, "request is not in pending status")
	default:
		return fiber.NewError(http.StatusInternalServerError, "failed to "+action+" request")
	}
}
