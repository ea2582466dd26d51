package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	UserID string `json:"user_id"`
	// Balance and currency fields, if supplied, are ignored: both are reset
	// to the defaults on creation.
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

type transactionRequest struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Create provisions a wallet for the given user.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.Create(c.UserContext(), req.UserID)
	if err != nil {
		if errors.Is(err, ErrMissingUser) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to create wallet")
	}
	return c.Status(http.StatusOK).JSON(w)
}

// GetByUser returns the wallet owned by the user in the path.
func (h *Handler) GetByUser(c *fiber.Ctx) error {
	w, err := h.service.GetByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to fetch wallet")
	}
	return c.Status(http.StatusOK).JSON(w)
}

// Debit removes funds from a wallet.
func (h *Handler) Debit(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.Debit(c.UserContext(), req.UserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientFunds):
			return fiber.NewError(http.StatusBadRequest, "insufficient funds")
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusBadRequest, "wallet not found")
		case errors.Is(err, ErrInvalidAmount):
			return fiber.NewError(http.StatusBadRequest, "amount must be positive")
		default:
			return fiber.NewError(http.StatusInternalServerError, "failed to debit wallet")
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user_id": w.UserID, "balance": w.Balance})
}

// Credit adds funds to a wallet.
func (h *Handler) Credit(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.Credit(c.UserContext(), req.UserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusBadRequest, "wallet not found")
		case errors.Is(err, ErrInvalidAmount):
			return fiber.NewError(http.StatusBadRequest, "amount must be positive")
		default:
			return fiber.NewError(http.StatusInternalServerError, "failed to credit wallet")
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user_id": w.UserID, "balance": w.Balance})
}
