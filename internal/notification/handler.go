package notification

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes notification HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a notification HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListForUser returns the notifications for the user given by the id query
// parameter.
func (h *Handler) ListForUser(c *fiber.Ctx) error {
	userID := c.Query("id")
	if userID == "" {
		return fiber.NewError(http.StatusBadRequest, "id query parameter is required")
	}
	notifications, err := h.service.ListForUser(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to fetch notifications")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"notifications": notifications})
}

// MarkRead marks a notification as read.
func (h *Handler) MarkRead(c *fiber.Ctx) error {
	if err := h.service.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "notification not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to mark notification read")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Notification marked as read"})
}
