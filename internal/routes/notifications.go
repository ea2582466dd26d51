package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/peerpay/peer_pay/internal/notification"
)

// RegisterNotificationRoutes wires notification endpoints.
func RegisterNotificationRoutes(r fiber.Router, h *notification.Handler) {
	r.Get("/notifications/user", h.ListForUser)
	r.Put("/notifications/:id/read", h.MarkRead)
}
