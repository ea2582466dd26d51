package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/peerpay/peer_pay/internal/request"
)

// RegisterRequestRoutes wires money request endpoints.
func RegisterRequestRoutes(r fiber.Router, h *request.Handler) {
	r.Post("/requests/create", h.Create)
	r.Get("/requests/user/:userId", h.ListForUser)
	r.Put("/requests/:id/approve", h.Approve)
	r.Put("/requests/:id/reject", h.Reject)
	r.Delete("/requests/:id", h.Cancel)
}
