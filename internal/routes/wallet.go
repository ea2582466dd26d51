package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/peerpay/peer_pay/internal/wallet"
)

// RegisterWalletRoutes wires wallet-related endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallets", h.Create)
	r.Get("/wallets/user/:userId", h.GetByUser)
	r.Post("/wallets/debit", h.Debit)
	r.Post("/wallets/credit", h.Credit)
}
