package request

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates no money request exists with the given id.
	ErrNotFound = errors.New("money request not found")

	// ErrNotPending occurs when a transition is attempted on a request that
	// already left the pending state.
	ErrNotPending = errors.New("request is not in pending status")

	// ErrInvalidAmount indicates a non-positive request amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrMissingParty indicates an absent requester or recipient id.
	ErrMissingParty = errors.New("requester and recipient ids are required")
)

// Money request lifecycle states. Transitions only originate from pending;
// cancellation deletes the record instead of recording a terminal state.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MoneyRequest is a requester's ask for funds from a recipient.
type MoneyRequest struct {
	ID          string          `json:"id"`
	RequesterID string          `json:"requester_id"`
	RecipientID string          `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	Message     string          `json:"message"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}
