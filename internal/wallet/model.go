package wallet

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates no wallet exists for the requested user.
	ErrNotFound = errors.New("wallet not found")

	// ErrInsufficientFunds occurs when a debit exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount indicates a non-positive debit or credit amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrMissingUser indicates an absent user id on wallet creation.
	ErrMissingUser = errors.New("user id is required")
)

// DefaultCurrency is forced onto every wallet at creation, regardless of
// caller input.
const DefaultCurrency = "INR"

// Wallet holds a user's balance in the fixed default currency.
type Wallet struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}
