package notification

import (
	"errors"
	"time"
)

// ErrNotFound indicates no notification exists with the given id.
var ErrNotFound = errors.New("notification not found")

// Notification types stamped onto events by the producing services.
const (
	// TypeGeneral is the default type for ledger events such as wallet credits.
	TypeGeneral = "General"
	// TypeMoneyRequest marks events produced by the money request workflow.
	TypeMoneyRequest = "Money Request"
)

// Notification is a persisted, markable-read message delivered to a user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}
