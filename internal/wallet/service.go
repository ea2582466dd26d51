package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/peerpay/peer_pay/internal/event"
	"github.com/peerpay/peer_pay/internal/notification"
)

// Service exposes the wallet ledger operations.
type Service struct {
	repo   Repository
	events event.Publisher
	logger *slog.Logger
}

// NewService builds a wallet service instance.
func NewService(repo Repository, events event.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, events: events, logger: logger}
}

// Create provisions a wallet for the user. Balance and currency are always
// reset to the defaults regardless of caller input, and no uniqueness check
// is made against existing wallets for the user.
func (s *Service) Create(ctx context.Context, userID string) (Wallet, error) {
	if userID == "" {
		return Wallet{}, ErrMissingUser
	}

	w := Wallet{
		ID:        uuid.New().String(),
		UserID:    userID,
		Balance:   decimal.Zero,
		Currency:  DefaultCurrency,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return Wallet{}, err
	}
	return w, nil
}

// GetByUser retrieves the user's wallet.
func (s *Service) GetByUser(ctx context.Context, userID string) (Wallet, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Debit removes funds from the wallet. No notification is emitted on debit.
func (s *Service) Debit(ctx context.Context, userID string, amount decimal.Decimal) (Wallet, error) {
	if !amount.IsPositive() {
		return Wallet{}, ErrInvalidAmount
	}
	return s.repo.Debit(ctx, userID, amount)
}

// Credit adds funds to the wallet, then emits a notification event to the
// wallet owner. The balance mutation is durable before the publish; a failed
// publish is logged and never undoes the credit.
func (s *Service) Credit(ctx context.Context, userID string, amount decimal.Decimal) (Wallet, error) {
	if !amount.IsPositive() {
		return Wallet{}, ErrInvalidAmount
	}

	w, err := s.repo.Credit(ctx, userID, amount)
	if err != nil {
		return Wallet{}, err
	}

	evt := event.Event{
		RecipientUserID: userID,
		Message:         fmt.Sprintf("You added %s to your wallet.", amount.StringFixed(2)),
		Type:            notification.TypeGeneral,
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Error("publish credit notification", "user_id", userID, "error", err)
	}

	return w, nil
}
