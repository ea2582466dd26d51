package request

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

// Request timestamps use a fixed zone rather than the server's local time.
var requestZone = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Service drives the money request lifecycle. It never moves funds: approval
// is a status change plus a notification, and composing the transfer is left
// to the surrounding system.
type Service struct {
	repo   Repository
	events event.Publisher
	logger *slog.Logger
}

// NewService builds a money request service.
func NewService(repo Repository, events event.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, events: events, logger: logger}
}

// CreateInput captures the data required to open a money request.
type CreateInput struct {
	RequesterID string
	RecipientID string
	Amount      decimal.Decimal
	Message     string
}

// Create opens a pending request and notifies the recipient.
func (s *Service) Create(ctx context.Context, input CreateInput) (MoneyRequest, error) {
	if input.RequesterID == "" || input.RecipientID == "" {
		return MoneyRequest{}, ErrMissingParty
	}
	if !input.Amount.IsPositive() {
		return MoneyRequest{}, ErrInvalidAmount
	}

	mr := MoneyRequest{
		ID:          uuid.New().String(),
		RequesterID: input.RequesterID,
		RecipientID: input.RecipientID,
		Amount:      input.Amount,
		Message:     input.Message,
		Status:      StatusPending,
		CreatedAt:   time.Now().In(requestZone),
	}

	if err := s.repo.Create(ctx, mr); err != nil {
		return MoneyRequest{}, err
	}

	s.publish(ctx, mr.RecipientID, fmt.Sprintf("You have a new money request for %s.", mr.Amount.StringFixed(2)))

	return mr, nil
}

// ListForUser returns the user's requests, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]MoneyRequest, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Approve transitions a pending request to approved and notifies the
// requester. Funds are not transferred.
func (s *Service) Approve(ctx context.Context, id string) error {
	mr, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatusIfPending(ctx, id, StatusApproved); err != nil {
		return err
	}

	s.publish(ctx, mr.RequesterID, fmt.Sprintf("Your money request for %s was approved.", mr.Amount.StringFixed(2)))
	return nil
}

// Reject transitions a pending request to rejected and notifies the requester.
func (s *Service) Reject(ctx context.Context, id string) error {
	mr, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatusIfPending(ctx, id, StatusRejected); err != nil {
		return err
	}

	s.publish(ctx, mr.RequesterID, fmt.Sprintf("Your money request for %s was rejected.", mr.Amount.StringFixed(2)))
	return nil
}

// Cancel deletes a pending request and notifies the recipient.
func (s *Service) Cancel(ctx context.Context, id string) error {
	mr, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteIfPending(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, mr.RecipientID, fmt.Sprintf("A money request for %s was cancelled.", mr.Amount.StringFixed(2)))
	return nil
}

// publish emits a workflow notification. Failures are logged; the already
// committed transition stands.
func (s *Service) publish(ctx context.Context, recipientID, message string) {
	evt := event.Event{
		RecipientUserID: recipientID,
		Message:         message,
		Type:            notification.TypeMoneyRequest,
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Error("publish request notification", "recipient_id", recipientID, "error", err)
	}
}
