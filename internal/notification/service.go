package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/peerpay/peer_pay/internal/event"
)

// Service exposes the notification store and acts as the consumer side of
// the event channel.
type Service struct {
	repo Repository
}

// NewService builds a notification service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record persists a new unread notification stamped with the current time.
func (s *Service) Record(ctx context.Context, userID, message, typ string) (Notification, error) {
	n := Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Type:      typ,
		Read:      false,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

// MarkRead flips a notification to read. Idempotent for already-read rows.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

// HandleEvent persists a delivered channel event as a notification row. It
// is the handler handed to the channel consumer; returning an error leaves
// the event unacknowledged for redelivery, so a crash between persistence
// and ack may produce a duplicate row, which the store accepts.
func (s *Service) HandleEvent(ctx context.Context, evt event.Event) error {
	typ := evt.Type
	if typ == "" {
		typ = TypeGeneral
	}
	_, err := s.Record(ctx, evt.RecipientUserID, evt.Message, typ)
	return err
}
