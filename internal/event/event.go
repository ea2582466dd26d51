package event

import "context"

// Event is the payload carried on the notification channel. The recipient
// user id doubles as the partition key, so events for one user are always
// delivered in publish order.
type Event struct {
	RecipientUserID string `json:"recipient_user_id"`
	Message         string `json:"message"`
	Type            string `json:"type"`
}

// Publisher emits events onto the channel. Callers treat publish failures as
// best-effort: the primary state mutation is already committed and must not
// be rolled back.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Handler processes one delivered event. A non-nil error leaves the event
// unacknowledged so it is redelivered later; duplicates on redelivery are an
// accepted consequence of at-least-once delivery.
type Handler func(ctx context.Context, evt Event) error

// Consumer drains the channel, invoking the handler for each event and
// acknowledging only after the handler succeeds. Run blocks until the
// context is cancelled.
type Consumer interface {
	Run(ctx context.Context, handle Handler) error
}

// Channel combines both halves of the event bus.
type Channel interface {
	Publisher
	Consumer
}
