package notification

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.Mutex
	storage map[string]Notification
}

// NewMemoryRepository constructs an in-memory repository for development and
// tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Notification)}
}

func (r *memoryRepository) Insert(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[n.ID] = n
	return nil
}

func (r *memoryRepository) ListForUser(_ context.Context, userID string) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notifications := make([]Notification, 0)
	for _, n := range r.storage {
		if n.UserID == userID {
			notifications = append(notifications, n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].Timestamp.After(notifications[j].Timestamp)
	})
	return notifications, nil
}

func (r *memoryRepository) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.storage[id]
	if !ok {
		return ErrNotFound
	}
	n.Read = true
	// Key with the value's own id: the caller's id may be a mutable view into
	// fiber's reused URI buffer, and a map assignment would retain it as the key.
	r.storage[n.ID] = n
	return nil
}
