package request

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.Mutex
	storage map[string]MoneyRequest
}

// NewMemoryRepository constructs an in-memory repository for development and
// tests. The single mutex gives the same check-and-mutate atomicity the
// Postgres backend gets from its conditional statements.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]MoneyRequest)}
}

func (r *memoryRepository) Create(_ context.Context, mr MoneyRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[mr.ID] = mr
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (MoneyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mr, ok := r.storage[id]
	if !ok {
		return MoneyRequest{}, ErrNotFound
	}
	return mr, nil
}

func (r *memoryRepository) ListForUser(_ context.Context, userID string) ([]MoneyRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	requests := make([]MoneyRequest, 0)
	for _, mr := range r.storage {
		if mr.RequesterID == userID || mr.RecipientID == userID {
			requests = append(requests, mr)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (r *memoryRepository) UpdateStatusIfPending(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mr, ok := r.storage[id]
	if !ok {
		return ErrNotFound
	}
	if mr.Status != StatusPending {
		return ErrNotPending
	}
	mr.Status = status
	// Key with the value's own id: the caller's id may be a mutable view into
	// fiber's reused URI buffer, and a map assignment would retain it as the key.
	r.storage[mr.ID] = mr
	return nil
}

func (r *memoryRepository) DeleteIfPending(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mr, ok := r.storage[id]
	if !ok {
		return ErrNotFound
	}
	if mr.Status != StatusPending {
		return ErrNotPending
	}
	delete(r.storage, id)
	return nil
}
