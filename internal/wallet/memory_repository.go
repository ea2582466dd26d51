package wallet

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// entry pairs a wallet with its own lock so mutations on different wallets
// proceed independently.
type entry struct {
	mu sync.Mutex
	w  Wallet
}

type memoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]*entry
}

// NewMemoryRepository constructs an in-memory repository for development and
// tests. Like the Postgres backend it tolerates duplicate wallets per user
// and addresses the earliest one.
func NewMemoryRepository() Repository {
	return &memoryRepository{byUser: make(map[string][]*entry)}
}

func (r *memoryRepository) Create(_ context.Context, w Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[w.UserID] = append(r.byUser[w.UserID], &entry{w: w})
	return nil
}

func (r *memoryRepository) GetByUser(_ context.Context, userID string) (Wallet, error) {
	e, err := r.first(userID)
	if err != nil {
		return Wallet{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.w, nil
}

func (r *memoryRepository) Debit(_ context.Context, userID string, amount decimal.Decimal) (Wallet, error) {
	e, err := r.first(userID)
	if err != nil {
		return Wallet{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.w.Balance.LessThan(amount) {
		return Wallet{}, ErrInsufficientFunds
	}
	e.w.Balance = e.w.Balance.Sub(amount)
	return e.w, nil
}

func (r *memoryRepository) Credit(_ context.Context, userID string, amount decimal.Decimal) (Wallet, error) {
	e, err := r.first(userID)
	if err != nil {
		return Wallet{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.w.Balance = e.w.Balance.Add(amount)
	return e.w, nil
}

func (r *memoryRepository) first(userID string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.byUser[userID]
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries[0], nil
}
