package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository persists wallets. Debit and Credit perform the balance
// read-modify-write atomically per wallet row; operations on different
// wallets never block each other.
type Repository interface {
	Create(ctx context.Context, w Wallet) error
	GetByUser(ctx context.Context, userID string) (Wallet, error)
	Debit(ctx context.Context, userID string, amount decimal.Decimal) (Wallet, error)
	Credit(ctx context.Context, userID string, amount decimal.Decimal) (Wallet, error)
}

// PostgresRepository stores wallets in PostgreSQL. Mutations are single
// conditional UPDATE statements, so row-level locking serializes concurrent
// debits and credits against the same wallet. When duplicate wallets exist
// for a user (creation does not enforce uniqueness) the earliest row is the
// one addressed.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet record.
func (r *PostgresRepository) Create(ctx context.Context, w Wallet) error {
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO wallets (id, user_id, balance, currency, created_at)
        VALUES ($1, $2, $3, $4, $5)`, id, w.UserID, w.Balance.String(), w.Currency, w.CreatedAt.UTC())
	return err
}

// GetByUser fetches the earliest wallet created for the user.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, balance::text, currency, created_at
        FROM wallets WHERE user_id = $1 ORDER BY created_at, id LIMIT 1`, userID)
	return scanWallet(row)
}

// Debit subtracts amount from the wallet balance only when funds cover it.
func (r *PostgresRepository) Debit(ctx context.Context, userID string, amount decimal.Decimal) (Wallet, error) {
	row := r.db.QueryRow(ctx, `UPDATE wallets SET balance = balance - $2
        WHERE id = (SELECT id FROM wallets WHERE user_id = $1 ORDER BY created_at, id LIMIT 1)
          AND balance >= $2
        RETURNING id, user_id, balance::text, currency, created_at`, userID, amount.String())
	w, err := scanWallet(row)
	if errors.Is(err, ErrNotFound) {
		// Distinguish a missing wallet from a guarded update that found
		// insufficient funds.
		if _, getErr := r.GetByUser(ctx, userID); getErr != nil {
			return Wallet{}, getErr
		}
		return Wallet{}, ErrInsufficientFunds
	}
	return w, err
}

// Credit adds amount to the wallet balance.
func (r *PostgresRepository) Credit(ctx context.Context, userID string, amount decimal.Decimal) (Wallet, error) {
	row := r.db.QueryRow(ctx, `UPDATE wallets SET balance = balance + $2
        WHERE id = (SELECT id FROM wallets WHERE user_id = $1 ORDER BY created_at, id LIMIT 1)
        RETURNING id, user_id, balance::text, currency, created_at`, userID, amount.String())
	return scanWallet(row)
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w         Wallet
		id        uuid.UUID
		balance   string
		createdAt time.Time
	)
	if err := row.Scan(&id, &w.UserID, &balance, &w.Currency, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	bal, err := decimal.NewFromString(balance)
	if err != nil {
		return Wallet{}, err
	}
	w.ID = id.String()
	w.Balance = bal
	w.CreatedAt = createdAt.UTC()
	return w, nil
}
