package request

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository persists money requests. The conditional mutations implement
// the single-shot transition contract: they succeed only while the row is
// still pending, so concurrent approve/reject/cancel calls on one id cannot
// both take effect.
type Repository interface {
	Create(ctx context.Context, mr MoneyRequest) error
	Get(ctx context.Context, id string) (MoneyRequest, error)
	ListForUser(ctx context.Context, userID string) ([]MoneyRequest, error)
	UpdateStatusIfPending(ctx context.Context, id, status string) error
	DeleteIfPending(ctx context.Context, id string) error
}

// PostgresRepository stores money requests in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a money request record.
func (r *PostgresRepository) Create(ctx context.Context, mr MoneyRequest) error {
	id, err := uuid.Parse(mr.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO money_requests (id, requester_id, recipient_id, amount, message, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, mr.RequesterID, mr.RecipientID, mr.Amount.String(), mr.Message, mr.Status, mr.CreatedAt)
	return err
}

// Get fetches a money request by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (MoneyRequest, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return MoneyRequest{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, requester_id, recipient_id, amount::text, message, status, created_at
        FROM money_requests WHERE id = $1`, reqID)
	return scanRequest(row)
}

// ListForUser returns requests where the user is requester or recipient,
// newest first.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]MoneyRequest, error) {
	rows, err := r.db.Query(ctx, `SELECT id, requester_id, recipient_id, amount::text, message, status, created_at
        FROM money_requests WHERE requester_id = $1 OR recipient_id = $1
        ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]MoneyRequest, 0)
	for rows.Next() {
		mr, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, mr)
	}
	return requests, rows.Err()
}

// UpdateStatusIfPending transitions the request out of pending. The status
// guard in the UPDATE is the compare-and-set that serializes concurrent
// transitions on one id.
func (r *PostgresRepository) UpdateStatusIfPending(ctx context.Context, id, status string) error {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `UPDATE money_requests SET status = $2
        WHERE id = $1 AND status = $3`, reqID, status, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.missOutcome(ctx, reqID)
	}
	return nil
}

// DeleteIfPending removes the request only while it is still pending.
func (r *PostgresRepository) DeleteIfPending(ctx context.Context, id string) error {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM money_requests WHERE id = $1 AND status = $2`, reqID, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.missOutcome(ctx, reqID)
	}
	return nil
}

// missOutcome maps a zero-row conditional mutation to the precise failure:
// the row is either absent or no longer pending.
func (r *PostgresRepository) missOutcome(ctx context.Context, id uuid.UUID) error {
	var status string
	err := r.db.QueryRow(ctx, `SELECT status FROM money_requests WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrNotPending
}

func scanRequest(row pgx.Row) (MoneyRequest, error) {
	var (
		mr        MoneyRequest
		id        uuid.UUID
		amount    string
		createdAt time.Time
	)
	if err := row.Scan(&id, &mr.RequesterID, &mr.RecipientID, &amount, &mr.Message, &mr.Status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MoneyRequest{}, ErrNotFound
		}
		return MoneyRequest{}, err
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return MoneyRequest{}, err
	}
	mr.ID = id.String()
	mr.Amount = amt
	mr.CreatedAt = createdAt
	return mr, nil
}
