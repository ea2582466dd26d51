package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists notifications.
type Repository interface {
	Insert(ctx context.Context, n Notification) error
	ListForUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// PostgresRepository stores notifications in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert creates a notification row.
func (r *PostgresRepository) Insert(ctx context.Context, n Notification) error {
	id, err := uuid.Parse(n.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO notifications (id, user_id, message, type, read, timestamp)
        VALUES ($1, $2, $3, $4, $5, $6)`, id, n.UserID, n.Message, n.Type, n.Read, n.Timestamp.UTC())
	return err
}

// ListForUser returns the user's notifications, newest first.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, message, type, read, timestamp
        FROM notifications WHERE user_id = $1 ORDER BY timestamp DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		var (
			n  Notification
			id uuid.UUID
			ts time.Time
		)
		if err := rows.Scan(&id, &n.UserID, &n.Message, &n.Type, &n.Read, &ts); err != nil {
			return nil, err
		}
		n.ID = id.String()
		n.Timestamp = ts.UTC()
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flips the read flag. Re-marking an already-read notification is a
// successful no-op.
func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	nID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, nID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
