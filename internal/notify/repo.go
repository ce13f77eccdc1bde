package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keinest/ecommerce-flow/internal/market"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, n market.Notification) (market.Notification, error) {
	n.ID = uuid.NewString()
	var orderID any
	if n.OrderID != "" {
		orderID = n.OrderID
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO notifications(id, recipient_id, notif_type, order_id, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		n.ID, n.RecipientID, n.Type, orderID, n.Message,
	).Scan(&n.CreatedAt)
	return n, err
}

// ListFor returns the user's notifications, newest first.
func (r *Repo) ListFor(ctx context.Context, userID string) ([]market.Notification, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, recipient_id, notif_type, COALESCE(order_id::text, ''), message, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Notification
	for rows.Next() {
		var n market.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.OrderID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flips is_read on a single notification. A missing row and a row
// addressed to someone else are indistinguishable to the caller.
func (r *Repo) MarkRead(ctx context.Context, id, userID string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE notifications SET is_read = true
		WHERE id = $1 AND recipient_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return market.ErrNotifNotFound
	}
	return nil
}

func (r *Repo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE notifications SET is_read = true
		WHERE recipient_id = $1 AND is_read = false`, userID)
	return err
}

func (r *Repo) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE recipient_id = $1 AND is_read = false`, userID).Scan(&n)
	return n, err
}
