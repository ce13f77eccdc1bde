package market

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// UpdateStatus sets the order's status after checking that the acting user
// owns the shop the order belongs to. Only the status column is written;
// total and line items stay untouched. The returned order carries the shop
// name and buyer id for the notification fan-out.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, newStatus Status, actingUserID string) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var o Order
	var ownerID, status string
	err = tx.QueryRow(ctx, `
		SELECT o.id, o.buyer_id, o.shop_id, s.name, s.owner_id, o.status, o.total, o.created_at
		FROM orders o JOIN shops s ON s.id = o.shop_id
		WHERE o.id = $1
		FOR UPDATE OF o`, orderID).
		Scan(&o.ID, &o.BuyerID, &o.ShopID, &o.ShopName, &ownerID, &status, &o.Total, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if ownerID != actingUserID {
		return Order{}, ErrNotAuthorized
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, orderID, string(newStatus)); err != nil {
		return Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	o.Status = newStatus
	return o, nil
}
