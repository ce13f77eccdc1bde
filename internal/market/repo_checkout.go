package market

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DraftItem is one validated cart line with its resolved product.
type DraftItem struct {
	Product Product
	Qty     int
}

// OrderDraft is one shop's share of a validated cart, ready to commit.
type OrderDraft struct {
	ShopID   string
	ShopName string
	SellerID string
	Items    []DraftItem
}

// Total is the sum of current unit price × quantity over the draft's items.
// These prices become the immutable snapshots on the order's line items.
func (d OrderDraft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}

func (d OrderDraft) ProductNames() []string {
	names := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		names = append(names, it.Product.Name)
	}
	return names
}

// CreateOrders commits every draft in one transaction: one pending order per
// draft, its line items, and a conditional stock decrement per item. The
// decrement is a single-statement compare-and-swap; losing the race on any
// product rolls back the whole checkout with nothing persisted.
func (r *Repo) CreateOrders(ctx context.Context, buyerID string, drafts []OrderDraft) ([]Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out := make([]Order, 0, len(drafts))
	for _, d := range drafts {
		o := Order{
			ID:       uuid.NewString(),
			BuyerID:  buyerID,
			ShopID:   d.ShopID,
			ShopName: d.ShopName,
			Status:   StatusPending,
			Total:    d.Total(),
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO orders(id, buyer_id, shop_id, status, total)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at`,
			o.ID, o.BuyerID, o.ShopID, string(o.Status), o.Total,
		).Scan(&o.CreatedAt)
		if err != nil {
			return nil, err
		}

		for _, it := range d.Items {
			ct, err := tx.Exec(ctx, `
				UPDATE products SET stock = stock - $2, updated_at = now()
				WHERE id = $1 AND stock >= $2`, it.Product.ID, it.Qty)
			if err != nil {
				return nil, err
			}
			if ct.RowsAffected() != 1 {
				// lost the race since validation; report live availability
				avail := 0
				_ = tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, it.Product.ID).Scan(&avail)
				return nil, &InsufficientStockError{
					ProductID: it.Product.ID,
					Name:      it.Product.Name,
					Requested: it.Qty,
					Available: avail,
				}
			}

			item := OrderItem{
				OrderID:   o.ID,
				ProductID: it.Product.ID,
				Name:      it.Product.Name,
				Qty:       it.Qty,
				Price:     it.Product.Price,
			}
			err = tx.QueryRow(ctx, `
				INSERT INTO order_items(order_id, product_id, qty, price)
				VALUES ($1, $2, $3, $4)
				RETURNING id`,
				item.OrderID, item.ProductID, item.Qty, item.Price,
			).Scan(&item.ID)
			if err != nil {
				return nil, err
			}
			o.Items = append(o.Items, item)
		}
		out = append(out, o)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
