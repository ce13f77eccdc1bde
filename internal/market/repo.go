package market

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `p.id, p.shop_id, s.name, s.owner_id, p.name, p.price, p.stock, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.ShopID, &p.ShopName, &p.OwnerID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		SELECT `+productCols+`
		FROM products p JOIN shops s ON s.id = p.shop_id
		WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

// ListProducts returns the public catalog: in-stock products, newest first.
func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+productCols+`
		FROM products p JOIN shops s ON s.id = p.shop_id
		WHERE p.stock > 0
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, username, first_name, last_name FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName)
	return u, err
}

func (r *Repo) GetOrderStatus(ctx context.Context, orderID string) (Status, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}
	return Status(s), nil
}

// ListOrdersForBuyer returns the buyer's purchase history, newest first,
// with line items attached.
func (r *Repo) ListOrdersForBuyer(ctx context.Context, userID string) ([]Order, error) {
	return r.listOrders(ctx, `o.buyer_id = $1`, userID)
}

// ListOrdersForSeller returns incoming orders across all of the user's shops,
// newest first.
func (r *Repo) ListOrdersForSeller(ctx context.Context, userID string) ([]Order, error) {
	return r.listOrders(ctx, `s.owner_id = $1`, userID)
}

func (r *Repo) listOrders(ctx context.Context, where string, arg any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.buyer_id, o.shop_id, s.name, o.status, o.total, o.created_at
		FROM orders o JOIN shops s ON s.id = o.shop_id
		WHERE `+where+`
		ORDER BY o.created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	ids := []string{}
	byID := map[string]int{}
	for rows.Next() {
		var o Order
		var status string
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.ShopID, &o.ShopName, &status, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = Status(status)
		byID[o.ID] = len(out)
		ids = append(ids, o.ID)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	irows, err := r.DB.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, p.name, i.qty, i.price
		FROM order_items i JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.id`, ids)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var it OrderItem
		if err := irows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Qty, &it.Price); err != nil {
			return nil, err
		}
		if idx, ok := byID[it.OrderID]; ok {
			out[idx].Items = append(out[idx].Items, it)
		}
	}
	return out, irows.Err()
}
