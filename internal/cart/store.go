package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/keinest/ecommerce-flow/internal/market"
	"github.com/keinest/ecommerce-flow/internal/redisx"
)

// Catalog resolves products for cart validation.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (market.Product, error)
}

// Result of an Add call.
type Result int

const (
	ResultAdded Result = iota
	// ResultStockLimit: the cart already holds all available units; the
	// quantity is left unchanged rather than failing the request.
	ResultStockLimit
)

type Line struct {
	ProductID string
	Qty       int
}

type DetailLine struct {
	Product  market.Product
	Qty      int
	Subtotal decimal.Decimal
}

// Store keeps one redis hash per buyer (product id -> quantity). The cart is
// advisory: everything here is re-validated against live stock at checkout.
type Store struct {
	Redis   *redis.Client
	Catalog Catalog
}

func key(userID string) string { return fmt.Sprintf(redisx.KeyCart, userID) }

// Add puts one unit of the product in the user's cart, capped at the
// product's current stock.
func (s *Store) Add(ctx context.Context, userID, productID string) (Result, error) {
	p, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p.OwnerID == userID {
		return 0, market.ErrSelfPurchase
	}
	if p.Stock <= 0 {
		return 0, market.ErrOutOfStock
	}

	cur, err := s.Redis.HGet(ctx, key(userID), productID).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	if cur >= p.Stock {
		return ResultStockLimit, nil
	}
	if err := s.Redis.HIncrBy(ctx, key(userID), productID, 1).Err(); err != nil {
		return 0, err
	}
	return ResultAdded, nil
}

// Remove drops the product from the cart; removing an absent product is a
// no-op.
func (s *Store) Remove(ctx context.Context, userID, productID string) error {
	return s.Redis.HDel(ctx, key(userID), productID).Err()
}

// Items returns the raw (product id, quantity) pairs, product id ascending.
func (s *Store) Items(ctx context.Context, userID string) ([]Line, error) {
	m, err := s.Redis.HGetAll(ctx, key(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Line, 0, len(m))
	for pid, raw := range m {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty <= 0 {
			continue
		}
		out = append(out, Line{ProductID: pid, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// Detail resolves every line for display. Entries whose product no longer
// exists are pruned from the hash and omitted (self-heal), not surfaced as
// errors.
func (s *Store) Detail(ctx context.Context, userID string) ([]DetailLine, decimal.Decimal, error) {
	lines, err := s.Items(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	out := make([]DetailLine, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		p, err := s.Catalog.GetProduct(ctx, l.ProductID)
		if errors.Is(err, market.ErrProductNotFound) {
			_ = s.Redis.HDel(ctx, key(userID), l.ProductID).Err()
			continue
		}
		if err != nil {
			return nil, decimal.Zero, err
		}
		sub := p.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
		total = total.Add(sub)
		out = append(out, DetailLine{Product: p, Qty: l.Qty, Subtotal: sub})
	}
	return out, total, nil
}

func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.Redis.Del(ctx, key(userID)).Err()
}
