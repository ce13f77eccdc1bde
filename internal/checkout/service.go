package checkout

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/keinest/ecommerce-flow/internal/cart"
	kafkax "github.com/keinest/ecommerce-flow/internal/kafka"
	"github.com/keinest/ecommerce-flow/internal/market"
)

type CartStore interface {
	Items(ctx context.Context, userID string) ([]cart.Line, error)
	Clear(ctx context.Context, userID string) error
}

type Catalog interface {
	GetProduct(ctx context.Context, id string) (market.Product, error)
	GetUser(ctx context.Context, id string) (market.User, error)
}

type OrderStore interface {
	CreateOrders(ctx context.Context, buyerID string, drafts []market.OrderDraft) ([]market.Order, error)
	UpdateStatus(ctx context.Context, orderID string, newStatus market.Status, actingUserID string) (market.Order, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service runs the checkout pipeline and order status transitions. Events go
// out only after the backing transaction has committed; the notifier turns
// them into notification rows.
type Service struct {
	Cart           CartStore
	Catalog        Catalog
	Orders         OrderStore
	ProducerPlaced Publisher // order.placed
	ProducerStatus Publisher // order.status.changed
	ServiceName    string
}

// Checkout converts the buyer's cart into one pending order per shop.
// The whole cart is validated before anything is written; any failure
// rejects the checkout with no orders created and no stock touched.
func (s *Service) Checkout(ctx context.Context, buyerID, traceID string) ([]market.Order, error) {
	lines, err := s.Cart.Items(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, market.ErrEmptyCart
	}

	// resolve + validate everything up front
	resolved := make([]market.DraftItem, 0, len(lines))
	for _, l := range lines {
		p, err := s.Catalog.GetProduct(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p.OwnerID == buyerID {
			return nil, market.ErrSelfPurchase
		}
		if l.Qty > p.Stock {
			return nil, &market.InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Requested: l.Qty,
				Available: p.Stock,
			}
		}
		resolved = append(resolved, market.DraftItem{Product: p, Qty: l.Qty})
	}

	buyer, err := s.Catalog.GetUser(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	drafts := partitionByShop(resolved)
	orders, err := s.Orders.CreateOrders(ctx, buyerID, drafts)
	if err != nil {
		return nil, err
	}

	for i, o := range orders {
		s.publishPlaced(o, drafts[i], buyer, traceID)
	}

	// orders are committed at this point; a cart that failed to clear is
	// re-validated on the next checkout, so don't fail the request over it
	if err := s.Cart.Clear(ctx, buyerID); err != nil {
		log.Printf("cart clear after checkout for %s: %v", buyerID, err)
	}
	return orders, nil
}

// partitionByShop groups validated lines into one draft per shop, shop id
// ascending so a checkout's orders come out in a stable order.
func partitionByShop(items []market.DraftItem) []market.OrderDraft {
	byShop := map[string]*market.OrderDraft{}
	for _, it := range items {
		d, ok := byShop[it.Product.ShopID]
		if !ok {
			d = &market.OrderDraft{
				ShopID:   it.Product.ShopID,
				ShopName: it.Product.ShopName,
				SellerID: it.Product.OwnerID,
			}
			byShop[it.Product.ShopID] = d
		}
		d.Items = append(d.Items, it)
	}

	ids := make([]string, 0, len(byShop))
	for id := range byShop {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]market.OrderDraft, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byShop[id])
	}
	return out
}

// SetStatus moves an order to one of the five recognized statuses. Only the
// shop owner may transition; any valid status is reachable from any state.
// Every transition except into pending notifies the buyer.
func (s *Service) SetStatus(ctx context.Context, orderID string, newStatus market.Status, actingUserID, traceID string) (market.Order, error) {
	if !newStatus.Valid() {
		return market.Order{}, market.ErrInvalidStatus
	}
	o, err := s.Orders.UpdateStatus(ctx, orderID, newStatus, actingUserID)
	if err != nil {
		return market.Order{}, err
	}
	if newStatus.Notifies() {
		s.publish(s.ProducerStatus, o.ID, market.EventOrderStatusChanged, traceID, market.OrderStatusChangedPayload{
			OrderID:   o.ID,
			ShopName:  o.ShopName,
			BuyerID:   o.BuyerID,
			NewStatus: newStatus,
		})
	}
	return o, nil
}

func (s *Service) publishPlaced(o market.Order, d market.OrderDraft, buyer market.User, traceID string) {
	s.publish(s.ProducerPlaced, o.ID, market.EventOrderPlaced, traceID, market.OrderPlacedPayload{
		OrderID:      o.ID,
		ShopID:       o.ShopID,
		ShopName:     o.ShopName,
		SellerID:     d.SellerID,
		BuyerID:      o.BuyerID,
		BuyerName:    buyer.DisplayName(),
		Total:        o.Total,
		ProductNames: d.ProductNames(),
	})
}

func (s *Service) publish(p Publisher, orderID, eventType, traceID string, payload any) {
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(market.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
