package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/keinest/ecommerce-flow/internal/kafka"
	"github.com/keinest/ecommerce-flow/internal/market"
	"github.com/keinest/ecommerce-flow/internal/redisx"
)

type Store interface {
	Create(ctx context.Context, n market.Notification) (market.Notification, error)
}

// Service turns order events into durable notification rows. Delivery is
// at-least-once; redis dedup on event_id keeps retries from piling up rows.
type Service struct {
	Store       Store
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderPlaced notifies the shop owner about a new order.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != market.EventOrderPlaced {
		return nil
	} // ignore
	if s.seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[market.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}
	_, err = s.Store.Create(ctx, market.Notification{
		RecipientID: p.SellerID,
		Type:        TypeNewOrder,
		OrderID:     p.OrderID,
		Message:     NewOrderMessage(p.OrderID, p.ShopName, p.BuyerName, p.Total, p.ProductNames),
	})
	return err
}

// HandleStatusChanged notifies the buyer about a status transition.
func (s *Service) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != market.EventOrderStatusChanged {
		return nil
	}
	if s.seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[market.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}
	msg, ok := StatusMessage(p.NewStatus, p.OrderID, p.ShopName)
	if !ok {
		return nil
	}
	_, err = s.Store.Create(ctx, market.Notification{
		RecipientID: p.BuyerID,
		Type:        p.NewStatus.NotifType(),
		OrderID:     p.OrderID,
		Message:     msg,
	})
	return err
}

// seen marks the event as processed and reports whether it already was.
func (s *Service) seen(ctx context.Context, eventID string) bool {
	key := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, eventID)
	exists, _ := redisx.Exists(ctx, s.Redis, key)
	if exists {
		return true
	}
	_ = s.Redis.Set(ctx, key, "1", redisx.TTLDedup).Err()
	return false
}
