package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/keinest/ecommerce-flow/internal/kafka"
	"github.com/keinest/ecommerce-flow/internal/market"
)

type memStore struct {
	notifs []market.Notification
}

func (m *memStore) Create(_ context.Context, n market.Notification) (market.Notification, error) {
	m.notifs = append(m.notifs, n)
	return n, nil
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := &memStore{}
	return &Service{
		Store:       store,
		Redis:       redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		ServiceName: "notifier-test",
	}, store
}

func envelopeMsg(t *testing.T, eventID, eventType string, payload any) kafkago.Message {
	t.Helper()
	ev := market.Envelope{
		EventID:      eventID,
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test",
		Payload:      kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(ev)}
}

func placedMsg(t *testing.T, eventID string) kafkago.Message {
	return envelopeMsg(t, eventID, market.EventOrderPlaced, market.OrderPlacedPayload{
		OrderID:      "o1",
		ShopID:       "s1",
		ShopName:     "Alpha",
		SellerID:     "alice",
		BuyerID:      "buyer",
		BuyerName:    "Ann Lee",
		Total:        decimal.RequireFromString("20.00"),
		ProductNames: []string{"Mug"},
	})
}

func TestHandleOrderPlaced(t *testing.T) {
	svc, store := newTestService(t)

	require.NoError(t, svc.HandleOrderPlaced(context.Background(), placedMsg(t, "ev-1")))

	require.Len(t, store.notifs, 1)
	n := store.notifs[0]
	assert.Equal(t, "alice", n.RecipientID)
	assert.Equal(t, TypeNewOrder, n.Type)
	assert.Equal(t, "o1", n.OrderID)
	assert.Contains(t, n.Message, "Ann Lee")
	assert.Contains(t, n.Message, "20.00")
}

func TestHandleOrderPlacedDedup(t *testing.T) {
	svc, store := newTestService(t)

	// redelivery of the same event must not create a second row
	require.NoError(t, svc.HandleOrderPlaced(context.Background(), placedMsg(t, "ev-1")))
	require.NoError(t, svc.HandleOrderPlaced(context.Background(), placedMsg(t, "ev-1")))
	assert.Len(t, store.notifs, 1)

	require.NoError(t, svc.HandleOrderPlaced(context.Background(), placedMsg(t, "ev-2")))
	assert.Len(t, store.notifs, 2)
}

func TestHandleOrderPlacedIgnoresForeignEvents(t *testing.T) {
	svc, store := newTestService(t)

	m := envelopeMsg(t, "ev-1", "SomethingElse", map[string]string{"k": "v"})
	require.NoError(t, svc.HandleOrderPlaced(context.Background(), m))
	assert.Empty(t, store.notifs)
}

func TestHandleStatusChanged(t *testing.T) {
	svc, store := newTestService(t)

	m := envelopeMsg(t, "ev-1", market.EventOrderStatusChanged, market.OrderStatusChangedPayload{
		OrderID:   "o1",
		ShopName:  "Alpha",
		BuyerID:   "buyer",
		NewStatus: market.StatusDelivered,
	})
	require.NoError(t, svc.HandleStatusChanged(context.Background(), m))

	require.Len(t, store.notifs, 1)
	n := store.notifs[0]
	assert.Equal(t, "buyer", n.RecipientID)
	assert.Equal(t, "order_delivered", n.Type)
	assert.Contains(t, n.Message, "delivered")
}

func TestHandleStatusChangedPendingIsSilent(t *testing.T) {
	svc, store := newTestService(t)

	m := envelopeMsg(t, "ev-1", market.EventOrderStatusChanged, market.OrderStatusChangedPayload{
		OrderID:   "o1",
		ShopName:  "Alpha",
		BuyerID:   "buyer",
		NewStatus: market.StatusPending,
	})
	require.NoError(t, svc.HandleStatusChanged(context.Background(), m))
	assert.Empty(t, store.notifs)
}
