package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keinest/ecommerce-flow/internal/cart"
	kafkax "github.com/keinest/ecommerce-flow/internal/kafka"
	"github.com/keinest/ecommerce-flow/internal/market"
	"github.com/keinest/ecommerce-flow/internal/notify"
)

// syncPublisher hands every published event straight to a consumer handler,
// standing in for the kafka round trip.
type syncPublisher struct {
	t       *testing.T
	handler kafkax.Handler
}

func (p *syncPublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	require.NoError(p.t, p.handler(context.Background(), kafkago.Message{Key: key, Value: value, Headers: headers}))
}

type memNotifStore struct {
	notifs []market.Notification
}

func (m *memNotifStore) Create(_ context.Context, n market.Notification) (market.Notification, error) {
	n.ID = fmt.Sprintf("n-%d", len(m.notifs)+1)
	m.notifs = append(m.notifs, n)
	return n, nil
}

func newNotifier(t *testing.T) (*notify.Service, *memNotifStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := &memNotifStore{}
	return &notify.Service{
		Store:       store,
		Redis:       redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		ServiceName: "notifier-test",
	}, store
}

func TestCheckoutNotifiesEachSeller(t *testing.T) {
	notifier, store := newNotifier(t)
	fc := &fakeCart{lines: []cart.Line{{ProductID: "P1", Qty: 2}, {ProductID: "P2", Qty: 1}}}
	svc, _, _ := newService(fc, twoShopCatalog(), &fakeOrders{})
	svc.ProducerPlaced = &syncPublisher{t: t, handler: notifier.HandleOrderPlaced}

	_, err := svc.Checkout(context.Background(), "buyer", "")
	require.NoError(t, err)

	require.Len(t, store.notifs, 2)
	bySeller := map[string]market.Notification{}
	for _, n := range store.notifs {
		assert.Equal(t, notify.TypeNewOrder, n.Type)
		bySeller[n.RecipientID] = n
	}
	require.Contains(t, bySeller, "alice")
	require.Contains(t, bySeller, "bob")
	assert.Contains(t, bySeller["alice"].Message, `"Alpha"`)
	assert.Contains(t, bySeller["alice"].Message, "Ann Lee")
	assert.Contains(t, bySeller["alice"].Message, "20.00")
	assert.Contains(t, bySeller["alice"].Message, "Mug")
	assert.Contains(t, bySeller["bob"].Message, "Poster")
}

func TestShippedTransitionNotifiesBuyerOnce(t *testing.T) {
	notifier, store := newNotifier(t)
	fo := &fakeOrders{order: market.Order{BuyerID: "buyer", ShopID: "s1", ShopName: "Alpha"}}
	svc, _, _ := newService(&fakeCart{}, twoShopCatalog(), fo)
	svc.ProducerStatus = &syncPublisher{t: t, handler: notifier.HandleStatusChanged}

	_, err := svc.SetStatus(context.Background(), "order-1", market.StatusShipped, "alice", "")
	require.NoError(t, err)

	require.Len(t, store.notifs, 1)
	n := store.notifs[0]
	assert.Equal(t, "buyer", n.RecipientID)
	assert.Equal(t, "order_shipped", n.Type)
	assert.Equal(t, "order-1", n.OrderID)
	assert.Contains(t, n.Message, "shipped")
}
