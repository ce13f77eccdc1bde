package market

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "market-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload per event ----

// OrderPlacedPayload carries everything the notifier needs to address the
// seller without re-querying the catalog.
type OrderPlacedPayload struct {
	OrderID      string          `json:"order_id"`
	ShopID       string          `json:"shop_id"`
	ShopName     string          `json:"shop_name"`
	SellerID     string          `json:"seller_id"`
	BuyerID      string          `json:"buyer_id"`
	BuyerName    string          `json:"buyer_name"`
	Total        decimal.Decimal `json:"total"`
	ProductNames []string        `json:"product_names"`
}

type OrderStatusChangedPayload struct {
	OrderID   string `json:"order_id"`
	ShopName  string `json:"shop_name"`
	BuyerID   string `json:"buyer_id"`
	NewStatus Status `json:"new_status"`
}
