package market

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
}

// DisplayName is "first last" when set, otherwise the account handle.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Product carries the shop name and owner from the catalog join so that
// checkout validation needs no extra lookups.
type Product struct {
	ID        string
	ShopID    string
	ShopName  string
	OwnerID   string
	Name      string
	Price     decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID        string
	BuyerID   string
	ShopID    string
	ShopName  string
	Status    Status // see status.go
	Total     decimal.Decimal
	CreatedAt time.Time
	Items     []OrderItem
}

// OrderItem snapshots the unit price at purchase time; the row never changes
// afterwards even when the product is repriced.
type OrderItem struct {
	ID        int64
	OrderID   string
	ProductID string
	Name      string
	Qty       int
	Price     decimal.Decimal
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

type Notification struct {
	ID          string
	RecipientID string
	Type        string // new_order | order_processing | order_shipped | order_delivered | order_cancelled
	OrderID     string // empty when not linked to an order
	Message     string
	IsRead      bool
	CreatedAt   time.Time
}
