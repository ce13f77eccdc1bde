package market

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrProductNotFound = errors.New("product not found")
	ErrSelfPurchase    = errors.New("cannot order products from your own shop")
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrOrderNotFound   = errors.New("order not found")
	ErrNotAuthorized   = errors.New("not authorized to modify this order")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrNotifNotFound   = errors.New("notification not found")
)

// InsufficientStockError reports a cart line asking for more units than the
// product has, with the live availability so the caller can re-prompt.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Name, e.Requested, e.Available)
}
