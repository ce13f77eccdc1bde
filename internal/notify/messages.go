package notify

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/keinest/ecommerce-flow/internal/market"
)

const TypeNewOrder = "new_order"

// NewOrderMessage is the seller-facing text for a freshly placed order.
func NewOrderMessage(orderID, shopName, buyerName string, total decimal.Decimal, productNames []string) string {
	return fmt.Sprintf("New order #%s on %q from %s - %s (%s).",
		orderID, shopName, buyerName, total.StringFixed(2), strings.Join(productNames, ", "))
}

// StatusMessage is the buyer-facing text for a status transition. The second
// return is false for statuses that never notify (pending, unknown).
func StatusMessage(s market.Status, orderID, shopName string) (string, bool) {
	switch s {
	case market.StatusProcessing:
		return fmt.Sprintf("Your order #%s from %q is being prepared.", orderID, shopName), true
	case market.StatusShipped:
		return fmt.Sprintf("Your order #%s from %q has been shipped!", orderID, shopName), true
	case market.StatusDelivered:
		return fmt.Sprintf("Your order #%s from %q has been delivered. Thank you!", orderID, shopName), true
	case market.StatusCancelled:
		return fmt.Sprintf("Your order #%s from %q has been cancelled.", orderID, shopName), true
	}
	return "", false
}
