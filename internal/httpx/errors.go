package httpx

import (
	"errors"
	"net/http"

	"github.com/keinest/ecommerce-flow/internal/market"
)

// writeErr maps workflow errors onto HTTP codes. Stock shortfalls carry the
// live availability so the client can re-prompt.
func writeErr(w http.ResponseWriter, err error) {
	var stockErr *market.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      stockErr.Error(),
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
		})
		return
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, market.ErrEmptyCart), errors.Is(err, market.ErrInvalidStatus):
		code = http.StatusBadRequest
	case errors.Is(err, market.ErrProductNotFound),
		errors.Is(err, market.ErrOrderNotFound),
		errors.Is(err, market.ErrNotifNotFound):
		code = http.StatusNotFound
	case errors.Is(err, market.ErrSelfPurchase), errors.Is(err, market.ErrOutOfStock):
		code = http.StatusConflict
	case errors.Is(err, market.ErrNotAuthorized):
		code = http.StatusForbidden
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
