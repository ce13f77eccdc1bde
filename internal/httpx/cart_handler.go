package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/keinest/ecommerce-flow/internal/cart"
	"github.com/keinest/ecommerce-flow/internal/market"
)

type CartHandler struct {
	Cart *cart.Store
}

type CartLineResp struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ShopName  string          `json:"shop_name"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartResp struct {
	Items []CartLineResp  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type AddResp struct {
	Added      bool `json:"added"`
	StockLimit bool `json:"stock_limit,omitempty"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/items/{productID}", h.addItem)
	r.Delete("/cart/items/{productID}", h.removeItem)
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	lines, total, err := h.Cart.Detail(ctx, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := CartResp{Items: make([]CartLineResp, 0, len(lines)), Total: total}
	for _, l := range lines {
		resp.Items = append(resp.Items, CartLineResp{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			ShopName:  l.Product.ShopName,
			Price:     l.Product.Price,
			Qty:       l.Qty,
			Subtotal:  l.Subtotal,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}

	productID, ok := uuidParam(r, "productID")
	if !ok {
		writeErr(w, market.ErrProductNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	res, err := h.Cart.Add(ctx, uid, productID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AddResp{
		Added:      res == cart.ResultAdded,
		StockLimit: res == cart.ResultStockLimit,
	})
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}

	productID, ok := uuidParam(r, "productID")
	if !ok {
		writeErr(w, market.ErrProductNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Cart.Remove(ctx, uid, productID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
