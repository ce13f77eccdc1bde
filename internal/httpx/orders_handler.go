package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/keinest/ecommerce-flow/internal/checkout"
	"github.com/keinest/ecommerce-flow/internal/market"
	"github.com/keinest/ecommerce-flow/internal/redisx"
)

type OrdersHandler struct {
	Repo     *market.Repo
	Checkout *checkout.Service
	Redis    *redis.Client
}

type OrderItemResp struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

type OrderResp struct {
	OrderID   string          `json:"order_id"`
	ShopID    string          `json:"shop_id"`
	ShopName  string          `json:"shop_name"`
	Status    market.Status   `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItemResp `json:"items,omitempty"`
}

type CheckoutResp struct {
	Orders []OrderResp `json:"orders"`
}

type SetStatusReq struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Post("/checkout", h.doCheckout)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/incoming", h.listIncoming)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders/{id}/status", h.setStatus)
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.ListProducts(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *OrdersHandler) doCheckout(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Checkout.Checkout(ctx, uid, r.Header.Get("X-Request-Id"))
	if err != nil {
		writeErr(w, err)
		return
	}

	// prime the status cache so the first GET skips the DB
	for _, o := range orders {
		key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
		_ = h.Redis.Set(ctx, key, `{"status":"pending"}`, redisx.TTLStatusCache).Err()
	}

	writeJSON(w, http.StatusCreated, CheckoutResp{Orders: toOrderResps(orders)})
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Repo.ListOrdersForBuyer)
}

func (h *OrdersHandler) listIncoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Repo.ListOrdersForSeller)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) ([]market.Order, error)) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := fn(ctx, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toOrderResps(orders))
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := uuidParam(r, "id")
	if !ok {
		writeErr(w, market.ErrOrderNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) try cache
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	// 2) fall back to DB
	status, err := h.Repo.GetOrderStatus(ctx, orderID)
	if err != nil {
		writeErr(w, err)
		return
	}
	b, _ := json.Marshal(map[string]any{"status": status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *OrdersHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}
	orderID, ok := uuidParam(r, "id")
	if !ok {
		writeErr(w, market.ErrOrderNotFound)
		return
	}

	var req SetStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Checkout.SetStatus(ctx, orderID, market.Status(req.Status), uid, r.Header.Get("X-Request-Id"))
	if err != nil {
		writeErr(w, err)
		return
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	b, _ := json.Marshal(map[string]any{"status": o.Status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()

	writeJSON(w, http.StatusOK, map[string]any{"order_id": o.ID, "status": o.Status})
}

func toOrderResps(orders []market.Order) []OrderResp {
	out := make([]OrderResp, 0, len(orders))
	for _, o := range orders {
		resp := OrderResp{
			OrderID:   o.ID,
			ShopID:    o.ShopID,
			ShopName:  o.ShopName,
			Status:    o.Status,
			Total:     o.Total,
			CreatedAt: o.CreatedAt,
		}
		for _, it := range o.Items {
			resp.Items = append(resp.Items, OrderItemResp{
				ProductID: it.ProductID,
				Name:      it.Name,
				Qty:       it.Qty,
				Price:     it.Price,
			})
		}
		out = append(out, resp)
	}
	return out
}
