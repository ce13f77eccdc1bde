package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/keinest/ecommerce-flow/internal/market"
	"github.com/keinest/ecommerce-flow/internal/notify"
)

type NotificationsHandler struct {
	Repo *notify.Repo
}

func (h *NotificationsHandler) Register(r *chi.Mux) {
	r.Get("/notifications", h.list)
	r.Get("/notifications/unread", h.unreadCount)
	r.Post("/notifications/{id}/read", h.markRead)
}

// list returns the user's notifications newest first and marks them all read,
// matching the behavior of viewing the notification screen.
func (h *NotificationsHandler) list(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	notifs, err := h.Repo.ListFor(ctx, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := h.Repo.MarkAllRead(ctx, uid); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if notifs == nil {
		notifs = []market.Notification{}
	}
	writeJSON(w, http.StatusOK, notifs)
}

func (h *NotificationsHandler) unreadCount(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	n, err := h.Repo.CountUnread(ctx, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": n})
}

func (h *NotificationsHandler) markRead(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}

	id, ok := uuidParam(r, "id")
	if !ok {
		writeErr(w, market.ErrNotifNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.MarkRead(ctx, id, uid); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
