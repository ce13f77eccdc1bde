package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Malformed ids in the path must come back as 404, not as a postgres uuid
// parse error surfacing as 500. None of these requests may reach a backend,
// so the handlers are wired with nil deps.
func TestMalformedIDsReturnNotFound(t *testing.T) {
	r := NewRouter()
	(&OrdersHandler{}).Register(r)
	(&CartHandler{}).Register(r)
	(&NotificationsHandler{}).Register(r)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/orders/not-a-uuid"},
		{http.MethodPost, "/orders/not-a-uuid/status"},
		{http.MethodPost, "/cart/items/not-a-uuid"},
		{http.MethodDelete, "/cart/items/not-a-uuid"},
		{http.MethodPost, "/notifications/not-a-uuid/read"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.Header.Set("X-User-Id", uuid.NewString())
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tt.method, tt.path)
	}
}
