package notify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keinest/ecommerce-flow/internal/market"
)

func TestNewOrderMessage(t *testing.T) {
	msg := NewOrderMessage("o1", "Alpha", "Ann Lee", decimal.RequireFromString("27.5"), []string{"Mug", "Tee"})
	assert.Equal(t, `New order #o1 on "Alpha" from Ann Lee - 27.50 (Mug, Tee).`, msg)
}

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		status market.Status
		want   string
	}{
		{market.StatusProcessing, `Your order #o1 from "Alpha" is being prepared.`},
		{market.StatusShipped, `Your order #o1 from "Alpha" has been shipped!`},
		{market.StatusDelivered, `Your order #o1 from "Alpha" has been delivered. Thank you!`},
		{market.StatusCancelled, `Your order #o1 from "Alpha" has been cancelled.`},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			msg, ok := StatusMessage(tt.status, "o1", "Alpha")
			require.True(t, ok)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestStatusMessageSilentStatuses(t *testing.T) {
	for _, s := range []market.Status{market.StatusPending, market.Status("bogus")} {
		_, ok := StatusMessage(s, "o1", "Alpha")
		assert.False(t, ok, "status %q", s)
	}
}
