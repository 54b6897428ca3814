package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Run("canonical values", func(t *testing.T) {
		for k := StatusPendingPayment; k <= StatusCancelled; k++ {
			s := ParseStatus(k.String())
			assert.Equal(t, k, s.Kind)
			assert.False(t, s.Legacy())
		}
	})

	t.Run("legacy aliases keep raw value", func(t *testing.T) {
		pending := ParseStatus("pending")
		assert.Equal(t, StatusPendingPayment, pending.Kind)
		assert.Equal(t, "pending", pending.Raw)
		assert.True(t, pending.Legacy())
		assert.Equal(t, "pending_payment", pending.Canonical().Raw)

		completed := ParseStatus("completed")
		assert.Equal(t, StatusDelivered, completed.Kind)
		assert.Equal(t, NewStatus(StatusDelivered).Text(), completed.Text())
		assert.Equal(t, NewStatus(StatusDelivered).Color(), completed.Color())
	})

	t.Run("unknown values fall back to raw text and neutral color", func(t *testing.T) {
		s := ParseStatus("on_hold")
		assert.Equal(t, StatusUnknown, s.Kind)
		assert.Equal(t, "on_hold", s.Text())
		assert.Equal(t, ColorSecondary, s.Color())
		assert.Contains(t, s.Description(), "on_hold")
		assert.False(t, s.CanUploadReceipt())
	})

	t.Run("empty value", func(t *testing.T) {
		s := ParseStatus("")
		assert.Equal(t, StatusUnknown, s.Kind)
		assert.Equal(t, "Unknown", s.Text())
	})
}

func TestStatusGates(t *testing.T) {
	tests := []struct {
		raw            string
		canUpload      bool
		awaitingReview bool
		terminal       bool
	}{
		{"pending_payment", true, false, false},
		{"pending", true, false, false},
		{"payment_submitted", false, true, false},
		{"payment_approved", false, false, false},
		{"payment_rejected", true, false, false},
		{"shipped", false, false, false},
		{"delivered", false, false, true},
		{"completed", false, false, true},
		{"cancelled", false, false, true},
		{"refunded", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s := ParseStatus(tt.raw)
			assert.Equal(t, tt.canUpload, s.CanUploadReceipt(), "CanUploadReceipt")
			assert.Equal(t, tt.awaitingReview, s.AwaitingReview(), "AwaitingReview")
			assert.Equal(t, tt.terminal, s.IsTerminal(), "IsTerminal")
		})
	}
}

func TestStatusTablesAreTotal(t *testing.T) {
	for k := StatusUnknown; k <= StatusCancelled; k++ {
		s := NewStatus(k)
		assert.NotEmpty(t, s.Text(), "text for %v", k)
		assert.NotEmpty(t, s.Color(), "color for %v", k)
		assert.NotEmpty(t, s.Description(), "description for %v", k)
	}
}

func TestOrderStatusJSON(t *testing.T) {
	var order Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"status":"pending","total":"150.50"}`), &order))
	assert.Equal(t, StatusPendingPayment, order.Status.Kind)
	assert.Equal(t, "150.5", order.Total.String())

	data, err := json.Marshal(order.Status)
	require.NoError(t, err)
	assert.JSONEq(t, `"pending"`, string(data))

	err = json.Unmarshal([]byte(`{"status":42}`), &order)
	assert.Error(t, err)
}
