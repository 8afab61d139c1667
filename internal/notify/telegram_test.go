package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"Pending", "Order X123 received and waiting for the kitchen."},
		{"Preparing", "Order X123 is being prepared."},
		{"Out for Delivery", "Order X123 is out for delivery."},
		{"Delivered", "Order X123 has been delivered. Enjoy!"},
		{"On Hold", "Order X123 status: On Hold"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatStatus("X123", tt.status))
	}
}
