package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-client/internal/cart"
	"restaurant-client/internal/logger"
	"restaurant-client/internal/models"
)

func TestDeliverySelection_Validate(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(2 * time.Hour)
	past := now.Add(-2 * time.Hour)

	tests := []struct {
		name      string
		selection DeliverySelection
		wantErr   bool
	}{
		{"immediate", DeliverySelection{Mode: Immediate}, false},
		{"immediate ignores address", DeliverySelection{Mode: Immediate, Address: "somewhere"}, false},
		{"scheduled valid", DeliverySelection{Mode: Scheduled, At: &future, Address: "123 Main St"}, false},
		{"scheduled missing time", DeliverySelection{Mode: Scheduled, Address: "123 Main St"}, true},
		{"scheduled missing address", DeliverySelection{Mode: Scheduled, At: &future}, true},
		{"scheduled blank address", DeliverySelection{Mode: Scheduled, At: &future, Address: "   "}, true},
		{"scheduled in the past", DeliverySelection{Mode: Scheduled, At: &past, Address: "123 Main St"}, true},
		{"unknown mode", DeliverySelection{Mode: "overnight"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.selection.Validate(now)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{10, 1000},
		{10.5, 1050},
		{19.999, 2000},
		{0.004, 0},
		{0.1 + 0.2, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MinorUnits(tt.amount), "MinorUnits(%v)", tt.amount)
	}
}

type fakeIntents struct {
	intent *models.PaymentIntent
	err    error
	calls  int
	amount int64
}

func (f *fakeIntents) CreatePaymentIntent(ctx context.Context, amountMinor int64) (*models.PaymentIntent, error) {
	f.calls++
	f.amount = amountMinor
	return f.intent, f.err
}

func snapshot() []cart.Line {
	c := cart.New()
	c.AddItem(models.MenuItem{ID: "A", Name: "Pizza", Price: 10}, "")
	c.AddItem(models.MenuItem{ID: "A", Name: "Pizza", Price: 10}, "")
	return c.Snapshot()
}

func TestCheckout_Success(t *testing.T) {
	intents := &fakeIntents{intent: &models.PaymentIntent{ID: "pi_1", ClientSecret: "sec", OrderID: "ord_42"}}
	svc := NewService(intents, logger.New("test", false))

	intent, err := svc.Checkout(context.Background(), snapshot(), 20, DeliverySelection{Mode: Immediate})
	require.NoError(t, err)
	assert.Equal(t, "ord_42", intent.OrderID)
	assert.Equal(t, int64(2000), intents.amount)
}

func TestCheckout_EmptyCartBlocked(t *testing.T) {
	intents := &fakeIntents{}
	svc := NewService(intents, logger.New("test", false))

	_, err := svc.Checkout(context.Background(), nil, 0, DeliverySelection{Mode: Immediate})
	assert.Error(t, err)
	assert.Equal(t, 0, intents.calls, "validation failures must block the network call")
}

func TestCheckout_InvalidDeliveryBlocked(t *testing.T) {
	intents := &fakeIntents{}
	svc := NewService(intents, logger.New("test", false))

	_, err := svc.Checkout(context.Background(), snapshot(), 20, DeliverySelection{Mode: Scheduled})
	assert.Error(t, err)
	assert.Equal(t, 0, intents.calls)
}

func TestCheckout_IntentFailure(t *testing.T) {
	intents := &fakeIntents{err: errors.New("card declined upstream")}
	svc := NewService(intents, logger.New("test", false))

	_, err := svc.Checkout(context.Background(), snapshot(), 20, DeliverySelection{Mode: Immediate})
	assert.Error(t, err)
}
