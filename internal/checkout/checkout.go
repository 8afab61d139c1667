package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"restaurant-client/internal/cart"
	"restaurant-client/internal/logger"
	"restaurant-client/internal/models"
)

// DeliveryMode selects when the order is delivered.
type DeliveryMode string

const (
	Immediate DeliveryMode = "immediate"
	Scheduled DeliveryMode = "scheduled"
)

// DeliverySelection is the customer's delivery choice. A scheduled
// selection is only valid with both a time and an address; checkout is
// blocked otherwise.
type DeliverySelection struct {
	Mode    DeliveryMode
	At      *time.Time
	Address string
}

// Validate checks the selection against the given clock.
func (d DeliverySelection) Validate(now time.Time) error {
	switch d.Mode {
	case Immediate:
		return nil
	case Scheduled:
		if d.At == nil {
			return errors.New("scheduled delivery requires a date and time")
		}
		if strings.TrimSpace(d.Address) == "" {
			return errors.New("scheduled delivery requires an address")
		}
		if d.At.Before(now) {
			return errors.New("scheduled delivery time is in the past")
		}
		return nil
	default:
		return fmt.Errorf("unknown delivery mode %q", d.Mode)
	}
}

// MinorUnits converts a currency amount to minor units, rounding half
// away from zero. The payment endpoint takes integer amounts.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// IntentCreator is the payment side of checkout. *api.Client satisfies it.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amountMinor int64) (*models.PaymentIntent, error)
}

// Service turns a cart snapshot into a payment intent and an order id.
// Card confirmation itself happens in the external payment widget; this
// flow ends at the intent.
type Service struct {
	payments IntentCreator
	logger   *logger.Logger
}

// NewService creates a checkout service.
func NewService(payments IntentCreator, log *logger.Logger) *Service {
	return &Service{payments: payments, logger: log}
}

// Checkout validates the snapshot and delivery selection, creates the
// payment intent, and returns it. The order id on the intent is what
// gets handed to the status tracker.
func (s *Service) Checkout(ctx context.Context, lines []cart.Line, total float64, delivery DeliverySelection) (*models.PaymentIntent, error) {
	requestID := logger.GenerateRequestID()

	if len(lines) == 0 {
		return nil, errors.New("cart is empty")
	}
	if err := delivery.Validate(time.Now()); err != nil {
		return nil, err
	}

	amount := MinorUnits(total)
	if amount <= 0 {
		return nil, fmt.Errorf("cart total must be positive, got %.2f", total)
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, amount)
	if err != nil {
		s.logger.Error("payment_intent_failed", requestID, "Failed to create payment intent", err)
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	s.logger.Info("payment_intent_created", requestID,
		fmt.Sprintf("Created payment intent %s for order %s", intent.ID, intent.OrderID))

	return intent, nil
}
