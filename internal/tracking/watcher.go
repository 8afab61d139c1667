package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"restaurant-client/internal/api"
	"restaurant-client/internal/logger"
	"restaurant-client/internal/messaging"
	"restaurant-client/internal/models"
)

// Kind enumerates the watcher states.
type Kind string

const (
	Loading  Kind = "loading"
	Known    Kind = "known"
	NotFound Kind = "not_found"
	Failed   Kind = "error"
)

// State is the watcher's view of one order at a point in time.
type State struct {
	Kind   Kind
	Status string // set when Kind == Known
	Err    string // set when Kind == Failed
}

// StatusFetcher is the one-time snapshot side of the watcher.
// *api.Client satisfies it.
type StatusFetcher interface {
	OrderStatus(ctx context.Context, orderID string) (*models.OrderStatusView, error)
}

// UpdateSource is the live side: it delivers raw push messages until
// its context is cancelled. *messaging.Consumer satisfies it.
type UpdateSource interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Watcher presents the current status of one order: a single snapshot
// fetch on Start, then a live subscription that rewrites the state on
// every push message for this order. The displayed status is whatever
// arrived last; the channel carries no sequence numbers, so the broker's
// delivery order is trusted as-is.
//
// The subscription is scoped to the watcher: Close (or cancelling the
// Start context) releases it, so a discarded watcher cannot keep
// receiving updates.
type Watcher struct {
	orderID string
	fetcher StatusFetcher
	source  UpdateSource
	logger  *logger.Logger

	mu    sync.Mutex
	state State

	states chan State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for one order.
func NewWatcher(orderID string, fetcher StatusFetcher, source UpdateSource, log *logger.Logger) *Watcher {
	return &Watcher{
		orderID: orderID,
		fetcher: fetcher,
		source:  source,
		logger:  log,
		state:   State{Kind: Loading},
		states:  make(chan State, 16),
		done:    make(chan struct{}),
	}
}

// Start issues exactly one status fetch and opens exactly one
// subscription. It returns after the fetch resolves; updates then flow
// on States until Close or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	view, err := w.fetcher.OrderStatus(ctx, w.orderID)
	switch {
	case errors.Is(err, api.ErrNotFound):
		w.setState(State{Kind: NotFound})
	case err != nil:
		w.logger.Error("status_fetch_failed", requestID,
			fmt.Sprintf("Failed to fetch status for order %s", w.orderID), err)
		w.setState(State{Kind: Failed, Err: "Failed to fetch order status."})
	case view.Status == "":
		w.setState(State{Kind: NotFound})
	default:
		w.setState(State{Kind: Known, Status: view.Status})
	}

	subCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go func() {
		defer close(w.done)
		if err := w.source.StartConsuming(subCtx, w.handleUpdate); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("subscription_failed", requestID,
				fmt.Sprintf("Status subscription for order %s ended", w.orderID), err)
		}
	}()

	return nil
}

// handleUpdate applies one push message. Messages for other orders are
// ignored; a message for this order always wins, including moving a
// NotFound watcher to Known once the order materializes.
func (w *Watcher) handleUpdate(_ context.Context, body []byte) error {
	var upd models.StatusUpdate
	if err := json.Unmarshal(body, &upd); err != nil {
		return fmt.Errorf("failed to parse status update: %w", err)
	}
	if upd.OrderID != w.orderID {
		return nil
	}
	if upd.NewStatus == "" {
		return nil
	}
	w.setState(State{Kind: Known, Status: upd.NewStatus})
	return nil
}

// State returns the current state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// States delivers every transition, the initial one included. Slow
// readers lose the oldest entries, never the newest: the last message
// always wins.
func (w *Watcher) States() <-chan State {
	return w.states
}

func (w *Watcher) setState(st State) {
	w.mu.Lock()
	w.state = st
	w.mu.Unlock()

	// Single producer: Start, then only the consumer goroutine.
	select {
	case w.states <- st:
	default:
		select {
		case <-w.states:
		default:
		}
		w.states <- st
	}
}

// Close tears the watcher down: cancels the subscription, closes the
// source, and waits for the consumer goroutine to exit.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
	return w.source.Close()
}
