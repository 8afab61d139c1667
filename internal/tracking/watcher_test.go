package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-client/internal/api"
	"restaurant-client/internal/logger"
	"restaurant-client/internal/messaging"
	"restaurant-client/internal/models"
)

type fakeFetcher struct {
	view  *models.OrderStatusView
	err   error
	calls int
}

func (f *fakeFetcher) OrderStatus(ctx context.Context, orderID string) (*models.OrderStatusView, error) {
	f.calls++
	return f.view, f.err
}

// fakeSource hands the registered handler back to the test so it can
// inject push messages, and records teardown.
type fakeSource struct {
	mu      sync.Mutex
	handler messaging.MessageHandler
	started chan struct{}
	closed  bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{started: make(chan struct{})}
}

func (s *fakeSource) StartConsuming(ctx context.Context, handler messaging.MessageHandler) error {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()
	close(s.started)
	<-ctx.Done()
	return ctx.Err()
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSource) push(t *testing.T, upd models.StatusUpdate) {
	t.Helper()
	select {
	case <-s.started:
	case <-time.After(time.Second):
		t.Fatal("subscription never started")
	}
	body, err := json.Marshal(upd)
	require.NoError(t, err)
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()
	require.NoError(t, handler(context.Background(), body))
}

func testLogger() *logger.Logger {
	return logger.New("test", false)
}

func startWatcher(t *testing.T, orderID string, fetcher StatusFetcher, source UpdateSource) *Watcher {
	t.Helper()
	w := NewWatcher(orderID, fetcher, source, testLogger())
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWatcher_FetchKnown(t *testing.T) {
	fetcher := &fakeFetcher{view: &models.OrderStatusView{OrderID: "X123", Status: "Preparing"}}
	w := startWatcher(t, "X123", fetcher, newFakeSource())

	assert.Equal(t, State{Kind: Known, Status: "Preparing"}, w.State())
	assert.Equal(t, 1, fetcher.calls, "exactly one fetch per Start")
}

func TestWatcher_PushUpdateWins(t *testing.T) {
	fetcher := &fakeFetcher{view: &models.OrderStatusView{OrderID: "X123", Status: "Preparing"}}
	source := newFakeSource()
	w := startWatcher(t, "X123", fetcher, source)

	source.push(t, models.StatusUpdate{OrderID: "X123", NewStatus: "Delivered"})
	assert.Equal(t, State{Kind: Known, Status: "Delivered"}, w.State())

	// No sequence numbers on the channel: the last message wins even
	// when it looks like a regression.
	source.push(t, models.StatusUpdate{OrderID: "X123", NewStatus: "Preparing"})
	assert.Equal(t, State{Kind: Known, Status: "Preparing"}, w.State())
}

func TestWatcher_IgnoresOtherOrders(t *testing.T) {
	fetcher := &fakeFetcher{view: &models.OrderStatusView{OrderID: "X123", Status: "Preparing"}}
	source := newFakeSource()
	w := startWatcher(t, "X123", fetcher, source)

	source.push(t, models.StatusUpdate{OrderID: "Y999", NewStatus: "Delivered"})
	assert.Equal(t, State{Kind: Known, Status: "Preparing"}, w.State())
}

func TestWatcher_NotFound(t *testing.T) {
	fetcher := &fakeFetcher{err: api.ErrNotFound}
	source := newFakeSource()
	w := startWatcher(t, "X123", fetcher, source)

	assert.Equal(t, State{Kind: NotFound}, w.State())

	// A message for a different order cannot move it out of NotFound.
	source.push(t, models.StatusUpdate{OrderID: "Y999", NewStatus: "Delivered"})
	assert.Equal(t, State{Kind: NotFound}, w.State())

	// A fresh message for this order can.
	source.push(t, models.StatusUpdate{OrderID: "X123", NewStatus: "Pending"})
	assert.Equal(t, State{Kind: Known, Status: "Pending"}, w.State())
}

func TestWatcher_EmptyStatusIsNotFound(t *testing.T) {
	fetcher := &fakeFetcher{view: &models.OrderStatusView{OrderID: "X123"}}
	w := startWatcher(t, "X123", fetcher, newFakeSource())

	assert.Equal(t, State{Kind: NotFound}, w.State())
}

func TestWatcher_FetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	w := startWatcher(t, "X123", fetcher, newFakeSource())

	st := w.State()
	assert.Equal(t, Failed, st.Kind)
	assert.NotEmpty(t, st.Err)
}

func TestWatcher_CloseReleasesSubscription(t *testing.T) {
	fetcher := &fakeFetcher{view: &models.OrderStatusView{OrderID: "X123", Status: "Preparing"}}
	source := newFakeSource()

	w := NewWatcher("X123", fetcher, source, testLogger())
	require.NoError(t, w.Start(context.Background()))

	select {
	case <-source.started:
	case <-time.After(time.Second):
		t.Fatal("subscription never started")
	}

	require.NoError(t, w.Close())
	source.mu.Lock()
	closed := source.closed
	source.mu.Unlock()
	assert.True(t, closed, "teardown must release the subscription")
}

func TestWatcher_StatesChannelDeliversTransitions(t *testing.T) {
	fetcher := &fakeFetcher{view: &models.OrderStatusView{OrderID: "X123", Status: "Preparing"}}
	source := newFakeSource()
	w := startWatcher(t, "X123", fetcher, source)

	require.Equal(t, State{Kind: Known, Status: "Preparing"}, <-w.States())

	source.push(t, models.StatusUpdate{OrderID: "X123", NewStatus: "Delivered"})
	require.Equal(t, State{Kind: Known, Status: "Delivered"}, <-w.States())
}
