package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoebot/storefront/internal/catalog"
)

// stubClient is an in-memory remote cart. Mutations behave like the real
// storefront: adds sum quantities per line key, the total is computed
// server-side, and every operation can be failed or held open on demand.
type stubClient struct {
	mu     sync.Mutex
	lines  []Line
	nextID int

	fetchCalls  int
	addCalls    int
	updateCalls int
	removeCalls int
	clearCalls  int

	fetchErr error
	addErr   error

	fetchHold chan struct{} // when set, FetchCart blocks until closed
	addHold   chan struct{} // when set, AddItem blocks until closed

	fetchStarted chan struct{} // signaled once per FetchCart entry
}

func (s *stubClient) FetchCart(context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.fetchCalls++
	hold := s.fetchHold
	started := s.fetchStarted
	s.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if hold != nil {
		<-hold
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return Snapshot{}, NewOpError(OpFetch, s.fetchErr)
	}
	items := make([]Line, len(s.lines))
	copy(items, s.lines)
	return Snapshot{Items: items, Total: ComputeTotal(items)}, nil
}

func (s *stubClient) AddItem(_ context.Context, productID, size, color string, quantity int) error {
	s.mu.Lock()
	s.addCalls++
	hold := s.addHold
	s.mu.Unlock()
	if hold != nil {
		<-hold
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return NewOpError(OpAdd, s.addErr)
	}
	key := LineKey{ProductID: productID, Size: size, Color: color}
	for i, l := range s.lines {
		if l.Key() == key {
			s.lines[i].Quantity += quantity
			return nil
		}
	}
	s.nextID++
	s.lines = append(s.lines, Line{
		ID:       fmt.Sprintf("line-%d", s.nextID),
		Product:  catalog.Product{ID: productID, Price: 50, Sizes: []string{size}, Colors: []string{color}},
		Size:     size,
		Color:    color,
		Quantity: quantity,
	})
	return nil
}

func (s *stubClient) UpdateQuantity(_ context.Context, itemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	for i, l := range s.lines {
		if l.ID == itemID {
			s.lines[i].Quantity = quantity
			return nil
		}
	}
	return NewOpError(OpUpdate, errors.New("line not found"))
}

func (s *stubClient) RemoveItem(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeCalls++
	for i, l := range s.lines {
		if l.ID == itemID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return nil
		}
	}
	return NewOpError(OpRemove, errors.New("line not found"))
}

func (s *stubClient) ClearCart(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	s.lines = nil
	return nil
}

func (s *stubClient) seed(lines ...Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = lines
}

// recordingListener captures notifications the Coordinator publishes.
type recordingListener struct {
	mu      sync.Mutex
	updates []Snapshot
	errs    []error
}

func (r *recordingListener) CartUpdated(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, s)
}

func (r *recordingListener) CartError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingListener) lastUpdate() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		return Snapshot{}, false
	}
	return r.updates[len(r.updates)-1], true
}

func (r *recordingListener) errCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

var sneaker = catalog.Product{
	ID:     "p1",
	Name:   "Road Runner",
	Price:  50,
	Sizes:  []string{"9", "10"},
	Colors: []string{"black", "red"},
}

func TestRefreshPublishesCorrectedSnapshot(t *testing.T) {
	client := &stubClient{}
	client.seed(
		line("l1", "p1", "10", "black", 50, 2),
		line("l2", "p1", "10", "black", 50, 3), // duplicate key from the wire
	)
	coord := NewCoordinator(client, nil)
	listener := &recordingListener{}
	defer coord.Subscribe(listener)()

	snap, err := coord.Refresh(context.Background())
	require.NoError(t, err)

	// Total invariant holds over the merged lines.
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, ComputeTotal(snap.Items), snap.Total)

	got, ok := listener.lastUpdate()
	require.True(t, ok, "subscriber was not notified")
	assert.Equal(t, snap, got)
}

func TestRefreshCoalescesConcurrentCalls(t *testing.T) {
	client := &stubClient{
		fetchHold:    make(chan struct{}),
		fetchStarted: make(chan struct{}, 2),
	}
	coord := NewCoordinator(client, nil)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := coord.Refresh(context.Background())
			assert.NoError(t, err)
		}()
	}

	<-client.fetchStarted // one fetch is in flight; the second caller attaches
	close(client.fetchHold)
	wg.Wait()

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 1, client.fetchCalls, "concurrent refreshes must share one fetch")
}

func TestRefreshFailureKeepsPriorSnapshot(t *testing.T) {
	client := &stubClient{}
	client.seed(line("l1", "p1", "10", "black", 50, 2))
	coord := NewCoordinator(client, nil)
	listener := &recordingListener{}
	defer coord.Subscribe(listener)()

	_, err := coord.Refresh(context.Background())
	require.NoError(t, err)
	prior := coord.Snapshot()

	client.mu.Lock()
	client.fetchErr = ErrTransport
	client.mu.Unlock()

	_, err = coord.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	op, ok := OpOf(err)
	require.True(t, ok)
	assert.Equal(t, OpFetch, op)

	// Stale but visible: the prior snapshot stays published.
	assert.Equal(t, prior, coord.Snapshot())
	assert.Equal(t, 1, listener.errCount())
}

func TestAddRejectsInvalidVariantLocally(t *testing.T) {
	tests := []struct {
		name  string
		size  string
		color string
	}{
		{"empty color", "9", ""},
		{"empty size", "", "red"},
		{"unoffered size", "13", "red"},
		{"unoffered color", "9", "green"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{}
			coord := NewCoordinator(client, nil)

			err := coord.Add(context.Background(), sneaker, tt.size, tt.color, 1)
			require.Error(t, err)
			assert.True(t, IsInvalidVariant(err))

			client.mu.Lock()
			defer client.mu.Unlock()
			assert.Zero(t, client.addCalls, "rejected add must make zero network calls")
			assert.Zero(t, client.fetchCalls)
		})
	}
}

func TestAddRefreshesAuthoritativeSnapshot(t *testing.T) {
	client := &stubClient{}
	coord := NewCoordinator(client, nil)

	require.NoError(t, coord.Add(context.Background(), sneaker, "9", "red", 2))

	snap := coord.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, 100.0, snap.Total)
	assert.Equal(t, 2, coord.ItemCount())

	// A repeated add against the same key grows the quantity remotely and
	// the published snapshot mirrors it after the refresh.
	require.NoError(t, coord.Add(context.Background(), sneaker, "9", "red", 1))
	snap = coord.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Equal(t, 150.0, snap.Total)
}

func TestSetQuantityBelowOneRemoves(t *testing.T) {
	for _, qty := range []int{0, -1} {
		t.Run(fmt.Sprintf("quantity %d", qty), func(t *testing.T) {
			client := &stubClient{}
			client.seed(line("l1", "p1", "10", "black", 50, 2))
			coord := NewCoordinator(client, nil)
			_, err := coord.Refresh(context.Background())
			require.NoError(t, err)

			require.NoError(t, coord.SetQuantity(context.Background(), "l1", qty))

			client.mu.Lock()
			assert.Zero(t, client.updateCalls, "sub-1 quantity must become a remove")
			assert.Equal(t, 1, client.removeCalls)
			client.mu.Unlock()

			snap := coord.Snapshot()
			assert.Empty(t, snap.Items)
			assert.Equal(t, 0.0, snap.Total)
		})
	}
}

func TestSetQuantityUpdatesTotal(t *testing.T) {
	// Cart has one line: product at $50, size 10, black, qty 2.
	client := &stubClient{}
	client.seed(line("l1", "p1", "10", "black", 50, 2))
	coord := NewCoordinator(client, nil)
	_, err := coord.Refresh(context.Background())
	require.NoError(t, err)

	require.NoError(t, coord.SetQuantity(context.Background(), "l1", 3))
	assert.Equal(t, 150.0, coord.Snapshot().Total)
}

func TestConflictingMutationRejected(t *testing.T) {
	client := &stubClient{addHold: make(chan struct{})}
	coord := NewCoordinator(client, nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- coord.Add(context.Background(), sneaker, "9", "red", 1)
	}()

	// Wait until the first add has reserved its key.
	for {
		coord.mu.Lock()
		n := len(coord.pending)
		coord.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// Same key while pending: rejected, no second network call.
	err := coord.Add(context.Background(), sneaker, "9", "red", 1)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// A different key proceeds unimpeded past the pending check.
	hold := client.addHold
	client.mu.Lock()
	client.addHold = nil
	client.mu.Unlock()
	require.NoError(t, coord.Add(context.Background(), sneaker, "10", "black", 1))

	close(hold)
	require.NoError(t, <-firstDone)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 2, client.addCalls)
}

func TestMutationFailureLeavesSnapshotUntouched(t *testing.T) {
	client := &stubClient{}
	client.seed(line("l1", "p1", "10", "black", 50, 2))
	coord := NewCoordinator(client, nil)
	listener := &recordingListener{}
	defer coord.Subscribe(listener)()

	_, err := coord.Refresh(context.Background())
	require.NoError(t, err)
	prior := coord.Snapshot()

	client.mu.Lock()
	client.addErr = errors.New("out of stock")
	client.mu.Unlock()

	err = coord.Add(context.Background(), sneaker, "9", "red", 1)
	require.Error(t, err)
	op, ok := OpOf(err)
	require.True(t, ok)
	assert.Equal(t, OpAdd, op)

	assert.Equal(t, prior, coord.Snapshot())
	assert.Equal(t, 1, listener.errCount())

	// The key was released on failure; a retry goes through.
	client.mu.Lock()
	client.addErr = nil
	client.mu.Unlock()
	require.NoError(t, coord.Add(context.Background(), sneaker, "9", "red", 1))
}

func TestClearEmptiesCartAndBadge(t *testing.T) {
	client := &stubClient{}
	client.seed(
		line("l1", "p1", "10", "black", 50, 2),
		line("l2", "p2", "9", "red", 20, 1),
	)
	coord := NewCoordinator(client, nil)
	_, err := coord.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, coord.ItemCount())

	require.NoError(t, coord.Clear(context.Background()))

	snap := coord.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0.0, snap.Total)
	assert.Equal(t, 0, coord.ItemCount())
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	client := &stubClient{}
	coord := NewCoordinator(client, nil)
	listener := &recordingListener{}
	unsubscribe := coord.Subscribe(listener)

	_, err := coord.Refresh(context.Background())
	require.NoError(t, err)
	_, notified := listener.lastUpdate()
	require.True(t, notified)

	unsubscribe()
	_, err = coord.Refresh(context.Background())
	require.NoError(t, err)

	listener.mu.Lock()
	defer listener.mu.Unlock()
	assert.Len(t, listener.updates, 1)
}
