package cart

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/shoebot/storefront/internal/catalog"
)

// Client performs the remote cart operations, one authenticated round trip
// each. Failures come back as *OpError wrapping the sentinels in errors.go.
type Client interface {
	FetchCart(ctx context.Context) (Snapshot, error)
	AddItem(ctx context.Context, productID, size, color string, quantity int) error
	UpdateQuantity(ctx context.Context, itemID string, quantity int) error
	RemoveItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error
}

// Listener receives snapshot updates from the Coordinator. CartUpdated is
// called synchronously after each successful refresh; CartError surfaces a
// transient failure while the previously published snapshot stays valid for
// display ("stale but visible" over "blank on failure").
type Listener interface {
	CartUpdated(Snapshot)
	CartError(error)
}

// clearKey reserves the whole cart while a clear is in flight. "*" cannot
// collide with a real product id.
var clearKey = LineKey{ProductID: "*"}

// Coordinator owns the single authoritative cart snapshot for a session.
// It is the only component allowed to write that snapshot: views and the
// chat bridge go through it for every mutation, and read state only via
// Snapshot/ItemCount or their subscription.
//
// Refreshes are coalesced: concurrent calls share one fetch. Mutations
// against the same line key are rejected while one is pending rather than
// queued, so a user's rapid clicks are never silently reordered. Mutations
// against different keys may run concurrently; each triggers its own
// post-mutation refresh and the last refresh to resolve wins.
type Coordinator struct {
	client Client
	logger *slog.Logger

	refreshGroup singleflight.Group

	mu        sync.Mutex
	snapshot  Snapshot
	pending   map[LineKey]Op
	listeners map[int]Listener
	nextID    int
}

// NewCoordinator returns a Coordinator with an empty snapshot. The session
// starts empty and is populated by the first Refresh.
func NewCoordinator(client Client, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		client:    client,
		logger:    logger,
		pending:   map[LineKey]Op{},
		listeners: map[int]Listener{},
	}
}

// Snapshot returns the current published snapshot.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// ItemCount is the badge count derived from the current snapshot.
func (c *Coordinator) ItemCount() int {
	return c.Snapshot().ItemCount()
}

// Subscribe registers a listener and returns its cancel function. A view
// that unmounts must unsubscribe; in-flight requests still complete and
// update shared state, the detached view simply stops hearing about it.
func (c *Coordinator) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Refresh fetches the authoritative snapshot and publishes it to all
// subscribers. At most one fetch is in flight: a second call made while one
// is outstanding attaches to the same result instead of issuing a duplicate
// request. On failure the prior snapshot is kept and the typed fetch error
// is both returned and surfaced to subscribers; callers may display an
// empty snapshot but must not treat it as authoritative.
func (c *Coordinator) Refresh(ctx context.Context) (Snapshot, error) {
	v, err, _ := c.refreshGroup.Do("cart", func() (interface{}, error) {
		snap, err := c.client.FetchCart(ctx)
		if err != nil {
			c.logger.Warn("cart refresh failed", "error", err)
			c.notifyError(err)
			return Snapshot{}, err
		}
		snap = c.audit(snap)
		c.publish(snap)
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

// audit enforces the snapshot invariants before publication: duplicate
// line keys collapse and a total that disagrees with the line sum is
// corrected rather than surfaced.
func (c *Coordinator) audit(snap Snapshot) Snapshot {
	normalized := Normalize(snap.Items)
	if len(normalized.Items) != len(snap.Items) {
		c.logger.Warn("cart snapshot carried duplicate line keys",
			"fetched", len(snap.Items),
			"merged", len(normalized.Items),
		)
	}
	if math.Abs(normalized.Total-snap.Total) >= 0.005 {
		c.logger.Warn("cart snapshot total corrected",
			"reported", snap.Total,
			"computed", normalized.Total,
		)
	}
	return normalized
}

func (c *Coordinator) publish(snap Snapshot) {
	c.mu.Lock()
	c.snapshot = snap
	ls := c.snapshotListeners()
	c.mu.Unlock()
	for _, l := range ls {
		l.CartUpdated(snap)
	}
}

func (c *Coordinator) notifyError(err error) {
	c.mu.Lock()
	ls := c.snapshotListeners()
	c.mu.Unlock()
	for _, l := range ls {
		l.CartError(err)
	}
}

// snapshotListeners copies the listener set; callers hold c.mu.
func (c *Coordinator) snapshotListeners() []Listener {
	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	return ls
}

// Add validates the variant locally and adds quantity units of the product
// to the cart. Validation failures are returned before any network call is
// made. Quantity defaults to 1, matching chat-originated adds.
func (c *Coordinator) Add(ctx context.Context, p catalog.Product, size, color string, quantity int) error {
	switch catalog.ValidateSelection(p, size, color) {
	case catalog.SelectionIncomplete:
		return fmt.Errorf("%w: size and color must both be chosen", ErrInvalidVariant)
	case catalog.SelectionInvalid:
		return fmt.Errorf("%w: %s is not offered in size %q color %q", ErrInvalidVariant, p.Name, size, color)
	}
	if quantity < 1 {
		quantity = 1
	}
	key := LineKey{ProductID: p.ID, Size: size, Color: color}
	return c.mutate(ctx, key, OpAdd, func(ctx context.Context) error {
		return c.client.AddItem(ctx, p.ID, size, color, quantity)
	})
}

// SetQuantity changes a line's quantity. A quantity below 1 is defined to
// be a removal; the equivalence is enforced here so the sidebar's decrement
// button and any programmatic caller observe identical behavior.
func (c *Coordinator) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity < 1 {
		return c.Remove(ctx, lineID)
	}
	return c.mutate(ctx, c.keyForLine(lineID), OpUpdate, func(ctx context.Context) error {
		return c.client.UpdateQuantity(ctx, lineID, quantity)
	})
}

// Remove deletes a line from the cart.
func (c *Coordinator) Remove(ctx context.Context, lineID string) error {
	return c.mutate(ctx, c.keyForLine(lineID), OpRemove, func(ctx context.Context) error {
		return c.client.RemoveItem(ctx, lineID)
	})
}

// Clear empties the whole cart in one atomic request. Any user confirmation
// happens at the UI boundary before this is called.
func (c *Coordinator) Clear(ctx context.Context) error {
	return c.mutate(ctx, clearKey, OpClear, func(ctx context.Context) error {
		return c.client.ClearCart(ctx)
	})
}

// keyForLine resolves a line id to its identity key via the current
// snapshot, so an update and a remove against the same line contend on one
// key. An id not present in the snapshot still gets a stable key.
func (c *Coordinator) keyForLine(lineID string) LineKey {
	if l, ok := c.Snapshot().Line(lineID); ok {
		return l.Key()
	}
	return LineKey{ProductID: lineID}
}

// mutate runs one remote mutation under the per-key state machine:
// Idle → Pending → {Applied, Failed}. The key stays reserved until the
// post-mutation refresh resolves (Applied → Idle), so nothing can race the
// re-derivation of the authoritative snapshot; a failure releases the key
// immediately and leaves the prior snapshot untouched.
func (c *Coordinator) mutate(ctx context.Context, key LineKey, op Op, call func(context.Context) error) error {
	c.mu.Lock()
	if prev, ok := c.pending[key]; ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s in flight", ErrConflictingMutation, prev)
	}
	c.pending[key] = op
	c.mu.Unlock()

	release := func() {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
	}

	if err := call(ctx); err != nil {
		release()
		c.logger.Warn("cart mutation failed", "op", string(op), "error", err)
		c.notifyError(err)
		return err
	}

	// The ack carries no snapshot; re-fetch unconditionally. The remote
	// computes authoritative totals and may apply rules (stock limits) the
	// client does not know about.
	defer release()
	if _, err := c.Refresh(ctx); err != nil {
		return err
	}
	return nil
}
