package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/catalog"
)

// CartStore keeps one cart per user in memory. Totals are recomputed on
// every read so the snapshot the server hands out is always consistent
// with its line items.
type CartStore struct {
	mu         sync.Mutex
	products   *ProductStore
	carts      map[string][]cart.Line
	maxPerLine int
}

// NewCartStore creates a cart store backed by the given catalog
func NewCartStore(products *ProductStore, maxPerLine int) *CartStore {
	if maxPerLine < 1 {
		maxPerLine = 10
	}
	return &CartStore{
		products:   products,
		carts:      make(map[string][]cart.Line),
		maxPerLine: maxPerLine,
	}
}

// Get returns the user's cart snapshot
func (s *CartStore) Get(userID string) cart.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(userID)
}

// AddItem adds quantity units of a product variant. Adding a variant
// already in the cart sums the quantities, capped at the per-line limit.
func (s *CartStore) AddItem(userID, productID, size, color string, quantity int) (cart.Snapshot, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.products.Get(productID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	// Resolve the color against the catalog casing
	resolvedColor, ok := resolveColor(product, color)
	if !ok || !product.HasSize(size) {
		return cart.Snapshot{}, NewInvalidInputError("product " + product.Name + " is not offered in that size and color")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].Product.ID == productID && lines[i].Size == size && strings.EqualFold(lines[i].Color, resolvedColor) {
			lines[i].Quantity += quantity
			if lines[i].Quantity > s.maxPerLine {
				lines[i].Quantity = s.maxPerLine
			}
			s.carts[userID] = lines
			return s.snapshotLocked(userID), nil
		}
	}

	s.carts[userID] = append(lines, cart.Line{
		ID:       uuid.New().String(),
		Product:  product,
		Size:     size,
		Color:    resolvedColor,
		Quantity: quantity,
	})
	return s.snapshotLocked(userID), nil
}

// UpdateQuantity sets a line's quantity. Anything below one removes the
// line.
func (s *CartStore) UpdateQuantity(userID, itemID string, quantity int) (cart.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].ID != itemID {
			continue
		}
		if quantity < 1 {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
		} else {
			if quantity > s.maxPerLine {
				quantity = s.maxPerLine
			}
			lines[i].Quantity = quantity
			s.carts[userID] = lines
		}
		return s.snapshotLocked(userID), nil
	}

	return cart.Snapshot{}, NewNotFoundError("cart item", itemID)
}

// RemoveItem deletes a line from the cart
func (s *CartStore) RemoveItem(userID, itemID string) (cart.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].ID == itemID {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
			return s.snapshotLocked(userID), nil
		}
	}

	return cart.Snapshot{}, NewNotFoundError("cart item", itemID)
}

// RemoveByVariant deletes the line matching a product variant, used by
// the chat assistant which speaks in variants rather than line ids
func (s *CartStore) RemoveByVariant(userID, productID, size, color string) (cart.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	for i := range lines {
		if lines[i].Product.ID == productID && lines[i].Size == size && strings.EqualFold(lines[i].Color, color) {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
			return s.snapshotLocked(userID), nil
		}
	}

	return cart.Snapshot{}, NewNotFoundError("cart item", productID)
}

// Clear empties the user's cart
func (s *CartStore) Clear(userID string) cart.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return s.snapshotLocked(userID)
}

func (s *CartStore) snapshotLocked(userID string) cart.Snapshot {
	lines := s.carts[userID]
	items := make([]cart.Line, len(lines))
	copy(items, lines)
	return cart.Snapshot{
		Items: items,
		Total: cart.ComputeTotal(items),
	}
}

func resolveColor(p catalog.Product, color string) (string, bool) {
	for _, c := range p.Colors {
		if strings.EqualFold(c, color) {
			return c, true
		}
	}
	return "", false
}
