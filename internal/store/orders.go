package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shoebot/storefront/internal/cart"
)

// ShippingInfo is the checkout shipping form
type ShippingInfo struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

// Order is a placed order
type Order struct {
	ID        string       `json:"id"`
	UserID    string       `json:"-"`
	Items     []cart.Line  `json:"items"`
	Shipping  ShippingInfo `json:"shipping"`
	Total     float64      `json:"total"`
	Status    string       `json:"status"`
	CreatedAt string       `json:"created_at"`
}

// OrderStore keeps placed orders in memory
type OrderStore struct {
	mu     sync.Mutex
	carts  *CartStore
	orders map[string][]Order
}

// NewOrderStore creates an order store draining carts from the given
// cart store
func NewOrderStore(carts *CartStore) *OrderStore {
	return &OrderStore{
		carts:  carts,
		orders: make(map[string][]Order),
	}
}

// Create places an order for the user's current cart and empties the
// cart. An empty cart is an invalid-input error.
func (s *OrderStore) Create(userID string, shipping ShippingInfo) (Order, error) {
	if shipping.FullName == "" || shipping.Address == "" {
		return Order{}, NewInvalidInputError("shipping name and address are required")
	}

	snapshot := s.carts.Get(userID)
	if len(snapshot.Items) == 0 {
		return Order{}, NewInvalidInputError("cart is empty")
	}

	order := Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     snapshot.Items,
		Shipping:  shipping,
		Total:     snapshot.Total,
		Status:    "confirmed",
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.orders[userID] = append(s.orders[userID], order)
	s.mu.Unlock()

	s.carts.Clear(userID)

	return order, nil
}

// List returns the user's orders, newest last
func (s *OrderStore) List(userID string) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Order, len(s.orders[userID]))
	copy(out, s.orders[userID])
	return out
}
