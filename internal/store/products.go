package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/shoebot/storefront/internal/catalog"
)

// ProductStore keeps the catalog in memory
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]catalog.Product
}

// NewProductStore creates a product store seeded with the demo catalog
func NewProductStore() *ProductStore {
	s := &ProductStore{products: make(map[string]catalog.Product)}
	for _, p := range seedProducts() {
		s.products[p.ID] = p
	}
	return s
}

// List returns all products ordered by id
func (s *ProductStore) List() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns one product by id
func (s *ProductStore) Get(id string) (catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, NewNotFoundError("product", id)
	}
	return p, nil
}

// Search returns products whose name, brand, or category contains the
// query, case-insensitively
func (s *ProductStore) Search(query string) []catalog.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.List()
	}

	var out []catalog.Product
	for _, p := range s.List() {
		haystack := strings.ToLower(p.Name + " " + p.Brand + " " + p.Category + " " + p.Description)
		if strings.Contains(haystack, query) {
			out = append(out, p)
		}
	}
	return out
}

// seedProducts is the demo shoe catalog
func seedProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID:          "p1",
			Name:        "Nike Air Max",
			Brand:       "Nike",
			Category:    "running",
			Description: "Classic cushioned runner with a visible air unit.",
			Price:       120,
			Sizes:       []string{"7", "8", "9", "10", "11", "12"},
			Colors:      []string{"black", "white", "red"},
		},
		{
			ID:          "p2",
			Name:        "Adidas Ultraboost",
			Brand:       "Adidas",
			Category:    "running",
			Description: "Responsive knit trainer for long miles.",
			Price:       150,
			Sizes:       []string{"7", "8", "9", "10", "11"},
			Colors:      []string{"black", "white", "blue"},
		},
		{
			ID:          "p3",
			Name:        "Puma RS-X",
			Brand:       "Puma",
			Category:    "lifestyle",
			Description: "Chunky retro sneaker with bold color blocking.",
			Price:       110,
			Sizes:       []string{"8", "9", "10", "11"},
			Colors:      []string{"white", "yellow", "green"},
		},
		{
			ID:          "p4",
			Name:        "Converse Chuck 70",
			Brand:       "Converse",
			Category:    "lifestyle",
			Description: "High-top canvas classic with vintage details.",
			Price:       85,
			Sizes:       []string{"6", "7", "8", "9", "10", "11", "12"},
			Colors:      []string{"black", "white", "navy"},
		},
		{
			ID:          "p5",
			Name:        "New Balance 990v6",
			Brand:       "New Balance",
			Category:    "running",
			Description: "Premium made-in-USA stability trainer.",
			Price:       200,
			Sizes:       []string{"8", "9", "10", "11", "12"},
			Colors:      []string{"grey", "navy"},
		},
		{
			ID:          "p6",
			Name:        "Vans Old Skool",
			Brand:       "Vans",
			Category:    "skate",
			Description: "Durable suede and canvas skate staple.",
			Price:       70,
			Sizes:       []string{"6", "7", "8", "9", "10", "11"},
			Colors:      []string{"black", "checkerboard"},
		},
	}
}
