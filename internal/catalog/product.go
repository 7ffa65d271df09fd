package catalog

import "strings"

// Product is a catalog entry as served by the storefront API. The catalog
// service owns products; the client treats them as immutable.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Image       string   `json:"image,omitempty"`
}

// HasSize reports whether size is one of the product's offered sizes.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// HasColor reports whether color is one of the product's offered colors.
// Colors are matched case-insensitively: the catalog stores them lowercase
// but the chat path may produce capitalized ones.
func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}
