package cart

import (
	"math"

	"github.com/shoebot/storefront/internal/catalog"
)

// LineKey identifies a unique cart entry: one product in one size and color.
// No two lines in a published snapshot may share a key.
type LineKey struct {
	ProductID string
	Size      string
	Color     string
}

// Line is a single cart entry referencing a catalog product.
type Line struct {
	ID       string          `json:"id"`
	Product  catalog.Product `json:"product"`
	Size     string          `json:"size"`
	Color    string          `json:"color"`
	Quantity int             `json:"quantity"`
}

// Key returns the line's identity key.
func (l Line) Key() LineKey {
	return LineKey{ProductID: l.Product.ID, Size: l.Size, Color: l.Color}
}

// Subtotal is the line's contribution to the cart total.
func (l Line) Subtotal() float64 {
	return roundCents(l.Product.Price * float64(l.Quantity))
}

// Snapshot is the complete, authoritative state of a cart at a point in
// time. Every snapshot the Coordinator publishes satisfies
// Total == Σ price×quantity over Items.
type Snapshot struct {
	Items []Line  `json:"items"`
	Total float64 `json:"total"`
}

// ItemCount is the badge count: the sum of quantities over all lines. It is
// always derived from the snapshot, never fetched or cached independently,
// so the badge and the sidebar cannot diverge.
func (s Snapshot) ItemCount() int {
	n := 0
	for _, l := range s.Items {
		n += l.Quantity
	}
	return n
}

// Line returns the line with the given id, if present.
func (s Snapshot) Line(id string) (Line, bool) {
	for _, l := range s.Items {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

// LineByKey returns the line with the given identity key, if present.
func (s Snapshot) LineByKey(key LineKey) (Line, bool) {
	for _, l := range s.Items {
		if l.Key() == key {
			return l, true
		}
	}
	return Line{}, false
}

// ComputeTotal derives the snapshot total from its lines, rounded to cents.
func ComputeTotal(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Product.Price * float64(l.Quantity)
	}
	return roundCents(sum)
}

// MergeLine returns a new line sequence with candidate merged in. If a line
// with the same key exists its quantity is replaced with the candidate's,
// not summed: the remote system is authoritative and the client re-fetches
// after every mutation rather than trusting local arithmetic. Order of
// existing lines is preserved; a new key is appended.
func MergeLine(lines []Line, candidate Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	for i, l := range out {
		if l.Key() == candidate.Key() {
			out[i].Quantity = candidate.Quantity
			if candidate.ID != "" {
				out[i].ID = candidate.ID
			}
			return out
		}
	}
	return append(out, candidate)
}

// Normalize builds a publishable snapshot from raw wire lines: duplicate
// keys collapse through MergeLine and the total is recomputed from the
// surviving lines.
func Normalize(items []Line) Snapshot {
	var lines []Line
	for _, l := range items {
		lines = MergeLine(lines, l)
	}
	return Snapshot{Items: lines, Total: ComputeTotal(lines)}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
