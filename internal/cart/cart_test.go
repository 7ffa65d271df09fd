package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shoebot/storefront/internal/catalog"
)

func line(id, productID, size, color string, price float64, qty int) Line {
	return Line{
		ID:       id,
		Product:  catalog.Product{ID: productID, Name: "Shoe " + productID, Price: price, Sizes: []string{size}, Colors: []string{color}},
		Size:     size,
		Color:    color,
		Quantity: qty,
	}
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  float64
	}{
		{"empty", nil, 0},
		{"single line", []Line{line("l1", "p1", "10", "black", 50, 2)}, 100},
		{"multiple lines", []Line{
			line("l1", "p1", "10", "black", 50, 2),
			line("l2", "p2", "9", "red", 89.99, 1),
		}, 189.99},
		{"rounds to cents", []Line{line("l1", "p1", "8", "white", 33.333, 3)}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTotal(tt.lines))
		})
	}
}

func TestMergeLineReplacesQuantity(t *testing.T) {
	lines := []Line{line("l1", "p1", "10", "black", 50, 2)}

	// Same key: quantity is replaced, not summed. The remote already did
	// the arithmetic; the client only mirrors it.
	merged := MergeLine(lines, line("l1", "p1", "10", "black", 50, 5))
	assert.Len(t, merged, 1)
	assert.Equal(t, 5, merged[0].Quantity)

	// The input sequence is never mutated.
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestMergeLineAppendsNewKey(t *testing.T) {
	lines := []Line{line("l1", "p1", "10", "black", 50, 2)}

	// Same product, different color: a distinct key, appended in order.
	merged := MergeLine(lines, line("l2", "p1", "10", "red", 50, 1))
	assert.Len(t, merged, 2)
	assert.Equal(t, "l1", merged[0].ID)
	assert.Equal(t, "l2", merged[1].ID)
}

func TestNormalizeCollapsesDuplicateKeys(t *testing.T) {
	snap := Normalize([]Line{
		line("l1", "p1", "10", "black", 50, 2),
		line("l2", "p2", "9", "red", 20, 1),
		line("l3", "p1", "10", "black", 50, 4), // duplicate key, later wins
	})

	assert.Len(t, snap.Items, 2)
	keys := map[LineKey]bool{}
	for _, l := range snap.Items {
		assert.False(t, keys[l.Key()], "duplicate key published: %+v", l.Key())
		keys[l.Key()] = true
	}
	assert.Equal(t, 4, snap.Items[0].Quantity)
	assert.Equal(t, 220.0, snap.Total)
}

func TestSnapshotItemCount(t *testing.T) {
	snap := Normalize([]Line{
		line("l1", "p1", "10", "black", 50, 2),
		line("l2", "p2", "9", "red", 20, 3),
	})
	assert.Equal(t, 5, snap.ItemCount())
	assert.Equal(t, 0, Snapshot{}.ItemCount())
}
