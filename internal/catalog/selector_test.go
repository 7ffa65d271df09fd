package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSelection(t *testing.T) {
	runner := Product{
		ID:     "p-1",
		Name:   "Road Runner",
		Brand:  "Stride",
		Price:  89.99,
		Sizes:  []string{"8", "9", "10"},
		Colors: []string{"black", "red"},
	}

	tests := []struct {
		name  string
		size  string
		color string
		want  SelectionResult
	}{
		{"both present and offered", "9", "red", SelectionValid},
		{"color matched case-insensitively", "10", "Black", SelectionValid},
		{"missing size", "", "red", SelectionIncomplete},
		{"missing color", "9", "", SelectionIncomplete},
		{"both missing", "", "", SelectionIncomplete},
		{"size not offered", "12", "red", SelectionInvalid},
		{"color not offered", "9", "green", SelectionInvalid},
		{"both not offered", "12", "green", SelectionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSelection(runner, tt.size, tt.color))
		})
	}
}

func TestValidateSelectionNoOptions(t *testing.T) {
	// A product without option sets can never validate a concrete selection.
	bare := Product{ID: "p-2", Name: "Mystery Shoe"}
	assert.Equal(t, SelectionIncomplete, ValidateSelection(bare, "", ""))
	assert.Equal(t, SelectionInvalid, ValidateSelection(bare, "9", "red"))
}
