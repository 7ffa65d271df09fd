package catalog

// SelectionResult classifies a candidate (size, color) pair for a product.
type SelectionResult int

const (
	// SelectionValid means both size and color are present and offered.
	SelectionValid SelectionResult = iota
	// SelectionIncomplete means size or color is missing entirely.
	SelectionIncomplete
	// SelectionInvalid means a selection is present but the product does not
	// offer it. Distinct from SelectionIncomplete so callers can produce
	// different user-facing messages.
	SelectionInvalid
)

func (r SelectionResult) String() string {
	switch r {
	case SelectionValid:
		return "valid"
	case SelectionIncomplete:
		return "incomplete"
	case SelectionInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ValidateSelection checks a candidate variant against the product's option
// sets. Pure function, safe to call from both the catalog view and the chat
// path. Both values must be chosen before any add-to-cart request is issued.
func ValidateSelection(p Product, size, color string) SelectionResult {
	if size == "" || color == "" {
		return SelectionIncomplete
	}
	if !p.HasSize(size) || !p.HasColor(color) {
		return SelectionInvalid
	}
	return SelectionValid
}
