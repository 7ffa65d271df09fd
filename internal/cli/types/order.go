package types

// ShippingInfo is the checkout shipping form. Field-level payment
// validation lives server-side; the client only collects the values.
type ShippingInfo struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

// OrderRequest creates an order from the current cart.
type OrderRequest struct {
	Shipping ShippingInfo `json:"shipping"`
}

// Order is the acknowledgment returned after checkout.
type Order struct {
	ID        string  `json:"id"`
	Total     float64 `json:"total"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}
