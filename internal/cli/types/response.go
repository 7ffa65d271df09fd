package types

// APIResponse is the storefront's generic response envelope.
type APIResponse[T any] struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ListData wraps list payloads.
type ListData[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
