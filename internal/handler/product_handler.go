package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/shoebot/storefront/internal/store"
)

// ProductHandler serves the catalog endpoints
type ProductHandler struct {
	products *store.ProductStore
	logger   *slog.Logger
}

// NewProductHandler creates a product handler
func NewProductHandler(products *store.ProductStore, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// List handles GET /api/products
func (h *ProductHandler) List(ctx context.Context, c *app.RequestContext) {
	items := h.products.List()
	SuccessResponse(c, ListResponse{Items: items, Total: len(items)})
}

// Get handles GET /api/products/:id
func (h *ProductHandler) Get(ctx context.Context, c *app.RequestContext) {
	id := c.Param("id")

	product, err := h.products.Get(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, product)
}

// Search handles GET /api/products/search?q=
func (h *ProductHandler) Search(ctx context.Context, c *app.RequestContext) {
	query := string(c.Query("q"))

	items := h.products.Search(query)
	SuccessResponse(c, ListResponse{Items: items, Total: len(items)})
}
