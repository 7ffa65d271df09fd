package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/shoebot/storefront/internal/store"
)

// addItemRequest is the cart add payload
type addItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// updateItemRequest is the cart update payload
type updateItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// CartHandler serves the cart endpoints. Every mutation responds with
// the resulting snapshot, though clients are expected to re-fetch.
type CartHandler struct {
	carts  *store.CartStore
	logger *slog.Logger
}

// NewCartHandler creates a cart handler
func NewCartHandler(carts *store.CartStore, logger *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// Get handles GET /api/cart
func (h *CartHandler) Get(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	if userID == "" {
		ErrorResponse(c, store.ErrUnauthorized)
		return
	}

	SuccessResponse(c, h.carts.Get(userID))
}

// Add handles POST /api/cart/add
func (h *CartHandler) Add(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	if userID == "" {
		ErrorResponse(c, store.ErrUnauthorized)
		return
	}

	var req addItemRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("invalid cart add request", "error", err)
		ErrorResponse(c, store.ErrInvalidInput)
		return
	}

	snapshot, err := h.carts.AddItem(userID, req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		h.logger.Warn("cart add rejected",
			"user_id", userID,
			"product_id", req.ProductID,
			"error", err,
		)
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, snapshot)
}

// Update handles PUT /api/cart/update
func (h *CartHandler) Update(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	if userID == "" {
		ErrorResponse(c, store.ErrUnauthorized)
		return
	}

	var req updateItemRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("invalid cart update request", "error", err)
		ErrorResponse(c, store.ErrInvalidInput)
		return
	}

	snapshot, err := h.carts.UpdateQuantity(userID, req.ItemID, req.Quantity)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, snapshot)
}

// Remove handles DELETE /api/cart/remove/:itemId
func (h *CartHandler) Remove(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	if userID == "" {
		ErrorResponse(c, store.ErrUnauthorized)
		return
	}

	snapshot, err := h.carts.RemoveItem(userID, c.Param("itemId"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, snapshot)
}

// Clear handles DELETE /api/cart/clear
func (h *CartHandler) Clear(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	if userID == "" {
		ErrorResponse(c, store.ErrUnauthorized)
		return
	}

	SuccessResponse(c, h.carts.Clear(userID))
}
