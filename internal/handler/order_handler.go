package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/shoebot/storefront/internal/store"
)

// orderRequest is the checkout payload
type orderRequest struct {
	Shipping store.ShippingInfo `json:"shipping"`
}

// OrderHandler serves the checkout endpoints
type OrderHandler struct {
	orders *store.OrderStore
	logger *slog.Logger
}

// NewOrderHandler creates an order handler
func NewOrderHandler(orders *store.OrderStore, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	if userID == "" {
		ErrorResponse(c, store.ErrUnauthorized)
		return
	}

	var req orderRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("invalid order request", "error", err)
		ErrorResponse(c, store.ErrInvalidInput)
		return
	}

	order, err := h.orders.Create(userID, req.Shipping)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	h.logger.Info("order placed",
		"user_id", userID,
		"order_id", order.ID,
		"total", order.Total,
	)

	CreatedResponse(c, order)
}

// List handles GET /api/orders
func (h *OrderHandler) List(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	if userID == "" {
		ErrorResponse(c, store.ErrUnauthorized)
		return
	}

	orders := h.orders.List(userID)
	SuccessResponse(c, ListResponse{Items: orders, Total: len(orders)})
}
