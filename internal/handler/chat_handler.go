package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/shoebot/storefront/internal/assistant"
	"github.com/shoebot/storefront/internal/store"
)

// chatRequest is one chat turn from the client
type chatRequest struct {
	Message string `json:"message"`
}

// ChatHandler serves the shopping assistant endpoint
type ChatHandler struct {
	assistant *assistant.Assistant
	logger    *slog.Logger
}

// NewChatHandler creates a chat handler
func NewChatHandler(a *assistant.Assistant, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{assistant: a, logger: logger}
}

// Message handles POST /api/chat/message
func (h *ChatHandler) Message(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	if userID == "" {
		ErrorResponse(c, store.ErrUnauthorized)
		return
	}

	var req chatRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("invalid chat request", "error", err)
		ErrorResponse(c, store.ErrInvalidInput)
		return
	}

	reply := h.assistant.Reply(req.Message)

	h.logger.Info("chat turn",
		"user_id", userID,
		"intent", reply.Intent,
		"products", len(reply.Products),
	)

	SuccessResponse(c, reply)
}
