package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/shoebot/storefront/internal/handler"
	"github.com/shoebot/storefront/internal/middleware"
)

// Setup sets up all routes
func Setup(
	h *server.Hertz,
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	chatHandler *handler.ChatHandler,
	orderHandler *handler.OrderHandler,
	healthHandler *handler.HealthHandler,
) {
	// Global middleware
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	// Health check routes (no authentication required)
	h.GET("/ping", healthHandler.Ping)
	h.GET("/health/ready", healthHandler.Readiness)
	h.GET("/health/live", healthHandler.Liveness)

	api := h.Group("/api")
	{
		// ============ Public routes (no authentication required) ============
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
		}

		// ============ Protected routes (JWT authentication required) ============
		authorized := api.Group("")
		authorized.Use(authHandler.AuthMiddleware())
		{
			// Catalog
			products := authorized.Group("/products")
			{
				products.GET("", productHandler.List)
				products.GET("/search", productHandler.Search)
				products.GET("/:id", productHandler.Get)
			}

			// Cart
			cart := authorized.Group("/cart")
			{
				cart.GET("", cartHandler.Get)
				cart.POST("/add", cartHandler.Add)
				cart.PUT("/update", cartHandler.Update)
				cart.DELETE("/remove/:itemId", cartHandler.Remove)
				cart.DELETE("/clear", cartHandler.Clear)
			}

			// Shopping assistant
			authorized.POST("/chat/message", chatHandler.Message)

			// Checkout
			orders := authorized.Group("/orders")
			{
				orders.POST("", orderHandler.Create)
				orders.GET("", orderHandler.List)
			}
		}
	}
}
