package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/network/netpoll"
	"github.com/spf13/cobra"

	"github.com/shoebot/storefront/internal/assistant"
	"github.com/shoebot/storefront/internal/config"
	"github.com/shoebot/storefront/internal/handler"
	"github.com/shoebot/storefront/internal/router"
	"github.com/shoebot/storefront/internal/store"
	"github.com/shoebot/storefront/pkg/logger"
)

var (
	cfgFile string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "mockstore",
	Short: "In-memory storefront API server",
	Long: `Mockstore is an in-memory storefront API server built with Hertz.
It serves the catalog, cart, chat, and checkout endpoints that shopctl
talks to, seeded with a demo shoe catalog. All state lives in memory
and is lost on restart.`,
	Version: version,
	Run:     runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	slog.Info("mockstore starting...",
		"version", version,
		"config", cfgFile,
	)

	// Setup Hertz to use slog
	hertzLogger := logger.NewHertzSlogAdapter(slog.Default())
	hlog.SetLogger(hertzLogger)
	hlog.SetLevel(hlog.LevelDebug)

	// Initialize the in-memory stores
	users := store.NewUserStore()
	products := store.NewProductStore()
	carts := store.NewCartStore(products, cfg.Store.MaxPerLine)
	orders := store.NewOrderStore(carts)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(users, cfg.JWT.Secret, slog.Default())
	productHandler := handler.NewProductHandler(products, slog.Default())
	cartHandler := handler.NewCartHandler(carts, slog.Default())
	chatHandler := handler.NewChatHandler(assistant.New(products, slog.Default()), slog.Default())
	orderHandler := handler.NewOrderHandler(orders, slog.Default())
	healthHandler := handler.NewHealthHandler()

	slog.Info("handlers initialized")

	// Create Hertz server
	h := server.Default(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithReadTimeout(cfg.Server.ReadTimeout),
		server.WithWriteTimeout(cfg.Server.WriteTimeout),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodySize),
		server.WithTransport(netpoll.NewTransporter),
	)

	// Setup routes
	router.Setup(h, authHandler, productHandler, cartHandler, chatHandler, orderHandler, healthHandler)

	slog.Info("server started successfully",
		"address", cfg.GetServerAddr(),
		"mode", cfg.Server.Mode,
	)

	// Graceful shutdown
	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
