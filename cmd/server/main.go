package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fitstore/fitstore-backend/config"
	"github.com/fitstore/fitstore-backend/internal/app/controller"
	"github.com/fitstore/fitstore-backend/internal/app/repository"
	"github.com/fitstore/fitstore-backend/internal/app/service"
	"github.com/fitstore/fitstore-backend/internal/notify"
	"github.com/fitstore/fitstore-backend/internal/router"
	"github.com/fitstore/fitstore-backend/internal/scheduler"
	"github.com/fitstore/fitstore-backend/internal/storage"
	"github.com/fitstore/fitstore-backend/pkg/catalog"
	"github.com/fitstore/fitstore-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting FITSTORE Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize storage
	var kv storage.KV
	switch cfg.Storage.Driver {
	case "postgres":
		kv, err = storage.NewPostgresKV(&cfg.Storage.Database)
	default:
		kv, err = storage.NewRedisKV(&cfg.Storage.Redis)
	}
	if err != nil {
		logger.Fatal("Failed to initialize storage", err, map[string]interface{}{
			"driver": cfg.Storage.Driver,
		})
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error("Failed to close storage", err)
		}
	}()

	// Initialize catalog feed client and load the initial snapshot. A failed
	// first load is not fatal: the scheduler retries and the API answers 503
	// until a load succeeds.
	catalogClient, err := catalog.NewClient(catalog.Config{
		SourceURL:      cfg.Catalog.SourceURL,
		RequestTimeout: cfg.Catalog.RequestTimeout,
	})
	if err != nil {
		logger.Fatal("Failed to create catalog client", err)
	}

	catalogService := service.NewCatalogService(catalogClient)
	if err := catalogService.Refresh(context.Background()); err != nil {
		logger.Warn("Initial catalog load failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Notification hub
	hub := notify.NewHub()
	go hub.Run()

	// Initialize repositories and services
	cartRepo := repository.NewCartRepository(kv)
	cartService := service.NewCartService(cartRepo, catalogService, hub)
	checkoutService := service.NewCheckoutService(cartService, cartRepo, hub, cfg.Checkout.ProcessingDelay)

	// Initialize controllers
	catalogController := controller.NewCatalogController(catalogService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	notificationController := controller.NewNotificationController(hub)

	// Periodic catalog refresh
	catalogScheduler := scheduler.NewCatalogScheduler(catalogService, cfg.Catalog.RefreshSpec)
	if err := catalogScheduler.Start(); err != nil {
		logger.Fatal("Failed to start catalog scheduler", err)
	}
	defer catalogScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		catalogController,
		cartController,
		checkoutController,
		notificationController,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
