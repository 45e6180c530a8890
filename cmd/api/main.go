package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garden-store/internal/cart"
	"garden-store/internal/config"
	"garden-store/internal/database"
	"garden-store/internal/handler"
	"garden-store/internal/notify"
	"garden-store/internal/photo"
	"garden-store/internal/pickup"
	"garden-store/internal/repository"
	"garden-store/internal/router"
	"garden-store/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting garden-store API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize cart storage with Redis and in-memory fallback
	var cartStore cart.Store
	if cfg.Cart.RedisEnabled {
		redisStore, err := cart.NewRedisStore(ctx, cfg.Cart.RedisURL, time.Duration(cfg.Cart.TTL)*time.Second, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to connect to Redis, falling back to in-memory carts")
			cartStore = cart.NewMemoryStore()
		} else {
			cartStore = redisStore
		}
	} else {
		cartStore = cart.NewMemoryStore()
		logger.Info().Msg("using in-memory session carts (Redis disabled)")
	}

	// Initialize photo storage with S3 and local fallback. When photos
	// live locally the router also serves the upload directory.
	var photoStore photo.Store
	uploadsDir := ""
	if cfg.Photos.S3Enabled {
		s3Store, err := photo.NewS3Store(ctx, cfg.Photos.Bucket, cfg.Photos.Region, cfg.Photos.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 photo storage, falling back to local file system")
			photoStore, err = photo.NewLocalStore(cfg.Photos.UploadDir, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize photo storage: %w", err)
			}
			uploadsDir = cfg.Photos.UploadDir
		} else {
			photoStore = s3Store
		}
	} else {
		photoStore, err = photo.NewLocalStore(cfg.Photos.UploadDir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize photo storage: %w", err)
		}
		uploadsDir = cfg.Photos.UploadDir
		logger.Info().Msg("using local file system for product photos (S3 disabled)")
	}

	// Initialize the order notifier
	var notifier notify.Notifier
	if cfg.Notifier.Enabled {
		notifier = notify.NewBotNotifier(cfg.Notifier.URL, time.Duration(cfg.Notifier.Timeout)*time.Second, logger)
	} else {
		notifier = notify.NewNoopNotifier()
		logger.Info().Msg("order notifications disabled")
	}

	// Initialize services
	productService := service.NewProductService(productRepo, photoStore, logger)
	cartService := service.NewCartService(cartStore, productRepo, logger)
	orderService := service.NewOrderService(
		orderRepo,
		productRepo,
		pickup.DefaultWindow(),
		notifier,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		logger,
	)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, cartService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, orderHandler, cfg.Admin, cfg.Static.Dir, uploadsDir, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
