package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/config"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/db"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/handler"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/queue"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/ratelimit"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/repository"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/service"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting buyer leads API server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to database
	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	// Connect to Redis queue
	queueClient, err := queue.NewRedisClient(queue.RedisConfig{
		URL:       cfg.Queue.RedisURL,
		QueueName: cfg.Queue.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	logger.Info("connected to Redis queue")

	// Initialize repositories
	buyerRepo := repository.NewBuyerRepository(database.DB)
	historyRepo := repository.NewHistoryRepository(database.DB)
	jobRepo := repository.NewImportJobRepository(database.DB)

	// Initialize services
	codec := service.NewFieldCodec()
	validator := service.NewBuyerValidator(codec)
	csv := service.NewBuyerCSV(validator, codec)

	buyerSvc := service.NewBuyerService(buyerRepo, historyRepo, validator, csv, logger)
	importSvc := service.NewImportService(
		csv,
		buyerRepo,
		jobRepo,
		queueClient,
		cfg.Import.MaxRows,
		logger,
	)

	// Initialize handlers
	buyerHandler := handler.NewBuyerHandler(buyerSvc, logger)
	importHandler := handler.NewImportHandler(importSvc, logger)
	healthHandler := handler.NewHealthHandler(database.DB, queueClient, logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(handler.RecoveryMiddleware(logger))
	r.Use(handler.RequestIDMiddleware)
	r.Use(handler.LoggingMiddleware(logger))
	r.Use(handler.CORSMiddleware)

	if cfg.RateLimit.Enabled {
		limiterCfg := ratelimit.Config{
			Limit:  cfg.RateLimit.Limit,
			Window: cfg.RateLimit.Window,
		}
		var limiter ratelimit.Limiter
		if cfg.RateLimit.UseRedis {
			opts, err := redis.ParseURL(cfg.Queue.RedisURL)
			if err != nil {
				logger.Error("failed to parse Redis URL for rate limiter", slog.String("error", err.Error()))
				os.Exit(1)
			}
			limiter = ratelimit.NewRedisLimiter(redis.NewClient(opts), limiterCfg)
		} else {
			limiter = ratelimit.NewMemoryLimiter(limiterCfg)
		}
		r.Use(handler.RateLimitMiddleware(limiter, logger))
	}

	// Register routes
	r.Get("/health", healthHandler.Health)

	r.Route("/buyers", func(r chi.Router) {
		r.Post("/", buyerHandler.CreateBuyer)
		r.Get("/", buyerHandler.ListBuyers)
		r.Post("/validate", buyerHandler.ValidateBuyer)
		r.Post("/import", importHandler.ImportBuyers)
		r.Post("/import-jobs", importHandler.EnqueueImport)
		r.Get("/export", buyerHandler.ExportBuyers)
		r.Get("/{id}", buyerHandler.GetBuyer)
		r.Put("/{id}", buyerHandler.UpdateBuyer)
		r.Delete("/{id}", buyerHandler.DeleteBuyer)
		r.Get("/{id}/history", buyerHandler.GetBuyerHistory)
	})

	r.Get("/import-jobs/{id}", importHandler.GetImportJob)

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}
