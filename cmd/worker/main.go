package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/config"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/db"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/queue"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/repository"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/service"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/worker"
)

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting buyer leads import worker")

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
	jobRepo := repository.NewImportJobRepository(database.DB)

	// Initialize services
	codec := service.NewFieldCodec()
	validator := service.NewBuyerValidator(codec)
	csv := service.NewBuyerCSV(validator, codec)

	importSvc := service.NewImportService(
		csv,
		buyerRepo,
		jobRepo,
		queueClient,
		cfg.Import.MaxRows,
		logger,
	)

	// Initialize import processor
	processor := worker.NewImportProcessor(importSvc, logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming jobs
	consumerErrors := make(chan error, 1)
	go func() {
		logger.Info("starting import consumer",
			slog.Int("concurrency", cfg.Worker.Concurrency),
		)

		handler := func(ctx context.Context, job *models.ImportJobMessage) error {
			return processor.Process(ctx, job)
		}

		consumerErrors <- queueClient.Consume(ctx, handler, cfg.Worker.Concurrency)
	}()

	// Wait for interrupt signal or consumer error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil && err != context.Canceled {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))

		// Cancel context to stop consumer
		cancel()

		// Give consumer time to finish current jobs
		time.Sleep(5 * time.Second)

		logger.Info("worker stopped gracefully")
	}
}
