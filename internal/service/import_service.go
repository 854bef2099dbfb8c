package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/queue"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/repository"
)

// ImportService orchestrates bulk CSV imports, synchronously or through the
// job queue
type ImportService interface {
	// Import parses the document and, depending on the mode, persists all
	// valid rows (partial) or only persists when every row validated
	// (atomic). The returned result always carries the full row error list.
	Import(ctx context.Context, text, mode string) (*models.ImportResult, error)

	// Enqueue stores an import job and queues it for the worker.
	Enqueue(ctx context.Context, text, mode, requestedBy string) (*models.ImportJob, error)

	// GetJob retrieves an import job with its result, if finished.
	GetJob(ctx context.Context, id uuid.UUID) (*models.ImportJob, error)

	// ProcessJob runs one queued job to completion. Called by the worker.
	ProcessJob(ctx context.Context, jobID uuid.UUID) error
}

type importService struct {
	csv       BuyerCSV
	buyerRepo repository.BuyerRepository
	jobRepo   repository.ImportJobRepository
	queue     queue.Client
	maxRows   int
	logger    *slog.Logger
}

// NewImportService creates a new import service. maxRows is the data-row
// ceiling above which a batch is rejected outright.
func NewImportService(
	csv BuyerCSV,
	buyerRepo repository.BuyerRepository,
	jobRepo repository.ImportJobRepository,
	queueClient queue.Client,
	maxRows int,
	logger *slog.Logger,
) ImportService {
	return &importService{
		csv:       csv,
		buyerRepo: buyerRepo,
		jobRepo:   jobRepo,
		queue:     queueClient,
		maxRows:   maxRows,
		logger:    logger,
	}
}

// Import runs the CSV pipeline and persists rows according to the mode
func (s *importService) Import(ctx context.Context, text, mode string) (*models.ImportResult, error) {
	if !models.IsValidImportMode(mode) {
		return nil, models.ErrInvalidInput(
			fmt.Sprintf("invalid import mode: %s (must be 'atomic' or 'partial')", mode),
		)
	}
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrInvalidInput("csv document is empty")
	}

	result := s.csv.ParseImport(text)

	if result.TotalRows > s.maxRows {
		return nil, models.ErrInvalidInput(
			fmt.Sprintf("import has %d rows, the maximum is %d", result.TotalRows, s.maxRows),
		)
	}

	// Header errors abort before any row processing; nothing to persist.
	if len(result.RowErrors) > 0 && result.RowErrors[0].Row == 0 {
		return result, nil
	}

	if mode == models.ImportModeAtomic && !result.Success {
		s.logger.Info("atomic import rejected",
			slog.Int("total_rows", result.TotalRows),
			slog.Int("invalid_rows", result.InvalidRows),
		)
		return result, nil
	}

	if len(result.Records) > 0 {
		for _, buyer := range result.Records {
			buyer.ID = uuid.New()
		}
		if err := s.buyerRepo.CreateBatch(ctx, result.Records); err != nil {
			s.logger.Error("failed to persist imported buyers",
				slog.Int("count", len(result.Records)),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("failed to persist imported buyers: %w", err)
		}
	}

	s.logger.Info("import finished",
		slog.String("mode", mode),
		slog.Int("total_rows", result.TotalRows),
		slog.Int("valid_rows", result.ValidRows),
		slog.Int("invalid_rows", result.InvalidRows),
	)

	return result, nil
}

// Enqueue stores an import job and publishes it to the queue
func (s *importService) Enqueue(ctx context.Context, text, mode, requestedBy string) (*models.ImportJob, error) {
	if !models.IsValidImportMode(mode) {
		return nil, models.ErrInvalidInput(
			fmt.Sprintf("invalid import mode: %s (must be 'atomic' or 'partial')", mode),
		)
	}
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrInvalidInput("csv document is empty")
	}

	job := &models.ImportJob{
		ID:          uuid.New(),
		Status:      models.ImportJobStatusQueued,
		Mode:        mode,
		Payload:     text,
		RequestedBy: requestedBy,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}

	if err := s.queue.Publish(ctx, &models.ImportJobMessage{ImportJobID: job.ID}); err != nil {
		s.logger.Error("failed to queue import job",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()),
		)
		errMsg := "failed to queue job"
		if updateErr := s.jobRepo.UpdateStatus(ctx, job.ID, models.ImportJobStatusFailed, &errMsg); updateErr != nil {
			s.logger.Error("failed to mark import job as failed",
				slog.String("job_id", job.ID.String()),
				slog.String("error", updateErr.Error()),
			)
		}
		return nil, fmt.Errorf("failed to queue import job: %w", err)
	}

	s.logger.Info("import job queued",
		slog.String("job_id", job.ID.String()),
		slog.String("mode", mode),
	)

	return job, nil
}

// GetJob retrieves an import job by ID
func (s *importService) GetJob(ctx context.Context, id uuid.UUID) (*models.ImportJob, error) {
	return s.jobRepo.GetByID(ctx, id)
}

// ProcessJob runs one queued import job
func (s *importService) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to fetch import job: %w", err)
	}

	// A job already picked up or finished is not processed twice.
	if job.Status != models.ImportJobStatusQueued {
		s.logger.Warn("skipping import job in unexpected status",
			slog.String("job_id", jobID.String()),
			slog.String("status", job.Status),
		)
		return nil
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.ImportJobStatusProcessing, nil); err != nil {
		return fmt.Errorf("failed to mark import job processing: %w", err)
	}

	result, err := s.Import(ctx, job.Payload, job.Mode)
	if err != nil {
		errMsg := err.Error()
		if updateErr := s.jobRepo.UpdateStatus(ctx, jobID, models.ImportJobStatusFailed, &errMsg); updateErr != nil {
			s.logger.Error("failed to mark import job as failed",
				slog.String("job_id", jobID.String()),
				slog.String("error", updateErr.Error()),
			)
		}
		return fmt.Errorf("import job failed: %w", err)
	}

	if err := s.jobRepo.SaveResult(ctx, jobID, models.ImportJobStatusCompleted, result); err != nil {
		return fmt.Errorf("failed to save import result: %w", err)
	}

	s.logger.Info("import job completed",
		slog.String("job_id", jobID.String()),
		slog.Int("valid_rows", result.ValidRows),
		slog.Int("invalid_rows", result.InvalidRows),
	)

	return nil
}
