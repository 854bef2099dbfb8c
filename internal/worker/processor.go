package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/service"
)

// Import jobs are bounded in size (row ceiling), so a generous per-job
// timeout is enough to keep a wedged job from blocking shutdown forever.
const jobTimeout = 2 * time.Minute

// ImportProcessor processes queued import jobs
type ImportProcessor struct {
	importSvc service.ImportService
	logger    *slog.Logger
}

// NewImportProcessor creates a new import processor
func NewImportProcessor(importSvc service.ImportService, logger *slog.Logger) *ImportProcessor {
	return &ImportProcessor{
		importSvc: importSvc,
		logger:    logger,
	}
}

// Process handles a single import job message
func (p *ImportProcessor) Process(ctx context.Context, job *models.ImportJobMessage) error {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	p.logger.Info("processing import job",
		slog.String("import_job_id", job.ImportJobID.String()),
	)

	if err := p.importSvc.ProcessJob(ctx, job.ImportJobID); err != nil {
		p.logger.Error("import job processing failed",
			slog.String("import_job_id", job.ImportJobID.String()),
			slog.String("error", err.Error()),
		)
		return err
	}

	return nil
}
