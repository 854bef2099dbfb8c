package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
)

// ImportJobRepository defines the interface for import job data access
type ImportJobRepository interface {
	Create(ctx context.Context, job *models.ImportJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ImportJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, lastError *string) error
	SaveResult(ctx context.Context, id uuid.UUID, status string, result *models.ImportResult) error
}

// importJobRepository implements ImportJobRepository using PostgreSQL
type importJobRepository struct {
	db *sql.DB
}

// NewImportJobRepository creates a new import job repository
func NewImportJobRepository(db *sql.DB) ImportJobRepository {
	return &importJobRepository{db: db}
}

// Create inserts a new import job
func (r *importJobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	query := `
		INSERT INTO import_jobs (id, status, mode, payload, requested_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		job.ID,
		job.Status,
		job.Mode,
		job.Payload,
		job.RequestedBy,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}

	return nil
}

// GetByID retrieves an import job by ID
func (r *importJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ImportJob, error) {
	query := `
		SELECT id, status, mode, payload, requested_by, result, last_error, created_at, updated_at
		FROM import_jobs
		WHERE id = $1`

	job := &models.ImportJob{}
	var resultJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.Status,
		&job.Mode,
		&job.Payload,
		&job.RequestedBy,
		&resultJSON,
		&job.LastError,
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("import job with ID %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import job: %w", err)
	}

	if len(resultJSON) > 0 {
		result := &models.ImportResult{}
		if err := json.Unmarshal(resultJSON, result); err != nil {
			return nil, fmt.Errorf("failed to decode import result: %w", err)
		}
		job.Result = result
	}

	return job, nil
}

// UpdateStatus updates an import job's status and optional error message
func (r *importJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, lastError *string) error {
	query := `
		UPDATE import_jobs
		SET status = $1, last_error = $2, updated_at = now()
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, lastError, id)
	if err != nil {
		return fmt.Errorf("failed to update import job status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("import job with ID %s not found", id))
	}

	return nil
}

// SaveResult stores the import result and final status for a job
func (r *importJobRepository) SaveResult(ctx context.Context, id uuid.UUID, status string, result *models.ImportResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode import result: %w", err)
	}

	query := `
		UPDATE import_jobs
		SET status = $1, result = $2, updated_at = now()
		WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, status, resultJSON, id)
	if err != nil {
		return fmt.Errorf("failed to save import result: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("import job with ID %s not found", id))
	}

	return nil
}
