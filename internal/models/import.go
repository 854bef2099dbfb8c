package models

import (
	"time"

	"github.com/google/uuid"
)

// Import mode constants. Atomic rejects the whole batch when any row is
// invalid; partial persists the valid subset and reports the rest.
const (
	ImportModeAtomic  = "atomic"
	ImportModePartial = "partial"
)

// Import job status constants
const (
	ImportJobStatusQueued     = "queued"
	ImportJobStatusProcessing = "processing"
	ImportJobStatusCompleted  = "completed"
	ImportJobStatusFailed     = "failed"
)

// IsValidImportMode checks if the import mode is valid
func IsValidImportMode(mode string) bool {
	return mode == ImportModeAtomic || mode == ImportModePartial
}

// RowError aggregates the validation messages for one CSV row. Row is the
// 1-based source line number (the header is line 0); row 0 carries header
// errors.
type RowError struct {
	Row      int      `json:"row"`
	Messages []string `json:"messages"`
}

// ImportResult is the partial-success result of parsing a CSV document.
// Records holds the rows that validated, in input order; RowErrors holds the
// rest, also in input order. TotalRows == ValidRows + InvalidRows whenever
// row processing ran (a header abort reports totals but processes no rows,
// so both row counters stay zero).
type ImportResult struct {
	Success     bool       `json:"success"`
	Records     []*Buyer   `json:"records"`
	RowErrors   []RowError `json:"row_errors"`
	TotalRows   int        `json:"total_rows"`
	ValidRows   int        `json:"valid_rows"`
	InvalidRows int        `json:"invalid_rows"`
}

// ImportJob is a queued bulk import. The raw CSV payload lives on the job
// row; the queue message carries only the job ID.
type ImportJob struct {
	ID          uuid.UUID     `json:"id"`
	Status      string        `json:"status"`
	Mode        string        `json:"mode"`
	Payload     string        `json:"-"`
	RequestedBy string        `json:"requested_by"`
	Result      *ImportResult `json:"result,omitempty"`
	LastError   *string       `json:"last_error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ImportJobMessage represents a job to be queued for processing
type ImportJobMessage struct {
	ImportJobID uuid.UUID `json:"import_job_id"`
}
