package service

import (
	"time"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
)

// UpdateBuyerRequest represents a partial buyer update. Fields holds only
// the fields being changed, in user-facing form; UpdatedAt is the client's
// last-known modification timestamp for the concurrency check.
type UpdateBuyerRequest struct {
	UpdatedAt time.Time        `json:"updated_at"`
	Fields    models.RawFields `json:"fields"`
}

// Validate performs validation on the update request
func (r *UpdateBuyerRequest) Validate() error {
	if r.UpdatedAt.IsZero() {
		return models.ErrInvalidInput("updated_at is required")
	}
	if len(r.Fields) == 0 {
		return models.ErrInvalidInput("fields is required and cannot be empty")
	}
	return nil
}

// BuyerListResult represents paginated buyer list results
type BuyerListResult struct {
	Data       []*models.Buyer         `json:"data"`
	Pagination models.PaginationResult `json:"pagination"`
}

// EnqueueImportResult is returned when an async import job is accepted
type EnqueueImportResult struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Mode   string `json:"mode"`
}
