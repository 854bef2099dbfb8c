package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/service"
)

// maxImportBody caps the CSV upload size. 200 rows of lead data fit well
// under 1 MiB.
const maxImportBody = 1 << 20

// ImportHandler handles bulk CSV import requests
type ImportHandler struct {
	importService service.ImportService
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService service.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// ImportBuyers handles POST /buyers/import: synchronous CSV import. The body
// is the raw CSV document; ?mode=atomic|partial selects persistence behavior.
func (h *ImportHandler) ImportBuyers(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readCSVBody(w, r)
	if !ok {
		return
	}

	result, err := h.importService.Import(r.Context(), text, importMode(r))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// EnqueueImport handles POST /buyers/import-jobs: queues the import for the
// background worker and returns 202 with the job ID
func (h *ImportHandler) EnqueueImport(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readCSVBody(w, r)
	if !ok {
		return
	}

	job, err := h.importService.Enqueue(r.Context(), text, importMode(r), actor(r))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondAccepted(w, service.EnqueueImportResult{
		JobID:  job.ID.String(),
		Status: job.Status,
		Mode:   job.Mode,
	})
}

// GetImportJob handles GET /import-jobs/{id}
func (h *ImportHandler) GetImportJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid job ID")
		return
	}

	job, err := h.importService.GetJob(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, job)
}

func (h *ImportHandler) readCSVBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "CSV document exceeds the size limit")
		return "", false
	}
	return string(body), true
}

func importMode(r *http.Request) string {
	if mode := r.URL.Query().Get("mode"); mode != "" {
		return mode
	}
	return models.ImportModePartial
}
