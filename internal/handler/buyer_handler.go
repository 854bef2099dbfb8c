package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/service"
)

// actorHeader identifies who is making the change, for the audit trail.
// Auth is handled upstream; an absent header falls back to "system".
const actorHeader = "X-Actor-Id"

// BuyerHandler handles buyer HTTP requests
type BuyerHandler struct {
	buyerService service.BuyerService
	logger       *slog.Logger
}

// NewBuyerHandler creates a new buyer handler
func NewBuyerHandler(buyerService service.BuyerService, logger *slog.Logger) *BuyerHandler {
	return &BuyerHandler{
		buyerService: buyerService,
		logger:       logger,
	}
}

// CreateBuyer handles POST /buyers
func (h *BuyerHandler) CreateBuyer(w http.ResponseWriter, r *http.Request) {
	var fields models.RawFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	buyer, err := h.buyerService.Create(r.Context(), fields, actor(r))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, buyer)
}

// ValidateBuyer handles POST /buyers/validate: form-mode validation without
// encoding or persistence, for pre-submit checks
func (h *BuyerHandler) ValidateBuyer(w http.ResponseWriter, r *http.Request) {
	var fields models.RawFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	form, err := h.buyerService.ValidateForm(fields)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, form)
}

// ListBuyers handles GET /buyers
func (h *BuyerHandler) ListBuyers(w http.ResponseWriter, r *http.Request) {
	filter := buyerFilterFromQuery(r)

	buyers, pagination, err := h.buyerService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, service.BuyerListResult{
		Data:       buyers,
		Pagination: pagination,
	})
}

// GetBuyer handles GET /buyers/{id}
func (h *BuyerHandler) GetBuyer(w http.ResponseWriter, r *http.Request) {
	id, ok := buyerID(w, r)
	if !ok {
		return
	}

	buyer, err := h.buyerService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, buyer)
}

// UpdateBuyer handles PUT /buyers/{id}
func (h *BuyerHandler) UpdateBuyer(w http.ResponseWriter, r *http.Request) {
	id, ok := buyerID(w, r)
	if !ok {
		return
	}

	var req service.UpdateBuyerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err, h.logger)
		return
	}

	buyer, err := h.buyerService.Update(r.Context(), id, req.Fields, req.UpdatedAt, actor(r))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, buyer)
}

// DeleteBuyer handles DELETE /buyers/{id}
func (h *BuyerHandler) DeleteBuyer(w http.ResponseWriter, r *http.Request) {
	id, ok := buyerID(w, r)
	if !ok {
		return
	}

	if err := h.buyerService.Delete(r.Context(), id); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondNoContent(w)
}

// GetBuyerHistory handles GET /buyers/{id}/history
func (h *BuyerHandler) GetBuyerHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := buyerID(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.buyerService.History(r.Context(), id, limit)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, entries)
}

// ExportBuyers handles GET /buyers/export: CSV download honoring the list
// filters
func (h *BuyerHandler) ExportBuyers(w http.ResponseWriter, r *http.Request) {
	filter := buyerFilterFromQuery(r)

	text, err := h.buyerService.ExportCSV(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="buyers.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// buyerID parses the {id} path parameter, answering the request itself on
// failure
func buyerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid buyer ID")
		return uuid.UUID{}, false
	}
	return id, true
}

func buyerFilterFromQuery(r *http.Request) models.BuyerFilter {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	return models.BuyerFilter{
		City:         query.Get("city"),
		PropertyType: query.Get("property_type"),
		Status:       query.Get("status"),
		Timeline:     query.Get("timeline"),
		Search:       query.Get("search"),
		Page:         page,
		PageSize:     pageSize,
	}
}

func actor(r *http.Request) string {
	if v := r.Header.Get(actorHeader); v != "" {
		return v
	}
	return "system"
}
