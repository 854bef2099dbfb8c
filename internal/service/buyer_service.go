package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/phone"
	"github.com/Charu-sarswat/buyer-leads-backend/internal/repository"
)

// BuyerService handles buyer lead business logic
type BuyerService interface {
	Create(ctx context.Context, fields models.RawFields, actor string) (*models.Buyer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error)
	List(ctx context.Context, filter models.BuyerFilter) ([]*models.Buyer, models.PaginationResult, error)
	// Update applies a partial field map guarded by the client's last-known
	// updatedAt. A stale timestamp yields a conflict; the caller must
	// re-fetch and resubmit. One history entry is written per changed field.
	Update(ctx context.Context, id uuid.UUID, fields models.RawFields, expectedUpdatedAt time.Time, actor string) (*models.Buyer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, id uuid.UUID, limit int) ([]*models.HistoryEntry, error)
	// ValidateForm checks a raw field map without encoding or persisting,
	// for pre-submit form validation.
	ValidateForm(fields models.RawFields) (*models.FormBuyer, error)
	// ExportCSV renders every buyer matching the filter as CSV text.
	ExportCSV(ctx context.Context, filter models.BuyerFilter) (string, error)
}

type buyerService struct {
	buyerRepo   repository.BuyerRepository
	historyRepo repository.HistoryRepository
	validator   BuyerValidator
	csv         BuyerCSV
	logger      *slog.Logger
}

// NewBuyerService creates a new buyer service
func NewBuyerService(
	buyerRepo repository.BuyerRepository,
	historyRepo repository.HistoryRepository,
	validator BuyerValidator,
	csv BuyerCSV,
	logger *slog.Logger,
) BuyerService {
	return &buyerService{
		buyerRepo:   buyerRepo,
		historyRepo: historyRepo,
		validator:   validator,
		csv:         csv,
		logger:      logger,
	}
}

// Create validates, encodes and persists a new buyer lead
func (s *buyerService) Create(ctx context.Context, fields models.RawFields, actor string) (*models.Buyer, error) {
	normalizePhoneField(fields)

	buyer, verrs := s.validator.ValidateAndEncode(fields)
	if len(verrs) > 0 {
		return nil, models.ErrValidationFailed(verrs)
	}

	// Duplicate phone check
	existing, err := s.buyerRepo.GetByPhone(ctx, buyer.Phone)
	if err == nil && existing != nil {
		return nil, models.ErrConflictWithMsg(
			fmt.Sprintf("buyer with phone %s already exists", buyer.Phone),
		)
	}

	buyer.ID = uuid.New()

	if err := s.buyerRepo.Create(ctx, buyer); err != nil {
		s.logger.Error("failed to create buyer",
			slog.String("phone", buyer.Phone),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create buyer: %w", err)
	}

	s.logger.Info("buyer created",
		slog.String("buyer_id", buyer.ID.String()),
		slog.String("city", buyer.City),
		slog.String("actor", actor),
	)

	return buyer, nil
}

// GetByID retrieves a buyer by ID
func (s *buyerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	return s.buyerRepo.GetByID(ctx, id)
}

// List retrieves buyers with filtering and pagination
func (s *buyerService) List(ctx context.Context, filter models.BuyerFilter) ([]*models.Buyer, models.PaginationResult, error) {
	buyers, totalCount, err := s.buyerRepo.List(ctx, filter)
	if err != nil {
		return nil, models.PaginationResult{}, fmt.Errorf("failed to list buyers: %w", err)
	}

	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)
	pagination := models.NewPaginationResult(filter.Page, filter.PageSize, totalCount)

	return buyers, pagination, nil
}

// Update applies a partial update with the optimistic-concurrency guard and
// records per-field history
func (s *buyerService) Update(ctx context.Context, id uuid.UUID, fields models.RawFields, expectedUpdatedAt time.Time, actor string) (*models.Buyer, error) {
	normalizePhoneField(fields)

	patch, verrs := s.validator.ValidatePartialAndEncode(fields)
	if len(verrs) > 0 {
		return nil, models.ErrValidationFailed(verrs)
	}
	if patch.IsEmpty() {
		return nil, models.ErrInvalidInput("no fields supplied for update")
	}

	current, err := s.buyerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.UpdatedAt.Equal(expectedUpdatedAt) {
		return nil, models.ErrStaleRecord("buyer changed since it was last read, please refresh and retry")
	}

	updated := *current
	patch.Apply(&updated)

	changes := models.DiffBuyers(current, &updated)
	if len(changes) == 0 {
		return current, nil
	}

	if err := s.buyerRepo.Update(ctx, &updated, expectedUpdatedAt); err != nil {
		s.logger.Error("failed to update buyer",
			slog.String("buyer_id", id.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	entries := make([]*models.HistoryEntry, len(changes))
	for i, change := range changes {
		entries[i] = &models.HistoryEntry{
			ID:        uuid.New(),
			BuyerID:   id,
			Field:     change.Field,
			OldValue:  change.OldValue,
			NewValue:  change.NewValue,
			ChangedBy: actor,
		}
	}
	if err := s.historyRepo.CreateBatch(ctx, entries); err != nil {
		// The update itself succeeded; a history write failure is logged,
		// not surfaced.
		s.logger.Error("failed to write buyer history",
			slog.String("buyer_id", id.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("buyer updated",
		slog.String("buyer_id", id.String()),
		slog.Int("changed_fields", len(changes)),
		slog.String("actor", actor),
	)

	return &updated, nil
}

// Delete removes a buyer
func (s *buyerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.buyerRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete buyer",
			slog.String("buyer_id", id.String()),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("buyer deleted", slog.String("buyer_id", id.String()))
	return nil
}

// History retrieves the change history for a buyer
func (s *buyerService) History(ctx context.Context, id uuid.UUID, limit int) ([]*models.HistoryEntry, error) {
	if _, err := s.buyerRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByBuyer(ctx, id, limit)
}

// ValidateForm validates a raw field map in user-facing form
func (s *buyerService) ValidateForm(fields models.RawFields) (*models.FormBuyer, error) {
	normalizePhoneField(fields)

	form, verrs := s.validator.ValidateForm(fields)
	if len(verrs) > 0 {
		return nil, models.ErrValidationFailed(verrs)
	}
	return form, nil
}

// ExportCSV renders buyers matching the filter as CSV
func (s *buyerService) ExportCSV(ctx context.Context, filter models.BuyerFilter) (string, error) {
	buyers, err := s.buyerRepo.ListAll(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("failed to load buyers for export: %w", err)
	}

	text, err := s.csv.Export(buyers)
	if err != nil {
		return "", err
	}

	s.logger.Info("buyers exported", slog.Int("count", len(buyers)))
	return text, nil
}

// normalizePhoneField rewrites a formatted phone value to bare digits before
// validation. CSV import rows are deliberately not normalized; the import
// pipeline takes rows exactly as they appear in the file.
func normalizePhoneField(fields models.RawFields) {
	if raw, ok := fields["phone"]; ok {
		fields["phone"] = phone.NormalizeDigits(raw)
	}
}
