package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
)

// mockBuyerRepository for testing
type mockBuyerRepository struct {
	buyers []*models.Buyer
}

func (m *mockBuyerRepository) Create(ctx context.Context, buyer *models.Buyer) error {
	now := time.Now()
	buyer.CreatedAt = now
	buyer.UpdatedAt = now
	m.buyers = append(m.buyers, buyer)
	return nil
}

func (m *mockBuyerRepository) CreateBatch(ctx context.Context, buyers []*models.Buyer) error {
	for _, b := range buyers {
		if err := m.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockBuyerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	for _, b := range m.buyers {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("buyer not found")
}

func (m *mockBuyerRepository) GetByPhone(ctx context.Context, phone string) (*models.Buyer, error) {
	for _, b := range m.buyers {
		if b.Phone == phone {
			copied := *b
			return &copied, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("buyer not found")
}

func (m *mockBuyerRepository) List(ctx context.Context, filter models.BuyerFilter) ([]*models.Buyer, int64, error) {
	filtered := m.filtered(filter)
	totalCount := int64(len(filtered))

	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)
	offset := models.CalculateOffset(filter.Page, filter.PageSize)

	start := offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + filter.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], totalCount, nil
}

func (m *mockBuyerRepository) ListAll(ctx context.Context, filter models.BuyerFilter) ([]*models.Buyer, error) {
	return m.filtered(filter), nil
}

func (m *mockBuyerRepository) filtered(filter models.BuyerFilter) []*models.Buyer {
	filtered := []*models.Buyer{}
	for _, b := range m.buyers {
		if filter.City != "" && b.City != filter.City {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

func (m *mockBuyerRepository) Update(ctx context.Context, buyer *models.Buyer, expectedUpdatedAt time.Time) error {
	for i, b := range m.buyers {
		if b.ID == buyer.ID {
			if !b.UpdatedAt.Equal(expectedUpdatedAt) {
				return models.ErrStaleRecord("buyer changed since it was last read")
			}
			updated := *buyer
			updated.UpdatedAt = time.Now()
			m.buyers[i] = &updated
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("buyer not found")
}

func (m *mockBuyerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, b := range m.buyers {
		if b.ID == id {
			m.buyers = append(m.buyers[:i], m.buyers[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("buyer not found")
}

// mockHistoryRepository for testing
type mockHistoryRepository struct {
	entries []*models.HistoryEntry
	failing bool
}

func (m *mockHistoryRepository) CreateBatch(ctx context.Context, entries []*models.HistoryEntry) error {
	if m.failing {
		return errors.New("history write failed")
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockHistoryRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit int) ([]*models.HistoryEntry, error) {
	var out []*models.HistoryEntry
	for _, e := range m.entries {
		if e.BuyerID == buyerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestBuyerService(buyerRepo *mockBuyerRepository, historyRepo *mockHistoryRepository) BuyerService {
	codec := NewFieldCodec()
	validator := NewBuyerValidator(codec)
	return NewBuyerService(
		buyerRepo,
		historyRepo,
		validator,
		NewBuyerCSV(validator, codec),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestBuyerService_Create(t *testing.T) {
	t.Run("valid record is persisted in canonical form", func(t *testing.T) {
		repo := &mockBuyerRepository{}
		svc := newTestBuyerService(repo, &mockHistoryRepository{})

		buyer, err := svc.Create(context.Background(), validFields(), "agent-1")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if buyer.ID == uuid.Nil {
			t.Error("Create() did not assign an ID")
		}
		if buyer.Timeline != models.TimelineZeroToThreeMonths {
			t.Errorf("Timeline = %q, want canonical form", buyer.Timeline)
		}
		if len(repo.buyers) != 1 {
			t.Errorf("repository holds %d buyers, want 1", len(repo.buyers))
		}
	})

	t.Run("validation failure carries field errors", func(t *testing.T) {
		svc := newTestBuyerService(&mockBuyerRepository{}, &mockHistoryRepository{})

		fields := validFields()
		fields["city"] = "Delhi"
		fields["timeline"] = "whenever"

		_, err := svc.Create(context.Background(), fields, "agent-1")
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("Create() error = %v, want *models.AppError", err)
		}
		if appErr.Code != "VALIDATION_FAILED" {
			t.Errorf("error code = %q, want VALIDATION_FAILED", appErr.Code)
		}
		if len(appErr.Fields) != 2 {
			t.Errorf("error fields = %v, want 2 entries", appErr.Fields)
		}
	})

	t.Run("duplicate phone is rejected", func(t *testing.T) {
		repo := &mockBuyerRepository{}
		svc := newTestBuyerService(repo, &mockHistoryRepository{})

		if _, err := svc.Create(context.Background(), validFields(), "agent-1"); err != nil {
			t.Fatalf("first Create() error = %v", err)
		}

		fields := validFields()
		fields["fullName"] = "Someone Else"

		_, err := svc.Create(context.Background(), fields, "agent-1")
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("second Create() error = %v, want *models.AppError", err)
		}
		if appErr.Code != "CONFLICT" {
			t.Errorf("error code = %q, want CONFLICT", appErr.Code)
		}
	})

	t.Run("formatted phone is normalized before validation", func(t *testing.T) {
		repo := &mockBuyerRepository{}
		svc := newTestBuyerService(repo, &mockHistoryRepository{})

		fields := validFields()
		fields["phone"] = "+91 98765 43210"

		buyer, err := svc.Create(context.Background(), fields, "agent-1")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if buyer.Phone != "9876543210" {
			t.Errorf("Phone = %q, want normalized digits", buyer.Phone)
		}
	})
}

func TestBuyerService_Update(t *testing.T) {
	seed := func(t *testing.T) (*mockBuyerRepository, *mockHistoryRepository, BuyerService, *models.Buyer) {
		t.Helper()
		repo := &mockBuyerRepository{}
		history := &mockHistoryRepository{}
		svc := newTestBuyerService(repo, history)

		buyer, err := svc.Create(context.Background(), validFields(), "agent-1")
		if err != nil {
			t.Fatalf("seed Create() error = %v", err)
		}
		return repo, history, svc, buyer
	}

	t.Run("changed fields are applied and recorded", func(t *testing.T) {
		_, history, svc, buyer := seed(t)

		updated, err := svc.Update(context.Background(), buyer.ID, models.RawFields{
			"status":   "Qualified",
			"timeline": "3-6m",
		}, buyer.UpdatedAt, "agent-2")
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Status != models.StatusQualified {
			t.Errorf("Status = %q, want %q", updated.Status, models.StatusQualified)
		}
		if updated.Timeline != models.TimelineThreeToSixMonths {
			t.Errorf("Timeline = %q, want %q", updated.Timeline, models.TimelineThreeToSixMonths)
		}

		if len(history.entries) != 2 {
			t.Fatalf("history entries = %d, want 2", len(history.entries))
		}
		for _, e := range history.entries {
			if e.ChangedBy != "agent-2" {
				t.Errorf("ChangedBy = %q, want agent-2", e.ChangedBy)
			}
		}
	})

	t.Run("stale timestamp conflicts", func(t *testing.T) {
		_, _, svc, buyer := seed(t)

		stale := buyer.UpdatedAt.Add(-1 * time.Minute)
		_, err := svc.Update(context.Background(), buyer.ID, models.RawFields{
			"status": "Qualified",
		}, stale, "agent-2")

		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("Update() error = %v, want *models.AppError", err)
		}
		if appErr.Code != "STALE_RECORD" {
			t.Errorf("error code = %q, want STALE_RECORD", appErr.Code)
		}
	})

	t.Run("unchanged values write no history", func(t *testing.T) {
		_, history, svc, buyer := seed(t)

		got, err := svc.Update(context.Background(), buyer.ID, models.RawFields{
			"status": buyer.Status,
		}, buyer.UpdatedAt, "agent-2")
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if !got.UpdatedAt.Equal(buyer.UpdatedAt) {
			t.Error("no-op update changed the record timestamp")
		}
		if len(history.entries) != 0 {
			t.Errorf("history entries = %d, want 0", len(history.entries))
		}
	})

	t.Run("empty field map is rejected", func(t *testing.T) {
		_, _, svc, buyer := seed(t)

		_, err := svc.Update(context.Background(), buyer.ID, models.RawFields{}, buyer.UpdatedAt, "agent-2")
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("Update() error = %v, want *models.AppError", err)
		}
		if appErr.Code != "INVALID_INPUT" {
			t.Errorf("error code = %q, want INVALID_INPUT", appErr.Code)
		}
	})

	t.Run("clearing a budget records the old value", func(t *testing.T) {
		_, history, svc, buyer := seed(t)

		updated, err := svc.Update(context.Background(), buyer.ID, models.RawFields{
			"budgetMin": "",
		}, buyer.UpdatedAt, "agent-2")
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.BudgetMin != nil {
			t.Errorf("BudgetMin = %v, want nil", *updated.BudgetMin)
		}

		if len(history.entries) != 1 {
			t.Fatalf("history entries = %d, want 1", len(history.entries))
		}
		e := history.entries[0]
		if e.Field != "budgetMin" {
			t.Errorf("Field = %q, want budgetMin", e.Field)
		}
		if e.OldValue == nil || *e.OldValue != "4000000" {
			t.Errorf("OldValue = %v, want 4000000", e.OldValue)
		}
		if e.NewValue != nil {
			t.Errorf("NewValue = %v, want nil", *e.NewValue)
		}
	})

	t.Run("history write failure does not fail the update", func(t *testing.T) {
		_, history, svc, buyer := seed(t)
		history.failing = true

		_, err := svc.Update(context.Background(), buyer.ID, models.RawFields{
			"status": "Contacted",
		}, buyer.UpdatedAt, "agent-2")
		if err != nil {
			t.Fatalf("Update() error = %v, want nil despite history failure", err)
		}
	})
}

func TestBuyerService_History(t *testing.T) {
	repo := &mockBuyerRepository{}
	history := &mockHistoryRepository{}
	svc := newTestBuyerService(repo, history)

	buyer, err := svc.Create(context.Background(), validFields(), "agent-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Update(context.Background(), buyer.ID, models.RawFields{
		"status": "Qualified",
	}, buyer.UpdatedAt, "agent-2"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	entries, err := svc.History(context.Background(), buyer.ID, 50)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("History() = %d entries, want 1", len(entries))
	}
	if entries[0].Field != "status" {
		t.Errorf("Field = %q, want status", entries[0].Field)
	}

	t.Run("unknown buyer yields not found", func(t *testing.T) {
		_, err := svc.History(context.Background(), uuid.New(), 50)
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("History() error = %v, want not found", err)
		}
	})
}

func TestBuyerService_ExportCSV(t *testing.T) {
	repo := &mockBuyerRepository{}
	svc := newTestBuyerService(repo, &mockHistoryRepository{})

	if _, err := svc.Create(context.Background(), validFields(), "agent-1"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	fields := validFields()
	fields["phone"] = "9876543299"
	fields["city"] = "Zirakpur"
	if _, err := svc.Create(context.Background(), fields, "agent-1"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("exports all matching buyers", func(t *testing.T) {
		text, err := svc.ExportCSV(context.Background(), models.BuyerFilter{})
		if err != nil {
			t.Fatalf("ExportCSV() error = %v", err)
		}
		if got := countLines(text); got != 3 {
			t.Errorf("ExportCSV() produced %d lines, want header plus 2 rows", got)
		}
	})

	t.Run("filter narrows the export", func(t *testing.T) {
		text, err := svc.ExportCSV(context.Background(), models.BuyerFilter{City: "Zirakpur"})
		if err != nil {
			t.Fatalf("ExportCSV() error = %v", err)
		}
		if got := countLines(text); got != 2 {
			t.Errorf("ExportCSV() produced %d lines, want header plus 1 row", got)
		}
	})
}

func countLines(text string) int {
	return len(strings.Split(strings.TrimRight(text, "\n"), "\n"))
}
