package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
)

// BuyerRepository defines the interface for buyer data access
type BuyerRepository interface {
	Create(ctx context.Context, buyer *models.Buyer) error
	CreateBatch(ctx context.Context, buyers []*models.Buyer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Buyer, error)
	List(ctx context.Context, filter models.BuyerFilter) ([]*models.Buyer, int64, error)
	ListAll(ctx context.Context, filter models.BuyerFilter) ([]*models.Buyer, error)
	// Update writes the buyer's fields only if the stored updated_at still
	// equals expectedUpdatedAt; otherwise it reports a stale-record conflict.
	Update(ctx context.Context, buyer *models.Buyer, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const buyerColumns = `id, full_name, email, phone, city, property_type, bhk, purpose,
		budget_min, budget_max, timeline, source, notes, tags, status, owner_id,
		created_at, updated_at`

// buyerRepository implements BuyerRepository using PostgreSQL
type buyerRepository struct {
	db *sql.DB
}

// NewBuyerRepository creates a new buyer repository
func NewBuyerRepository(db *sql.DB) BuyerRepository {
	return &buyerRepository{db: db}
}

// Create inserts a new buyer
func (r *buyerRepository) Create(ctx context.Context, buyer *models.Buyer) error {
	query := `
		INSERT INTO buyers (id, full_name, email, phone, city, property_type, bhk, purpose,
			budget_min, budget_max, timeline, source, notes, tags, status, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, buyerArgs(buyer)...).
		Scan(&buyer.CreatedAt, &buyer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create buyer: %w", err)
	}

	return nil
}

// CreateBatch inserts multiple buyers in a single transaction
func (r *buyerRepository) CreateBatch(ctx context.Context, buyers []*models.Buyer) error {
	if len(buyers) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Rollback is safe to call even after Commit
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO buyers (id, full_name, email, phone, city, property_type, bhk, purpose,
			budget_min, budget_max, timeline, source, notes, tags, status, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, buyer := range buyers {
		err := stmt.QueryRowContext(ctx, buyerArgs(buyer)...).
			Scan(&buyer.CreatedAt, &buyer.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create buyer in batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a buyer by ID
func (r *buyerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE id = $1`

	buyer, err := scanBuyer(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("buyer with ID %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer: %w", err)
	}

	return buyer, nil
}

// GetByPhone retrieves a buyer by phone number
func (r *buyerRepository) GetByPhone(ctx context.Context, phone string) (*models.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE phone = $1`

	buyer, err := scanBuyer(r.db.QueryRowContext(ctx, query, phone))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("buyer with phone %s not found", phone))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer by phone: %w", err)
	}

	return buyer, nil
}

// List retrieves buyers with pagination and filtering
func (r *buyerRepository) List(ctx context.Context, filter models.BuyerFilter) ([]*models.Buyer, int64, error) {
	// Validate and set defaults
	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)

	where, args := buildBuyerFilter(filter)

	countQuery := `SELECT COUNT(*) FROM buyers` + where

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count buyers: %w", err)
	}

	offset := models.CalculateOffset(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT `+buyerColumns+` FROM buyers%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, offset)

	buyers, err := r.queryBuyers(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return buyers, totalCount, nil
}

// ListAll retrieves every buyer matching the filter, without pagination.
// Used by CSV export.
func (r *buyerRepository) ListAll(ctx context.Context, filter models.BuyerFilter) ([]*models.Buyer, error) {
	where, args := buildBuyerFilter(filter)
	query := `SELECT ` + buyerColumns + ` FROM buyers` + where + ` ORDER BY updated_at DESC`

	return r.queryBuyers(ctx, query, args...)
}

// Update updates an existing buyer guarded by the optimistic-concurrency
// check on updated_at
func (r *buyerRepository) Update(ctx context.Context, buyer *models.Buyer, expectedUpdatedAt time.Time) error {
	query := `
		UPDATE buyers
		SET full_name = $1, email = $2, phone = $3, city = $4, property_type = $5,
			bhk = $6, purpose = $7, budget_min = $8, budget_max = $9, timeline = $10,
			source = $11, notes = $12, tags = $13, status = $14, updated_at = now()
		WHERE id = $15 AND updated_at = $16
		RETURNING updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		buyer.FullName,
		nullString(buyer.Email),
		buyer.Phone,
		buyer.City,
		buyer.PropertyType,
		nullString(buyer.BHK),
		buyer.Purpose,
		nullInt64(buyer.BudgetMin),
		nullInt64(buyer.BudgetMax),
		buyer.Timeline,
		nullString(buyer.Source),
		nullString(buyer.Notes),
		nullString(buyer.Tags),
		buyer.Status,
		buyer.ID,
		expectedUpdatedAt,
	).Scan(&buyer.UpdatedAt)

	if err == sql.ErrNoRows {
		// Distinguish a missing row from a stale timestamp.
		if _, getErr := r.GetByID(ctx, buyer.ID); getErr != nil {
			return getErr
		}
		return models.ErrStaleRecord("buyer changed since it was last read, please refresh and retry")
	}
	if err != nil {
		return fmt.Errorf("failed to update buyer: %w", err)
	}

	return nil
}

// Delete removes a buyer
func (r *buyerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM buyers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete buyer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("buyer with ID %s not found", id))
	}

	return nil
}

// buildBuyerFilter renders the WHERE clause and args for a buyer filter.
func buildBuyerFilter(filter models.BuyerFilter) (string, []interface{}) {
	where := ""
	args := []interface{}{}
	argPos := 1

	addClause := func(clause string, value interface{}) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, argPos)
		args = append(args, value)
		argPos++
	}

	if filter.City != "" {
		addClause("city = $%d", filter.City)
	}
	if filter.PropertyType != "" {
		addClause("property_type = $%d", filter.PropertyType)
	}
	if filter.Status != "" {
		addClause("status = $%d", filter.Status)
	}
	if filter.Timeline != "" {
		addClause("timeline = $%d", filter.Timeline)
	}
	if filter.Search != "" {
		addClause("(full_name ILIKE $%[1]d OR phone ILIKE $%[1]d OR email ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	return where, args
}

func (r *buyerRepository) queryBuyers(ctx context.Context, query string, args ...interface{}) ([]*models.Buyer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list buyers: %w", err)
	}
	defer rows.Close()

	buyers := []*models.Buyer{}
	for rows.Next() {
		buyer, err := scanBuyer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan buyer: %w", err)
		}
		buyers = append(buyers, buyer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buyers: %w", err)
	}

	return buyers, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows so scanBuyer can serve
// both single-row and multi-row queries.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBuyer(s rowScanner) (*models.Buyer, error) {
	buyer := &models.Buyer{}
	var email, bhk, source, notes, tags sql.NullString
	var budgetMin, budgetMax sql.NullInt64
	var ownerID uuid.NullUUID

	err := s.Scan(
		&buyer.ID,
		&buyer.FullName,
		&email,
		&buyer.Phone,
		&buyer.City,
		&buyer.PropertyType,
		&bhk,
		&buyer.Purpose,
		&budgetMin,
		&budgetMax,
		&buyer.Timeline,
		&source,
		&notes,
		&tags,
		&buyer.Status,
		&ownerID,
		&buyer.CreatedAt,
		&buyer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	buyer.Email = email.String
	buyer.BHK = bhk.String
	buyer.Source = source.String
	buyer.Notes = notes.String
	buyer.Tags = tags.String
	if budgetMin.Valid {
		buyer.BudgetMin = &budgetMin.Int64
	}
	if budgetMax.Valid {
		buyer.BudgetMax = &budgetMax.Int64
	}
	if ownerID.Valid {
		id := ownerID.UUID
		buyer.OwnerID = &id
	}

	return buyer, nil
}

func buyerArgs(buyer *models.Buyer) []interface{} {
	return []interface{}{
		buyer.ID,
		buyer.FullName,
		nullString(buyer.Email),
		buyer.Phone,
		buyer.City,
		buyer.PropertyType,
		nullString(buyer.BHK),
		buyer.Purpose,
		nullInt64(buyer.BudgetMin),
		nullInt64(buyer.BudgetMax),
		buyer.Timeline,
		nullString(buyer.Source),
		nullString(buyer.Notes),
		nullString(buyer.Tags),
		buyer.Status,
		uuid.NullUUID{UUID: derefUUID(buyer.OwnerID), Valid: buyer.OwnerID != nil},
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.UUID{}
	}
	return *id
}
