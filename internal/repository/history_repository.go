package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
)

// HistoryRepository defines the interface for buyer change history access
type HistoryRepository interface {
	CreateBatch(ctx context.Context, entries []*models.HistoryEntry) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit int) ([]*models.HistoryEntry, error)
}

// historyRepository implements HistoryRepository using PostgreSQL
type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// CreateBatch inserts one history entry per changed field in a single
// transaction
func (r *historyRepository) CreateBatch(ctx context.Context, entries []*models.HistoryEntry) error {
	if len(entries) == 0 {
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
		INSERT INTO buyer_history (id, buyer_id, field, old_value, new_value, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING changed_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		err := stmt.QueryRowContext(
			ctx,
			entry.ID,
			entry.BuyerID,
			entry.Field,
			entry.OldValue,
			entry.NewValue,
			entry.ChangedBy,
		).Scan(&entry.ChangedAt)
		if err != nil {
			return fmt.Errorf("failed to create history entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByBuyer retrieves the most recent history entries for a buyer
func (r *historyRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit int) ([]*models.HistoryEntry, error) {
	if limit < 1 {
		limit = 50
	}

	query := `
		SELECT id, buyer_id, field, old_value, new_value, changed_by, changed_at
		FROM buyer_history
		WHERE buyer_id = $1
		ORDER BY changed_at DESC, field ASC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, buyerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := []*models.HistoryEntry{}
	for rows.Next() {
		entry := &models.HistoryEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.BuyerID,
			&entry.Field,
			&entry.OldValue,
			&entry.NewValue,
			&entry.ChangedBy,
			&entry.ChangedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	return entries, nil
}
