package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one field change on a buyer: old and new value as
// strings, who made the change, and when.
type HistoryEntry struct {
	ID        uuid.UUID `json:"id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	Field     string    `json:"field"`
	OldValue  *string   `json:"old_value,omitempty"`
	NewValue  *string   `json:"new_value,omitempty"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// FieldChange is a per-field old/new delta between two versions of a buyer.
type FieldChange struct {
	Field    string
	OldValue *string
	NewValue *string
}

// DiffBuyers compares two buyer versions field by field and returns the
// deltas, in a fixed field order so history output is deterministic.
func DiffBuyers(old, updated *Buyer) []FieldChange {
	var changes []FieldChange

	compare := func(field, oldVal, newVal string) {
		if oldVal != newVal {
			changes = append(changes, FieldChange{
				Field:    field,
				OldValue: stringOrNil(oldVal),
				NewValue: stringOrNil(newVal),
			})
		}
	}

	compare("fullName", old.FullName, updated.FullName)
	compare("email", old.Email, updated.Email)
	compare("phone", old.Phone, updated.Phone)
	compare("city", old.City, updated.City)
	compare("propertyType", old.PropertyType, updated.PropertyType)
	compare("bhk", old.BHK, updated.BHK)
	compare("purpose", old.Purpose, updated.Purpose)
	compare("budgetMin", formatBudget(old.BudgetMin), formatBudget(updated.BudgetMin))
	compare("budgetMax", formatBudget(old.BudgetMax), formatBudget(updated.BudgetMax))
	compare("timeline", old.Timeline, updated.Timeline)
	compare("source", old.Source, updated.Source)
	compare("notes", old.Notes, updated.Notes)
	compare("tags", old.Tags, updated.Tags)
	compare("status", old.Status, updated.Status)

	return changes
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatBudget(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
