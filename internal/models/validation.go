package models

import (
	"fmt"
	"strings"
)

// RawFields is the raw string field map as it arrives from a form or a CSV
// row. Keys are the column/field names, values are unparsed strings.
type RawFields map[string]string

// FieldError describes a single field failing a structural or cross-field
// rule. Field is the path the error is attached to (e.g. "bhk", "budgetMin").
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every field error found for one record.
// Invalid input is an expected outcome, modeled as a value rather than a
// panic; a nil/empty list means the record validated.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation passed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages renders the errors as "field: message" strings, the shape row
// errors are reported in on CSV import.
func (e ValidationErrors) Messages() []string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.String()
	}
	return msgs
}

// HasField reports whether any error is attached to the given field path.
func (e ValidationErrors) HasField(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}
