package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
)

// ImportColumns is the set of header columns a CSV import must contain.
// Order-independent on import; extra columns are ignored.
var ImportColumns = []string{
	"fullName",
	"email",
	"phone",
	"city",
	"propertyType",
	"bhk",
	"purpose",
	"budgetMin",
	"budgetMax",
	"timeline",
	"source",
	"notes",
	"tags",
	"status",
}

// exportColumns is the fixed, ordered export header: the import columns plus
// the record timestamps.
var exportColumns = append(append([]string{}, ImportColumns...), "createdAt", "updatedAt")

// BuyerCSV converts between CSV documents and buyer records: parsing a whole
// document into a partial-success import result, and rendering canonical
// records back to user-facing CSV.
type BuyerCSV interface {
	// ParseImport tokenizes and validates an entire CSV document. Rows are
	// processed sequentially in input order; one row's failure never affects
	// another row or the numbering of subsequent rows. The result carries
	// the rows that did validate even when Success is false, so callers can
	// choose all-or-nothing or partial-apply semantics.
	ParseImport(text string) *models.ImportResult

	// Export renders canonical records as CSV text, decoding enumerated
	// fields back to their user-facing form.
	Export(buyers []*models.Buyer) (string, error)
}

type buyerCSV struct {
	validator BuyerValidator
	codec     FieldCodec
}

// NewBuyerCSV creates a CSV import/export service
func NewBuyerCSV(validator BuyerValidator, codec FieldCodec) BuyerCSV {
	return &buyerCSV{
		validator: validator,
		codec:     codec,
	}
}

// ParseImport converts a CSV document into a partial-success result
func (s *buyerCSV) ParseImport(text string) *models.ImportResult {
	result := &models.ImportResult{
		Records:   []*models.Buyer{},
		RowErrors: []models.RowError{},
	}

	lines := strings.Split(strings.TrimRight(text, " \t\r\n"), "\n")

	// Line 0 is the header. A missing required column aborts the whole
	// import before any row is processed; the abort still reports the data
	// line count so callers can enforce their row ceiling.
	header := TokenizeCSVLine(lines[0])
	position := make(map[string]int, len(header))
	for i, col := range header {
		if _, ok := position[col]; !ok {
			position[col] = i
		}
	}

	var missing []string
	for _, col := range ImportColumns {
		if _, ok := position[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		result.TotalRows = len(lines) - 1
		result.RowErrors = append(result.RowErrors, models.RowError{
			Row:      0,
			Messages: []string{fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))},
		})
		return result
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}

		cells := TokenizeCSVLine(lines[i])
		fields := make(models.RawFields, len(header))
		for col, pos := range position {
			if pos < len(cells) {
				fields[col] = cells[pos]
			} else {
				// Missing trailing values default to empty.
				fields[col] = ""
			}
		}

		buyer, errs := s.validator.ValidateAndEncode(fields)
		if len(errs) > 0 {
			result.InvalidRows++
			result.RowErrors = append(result.RowErrors, models.RowError{
				Row:      i,
				Messages: errs.Messages(),
			})
			continue
		}

		result.ValidRows++
		result.Records = append(result.Records, buyer)
	}

	result.TotalRows = result.ValidRows + result.InvalidRows
	result.Success = result.InvalidRows == 0
	return result
}

// Export renders records back to user-facing CSV
func (s *buyerCSV) Export(buyers []*models.Buyer) (string, error) {
	var b strings.Builder
	b.WriteString(serializeCSVRow(exportColumns))
	b.WriteByte('\n')

	for _, buyer := range buyers {
		cells, err := s.exportRow(buyer)
		if err != nil {
			return "", fmt.Errorf("failed to export buyer %s: %w", buyer.ID, err)
		}
		b.WriteString(serializeCSVRow(cells))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func (s *buyerCSV) exportRow(buyer *models.Buyer) ([]string, error) {
	decode := func(field, token string) (string, error) {
		if token == "" {
			return "", nil
		}
		return s.codec.Decode(field, token)
	}

	bhk, err := decode(FieldBHK, buyer.BHK)
	if err != nil {
		return nil, err
	}
	timeline, err := decode(FieldTimeline, buyer.Timeline)
	if err != nil {
		return nil, err
	}
	source, err := decode(FieldSource, buyer.Source)
	if err != nil {
		return nil, err
	}
	status, err := decode(FieldStatus, buyer.Status)
	if err != nil {
		return nil, err
	}

	return []string{
		buyer.FullName,
		buyer.Email,
		buyer.Phone,
		buyer.City,
		buyer.PropertyType,
		bhk,
		buyer.Purpose,
		budgetCell(buyer.BudgetMin),
		budgetCell(buyer.BudgetMax),
		timeline,
		source,
		buyer.Notes,
		buyer.Tags,
		status,
		buyer.CreatedAt.UTC().Format(time.RFC3339),
		buyer.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func budgetCell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
