package service

import (
	"fmt"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
)

// Codec field name constants, matching the form/CSV column names.
const (
	FieldBHK      = "bhk"
	FieldTimeline = "timeline"
	FieldSource   = "source"
	FieldStatus   = "status"
)

// FieldCodec converts enumerated field tokens between their user-facing form
// ("0-3m", "Walk-in", "2") and their canonical storage form
// ("ZERO_TO_THREE_MONTHS", "Walk_in", "TWO"). The mapping is bijective on
// each enum domain. By default unmapped tokens are rejected; lenient mode
// passes them through unchanged and exists only for reading legacy data.
type FieldCodec interface {
	// Encode maps a user-facing token to its canonical form.
	Encode(field, token string) (string, error)
	// Decode maps a canonical token back to its user-facing form.
	Decode(field, token string) (string, error)
}

type fieldCodec struct {
	lenient bool
}

// NewFieldCodec creates a strict codec: unmapped tokens produce an error.
func NewFieldCodec() FieldCodec {
	return &fieldCodec{}
}

// NewLenientFieldCodec creates a codec that returns unrecognized tokens
// unchanged instead of failing. Opt-in only; new data should never need it.
func NewLenientFieldCodec() FieldCodec {
	return &fieldCodec{lenient: true}
}

var encodeTables = map[string]map[string]string{
	FieldTimeline: {
		"0-3m":      models.TimelineZeroToThreeMonths,
		"3-6m":      models.TimelineThreeToSixMonths,
		">6m":       models.TimelineMoreThanSixMonths,
		"Exploring": models.TimelineExploring,
	},
	FieldBHK: {
		"1":      models.BHKOne,
		"2":      models.BHKTwo,
		"3":      models.BHKThree,
		"4":      models.BHKFour,
		"Studio": models.BHKStudio,
	},
	FieldSource: {
		"Website":  models.SourceWebsite,
		"Referral": models.SourceReferral,
		"Walk-in":  models.SourceWalkIn,
		"Call":     models.SourceCall,
		"Other":    models.SourceOther,
	},
	// Status tokens are identical in both forms today; routing them through
	// the codec keeps the two representations from silently diverging.
	FieldStatus: {
		models.StatusNew:         models.StatusNew,
		models.StatusQualified:   models.StatusQualified,
		models.StatusContacted:   models.StatusContacted,
		models.StatusVisited:     models.StatusVisited,
		models.StatusNegotiation: models.StatusNegotiation,
		models.StatusConverted:   models.StatusConverted,
		models.StatusDropped:     models.StatusDropped,
	},
}

// decodeTables is the exact inverse of encodeTables, built once at init so
// the bijection cannot drift.
var decodeTables = invertTables(encodeTables)

func invertTables(tables map[string]map[string]string) map[string]map[string]string {
	inverted := make(map[string]map[string]string, len(tables))
	for field, table := range tables {
		inv := make(map[string]string, len(table))
		for user, canonical := range table {
			if _, dup := inv[canonical]; dup {
				panic(fmt.Sprintf("codec: duplicate canonical %s token %q", field, canonical))
			}
			inv[canonical] = user
		}
		inverted[field] = inv
	}
	return inverted
}

// Encode maps a user-facing token to its canonical form
func (c *fieldCodec) Encode(field, token string) (string, error) {
	return c.lookup(encodeTables, field, token)
}

// Decode maps a canonical token back to its user-facing form
func (c *fieldCodec) Decode(field, token string) (string, error) {
	return c.lookup(decodeTables, field, token)
}

func (c *fieldCodec) lookup(tables map[string]map[string]string, field, token string) (string, error) {
	table, ok := tables[field]
	if !ok {
		return "", fmt.Errorf("codec: field %q has no token mapping", field)
	}
	if mapped, ok := table[token]; ok {
		return mapped, nil
	}
	if c.lenient {
		return token, nil
	}
	return "", fmt.Errorf("codec: unmapped %s token %q", field, token)
}
