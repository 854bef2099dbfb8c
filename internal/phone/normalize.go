// Package phone provides phone number utilities for the form and API
// boundary. It contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "IN"

// NormalizeDigits reduces a phone number to its national significant digits
// ("+91 98765-43210" -> "9876543210"). If the input does not parse as a
// valid number, the trimmed input is returned unchanged and the record
// validator's digit rule stays authoritative.
func NormalizeDigits(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.GetNationalSignificantNumber(number)
}
