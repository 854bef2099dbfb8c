package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
)

// Buyer field length limits
const (
	FullNameMinLen = 2
	FullNameMaxLen = 80
	NotesMaxLen    = 1000
)

// BuyerValidator validates a raw buyer field map and produces either a
// normalized record or the full list of field-level errors. Validation is
// total: it never stops at the first failure, and the two cross-field rules
// are evaluated against whatever values parsed, even when other fields
// already failed structurally.
//
// All three modes share one rule set; the user-facing/canonical distinction
// is purely a post-validation encode step.
type BuyerValidator interface {
	// ValidateForm validates without applying the field codec, returning the
	// record in user-facing token form. Used for pre-submit form checks.
	ValidateForm(fields models.RawFields) (*models.FormBuyer, models.ValidationErrors)

	// ValidateAndEncode validates and then encodes enumerated fields to their
	// canonical form, ready for persistence.
	ValidateAndEncode(fields models.RawFields) (*models.Buyer, models.ValidationErrors)

	// ValidatePartialAndEncode validates only the supplied fields of a
	// partial update and encodes them. Cross-field rules still run against
	// the values present in the map.
	ValidatePartialAndEncode(fields models.RawFields) (*models.BuyerPatch, models.ValidationErrors)
}

type buyerValidator struct {
	codec        FieldCodec
	emailPattern *regexp.Regexp
	phonePattern *regexp.Regexp
}

// NewBuyerValidator creates a validator that encodes through the given codec.
func NewBuyerValidator(codec FieldCodec) BuyerValidator {
	return &buyerValidator{
		codec:        codec,
		emailPattern: regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
		phonePattern: regexp.MustCompile(`^[0-9]{10,15}$`),
	}
}

// User-facing enum vocabularies. City, propertyType, purpose and status use
// the same tokens in both forms; bhk, timeline and source differ and go
// through the codec after validation.
var (
	userBHKTokens      = []string{"1", "2", "3", "4", "Studio"}
	userTimelineTokens = []string{"0-3m", "3-6m", ">6m", "Exploring"}
	userSourceTokens   = []string{"Website", "Referral", "Walk-in", "Call", "Other"}
)

func isUserToken(tokens []string, v string) bool {
	for _, t := range tokens {
		if t == v {
			return true
		}
	}
	return false
}

// ValidateForm validates a complete record without encoding
func (v *buyerValidator) ValidateForm(fields models.RawFields) (*models.FormBuyer, models.ValidationErrors) {
	form, errs := v.validate(fields, false)
	if len(errs) > 0 {
		return nil, errs
	}
	return form, nil
}

// ValidateAndEncode validates a complete record and encodes it to canonical form
func (v *buyerValidator) ValidateAndEncode(fields models.RawFields) (*models.Buyer, models.ValidationErrors) {
	form, errs := v.validate(fields, false)
	if len(errs) > 0 {
		return nil, errs
	}
	return v.encode(form)
}

// ValidatePartialAndEncode validates only the supplied fields and encodes them
func (v *buyerValidator) ValidatePartialAndEncode(fields models.RawFields) (*models.BuyerPatch, models.ValidationErrors) {
	form, errs := v.validate(fields, true)
	if len(errs) > 0 {
		return nil, errs
	}
	return v.encodePartial(fields, form)
}

// validate runs the shared rule set. In partial mode only the fields present
// in the map are checked; in full mode a missing key counts as empty.
func (v *buyerValidator) validate(fields models.RawFields, partial bool) (*models.FormBuyer, models.ValidationErrors) {
	var errs models.ValidationErrors

	has := func(field string) bool {
		if !partial {
			return true
		}
		_, ok := fields[field]
		return ok
	}
	value := func(field string) string {
		return strings.TrimSpace(fields[field])
	}
	addErr := func(field, message string) {
		errs = append(errs, models.FieldError{Field: field, Message: message})
	}

	form := &models.FormBuyer{}

	if has("fullName") {
		form.FullName = value("fullName")
		if n := utf8.RuneCountInString(form.FullName); n < FullNameMinLen || n > FullNameMaxLen {
			addErr("fullName", "fullName must be between 2 and 80 characters")
		}
	}

	if has("email") {
		form.Email = value("email")
		if form.Email != "" && !v.emailPattern.MatchString(form.Email) {
			addErr("email", "invalid email address")
		}
	}

	if has("phone") {
		form.Phone = value("phone")
		if !v.phonePattern.MatchString(form.Phone) {
			addErr("phone", "phone must be 10 to 15 digits")
		}
	}

	if has("city") {
		form.City = value("city")
		if form.City == "" {
			addErr("city", "city is required")
		} else if !models.IsValidCity(form.City) {
			addErr("city", "invalid city")
		}
	}

	if has("propertyType") {
		form.PropertyType = value("propertyType")
		if form.PropertyType == "" {
			addErr("propertyType", "propertyType is required")
		} else if !models.IsValidPropertyType(form.PropertyType) {
			addErr("propertyType", "invalid propertyType")
		}
	}

	if has("bhk") {
		form.BHK = value("bhk")
		if form.BHK != "" && !isUserToken(userBHKTokens, form.BHK) {
			addErr("bhk", "invalid bhk")
		}
	}

	if has("purpose") {
		form.Purpose = value("purpose")
		if form.Purpose == "" {
			addErr("purpose", "purpose is required")
		} else if !models.IsValidPurpose(form.Purpose) {
			addErr("purpose", "invalid purpose")
		}
	}

	if has("budgetMin") {
		form.BudgetMin = parseBudget(value("budgetMin"), "budgetMin", addErr)
	}
	if has("budgetMax") {
		form.BudgetMax = parseBudget(value("budgetMax"), "budgetMax", addErr)
	}

	if has("timeline") {
		form.Timeline = value("timeline")
		if form.Timeline == "" {
			addErr("timeline", "timeline is required")
		} else if !isUserToken(userTimelineTokens, form.Timeline) {
			addErr("timeline", "invalid timeline")
		}
	}

	if has("source") {
		form.Source = value("source")
		if form.Source != "" && !isUserToken(userSourceTokens, form.Source) {
			addErr("source", "invalid source")
		}
	}

	if has("notes") {
		form.Notes = value("notes")
		if utf8.RuneCountInString(form.Notes) > NotesMaxLen {
			addErr("notes", "notes must be at most 1000 characters")
		}
	}

	if has("tags") {
		form.Tags = value("tags")
	}

	if has("status") {
		form.Status = value("status")
		if form.Status == "" {
			if !partial {
				form.Status = models.StatusNew
			} else {
				addErr("status", "invalid status")
			}
		} else if !models.IsValidStatus(form.Status) {
			addErr("status", "invalid status")
		}
	} else if !partial {
		form.Status = models.StatusNew
	}

	// Cross-field rules run unconditionally against the values present, so
	// the error set stays complete even when a field already failed above.

	// Rule 1: Apartment and Villa listings must state a bhk.
	if has("propertyType") && models.RequiresBHK(form.PropertyType) {
		if form.BHK == "" {
			addErr("bhk", "bhk is required for Apartment and Villa properties")
		}
	}

	// Rule 2: budgetMin must not exceed budgetMax when both are given.
	if form.BudgetMin != nil && form.BudgetMax != nil && *form.BudgetMin > *form.BudgetMax {
		addErr("budgetMin", "budgetMin must be less than or equal to budgetMax")
	}

	return form, errs
}

// parseBudget coerces an optional positive integer. Empty or unparseable
// input counts as absent rather than an error; a parsed non-positive value
// is rejected.
func parseBudget(raw, field string, addErr func(field, message string)) *int64 {
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	if n <= 0 {
		addErr(field, field+" must be a positive integer")
		return nil
	}
	return &n
}

// encode maps a validated user-facing record to canonical form.
func (v *buyerValidator) encode(form *models.FormBuyer) (*models.Buyer, models.ValidationErrors) {
	var errs models.ValidationErrors

	buyer := &models.Buyer{
		FullName:  form.FullName,
		Email:     form.Email,
		Phone:     form.Phone,
		City:      form.City,
		Purpose:   form.Purpose,
		BudgetMin: form.BudgetMin,
		BudgetMax: form.BudgetMax,
		Notes:     form.Notes,
		Tags:      form.Tags,
	}
	buyer.PropertyType = form.PropertyType

	encodeField := func(field, token string) string {
		if token == "" {
			return ""
		}
		canonical, err := v.codec.Encode(field, token)
		if err != nil {
			errs = append(errs, models.FieldError{Field: field, Message: err.Error()})
			return ""
		}
		return canonical
	}

	buyer.BHK = encodeField(FieldBHK, form.BHK)
	buyer.Timeline = encodeField(FieldTimeline, form.Timeline)
	buyer.Source = encodeField(FieldSource, form.Source)
	buyer.Status = encodeField(FieldStatus, form.Status)

	if len(errs) > 0 {
		return nil, errs
	}
	return buyer, nil
}

// encodePartial maps the supplied fields of a validated partial record to a
// canonical patch.
func (v *buyerValidator) encodePartial(fields models.RawFields, form *models.FormBuyer) (*models.BuyerPatch, models.ValidationErrors) {
	var errs models.ValidationErrors
	patch := &models.BuyerPatch{}

	supplied := func(field string) bool {
		_, ok := fields[field]
		return ok
	}
	encodeField := func(field, token string) *string {
		if token == "" {
			empty := ""
			return &empty
		}
		canonical, err := v.codec.Encode(field, token)
		if err != nil {
			errs = append(errs, models.FieldError{Field: field, Message: err.Error()})
			return nil
		}
		return &canonical
	}

	if supplied("fullName") {
		patch.FullName = &form.FullName
	}
	if supplied("email") {
		patch.Email = &form.Email
	}
	if supplied("phone") {
		patch.Phone = &form.Phone
	}
	if supplied("city") {
		patch.City = &form.City
	}
	if supplied("propertyType") {
		patch.PropertyType = &form.PropertyType
	}
	if supplied("bhk") {
		patch.BHK = encodeField(FieldBHK, form.BHK)
	}
	if supplied("purpose") {
		patch.Purpose = &form.Purpose
	}
	if supplied("budgetMin") {
		patch.BudgetMin = models.OptionalInt64{Value: form.BudgetMin, Set: true}
	}
	if supplied("budgetMax") {
		patch.BudgetMax = models.OptionalInt64{Value: form.BudgetMax, Set: true}
	}
	if supplied("timeline") {
		patch.Timeline = encodeField(FieldTimeline, form.Timeline)
	}
	if supplied("source") {
		patch.Source = encodeField(FieldSource, form.Source)
	}
	if supplied("notes") {
		patch.Notes = &form.Notes
	}
	if supplied("tags") {
		patch.Tags = &form.Tags
	}
	if supplied("status") {
		patch.Status = encodeField(FieldStatus, form.Status)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return patch, nil
}
