package models

import (
	"time"

	"github.com/google/uuid"
)

// City constants
const (
	CityChandigarh = "Chandigarh"
	CityMohali     = "Mohali"
	CityZirakpur   = "Zirakpur"
	CityPanchkula  = "Panchkula"
	CityOther      = "Other"
)

// Property type constants
const (
	PropertyApartment = "Apartment"
	PropertyVilla     = "Villa"
	PropertyPlot      = "Plot"
	PropertyOffice    = "Office"
	PropertyRetail    = "Retail"
)

// BHK constants (canonical form)
const (
	BHKOne    = "ONE"
	BHKTwo    = "TWO"
	BHKThree  = "THREE"
	BHKFour   = "FOUR"
	BHKStudio = "Studio"
)

// Purpose constants
const (
	PurposeBuy  = "Buy"
	PurposeRent = "Rent"
)

// Timeline constants (canonical form)
const (
	TimelineZeroToThreeMonths = "ZERO_TO_THREE_MONTHS"
	TimelineThreeToSixMonths  = "THREE_TO_SIX_MONTHS"
	TimelineMoreThanSixMonths = "MORE_THAN_SIX_MONTHS"
	TimelineExploring         = "Exploring"
)

// Source constants (canonical form)
const (
	SourceWebsite  = "Website"
	SourceReferral = "Referral"
	SourceWalkIn   = "Walk_in"
	SourceCall     = "Call"
	SourceOther    = "Other"
)

// Buyer status constants
const (
	StatusNew         = "New"
	StatusQualified   = "Qualified"
	StatusContacted   = "Contacted"
	StatusVisited     = "Visited"
	StatusNegotiation = "Negotiation"
	StatusConverted   = "Converted"
	StatusDropped     = "Dropped"
)

// Buyer represents a buyer lead in canonical (storage) form.
// Enumerated fields hold canonical tokens; the user-facing representation
// exists only at the form/CSV boundary.
type Buyer struct {
	ID           uuid.UUID  `json:"id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone"`
	City         string     `json:"city"`
	PropertyType string     `json:"property_type"`
	BHK          string     `json:"bhk,omitempty"`
	Purpose      string     `json:"purpose"`
	BudgetMin    *int64     `json:"budget_min,omitempty"`
	BudgetMax    *int64     `json:"budget_max,omitempty"`
	Timeline     string     `json:"timeline"`
	Source       string     `json:"source,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Tags         string     `json:"tags,omitempty"`
	Status       string     `json:"status"`
	OwnerID      *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FormBuyer is a validated buyer record in user-facing form, as it appears
// on a form or a CSV row before the field codec runs. Returned by form-mode
// validation for client-side pre-submit checks.
type FormBuyer struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
	PropertyType string `json:"property_type"`
	BHK          string `json:"bhk,omitempty"`
	Purpose      string `json:"purpose"`
	BudgetMin    *int64 `json:"budget_min,omitempty"`
	BudgetMax    *int64 `json:"budget_max,omitempty"`
	Timeline     string `json:"timeline"`
	Source       string `json:"source,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Tags         string `json:"tags,omitempty"`
	Status       string `json:"status"`
}

// OptionalInt64 distinguishes "field not supplied" (Set false) from
// "supplied as absent" (Set true, Value nil).
type OptionalInt64 struct {
	Value *int64
	Set   bool
}

// BuyerPatch holds a validated partial update in canonical form.
// Nil pointers mean the field was not supplied; a pointer to the zero value
// clears an optional field.
type BuyerPatch struct {
	FullName     *string
	Email        *string
	Phone        *string
	City         *string
	PropertyType *string
	BHK          *string
	Purpose      *string
	BudgetMin    OptionalInt64
	BudgetMax    OptionalInt64
	Timeline     *string
	Source       *string
	Notes        *string
	Tags         *string
	Status       *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *BuyerPatch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.Phone == nil &&
		p.City == nil && p.PropertyType == nil && p.BHK == nil &&
		p.Purpose == nil && !p.BudgetMin.Set && !p.BudgetMax.Set &&
		p.Timeline == nil && p.Source == nil && p.Notes == nil &&
		p.Tags == nil && p.Status == nil
}

// Apply copies the supplied fields of the patch onto a buyer.
func (p *BuyerPatch) Apply(b *Buyer) {
	if p.FullName != nil {
		b.FullName = *p.FullName
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
	if p.City != nil {
		b.City = *p.City
	}
	if p.PropertyType != nil {
		b.PropertyType = *p.PropertyType
	}
	if p.BHK != nil {
		b.BHK = *p.BHK
	}
	if p.Purpose != nil {
		b.Purpose = *p.Purpose
	}
	if p.BudgetMin.Set {
		b.BudgetMin = p.BudgetMin.Value
	}
	if p.BudgetMax.Set {
		b.BudgetMax = p.BudgetMax.Value
	}
	if p.Timeline != nil {
		b.Timeline = *p.Timeline
	}
	if p.Source != nil {
		b.Source = *p.Source
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.Tags != nil {
		b.Tags = *p.Tags
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}

// BuyerFilter holds filtering options for listing buyers
type BuyerFilter struct {
	City         string
	PropertyType string
	Status       string
	Timeline     string
	Search       string
	Page         int
	PageSize     int
}

// RequiresBHK reports whether a property type makes the bhk field mandatory.
func RequiresBHK(propertyType string) bool {
	return propertyType == PropertyApartment || propertyType == PropertyVilla
}

// IsValidCity checks if the city is a known value
func IsValidCity(city string) bool {
	switch city {
	case CityChandigarh, CityMohali, CityZirakpur, CityPanchkula, CityOther:
		return true
	default:
		return false
	}
}

// IsValidPropertyType checks if the property type is a known value
func IsValidPropertyType(propertyType string) bool {
	switch propertyType {
	case PropertyApartment, PropertyVilla, PropertyPlot, PropertyOffice, PropertyRetail:
		return true
	default:
		return false
	}
}

// IsValidPurpose checks if the purpose is a known value
func IsValidPurpose(purpose string) bool {
	return purpose == PurposeBuy || purpose == PurposeRent
}

// IsValidStatus checks if the buyer status is a known value
func IsValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusQualified, StatusContacted, StatusVisited,
		StatusNegotiation, StatusConverted, StatusDropped:
		return true
	default:
		return false
	}
}
