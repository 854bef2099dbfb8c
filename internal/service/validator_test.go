package service

import (
	"testing"

	"github.com/Charu-sarswat/buyer-leads-backend/internal/models"
)

func validFields() models.RawFields {
	return models.RawFields{
		"fullName":     "Asha Verma",
		"email":        "asha@example.com",
		"phone":        "9876543210",
		"city":         "Mohali",
		"propertyType": "Apartment",
		"bhk":          "2",
		"purpose":      "Buy",
		"budgetMin":    "4000000",
		"budgetMax":    "6000000",
		"timeline":     "0-3m",
		"source":       "Website",
		"notes":        "prefers a corner unit",
		"tags":         "hot",
		"status":       "New",
	}
}

func TestBuyerValidator_ValidateAndEncode(t *testing.T) {
	validator := NewBuyerValidator(NewFieldCodec())

	t.Run("valid record encodes to canonical form", func(t *testing.T) {
		buyer, errs := validator.ValidateAndEncode(validFields())
		if len(errs) > 0 {
			t.Fatalf("ValidateAndEncode() errors = %v, want none", errs)
		}
		if buyer.BHK != models.BHKTwo {
			t.Errorf("BHK = %q, want %q", buyer.BHK, models.BHKTwo)
		}
		if buyer.Timeline != models.TimelineZeroToThreeMonths {
			t.Errorf("Timeline = %q, want %q", buyer.Timeline, models.TimelineZeroToThreeMonths)
		}
		if buyer.Source != models.SourceWebsite {
			t.Errorf("Source = %q, want %q", buyer.Source, models.SourceWebsite)
		}
		if buyer.Status != models.StatusNew {
			t.Errorf("Status = %q, want %q", buyer.Status, models.StatusNew)
		}
		if buyer.BudgetMin == nil || *buyer.BudgetMin != 4000000 {
			t.Errorf("BudgetMin = %v, want 4000000", buyer.BudgetMin)
		}
	})

	t.Run("walk-in source maps to underscore form", func(t *testing.T) {
		fields := validFields()
		fields["source"] = "Walk-in"

		buyer, errs := validator.ValidateAndEncode(fields)
		if len(errs) > 0 {
			t.Fatalf("ValidateAndEncode() errors = %v, want none", errs)
		}
		if buyer.Source != models.SourceWalkIn {
			t.Errorf("Source = %q, want %q", buyer.Source, models.SourceWalkIn)
		}
	})

	t.Run("missing status defaults to New", func(t *testing.T) {
		fields := validFields()
		delete(fields, "status")

		buyer, errs := validator.ValidateAndEncode(fields)
		if len(errs) > 0 {
			t.Fatalf("ValidateAndEncode() errors = %v, want none", errs)
		}
		if buyer.Status != models.StatusNew {
			t.Errorf("Status = %q, want %q", buyer.Status, models.StatusNew)
		}
	})

	t.Run("plot without bhk is valid", func(t *testing.T) {
		fields := validFields()
		fields["propertyType"] = "Plot"
		fields["bhk"] = ""

		buyer, errs := validator.ValidateAndEncode(fields)
		if len(errs) > 0 {
			t.Fatalf("ValidateAndEncode() errors = %v, want none", errs)
		}
		if buyer.BHK != "" {
			t.Errorf("BHK = %q, want empty", buyer.BHK)
		}
	})
}

func TestBuyerValidator_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(models.RawFields)
		wantField string
	}{
		{
			name:      "short fullName",
			mutate:    func(f models.RawFields) { f["fullName"] = "A" },
			wantField: "fullName",
		},
		{
			name:      "malformed email",
			mutate:    func(f models.RawFields) { f["email"] = "not-an-email" },
			wantField: "email",
		},
		{
			name:      "phone too short",
			mutate:    func(f models.RawFields) { f["phone"] = "12345" },
			wantField: "phone",
		},
		{
			name:      "phone with letters",
			mutate:    func(f models.RawFields) { f["phone"] = "98765abcde" },
			wantField: "phone",
		},
		{
			name:      "unknown city",
			mutate:    func(f models.RawFields) { f["city"] = "Delhi" },
			wantField: "city",
		},
		{
			name:      "unknown propertyType",
			mutate:    func(f models.RawFields) { f["propertyType"] = "Farmhouse" },
			wantField: "propertyType",
		},
		{
			name:      "unknown bhk token",
			mutate:    func(f models.RawFields) { f["bhk"] = "5" },
			wantField: "bhk",
		},
		{
			name:      "unknown purpose",
			mutate:    func(f models.RawFields) { f["purpose"] = "Lease" },
			wantField: "purpose",
		},
		{
			name:      "unknown timeline",
			mutate:    func(f models.RawFields) { f["timeline"] = "soon" },
			wantField: "timeline",
		},
		{
			name:      "canonical timeline token rejected",
			mutate:    func(f models.RawFields) { f["timeline"] = "ZERO_TO_THREE_MONTHS" },
			wantField: "timeline",
		},
		{
			name:      "unknown source",
			mutate:    func(f models.RawFields) { f["source"] = "Billboard" },
			wantField: "source",
		},
		{
			name:      "negative budget",
			mutate:    func(f models.RawFields) { f["budgetMin"] = "-5" },
			wantField: "budgetMin",
		},
		{
			name:      "unknown status",
			mutate:    func(f models.RawFields) { f["status"] = "Archived" },
			wantField: "status",
		},
		{
			name: "villa without bhk",
			mutate: func(f models.RawFields) {
				f["propertyType"] = "Villa"
				f["bhk"] = ""
			},
			wantField: "bhk",
		},
		{
			name: "budgetMin above budgetMax",
			mutate: func(f models.RawFields) {
				f["budgetMin"] = "7000000"
				f["budgetMax"] = "6000000"
			},
			wantField: "budgetMin",
		},
	}

	validator := NewBuyerValidator(NewFieldCodec())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			tt.mutate(fields)

			_, errs := validator.ValidateAndEncode(fields)
			if len(errs) != 1 {
				t.Fatalf("ValidateAndEncode() errors = %v, want exactly one", errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("error field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

// Validation must report every failing field in one pass, not stop at the
// first.
func TestBuyerValidator_Totality(t *testing.T) {
	validator := NewBuyerValidator(NewFieldCodec())

	fields := validFields()
	fields["fullName"] = "X"
	fields["email"] = "nope"
	fields["phone"] = "123"
	fields["city"] = "Delhi"
	fields["timeline"] = "whenever"

	_, errs := validator.ValidateAndEncode(fields)
	if len(errs) != 5 {
		t.Fatalf("ValidateAndEncode() returned %d errors, want 5: %v", len(errs), errs)
	}

	for _, field := range []string{"fullName", "email", "phone", "city", "timeline"} {
		if !errs.HasField(field) {
			t.Errorf("missing expected error for field %q", field)
		}
	}
}

// Cross-field rules still run when other fields failed structurally.
func TestBuyerValidator_CrossFieldRunsDespiteOtherErrors(t *testing.T) {
	validator := NewBuyerValidator(NewFieldCodec())

	fields := validFields()
	fields["email"] = "broken"
	fields["propertyType"] = "Villa"
	fields["bhk"] = ""

	_, errs := validator.ValidateAndEncode(fields)
	if !errs.HasField("email") {
		t.Error("missing error for field email")
	}
	if !errs.HasField("bhk") {
		t.Error("missing cross-field error for field bhk")
	}
}

func TestBuyerValidator_BudgetCoercion(t *testing.T) {
	validator := NewBuyerValidator(NewFieldCodec())

	t.Run("unparseable budget counts as absent", func(t *testing.T) {
		fields := validFields()
		fields["budgetMin"] = "about five lakh"

		buyer, errs := validator.ValidateAndEncode(fields)
		if len(errs) > 0 {
			t.Fatalf("ValidateAndEncode() errors = %v, want none", errs)
		}
		if buyer.BudgetMin != nil {
			t.Errorf("BudgetMin = %v, want nil", *buyer.BudgetMin)
		}
	})

	t.Run("absent budget skips the ordering rule", func(t *testing.T) {
		fields := validFields()
		fields["budgetMin"] = ""
		fields["budgetMax"] = "6000000"

		_, errs := validator.ValidateAndEncode(fields)
		if len(errs) > 0 {
			t.Fatalf("ValidateAndEncode() errors = %v, want none", errs)
		}
	})

	t.Run("equal budgets are allowed", func(t *testing.T) {
		fields := validFields()
		fields["budgetMin"] = "5000000"
		fields["budgetMax"] = "5000000"

		_, errs := validator.ValidateAndEncode(fields)
		if len(errs) > 0 {
			t.Fatalf("ValidateAndEncode() errors = %v, want none", errs)
		}
	})
}

func TestBuyerValidator_ValidateForm(t *testing.T) {
	validator := NewBuyerValidator(NewFieldCodec())

	form, errs := validator.ValidateForm(validFields())
	if len(errs) > 0 {
		t.Fatalf("ValidateForm() errors = %v, want none", errs)
	}

	// Form mode keeps user-facing tokens.
	if form.BHK != "2" {
		t.Errorf("BHK = %q, want %q", form.BHK, "2")
	}
	if form.Timeline != "0-3m" {
		t.Errorf("Timeline = %q, want %q", form.Timeline, "0-3m")
	}
}

func TestBuyerValidator_ValidatePartialAndEncode(t *testing.T) {
	validator := NewBuyerValidator(NewFieldCodec())

	t.Run("only supplied fields are checked", func(t *testing.T) {
		patch, errs := validator.ValidatePartialAndEncode(models.RawFields{
			"status": "Qualified",
		})
		if len(errs) > 0 {
			t.Fatalf("ValidatePartialAndEncode() errors = %v, want none", errs)
		}
		if patch.Status == nil || *patch.Status != models.StatusQualified {
			t.Errorf("Status = %v, want %q", patch.Status, models.StatusQualified)
		}
		if patch.FullName != nil {
			t.Errorf("FullName = %v, want nil", *patch.FullName)
		}
	})

	t.Run("supplied fields are encoded", func(t *testing.T) {
		patch, errs := validator.ValidatePartialAndEncode(models.RawFields{
			"timeline": "3-6m",
			"bhk":      "3",
		})
		if len(errs) > 0 {
			t.Fatalf("ValidatePartialAndEncode() errors = %v, want none", errs)
		}
		if patch.Timeline == nil || *patch.Timeline != models.TimelineThreeToSixMonths {
			t.Errorf("Timeline = %v, want %q", patch.Timeline, models.TimelineThreeToSixMonths)
		}
		if patch.BHK == nil || *patch.BHK != models.BHKThree {
			t.Errorf("BHK = %v, want %q", patch.BHK, models.BHKThree)
		}
	})

	t.Run("supplied empty required field fails", func(t *testing.T) {
		_, errs := validator.ValidatePartialAndEncode(models.RawFields{
			"city": "",
		})
		if !errs.HasField("city") {
			t.Errorf("errors = %v, want city error", errs)
		}
	})

	t.Run("supplied empty status fails in partial mode", func(t *testing.T) {
		_, errs := validator.ValidatePartialAndEncode(models.RawFields{
			"status": "",
		})
		if !errs.HasField("status") {
			t.Errorf("errors = %v, want status error", errs)
		}
	})

	t.Run("budget supplied empty clears the field", func(t *testing.T) {
		patch, errs := validator.ValidatePartialAndEncode(models.RawFields{
			"budgetMin": "",
		})
		if len(errs) > 0 {
			t.Fatalf("ValidatePartialAndEncode() errors = %v, want none", errs)
		}
		if !patch.BudgetMin.Set {
			t.Error("BudgetMin.Set = false, want true")
		}
		if patch.BudgetMin.Value != nil {
			t.Errorf("BudgetMin.Value = %v, want nil", *patch.BudgetMin.Value)
		}
	})

	t.Run("cross-field rule with supplied propertyType", func(t *testing.T) {
		_, errs := validator.ValidatePartialAndEncode(models.RawFields{
			"propertyType": "Apartment",
		})
		if !errs.HasField("bhk") {
			t.Errorf("errors = %v, want bhk error", errs)
		}
	})
}

func TestBuyerValidator_TrimsWhitespace(t *testing.T) {
	validator := NewBuyerValidator(NewFieldCodec())

	fields := validFields()
	fields["fullName"] = "  Asha Verma  "
	fields["city"] = " Mohali "

	buyer, errs := validator.ValidateAndEncode(fields)
	if len(errs) > 0 {
		t.Fatalf("ValidateAndEncode() errors = %v, want none", errs)
	}
	if buyer.FullName != "Asha Verma" {
		t.Errorf("FullName = %q, want trimmed", buyer.FullName)
	}
	if buyer.City != "Mohali" {
		t.Errorf("City = %q, want trimmed", buyer.City)
	}
}
