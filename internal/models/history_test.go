package models

import "testing"

func TestDiffBuyers(t *testing.T) {
	min := int64(4000000)
	base := Buyer{
		FullName:     "Asha Verma",
		Phone:        "9876543210",
		City:         CityMohali,
		PropertyType: PropertyApartment,
		BHK:          BHKTwo,
		Purpose:      PurposeBuy,
		BudgetMin:    &min,
		Timeline:     TimelineZeroToThreeMonths,
		Status:       StatusNew,
	}

	t.Run("identical buyers produce no changes", func(t *testing.T) {
		updated := base
		if changes := DiffBuyers(&base, &updated); len(changes) != 0 {
			t.Errorf("DiffBuyers() = %v, want none", changes)
		}
	})

	t.Run("changed fields appear in declaration order", func(t *testing.T) {
		updated := base
		updated.Status = StatusQualified
		updated.City = CityZirakpur

		changes := DiffBuyers(&base, &updated)
		if len(changes) != 2 {
			t.Fatalf("DiffBuyers() = %v, want 2 changes", changes)
		}
		if changes[0].Field != "city" || changes[1].Field != "status" {
			t.Errorf("change order = %q, %q, want city then status", changes[0].Field, changes[1].Field)
		}
		if *changes[1].OldValue != StatusNew || *changes[1].NewValue != StatusQualified {
			t.Errorf("status delta = %v -> %v, want New -> Qualified", changes[1].OldValue, changes[1].NewValue)
		}
	})

	t.Run("cleared field has nil new value", func(t *testing.T) {
		updated := base
		updated.BudgetMin = nil

		changes := DiffBuyers(&base, &updated)
		if len(changes) != 1 {
			t.Fatalf("DiffBuyers() = %v, want 1 change", changes)
		}
		if changes[0].Field != "budgetMin" {
			t.Errorf("Field = %q, want budgetMin", changes[0].Field)
		}
		if changes[0].OldValue == nil || *changes[0].OldValue != "4000000" {
			t.Errorf("OldValue = %v, want 4000000", changes[0].OldValue)
		}
		if changes[0].NewValue != nil {
			t.Errorf("NewValue = %v, want nil", *changes[0].NewValue)
		}
	})

	t.Run("newly set field has nil old value", func(t *testing.T) {
		updated := base
		updated.Notes = "prefers top floor"

		changes := DiffBuyers(&base, &updated)
		if len(changes) != 1 {
			t.Fatalf("DiffBuyers() = %v, want 1 change", changes)
		}
		if changes[0].OldValue != nil {
			t.Errorf("OldValue = %v, want nil", *changes[0].OldValue)
		}
		if changes[0].NewValue == nil || *changes[0].NewValue != "prefers top floor" {
			t.Errorf("NewValue = %v, want the new notes", changes[0].NewValue)
		}
	})
}
