package core

import (
	"errors"
	"testing"
)

func TestCyclePatchEmpty(t *testing.T) {
	if !(CyclePatch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	gas := int64(5000)
	if (CyclePatch{GasCost: &gas}).Empty() {
		t.Fatal("patch with gas cost should not be empty")
	}
	if (CyclePatch{StartKmSet: true}).Empty() {
		t.Fatal("patch clearing start km should not be empty")
	}
}

func TestKmBoundErrorMessages(t *testing.T) {
	startErr := &KmBoundError{Field: KmFieldStart, StartKm: 1200, EndKm: 1100}
	if startErr.Error() != "KM inicial (1200) não pode ser maior que KM final (1100)" {
		t.Fatalf("unexpected message: %q", startErr.Error())
	}
	endErr := &KmBoundError{Field: KmFieldEnd, StartKm: 1000, EndKm: 900}
	if endErr.Error() != "KM final (900) não pode ser menor que KM inicial (1000)" {
		t.Fatalf("unexpected message: %q", endErr.Error())
	}
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{Category: "toll", Amount: Money{Cents: 1000}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	var vErr *ValidationError
	noCategory := Expense{Amount: Money{Cents: 1000}}
	if err := noCategory.Validate(); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	zeroAmount := Expense{Category: "toll"}
	if err := zeroAmount.Validate(); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEarningValidate(t *testing.T) {
	if err := (Earning{Amount: Money{Cents: 0}}).Validate(); err != nil {
		t.Fatalf("zero amount earning is valid, got %v", err)
	}
	if err := (Earning{Amount: Money{Cents: -1}}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
