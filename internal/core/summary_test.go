package core

import (
	"testing"
	"time"
)

func km(v int64) *int64 { return &v }

func testCycle() *Cycle {
	return &Cycle{
		ID:                 1,
		GasCost:            Money{Cents: 5000},
		IsActive:           true,
		StartTime:          time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		CumulativeEarnings: Money{Cents: 12000},
	}
}

func TestSumAndCountEarnings(t *testing.T) {
	earnings := []Earning{
		{Amount: Money{Cents: 2000}},
		{Amount: Money{Cents: 3550}},
		{Amount: Money{Cents: 0}},
	}
	if got := SumEarnings(earnings); got.Cents != 5550 {
		t.Fatalf("sum expected 5550, got %d", got.Cents)
	}
	if got := CountEarnings(earnings); got != 3 {
		t.Fatalf("count expected 3, got %d", got)
	}
	if got := SumEarnings(nil); got.Cents != 0 {
		t.Fatalf("empty sum expected 0, got %d", got.Cents)
	}
}

func TestProfit(t *testing.T) {
	c := testCycle()
	expenses := []Expense{
		{Amount: Money{Cents: 1000}},
		{Amount: Money{Cents: 500}},
	}
	// 120.00 - 50.00 - 15.00 = 55.00
	if got := Profit(c, expenses); got.Cents != 5500 {
		t.Fatalf("profit expected 5500, got %d", got.Cents)
	}

	c.CumulativeEarnings = Money{Cents: 1000}
	if got := Profit(c, expenses); got.Cents != -5500 {
		t.Fatalf("negative profit expected -5500, got %d", got.Cents)
	}
}

func TestKmDriven(t *testing.T) {
	c := testCycle()
	if got := KmDriven(c); got != 0 {
		t.Fatalf("no km set: expected 0, got %d", got)
	}

	c.StartKm = km(1000)
	if got := KmDriven(c); got != 0 {
		t.Fatalf("missing end km: expected 0, got %d", got)
	}

	c.EndKm = km(1100)
	if got := KmDriven(c); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}

	c.EndKm = km(900)
	if got := KmDriven(c); got != 0 {
		t.Fatalf("end before start: expected 0, got %d", got)
	}
}

func TestKmPerLiter(t *testing.T) {
	c := testCycle()
	c.StartKm = km(1000)
	c.EndKm = km(1100)

	if _, ok := KmPerLiter(c); ok {
		t.Fatal("no fuel price: metric should be undefined")
	}

	c.FuelPrice = &Money{Cents: 500} // 5.00 per liter
	got, ok := KmPerLiter(c)
	if !ok {
		t.Fatal("expected defined metric")
	}
	// liters = 50.00 / 5.00 = 10, so 100km / 10l = 10 km/l
	if got != 10 {
		t.Fatalf("expected 10 km/l, got %v", got)
	}

	c.GasCost = Money{Cents: 0}
	if _, ok := KmPerLiter(c); ok {
		t.Fatal("zero gas cost: metric should be undefined")
	}
}

func TestCostPerKm(t *testing.T) {
	c := testCycle()
	expenses := []Expense{{Amount: Money{Cents: 1000}}}

	if _, ok := CostPerKm(c, expenses); ok {
		t.Fatal("no km driven: metric should be undefined")
	}

	c.StartKm = km(1000)
	c.EndKm = km(1100)
	got, ok := CostPerKm(c, expenses)
	if !ok {
		t.Fatal("expected defined metric")
	}
	// (50.00 + 10.00) / 100 km = 0.60
	if got != 0.6 {
		t.Fatalf("expected 0.6, got %v", got)
	}
}
