package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBuildFullCycleSnapshot(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	c := testCycle()
	c.StartKm = km(1000)
	c.EndKm = km(1100)
	c.FuelPrice = &Money{Cents: 500}
	c.CumulativeRaceCount = 3

	earnings := []Earning{
		{ID: 1, CycleID: 1, Timestamp: now, Amount: Money{Cents: 12000}},
	}
	expenses := []Expense{
		{ID: 1, CycleID: 1, Timestamp: now, Category: "toll", Amount: Money{Cents: 1000}},
	}

	snap := BuildFullCycleSnapshot(c, earnings, expenses, "fim de semana", now)

	if snap.Type() != ArchiveTypeFullCycle || snap.ArchiveType != ArchiveTypeFullCycle {
		t.Fatalf("wrong type: %q", snap.ArchiveType)
	}
	if snap.CycleEarnings != 120.0 {
		t.Fatalf("cycleEarnings expected 120.0, got %v", snap.CycleEarnings)
	}
	if snap.SummaryKmDriven != 100 {
		t.Fatalf("summary_kmDriven expected 100, got %d", snap.SummaryKmDriven)
	}
	// profit = 120 - 50 - 10; km/l = 100 / (50/5); cost/km = 60/100
	if snap.SummaryProfit != 59.0 {
		t.Fatalf("summary_profit expected 59.0, got %v", snap.SummaryProfit)
	}
	if snap.SummaryKmPerLiter != "10.00" {
		t.Fatalf("summary_kmPerLiter expected 10.00, got %q", snap.SummaryKmPerLiter)
	}
	if snap.SummaryCostPerKm != "0.60" {
		t.Fatalf("summary_costPerKm expected 0.60, got %q", snap.SummaryCostPerKm)
	}
	if len(snap.EarningsDetails) != 1 || snap.EarningsDetails[0].Amount != 120.0 {
		t.Fatalf("earningsDetails mismatch: %+v", snap.EarningsDetails)
	}
	if snap.Note != "fim de semana" {
		t.Fatalf("note mismatch: %q", snap.Note)
	}
}

func TestBuildFullCycleSnapshotUndefinedMetrics(t *testing.T) {
	now := time.Now()
	c := testCycle()

	snap := BuildFullCycleSnapshot(c, nil, nil, "", now)
	if snap.SummaryKmPerLiter != "N/A" || snap.SummaryCostPerKm != "N/A" {
		t.Fatalf("expected N/A metrics, got %q / %q", snap.SummaryKmPerLiter, snap.SummaryCostPerKm)
	}
	if snap.FuelPricePerLiter != nil {
		t.Fatal("unset fuel price must serialize as null")
	}
	if snap.ExpensesList == nil || snap.EarningsDetails == nil {
		t.Fatal("detail lists must be non-nil so they serialize as []")
	}
}

func TestBuildPartialPeriodSnapshot(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	c := testCycle()
	c.CurrentPeriodEarnings = Money{Cents: 12000}
	c.CurrentPeriodRaceCount = 2

	expenses := []Expense{{Amount: Money{Cents: 1000}}}
	snap := BuildPartialPeriodSnapshot(c, nil, expenses, "nota", now)

	if snap.Type() != ArchiveTypePartialPeriod {
		t.Fatalf("wrong type: %q", snap.ArchiveType)
	}
	if snap.PeriodEarnings != 120.0 || snap.PeriodRaceCount != 2 {
		t.Fatalf("period totals mismatch: %v / %d", snap.PeriodEarnings, snap.PeriodRaceCount)
	}
	if snap.GasCostSnapshot != 50.0 {
		t.Fatalf("gasCostSnapshot expected 50.0, got %v", snap.GasCostSnapshot)
	}
	// cumulative 120 - gas 50 - expenses 10
	if snap.CycleProfitSnapshot != 60.0 {
		t.Fatalf("cycleProfitSnapshot expected 60.0, got %v", snap.CycleProfitSnapshot)
	}
}

func TestSnapshotTypeRoundTrip(t *testing.T) {
	now := time.Now()
	c := testCycle()

	full, err := MarshalSnapshot(BuildFullCycleSnapshot(c, nil, nil, "", now))
	if err != nil {
		t.Fatalf("marshal full: %v", err)
	}
	if got := SnapshotType(full); got != ArchiveTypeFullCycle {
		t.Fatalf("expected %q, got %q", ArchiveTypeFullCycle, got)
	}

	partial, err := MarshalSnapshot(BuildPartialPeriodSnapshot(c, nil, nil, "", now))
	if err != nil {
		t.Fatalf("marshal partial: %v", err)
	}
	if got := SnapshotType(partial); got != ArchiveTypePartialPeriod {
		t.Fatalf("expected %q, got %q", ArchiveTypePartialPeriod, got)
	}

	if got := SnapshotType([]byte("not json")); got != "" {
		t.Fatalf("expected empty type, got %q", got)
	}
}

func TestArchiveDocumentMerge(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	data, err := MarshalSnapshot(BuildPartialPeriodSnapshot(testCycle(), nil, nil, "", now))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	a := Archive{ID: 7, Date: now, Data: data}
	doc, err := a.Document()
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc["db_id"] != int64(7) {
		t.Fatalf("db_id expected 7, got %v", doc["db_id"])
	}
	if doc["archiveDate"] != FormatTime(now) {
		t.Fatalf("archiveDate mismatch: %v", doc["archiveDate"])
	}
	if doc["archiveType"] != ArchiveTypePartialPeriod {
		t.Fatalf("archiveType mismatch: %v", doc["archiveType"])
	}

	// The merged document must still be serializable as-is.
	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("marshal merged document: %v", err)
	}
}
