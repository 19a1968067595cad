package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Archive snapshot types. The stored document is a tagged union keyed by
// archiveType; consumers reload it by peeking that discriminator.
const (
	ArchiveTypeFullCycle     = "Ciclo Completo"
	ArchiveTypePartialPeriod = "Período Parcial"
)

// Snapshot is the tagged union of archive document shapes.
type Snapshot interface {
	Type() string
}

// FullCycleSnapshot is the document written when a cycle is finalized.
type FullCycleSnapshot struct {
	ArchiveDate               string        `json:"archiveDate"`
	ArchiveType               string        `json:"archiveType"`
	CycleEarnings             float64       `json:"cycleEarnings"`
	GasCost                   float64       `json:"gasCost"`
	ExpensesList              []ExpenseView `json:"expensesList"`
	CycleRaceCount            int64         `json:"cycleRaceCount"`
	StartKM                   *int64        `json:"startKM"`
	EndKM                     *int64        `json:"endKM"`
	FuelPricePerLiter         *float64      `json:"fuelPricePerLiter"`
	Note                      string        `json:"note"`
	SummaryTotalOtherExpenses float64       `json:"summary_totalOtherExpenses"`
	SummaryProfit             float64       `json:"summary_profit"`
	SummaryKmDriven           int64         `json:"summary_kmDriven"`
	SummaryKmPerLiter         string        `json:"summary_kmPerLiter"`
	SummaryCostPerKm          string        `json:"summary_costPerKm"`
	PeriodEndDate             string        `json:"periodEndDate"`
	EarningsDetails           []EarningView `json:"earningsDetails"`
}

func (FullCycleSnapshot) Type() string { return ArchiveTypeFullCycle }

// PartialPeriodSnapshot is the document written by a period archive. The
// profit snapshot is computed from cumulative totals and ALL expenses
// recorded so far, not period-scoped ones.
type PartialPeriodSnapshot struct {
	ArchiveDate         string        `json:"archiveDate"`
	ArchiveType         string        `json:"archiveType"`
	PeriodEarnings      float64       `json:"periodEarnings"`
	PeriodRaceCount     int64         `json:"periodRaceCount"`
	PeriodEndDate       string        `json:"periodEndDate"`
	EarningsDetails     []EarningView `json:"earningsDetails"`
	Note                string        `json:"note"`
	GasCostSnapshot     float64       `json:"gasCostSnapshot"`
	CycleProfitSnapshot float64       `json:"cycleProfitSnapshot"`
}

func (PartialPeriodSnapshot) Type() string { return ArchiveTypePartialPeriod }

// BuildFullCycleSnapshot assembles the full-cycle archive document. The
// cycle is expected to already carry its final end km.
func BuildFullCycleSnapshot(c *Cycle, earnings []Earning, expenses []Expense, note string, now time.Time) FullCycleSnapshot {
	snap := FullCycleSnapshot{
		ArchiveDate:               FormatTime(now),
		ArchiveType:               ArchiveTypeFullCycle,
		CycleEarnings:             c.CumulativeEarnings.Reais(),
		GasCost:                   c.GasCost.Reais(),
		ExpensesList:              ExpenseViews(expenses),
		CycleRaceCount:            c.CumulativeRaceCount,
		StartKM:                   c.StartKm,
		EndKM:                     c.EndKm,
		Note:                      note,
		SummaryTotalOtherExpenses: SumExpenses(expenses).Reais(),
		SummaryProfit:             Profit(c, expenses).Reais(),
		SummaryKmDriven:           KmDriven(c),
		SummaryKmPerLiter:         "N/A",
		SummaryCostPerKm:          "N/A",
		PeriodEndDate:             FormatTime(now),
		EarningsDetails:           EarningViews(earnings),
	}
	if c.FuelPrice != nil {
		price := c.FuelPrice.Reais()
		snap.FuelPricePerLiter = &price
	}
	if kmPerLiter, ok := KmPerLiter(c); ok {
		snap.SummaryKmPerLiter = fmt.Sprintf("%.2f", kmPerLiter)
	}
	if costPerKm, ok := CostPerKm(c, expenses); ok {
		snap.SummaryCostPerKm = fmt.Sprintf("%.2f", costPerKm)
	}
	return snap
}

// BuildPartialPeriodSnapshot assembles the partial-period archive document.
func BuildPartialPeriodSnapshot(c *Cycle, earnings []Earning, expenses []Expense, note string, now time.Time) PartialPeriodSnapshot {
	return PartialPeriodSnapshot{
		ArchiveDate:         FormatTime(now),
		ArchiveType:         ArchiveTypePartialPeriod,
		PeriodEarnings:      c.CurrentPeriodEarnings.Reais(),
		PeriodRaceCount:     c.CurrentPeriodRaceCount,
		PeriodEndDate:       FormatTime(now),
		EarningsDetails:     EarningViews(earnings),
		Note:                note,
		GasCostSnapshot:     c.GasCost.Reais(),
		CycleProfitSnapshot: Profit(c, expenses).Reais(),
	}
}

// MarshalSnapshot serializes a snapshot document for storage.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal %s snapshot: %w", s.Type(), err)
	}
	return data, nil
}

// SnapshotType peeks the archiveType discriminator of a stored document.
func SnapshotType(data []byte) string {
	var tag struct {
		ArchiveType string `json:"archiveType"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return ""
	}
	return tag.ArchiveType
}
