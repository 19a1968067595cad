package core

import (
	"encoding/json"
	"time"
)

// Wire representations. Monetary fields serialize as JSON numbers
// (cents converted to currency), timestamps as RFC 3339 UTC strings.

type (
	CycleView struct {
		ID                     int64    `json:"id"`
		GasCost                float64  `json:"gas_cost"`
		StartKm                *int64   `json:"start_km"`
		EndKm                  *int64   `json:"end_km"`
		FuelPricePerLiter      *float64 `json:"fuel_price_per_liter"`
		IsActive               bool     `json:"is_active"`
		StartTime              string   `json:"start_time"`
		CumulativeEarnings     float64  `json:"cumulative_earnings"`
		CumulativeRaceCount    int64    `json:"cumulative_race_count"`
		CurrentPeriodEarnings  float64  `json:"current_period_earnings"`
		CurrentPeriodRaceCount int64    `json:"current_period_race_count"`
	}

	EarningView struct {
		ID        int64   `json:"id"`
		CycleID   int64   `json:"cycle_id"`
		Timestamp string  `json:"timestamp"`
		Amount    float64 `json:"amount"`
	}

	ExpenseView struct {
		ID        int64   `json:"id"`
		CycleID   int64   `json:"cycle_id"`
		Timestamp string  `json:"timestamp"`
		Category  string  `json:"category"`
		Amount    float64 `json:"amount"`
	}

	StateView struct {
		CurrentCycle *CycleView       `json:"currentCycle"`
		EarningsList []EarningView    `json:"earningsList"`
		ExpenseList  []ExpenseView    `json:"expenseList"`
		Archives     []map[string]any `json:"archives"`
	}
)

// FormatTime renders a timestamp the way the API serializes all dates.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func (c *Cycle) View() CycleView {
	v := CycleView{
		ID:                     c.ID,
		GasCost:                c.GasCost.Reais(),
		StartKm:                c.StartKm,
		EndKm:                  c.EndKm,
		IsActive:               c.IsActive,
		StartTime:              FormatTime(c.StartTime),
		CumulativeEarnings:     c.CumulativeEarnings.Reais(),
		CumulativeRaceCount:    c.CumulativeRaceCount,
		CurrentPeriodEarnings:  c.CurrentPeriodEarnings.Reais(),
		CurrentPeriodRaceCount: c.CurrentPeriodRaceCount,
	}
	if c.FuelPrice != nil {
		price := c.FuelPrice.Reais()
		v.FuelPricePerLiter = &price
	}
	return v
}

func (e Earning) View() EarningView {
	return EarningView{
		ID:        e.ID,
		CycleID:   e.CycleID,
		Timestamp: FormatTime(e.Timestamp),
		Amount:    e.Amount.Reais(),
	}
}

func (e Expense) View() ExpenseView {
	return ExpenseView{
		ID:        e.ID,
		CycleID:   e.CycleID,
		Timestamp: FormatTime(e.Timestamp),
		Category:  e.Category,
		Amount:    e.Amount.Reais(),
	}
}

// Document returns the stored snapshot with db_id and a normalized
// archiveDate merged in, matching what consumers of the archives list
// expect.
func (a Archive) Document() (map[string]any, error) {
	doc := make(map[string]any)
	if err := json.Unmarshal(a.Data, &doc); err != nil {
		return nil, err
	}
	doc["db_id"] = a.ID
	doc["archiveDate"] = FormatTime(a.Date)
	return doc, nil
}

// EarningViews converts a slice, always returning a non-nil slice so the
// list serializes as [] instead of null.
func EarningViews(earnings []Earning) []EarningView {
	views := make([]EarningView, 0, len(earnings))
	for _, e := range earnings {
		views = append(views, e.View())
	}
	return views
}

// ExpenseViews converts a slice, always non-nil.
func ExpenseViews(expenses []Expense) []ExpenseView {
	views := make([]ExpenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, e.View())
	}
	return views
}

// ArchiveDocuments converts a slice of archives into merged documents,
// always non-nil. Archives with unreadable payloads are skipped.
func ArchiveDocuments(archives []Archive) []map[string]any {
	docs := make([]map[string]any, 0, len(archives))
	for _, a := range archives {
		doc, err := a.Document()
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// View assembles the full wire state document.
func (s State) View() StateView {
	view := StateView{
		EarningsList: EarningViews(s.Earnings),
		ExpenseList:  ExpenseViews(s.Expenses),
		Archives:     ArchiveDocuments(s.Archives),
	}
	if s.Cycle != nil {
		cv := s.Cycle.View()
		view.CurrentCycle = &cv
	}
	return view
}
