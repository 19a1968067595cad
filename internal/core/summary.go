package core

// Totals engine: pure, side-effect-free computations over a cycle and its
// current earning/expense rows. The derived metrics here feed both the
// live state document and the archive snapshots.

// SumEarnings returns the sum of all earning amounts.
func SumEarnings(earnings []Earning) Money {
	var cents int64
	for _, e := range earnings {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// CountEarnings returns the number of earning rows.
func CountEarnings(earnings []Earning) int {
	return len(earnings)
}

// SumExpenses returns the sum of all expense amounts.
func SumExpenses(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// Profit is cumulative earnings minus gas cost minus all other expenses.
// It can legitimately be negative.
func Profit(c *Cycle, expenses []Expense) Money {
	return Money{Cents: c.CumulativeEarnings.Cents - c.GasCost.Cents - SumExpenses(expenses).Cents}
}

// KmDriven returns endKm − startKm when both are present and ordered,
// else 0.
func KmDriven(c *Cycle) int64 {
	if c.StartKm == nil || c.EndKm == nil {
		return 0
	}
	if *c.EndKm < *c.StartKm {
		return 0
	}
	return *c.EndKm - *c.StartKm
}

// KmPerLiter returns fuel efficiency. It requires km driven, gas cost and
// fuel price all positive; ok is false when the metric is undefined.
func KmPerLiter(c *Cycle) (float64, bool) {
	km := KmDriven(c)
	if km <= 0 || c.GasCost.Cents <= 0 {
		return 0, false
	}
	if c.FuelPrice == nil || c.FuelPrice.Cents <= 0 {
		return 0, false
	}
	// liters = gasCost / pricePerLiter; both sides in cents, so the
	// ratio is already liters.
	liters := float64(c.GasCost.Cents) / float64(c.FuelPrice.Cents)
	if liters <= 0 {
		return 0, false
	}
	return float64(km) / liters, true
}

// CostPerKm returns (gas cost + other expenses) / km driven; ok is false
// when no km were driven.
func CostPerKm(c *Cycle, expenses []Expense) (float64, bool) {
	km := KmDriven(c)
	if km <= 0 {
		return 0, false
	}
	totalCents := c.GasCost.Cents + SumExpenses(expenses).Cents
	return float64(totalCents) / 100.0 / float64(km), true
}
