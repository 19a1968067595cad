package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// Cycle is one operating session (one tank of gas). At most one cycle
	// is active at any time; an inactive bootstrap row backs the empty app
	// state before the first start.
	Cycle struct {
		ID                     int64
		GasCost                Money
		StartKm                *int64
		EndKm                  *int64
		FuelPrice              *Money // per liter; nil when never set
		IsActive               bool
		StartTime              time.Time
		FinalizedAt            *time.Time
		CumulativeEarnings     Money
		CumulativeRaceCount    int64
		CurrentPeriodEarnings  Money
		CurrentPeriodRaceCount int64
	}

	// Earning is one recorded ride. Rows are deleted when their cycle is
	// deleted or when the current period is archived.
	Earning struct {
		ID        int64
		CycleID   int64
		Timestamp time.Time
		Amount    Money
	}

	// Expense belongs to a cycle but survives period archiving; it is only
	// removed by explicit delete or a full reset.
	Expense struct {
		ID        int64
		CycleID   int64
		Timestamp time.Time
		Category  string
		Amount    Money
	}

	// Archive is an immutable historical snapshot. Data holds the
	// marshaled snapshot document, one of the two shapes in snapshot.go.
	Archive struct {
		ID   int64
		Date time.Time
		Data []byte
	}

	// State is the assembled application state served by GET /api/state.
	State struct {
		Cycle    *Cycle
		Earnings []Earning
		Expenses []Expense
		Archives []Archive
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNoActiveCycle    = errors.New("no active cycle")
	ErrEarningNotFound  = errors.New("earning not found in cycle")
	ErrExpenseNotFound  = errors.New("expense not found in cycle")
	ErrArchiveNotFound  = errors.New("archive not found")
	ErrNothingToArchive = errors.New("current period has no data to archive")
)

// ValidationError carries a user-facing message for malformed or
// out-of-range input. The message is what the API returns, verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation creates a ValidationError with the given message.
func Validation(msg string) error { return &ValidationError{Msg: msg} }

// Km bound fields for KmBoundError.
const (
	KmFieldStart = "start_km"
	KmFieldEnd   = "end_km"
)

// KmBoundError reports a start/end km ordering violation, citing the
// specific bound that was violated.
type KmBoundError struct {
	Field   string // the field being set
	StartKm int64
	EndKm   int64
}

func (e *KmBoundError) Error() string {
	if e.Field == KmFieldStart {
		return fmt.Sprintf("KM inicial (%d) não pode ser maior que KM final (%d)", e.StartKm, e.EndKm)
	}
	return fmt.Sprintf("KM final (%d) não pode ser menor que KM inicial (%d)", e.EndKm, e.StartKm)
}

// CyclePatch is a partial update for the active cycle. The *Set flags
// distinguish "field absent" from "field explicitly null" (which clears
// the value); GasCost may not be cleared.
type CyclePatch struct {
	GasCost      *int64 // cents
	FuelPrice    *int64 // cents per liter
	FuelPriceSet bool
	StartKm      *int64
	StartKmSet   bool
	EndKm        *int64
	EndKmSet     bool
}

// Empty reports whether the patch carries no recognized field.
func (p CyclePatch) Empty() bool {
	return p.GasCost == nil && !p.FuelPriceSet && !p.StartKmSet && !p.EndKmSet
}

func (e Earning) Validate() error {
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return Validation("Categoria da despesa é obrigatória")
	}
	if e.Amount.Cents <= 0 {
		return Validation("Valor da despesa deve ser positivo")
	}
	return nil
}
