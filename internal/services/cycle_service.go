package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DIEGO-rav10/UBELEZA/internal/amqp"
	"github.com/DIEGO-rav10/UBELEZA/internal/core"
	"github.com/DIEGO-rav10/UBELEZA/internal/storage"
)

// EventPublisher is the outbound port for lifecycle events. A nil
// publisher disables events entirely.
type EventPublisher interface {
	PublishEvent(ctx context.Context, evt *amqp.Event) error
}

// CycleService orchestrates cycle operations across SQLite, the state
// cache, and the event publisher.
type CycleService struct {
	storage *storage.SQLiteRepository
	events  EventPublisher
	cache   *StateCache
}

func NewCycleService(storage *storage.SQLiteRepository, events EventPublisher, cache *StateCache) *CycleService {
	if cache == nil {
		cache = NewStateCache(time.Minute)
	}
	return &CycleService{
		storage: storage,
		events:  events,
		cache:   cache,
	}
}

// State assembles the full app state: current cycle, its earnings and
// expenses, and the archive list. Served from cache when fresh.
func (s *CycleService) State(ctx context.Context) (core.State, error) {
	if st, ok := s.cache.Get(); ok {
		return st, nil
	}

	cycle, err := s.storage.GetOrCreateCurrent(ctx)
	if err != nil {
		return core.State{}, fmt.Errorf("load current cycle: %w", err)
	}
	earnings, err := s.storage.ListEarnings(ctx, cycle.ID)
	if err != nil {
		return core.State{}, fmt.Errorf("list earnings: %w", err)
	}
	expenses, err := s.storage.ListExpenses(ctx, cycle.ID)
	if err != nil {
		return core.State{}, fmt.Errorf("list expenses: %w", err)
	}
	archives, err := s.storage.ListArchives(ctx)
	if err != nil {
		return core.State{}, fmt.Errorf("list archives: %w", err)
	}

	st := core.State{
		Cycle:    cycle,
		Earnings: earnings,
		Expenses: expenses,
		Archives: archives,
	}
	s.cache.Set(st)
	return st, nil
}

// StartCycle deactivates any current cycle and opens a fresh active one.
func (s *CycleService) StartCycle(ctx context.Context, gasCostCents int64, startKm, fuelPriceCents *int64) (*core.Cycle, error) {
	if gasCostCents <= 0 {
		return nil, core.Validation("Custo da gasolina deve ser positivo")
	}

	cycle, err := s.storage.StartCycle(ctx, gasCostCents, startKm, fuelPriceCents, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	s.publish(ctx, amqp.NewEvent(amqp.EventCycleStarted, cycle.ID, 0))
	return cycle, nil
}

// UpdateCurrentCycle applies a partial field update to the active cycle.
func (s *CycleService) UpdateCurrentCycle(ctx context.Context, patch core.CyclePatch) error {
	if patch.Empty() {
		return core.Validation("Nenhum campo válido para atualizar foi fornecido")
	}
	if patch.GasCost != nil && *patch.GasCost <= 0 {
		return core.Validation("Custo da gasolina deve ser positivo")
	}

	if _, err := s.storage.UpdateCycleFields(ctx, patch); err != nil {
		return err
	}

	s.cache.Invalidate()
	return nil
}

// FinalizeCycle closes the active cycle into a full-cycle archive.
func (s *CycleService) FinalizeCycle(ctx context.Context, endKm *int64, note string) error {
	current, err := s.storage.GetOrCreateCurrent(ctx)
	if err != nil {
		return fmt.Errorf("load current cycle: %w", err)
	}

	archive, err := s.storage.FinalizeCycle(ctx, endKm, note, time.Now().UTC())
	if err != nil {
		return err
	}

	s.cache.Invalidate()
	s.publish(ctx, amqp.NewEvent(amqp.EventCycleFinalized, current.ID, archive.ID))
	return nil
}

// ArchivePeriod snapshots the current period and resets its totals.
func (s *CycleService) ArchivePeriod(ctx context.Context, note string) error {
	current, err := s.storage.GetOrCreateCurrent(ctx)
	if err != nil {
		return fmt.Errorf("load current cycle: %w", err)
	}

	archive, err := s.storage.ArchivePeriod(ctx, note, time.Now().UTC())
	if err != nil {
		return err
	}

	s.cache.Invalidate()
	s.publish(ctx, amqp.NewEvent(amqp.EventPeriodArchived, current.ID, archive.ID))
	return nil
}

// AddEarning applies a signed delta and sets the period total.
func (s *CycleService) AddEarning(ctx context.Context, deltaCents, newPeriodTotalCents int64, ts time.Time) error {
	if _, err := s.storage.AddEarning(ctx, deltaCents, newPeriodTotalCents, ts); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// EditEarning sets the earning's amount and moves the difference into
// both earnings totals.
func (s *CycleService) EditEarning(ctx context.Context, id, newAmountCents int64) error {
	if newAmountCents < 0 {
		return core.Validation("Valor da corrida não pode ser negativo")
	}
	if err := s.storage.EditEarning(ctx, id, newAmountCents); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *CycleService) DeleteEarning(ctx context.Context, id int64) error {
	if err := s.storage.DeleteEarning(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *CycleService) AddExpense(ctx context.Context, category string, amountCents int64, ts time.Time) error {
	e := core.Expense{Category: category, Amount: core.Money{Cents: amountCents}}
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.storage.AddExpense(ctx, category, amountCents, ts); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *CycleService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// Reset wipes every table and re-bootstraps an empty inactive cycle.
func (s *CycleService) Reset(ctx context.Context) error {
	if err := s.storage.ResetAll(ctx); err != nil {
		return err
	}

	s.cache.Invalidate()
	if _, err := s.storage.GetOrCreateCurrent(ctx); err != nil {
		return fmt.Errorf("re-bootstrap cycle: %w", err)
	}

	s.publish(ctx, amqp.NewEvent(amqp.EventDatabaseReset, 0, 0))
	return nil
}

// publish sends a lifecycle event. Failures are logged, never returned:
// the local write already succeeded.
func (s *CycleService) publish(ctx context.Context, evt *amqp.Event) {
	if s.events == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping event", "event", evt.Event)
		return
	}
	if err := s.events.PublishEvent(ctx, evt); err != nil {
		slog.ErrorContext(ctx, "Failed to publish lifecycle event",
			"event", evt.Event,
			"cycle_id", evt.CycleID,
			"archive_id", evt.ArchiveID,
			"error", err)
	}
}
