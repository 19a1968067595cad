package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DIEGO-rav10/UBELEZA/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ubeleza.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func startTestCycle(t *testing.T, repo *SQLiteRepository, gasCents int64, startKm *int64) *core.Cycle {
	t.Helper()
	c, err := repo.StartCycle(context.Background(), gasCents, startKm, nil, time.Now())
	if err != nil {
		t.Fatalf("start cycle: %v", err)
	}
	return c
}

func intp(v int64) *int64 { return &v }

func TestGetOrCreateCurrentIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if first.IsActive {
		t.Fatal("bootstrap cycle must be inactive")
	}

	second, err := repo.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same cycle id, got %d and %d", first.ID, second.ID)
	}
}

func TestStartCycleSingleActive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := startTestCycle(t, repo, 5000, nil)
	if !first.IsActive {
		t.Fatal("started cycle must be active")
	}

	second := startTestCycle(t, repo, 6000, nil)

	active, err := repo.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected cycle %d active, got %d", second.ID, active.ID)
	}
	if active.GasCost.Cents != 6000 {
		t.Fatalf("gas cost expected 6000, got %d", active.GasCost.Cents)
	}
}

func TestAddEditDeleteEarningScenario(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, nil)

	earning, err := repo.AddEarning(ctx, 2000, 2000, time.Now())
	if err != nil {
		t.Fatalf("add earning: %v", err)
	}
	if earning == nil {
		t.Fatal("positive delta must create an earning row")
	}

	c, _ := repo.GetOrCreateCurrent(ctx)
	if c.CumulativeEarnings.Cents != 2000 || c.CurrentPeriodEarnings.Cents != 2000 {
		t.Fatalf("totals expected 2000/2000, got %d/%d",
			c.CumulativeEarnings.Cents, c.CurrentPeriodEarnings.Cents)
	}
	if c.CumulativeRaceCount != 1 || c.CurrentPeriodRaceCount != 1 {
		t.Fatalf("race counts expected 1/1, got %d/%d",
			c.CumulativeRaceCount, c.CurrentPeriodRaceCount)
	}

	// Edit to 35.00: difference moves both totals.
	if err := repo.EditEarning(ctx, earning.ID, 3500); err != nil {
		t.Fatalf("edit earning: %v", err)
	}
	c, _ = repo.GetOrCreateCurrent(ctx)
	if c.CumulativeEarnings.Cents != 3500 || c.CurrentPeriodEarnings.Cents != 3500 {
		t.Fatalf("totals after edit expected 3500/3500, got %d/%d",
			c.CumulativeEarnings.Cents, c.CurrentPeriodEarnings.Cents)
	}

	// Delete: all four totals return to zero.
	if err := repo.DeleteEarning(ctx, earning.ID); err != nil {
		t.Fatalf("delete earning: %v", err)
	}
	c, _ = repo.GetOrCreateCurrent(ctx)
	if c.CumulativeEarnings.Cents != 0 || c.CurrentPeriodEarnings.Cents != 0 ||
		c.CumulativeRaceCount != 0 || c.CurrentPeriodRaceCount != 0 {
		t.Fatalf("totals after delete expected all zero, got %+v", c)
	}
}

func TestDeleteEarningClampsAtZero(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, nil)

	earning, err := repo.AddEarning(ctx, 2000, 2000, time.Now())
	if err != nil {
		t.Fatalf("add earning: %v", err)
	}
	// A correction drives the cumulative total below the row's amount.
	if _, err := repo.AddEarning(ctx, -1500, 500, time.Now()); err != nil {
		t.Fatalf("correction: %v", err)
	}
	if err := repo.DeleteEarning(ctx, earning.ID); err != nil {
		t.Fatalf("delete earning: %v", err)
	}

	c, _ := repo.GetOrCreateCurrent(ctx)
	if c.CumulativeEarnings.Cents != 0 || c.CurrentPeriodEarnings.Cents != 0 {
		t.Fatalf("earnings must clamp at zero, got %d/%d",
			c.CumulativeEarnings.Cents, c.CurrentPeriodEarnings.Cents)
	}
	if c.CumulativeRaceCount != 0 || c.CurrentPeriodRaceCount != 0 {
		t.Fatalf("race counts must clamp at zero, got %d/%d",
			c.CumulativeRaceCount, c.CurrentPeriodRaceCount)
	}
}

func TestAddEarningCorrectionAndZeroDelta(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, nil)

	// Negative delta: correction, no earning row, cumulative moves.
	earning, err := repo.AddEarning(ctx, -500, 0, time.Now())
	if err != nil {
		t.Fatalf("correction: %v", err)
	}
	if earning != nil {
		t.Fatal("negative delta must not create an earning row")
	}
	c, _ := repo.GetOrCreateCurrent(ctx)
	if c.CumulativeEarnings.Cents != -500 {
		t.Fatalf("cumulative expected -500 (unclamped), got %d", c.CumulativeEarnings.Cents)
	}
	if c.CumulativeRaceCount != 0 {
		t.Fatalf("correction must not count a race, got %d", c.CumulativeRaceCount)
	}

	// Zero delta: creates a row but is not a new ride.
	earning, err = repo.AddEarning(ctx, 0, 0, time.Now())
	if err != nil {
		t.Fatalf("zero delta: %v", err)
	}
	if earning == nil {
		t.Fatal("zero delta must create an earning row")
	}
	c, _ = repo.GetOrCreateCurrent(ctx)
	if c.CumulativeRaceCount != 0 || c.CurrentPeriodRaceCount != 0 {
		t.Fatalf("zero delta must not count a race, got %d/%d",
			c.CumulativeRaceCount, c.CurrentPeriodRaceCount)
	}
}

func TestEarningOwnershipRequired(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, nil)

	if err := repo.EditEarning(ctx, 999, 100); !errors.Is(err, core.ErrEarningNotFound) {
		t.Fatalf("expected ErrEarningNotFound, got %v", err)
	}
	if err := repo.DeleteEarning(ctx, 999); !errors.Is(err, core.ErrEarningNotFound) {
		t.Fatalf("expected ErrEarningNotFound, got %v", err)
	}
}

func TestOperationsRequireActiveCycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.AddEarning(ctx, 100, 100, time.Now()); !errors.Is(err, core.ErrNoActiveCycle) {
		t.Fatalf("add earning: expected ErrNoActiveCycle, got %v", err)
	}
	if _, err := repo.AddExpense(ctx, "toll", 100, time.Now()); !errors.Is(err, core.ErrNoActiveCycle) {
		t.Fatalf("add expense: expected ErrNoActiveCycle, got %v", err)
	}
	if _, err := repo.FinalizeCycle(ctx, nil, "", time.Now()); !errors.Is(err, core.ErrNoActiveCycle) {
		t.Fatalf("finalize: expected ErrNoActiveCycle, got %v", err)
	}
	if _, err := repo.ArchivePeriod(ctx, "", time.Now()); !errors.Is(err, core.ErrNoActiveCycle) {
		t.Fatalf("archive period: expected ErrNoActiveCycle, got %v", err)
	}
	if _, err := repo.UpdateCycleFields(ctx, core.CyclePatch{StartKm: intp(10), StartKmSet: true}); !errors.Is(err, core.ErrNoActiveCycle) {
		t.Fatalf("update fields: expected ErrNoActiveCycle, got %v", err)
	}
}

func TestUpdateCycleFieldsKmBounds(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, intp(1000))

	if _, err := repo.UpdateCycleFields(ctx, core.CyclePatch{EndKm: intp(1100), EndKmSet: true}); err != nil {
		t.Fatalf("set end km: %v", err)
	}

	var kmErr *core.KmBoundError
	_, err := repo.UpdateCycleFields(ctx, core.CyclePatch{StartKm: intp(1200), StartKmSet: true})
	if !errors.As(err, &kmErr) || kmErr.Field != core.KmFieldStart {
		t.Fatalf("expected start km bound error, got %v", err)
	}

	_, err = repo.UpdateCycleFields(ctx, core.CyclePatch{EndKm: intp(900), EndKmSet: true})
	if !errors.As(err, &kmErr) || kmErr.Field != core.KmFieldEnd {
		t.Fatalf("expected end km bound error, got %v", err)
	}

	// Explicit null clears the value, lifting the bound.
	if _, err := repo.UpdateCycleFields(ctx, core.CyclePatch{EndKmSet: true}); err != nil {
		t.Fatalf("clear end km: %v", err)
	}
	c, err := repo.UpdateCycleFields(ctx, core.CyclePatch{StartKm: intp(1200), StartKmSet: true})
	if err != nil {
		t.Fatalf("set start km after clear: %v", err)
	}
	if c.StartKm == nil || *c.StartKm != 1200 {
		t.Fatalf("start km expected 1200, got %v", c.StartKm)
	}
}

func TestFinalizeCycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	started := startTestCycle(t, repo, 5000, intp(1000))

	if _, err := repo.AddEarning(ctx, 12000, 12000, time.Now()); err != nil {
		t.Fatalf("add earning: %v", err)
	}

	archive, err := repo.FinalizeCycle(ctx, intp(1100), "done", time.Now())
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if got := core.SnapshotType(archive.Data); got != core.ArchiveTypeFullCycle {
		t.Fatalf("archive type expected %q, got %q", core.ArchiveTypeFullCycle, got)
	}

	doc, err := archive.Document()
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc["summary_kmDriven"] != float64(100) {
		t.Fatalf("summary_kmDriven expected 100, got %v", doc["summary_kmDriven"])
	}

	// The finalized cycle is deactivated in place; a fresh bootstrap
	// cycle appears, with its children still attached to the old row.
	current, err := repo.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("current after finalize: %v", err)
	}
	if current.IsActive {
		t.Fatal("no cycle should be active after finalize")
	}
	if current.ID == started.ID {
		t.Fatal("finalized cycle must not be returned as current")
	}
	old, err := repo.ListEarnings(ctx, started.ID)
	if err != nil {
		t.Fatalf("list old earnings: %v", err)
	}
	if len(old) != 1 {
		t.Fatalf("finalized cycle keeps its earnings, got %d", len(old))
	}
}

func TestFinalizeCycleEndKmBound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, intp(1000))

	var kmErr *core.KmBoundError
	_, err := repo.FinalizeCycle(ctx, intp(900), "", time.Now())
	if !errors.As(err, &kmErr) {
		t.Fatalf("expected km bound error, got %v", err)
	}

	// No archive created, cycle still active and unmodified.
	archives, err := repo.ListArchives(ctx)
	if err != nil {
		t.Fatalf("list archives: %v", err)
	}
	if len(archives) != 0 {
		t.Fatalf("expected no archives, got %d", len(archives))
	}
	c, err := repo.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if !c.IsActive || c.EndKm != nil {
		t.Fatalf("cycle must remain active and untouched, got %+v", c)
	}
}

func TestFinalizeDefaultsEndKmToStartKm(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, intp(1000))

	archive, err := repo.FinalizeCycle(ctx, nil, "", time.Now())
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	doc, _ := archive.Document()
	if doc["endKM"] != float64(1000) {
		t.Fatalf("endKM expected 1000, got %v", doc["endKM"])
	}
	if doc["summary_kmDriven"] != float64(0) {
		t.Fatalf("summary_kmDriven expected 0, got %v", doc["summary_kmDriven"])
	}
}

func TestArchivePeriod(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	started := startTestCycle(t, repo, 5000, nil)

	if _, err := repo.AddEarning(ctx, 12000, 12000, time.Now()); err != nil {
		t.Fatalf("add earning: %v", err)
	}
	if _, err := repo.AddExpense(ctx, "toll", 1000, time.Now()); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	archive, err := repo.ArchivePeriod(ctx, "parcial", time.Now())
	if err != nil {
		t.Fatalf("archive period: %v", err)
	}
	doc, err := archive.Document()
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc["archiveType"] != core.ArchiveTypePartialPeriod {
		t.Fatalf("archive type mismatch: %v", doc["archiveType"])
	}
	// profit snapshot = 120.00 - 50.00 - 10.00
	if doc["cycleProfitSnapshot"] != float64(60) {
		t.Fatalf("cycleProfitSnapshot expected 60, got %v", doc["cycleProfitSnapshot"])
	}
	details, ok := doc["earningsDetails"].([]any)
	if !ok || len(details) != 1 {
		t.Fatalf("earningsDetails expected 1 entry, got %v", doc["earningsDetails"])
	}

	// Period reset: earnings gone, totals zeroed, expenses untouched,
	// cycle still active.
	c, _ := repo.GetOrCreateCurrent(ctx)
	if !c.IsActive {
		t.Fatal("cycle must stay active after period archive")
	}
	if c.CumulativeEarnings.Cents != 0 || c.CurrentPeriodEarnings.Cents != 0 ||
		c.CumulativeRaceCount != 0 || c.CurrentPeriodRaceCount != 0 {
		t.Fatalf("totals must be zeroed, got %+v", c)
	}
	earnings, _ := repo.ListEarnings(ctx, started.ID)
	if len(earnings) != 0 {
		t.Fatalf("earnings must be deleted, got %d", len(earnings))
	}
	expenses, _ := repo.ListExpenses(ctx, started.ID)
	if len(expenses) != 1 {
		t.Fatalf("expenses must survive, got %d", len(expenses))
	}
}

func TestArchivePeriodRequiresData(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, nil)

	if _, err := repo.ArchivePeriod(ctx, "", time.Now()); !errors.Is(err, core.ErrNothingToArchive) {
		t.Fatalf("expected ErrNothingToArchive, got %v", err)
	}
}

func TestDeleteArchive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, nil)

	if _, err := repo.AddEarning(ctx, 1000, 1000, time.Now()); err != nil {
		t.Fatalf("add earning: %v", err)
	}
	archive, err := repo.ArchivePeriod(ctx, "", time.Now())
	if err != nil {
		t.Fatalf("archive period: %v", err)
	}

	if err := repo.DeleteArchive(ctx, archive.ID); err != nil {
		t.Fatalf("delete archive: %v", err)
	}
	if err := repo.DeleteArchive(ctx, archive.ID); !errors.Is(err, core.ErrArchiveNotFound) {
		t.Fatalf("expected ErrArchiveNotFound, got %v", err)
	}
}

func TestResetAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, nil)

	if _, err := repo.AddEarning(ctx, 1000, 1000, time.Now()); err != nil {
		t.Fatalf("add earning: %v", err)
	}
	if _, err := repo.AddExpense(ctx, "toll", 500, time.Now()); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if _, err := repo.ArchivePeriod(ctx, "", time.Now()); err != nil {
		t.Fatalf("archive period: %v", err)
	}

	if err := repo.ResetAll(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	archives, _ := repo.ListArchives(ctx)
	if len(archives) != 0 {
		t.Fatalf("archives must be wiped, got %d", len(archives))
	}
	c, err := repo.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("re-bootstrap: %v", err)
	}
	if c.IsActive || c.CumulativeEarnings.Cents != 0 {
		t.Fatalf("expected fresh inactive cycle, got %+v", c)
	}
}

func TestSupersededCycleNeverResurfaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := startTestCycle(t, repo, 5000, nil)
	if _, err := repo.AddEarning(ctx, 2000, 2000, time.Now()); err != nil {
		t.Fatalf("add earning: %v", err)
	}

	// Starting again deactivates the first cycle without finalizing it
	// through the archive path.
	second := startTestCycle(t, repo, 6000, nil)
	if _, err := repo.FinalizeCycle(ctx, nil, "", time.Now()); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	current, err := repo.GetOrCreateCurrent(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.ID == first.ID || current.ID == second.ID {
		t.Fatalf("superseded cycle %d resurfaced as current", current.ID)
	}
	if current.IsActive {
		t.Fatal("bootstrap cycle must be inactive")
	}
	if current.GasCost.Cents != 0 || current.CumulativeEarnings.Cents != 0 || current.CumulativeRaceCount != 0 {
		t.Fatalf("bootstrap cycle must be zeroed, got %+v", current)
	}
	earnings, err := repo.ListEarnings(ctx, current.ID)
	if err != nil {
		t.Fatalf("list earnings: %v", err)
	}
	if len(earnings) != 0 {
		t.Fatalf("bootstrap cycle must have no earnings, got %d", len(earnings))
	}
}

func TestListEarningsSubsecondOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	startTestCycle(t, repo, 5000, nil)

	base := time.Date(2025, 8, 29, 10, 0, 0, 0, time.UTC)
	// Insert the later, fractional timestamp first so neither id order
	// nor insertion order can mask a lexicographic misordering.
	if _, err := repo.AddEarning(ctx, 1000, 1000, base.Add(500*time.Millisecond)); err != nil {
		t.Fatalf("add earning: %v", err)
	}
	if _, err := repo.AddEarning(ctx, 2000, 3000, base); err != nil {
		t.Fatalf("add earning: %v", err)
	}

	earnings, err := repo.ListEarnings(ctx, mustCurrentID(t, repo))
	if err != nil {
		t.Fatalf("list earnings: %v", err)
	}
	if len(earnings) != 2 {
		t.Fatalf("expected 2 earnings, got %d", len(earnings))
	}
	if earnings[0].Amount.Cents != 2000 || earnings[1].Amount.Cents != 1000 {
		t.Fatalf("earnings out of order: %d then %d cents",
			earnings[0].Amount.Cents, earnings[1].Amount.Cents)
	}
	if !earnings[0].Timestamp.Equal(base) {
		t.Fatalf("timestamp round-trip expected %v, got %v", base, earnings[0].Timestamp)
	}
}

func mustCurrentID(t *testing.T, repo *SQLiteRepository) int64 {
	t.Helper()
	c, err := repo.GetOrCreateCurrent(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	return c.ID
}
