// Package storage persists cycles, earnings, expenses and archives in
// SQLite. Every lifecycle operation that reads-then-writes the active
// cycle runs as a single transaction: cycle totals, child rows and any
// archive insert commit together or not at all.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/DIEGO-rav10/UBELEZA/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// modernc sqlite is single-writer; keep the pool small
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const cycleColumns = `id, gas_cost_cents, start_km, end_km, fuel_price_cents, is_active,
	start_time, finalized_at, cumulative_earnings_cents, cumulative_race_count,
	current_period_earnings_cents, current_period_race_count`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Transaction rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCycle(row rowScanner) (*core.Cycle, error) {
	var (
		c           core.Cycle
		startKm     sql.NullInt64
		endKm       sql.NullInt64
		fuelPrice   sql.NullInt64
		startTime   string
		finalizedAt sql.NullString
	)
	err := row.Scan(&c.ID, &c.GasCost.Cents, &startKm, &endKm, &fuelPrice, &c.IsActive,
		&startTime, &finalizedAt, &c.CumulativeEarnings.Cents, &c.CumulativeRaceCount,
		&c.CurrentPeriodEarnings.Cents, &c.CurrentPeriodRaceCount)
	if err != nil {
		return nil, err
	}
	if startKm.Valid {
		c.StartKm = &startKm.Int64
	}
	if endKm.Valid {
		c.EndKm = &endKm.Int64
	}
	if fuelPrice.Valid {
		c.FuelPrice = &core.Money{Cents: fuelPrice.Int64}
	}
	c.StartTime, err = parseTime(startTime)
	if err != nil {
		return nil, fmt.Errorf("parse cycle start_time: %w", err)
	}
	if finalizedAt.Valid {
		t, err := parseTime(finalizedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse cycle finalized_at: %w", err)
		}
		c.FinalizedAt = &t
	}
	return &c, nil
}

// timeLayout keeps the fractional part fixed-width so TEXT columns sort
// chronologically under ORDER BY. RFC3339Nano trims trailing zeros,
// which makes "10:00:00Z" sort after "10:00:00.5Z".
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// activeCycle loads the single active cycle, or core.ErrNoActiveCycle.
func activeCycle(ctx context.Context, q querier) (*core.Cycle, error) {
	row := q.QueryRowContext(ctx, `SELECT `+cycleColumns+` FROM cycles WHERE is_active = 1 LIMIT 1`)
	c, err := scanCycle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNoActiveCycle
	}
	if err != nil {
		return nil, fmt.Errorf("query active cycle: %w", err)
	}
	return c, nil
}

// GetOrCreateCurrent returns the active cycle; when none is active it
// returns the reusable bootstrap row (most recent non-finalized inactive
// cycle), creating one on an empty database. It never activates anything,
// and two calls with no intervening writes return the same cycle.
func (r *SQLiteRepository) GetOrCreateCurrent(ctx context.Context) (*core.Cycle, error) {
	var cycle *core.Cycle
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := activeCycle(ctx, tx)
		if err == nil {
			cycle = c
			return nil
		}
		if !errors.Is(err, core.ErrNoActiveCycle) {
			return err
		}

		row := tx.QueryRowContext(ctx, `SELECT `+cycleColumns+` FROM cycles
			WHERE is_active = 0 AND finalized_at IS NULL ORDER BY id DESC LIMIT 1`)
		c, err = scanCycle(row)
		if err == nil {
			cycle = c
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query bootstrap cycle: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO cycles (is_active, start_time) VALUES (0, ?)`,
			formatTime(time.Now()))
		if err != nil {
			return fmt.Errorf("insert bootstrap cycle: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("bootstrap cycle id: %w", err)
		}
		row = tx.QueryRowContext(ctx, `SELECT `+cycleColumns+` FROM cycles WHERE id = ?`, id)
		cycle, err = scanCycle(row)
		if err != nil {
			return fmt.Errorf("reload bootstrap cycle: %w", err)
		}
		slog.InfoContext(ctx, "Bootstrap cycle created", "cycle_id", id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cycle, nil
}

// StartCycle deactivates any currently-active cycle and inserts a fresh
// active one with zeroed totals. The superseded cycle is stamped
// finalized_at so the bootstrap query never resurfaces it.
func (r *SQLiteRepository) StartCycle(ctx context.Context, gasCostCents int64, startKm, fuelPriceCents *int64, now time.Time) (*core.Cycle, error) {
	var cycle *core.Cycle
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE cycles SET is_active = 0, finalized_at = ? WHERE is_active = 1`,
			formatTime(now)); err != nil {
			return fmt.Errorf("deactivate previous cycle: %w", err)
		}

		res, err := tx.ExecContext(ctx, `INSERT INTO cycles
			(gas_cost_cents, start_km, fuel_price_cents, is_active, start_time)
			VALUES (?, ?, ?, 1, ?)`,
			gasCostCents, nullableInt(startKm), nullableInt(fuelPriceCents), formatTime(now))
		if err != nil {
			return fmt.Errorf("insert cycle: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("cycle id: %w", err)
		}

		row := tx.QueryRowContext(ctx, `SELECT `+cycleColumns+` FROM cycles WHERE id = ?`, id)
		cycle, err = scanCycle(row)
		if err != nil {
			return fmt.Errorf("reload cycle: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Cycle started",
		"cycle_id", cycle.ID,
		"gas_cost_cents", gasCostCents)
	return cycle, nil
}

// UpdateCycleFields applies a partial update to the active cycle. Fields
// apply in gas cost, fuel price, start km, end km order, each km bound
// checked against the just-updated values.
func (r *SQLiteRepository) UpdateCycleFields(ctx context.Context, patch core.CyclePatch) (*core.Cycle, error) {
	var cycle *core.Cycle
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := activeCycle(ctx, tx)
		if err != nil {
			return err
		}

		if patch.GasCost != nil {
			c.GasCost = core.Money{Cents: *patch.GasCost}
		}
		if patch.FuelPriceSet {
			if patch.FuelPrice != nil {
				c.FuelPrice = &core.Money{Cents: *patch.FuelPrice}
			} else {
				c.FuelPrice = nil
			}
		}
		if patch.StartKmSet {
			if patch.StartKm != nil && c.EndKm != nil && *patch.StartKm > *c.EndKm {
				return &core.KmBoundError{Field: core.KmFieldStart, StartKm: *patch.StartKm, EndKm: *c.EndKm}
			}
			c.StartKm = patch.StartKm
		}
		if patch.EndKmSet {
			if patch.EndKm != nil && c.StartKm != nil && *patch.EndKm < *c.StartKm {
				return &core.KmBoundError{Field: core.KmFieldEnd, StartKm: *c.StartKm, EndKm: *patch.EndKm}
			}
			c.EndKm = patch.EndKm
		}

		var fuelPrice *int64
		if c.FuelPrice != nil {
			fuelPrice = &c.FuelPrice.Cents
		}
		_, err = tx.ExecContext(ctx, `UPDATE cycles
			SET gas_cost_cents = ?, fuel_price_cents = ?, start_km = ?, end_km = ?
			WHERE id = ?`,
			c.GasCost.Cents, nullableInt(fuelPrice), nullableInt(c.StartKm), nullableInt(c.EndKm), c.ID)
		if err != nil {
			return fmt.Errorf("update cycle fields: %w", err)
		}
		cycle = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Cycle fields updated", "cycle_id", cycle.ID)
	return cycle, nil
}

// FinalizeCycle archives the active cycle as a full snapshot and
// deactivates it in place. Earning and expense rows stay attached to the
// finalized row; a later GetOrCreateCurrent bootstraps a fresh cycle.
// A nil endKm defaults to the cycle's start km.
func (r *SQLiteRepository) FinalizeCycle(ctx context.Context, endKm *int64, note string, now time.Time) (*core.Archive, error) {
	var archive *core.Archive
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := activeCycle(ctx, tx)
		if err != nil {
			return err
		}

		finalKm := endKm
		if finalKm == nil {
			finalKm = c.StartKm
		}
		if c.StartKm != nil && finalKm != nil && *finalKm < *c.StartKm {
			return &core.KmBoundError{Field: core.KmFieldEnd, StartKm: *c.StartKm, EndKm: *finalKm}
		}
		c.EndKm = finalKm

		earnings, err := listEarnings(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		expenses, err := listExpenses(ctx, tx, c.ID)
		if err != nil {
			return err
		}

		data, err := core.MarshalSnapshot(core.BuildFullCycleSnapshot(c, earnings, expenses, note, now))
		if err != nil {
			return err
		}
		archive, err = insertArchive(ctx, tx, data, now)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE cycles
			SET is_active = 0, end_km = ?, finalized_at = ? WHERE id = ?`,
			nullableInt(c.EndKm), formatTime(now), c.ID)
		if err != nil {
			return fmt.Errorf("deactivate cycle: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Cycle finalized", "archive_id", archive.ID)
	return archive, nil
}

// ArchivePeriod snapshots the current period into a partial archive,
// deletes the cycle's earnings and zeroes all four running totals. The
// cycle stays active and its expenses are untouched.
func (r *SQLiteRepository) ArchivePeriod(ctx context.Context, note string, now time.Time) (*core.Archive, error) {
	var archive *core.Archive
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := activeCycle(ctx, tx)
		if err != nil {
			return err
		}
		if c.CurrentPeriodEarnings.Cents <= 0 && c.CurrentPeriodRaceCount <= 0 {
			return core.ErrNothingToArchive
		}

		earnings, err := listEarnings(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		expenses, err := listExpenses(ctx, tx, c.ID)
		if err != nil {
			return err
		}

		data, err := core.MarshalSnapshot(core.BuildPartialPeriodSnapshot(c, earnings, expenses, note, now))
		if err != nil {
			return err
		}
		archive, err = insertArchive(ctx, tx, data, now)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM earnings WHERE cycle_id = ?`, c.ID); err != nil {
			return fmt.Errorf("delete period earnings: %w", err)
		}
		_, err = tx.ExecContext(ctx, `UPDATE cycles
			SET cumulative_earnings_cents = 0, cumulative_race_count = 0,
			    current_period_earnings_cents = 0, current_period_race_count = 0
			WHERE id = ?`, c.ID)
		if err != nil {
			return fmt.Errorf("reset period totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Period archived", "archive_id", archive.ID)
	return archive, nil
}

// AddEarning applies a signed delta to the active cycle. A negative delta
// is a correction: no earning row is created, but the cumulative total
// still moves by the delta. The period total is SET to newPeriodTotal,
// and race counters increment only for a strictly positive delta.
// The returned earning is nil for corrections.
func (r *SQLiteRepository) AddEarning(ctx context.Context, deltaCents, newPeriodTotalCents int64, ts time.Time) (*core.Earning, error) {
	var earning *core.Earning
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := activeCycle(ctx, tx)
		if err != nil {
			return err
		}

		if deltaCents >= 0 {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO earnings (cycle_id, timestamp, amount_cents) VALUES (?, ?, ?)`,
				c.ID, formatTime(ts), deltaCents)
			if err != nil {
				return fmt.Errorf("insert earning: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("earning id: %w", err)
			}
			earning = &core.Earning{ID: id, CycleID: c.ID, Timestamp: ts.UTC(), Amount: core.Money{Cents: deltaCents}}
		}

		cumulative := c.CumulativeEarnings.Cents + deltaCents
		raceDelta := int64(0)
		if deltaCents > 0 {
			raceDelta = 1
		}
		_, err = tx.ExecContext(ctx, `UPDATE cycles
			SET cumulative_earnings_cents = ?,
			    current_period_earnings_cents = ?,
			    cumulative_race_count = cumulative_race_count + ?,
			    current_period_race_count = current_period_race_count + ?
			WHERE id = ?`,
			cumulative, newPeriodTotalCents, raceDelta, raceDelta, c.ID)
		if err != nil {
			return fmt.Errorf("update cycle totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Earning recorded",
		"delta_cents", deltaCents,
		"new_period_total_cents", newPeriodTotalCents,
		"correction", earning == nil)
	return earning, nil
}

// EditEarning updates an earning owned by the active cycle and moves both
// earnings totals by the difference.
func (r *SQLiteRepository) EditEarning(ctx context.Context, id, newAmountCents int64) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := activeCycle(ctx, tx)
		if err != nil {
			return err
		}

		var oldAmount int64
		row := tx.QueryRowContext(ctx,
			`SELECT amount_cents FROM earnings WHERE id = ? AND cycle_id = ?`, id, c.ID)
		if err := row.Scan(&oldAmount); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return core.ErrEarningNotFound
			}
			return fmt.Errorf("query earning: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE earnings SET amount_cents = ? WHERE id = ?`, newAmountCents, id); err != nil {
			return fmt.Errorf("update earning: %w", err)
		}

		difference := newAmountCents - oldAmount
		_, err = tx.ExecContext(ctx, `UPDATE cycles
			SET cumulative_earnings_cents = cumulative_earnings_cents + ?,
			    current_period_earnings_cents = current_period_earnings_cents + ?
			WHERE id = ?`, difference, difference, c.ID)
		if err != nil {
			return fmt.Errorf("update cycle totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Earning edited", "earning_id", id, "amount_cents", newAmountCents)
	return nil
}

// DeleteEarning removes an earning owned by the active cycle, subtracts
// its amount from both totals and decrements both race counters, clamping
// all four values at zero.
func (r *SQLiteRepository) DeleteEarning(ctx context.Context, id int64) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := activeCycle(ctx, tx)
		if err != nil {
			return err
		}

		var amount int64
		row := tx.QueryRowContext(ctx,
			`SELECT amount_cents FROM earnings WHERE id = ? AND cycle_id = ?`, id, c.ID)
		if err := row.Scan(&amount); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return core.ErrEarningNotFound
			}
			return fmt.Errorf("query earning: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM earnings WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete earning: %w", err)
		}

		_, err = tx.ExecContext(ctx, `UPDATE cycles
			SET cumulative_earnings_cents = MAX(0, cumulative_earnings_cents - ?),
			    current_period_earnings_cents = MAX(0, current_period_earnings_cents - ?),
			    cumulative_race_count = MAX(0, cumulative_race_count - 1),
			    current_period_race_count = MAX(0, current_period_race_count - 1)
			WHERE id = ?`, amount, amount, c.ID)
		if err != nil {
			return fmt.Errorf("update cycle totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Earning deleted", "earning_id", id)
	return nil
}

// AddExpense inserts an expense for the active cycle. Cycle totals are
// not touched; profit is derived on demand.
func (r *SQLiteRepository) AddExpense(ctx context.Context, category string, amountCents int64, ts time.Time) (*core.Expense, error) {
	var expense *core.Expense
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := activeCycle(ctx, tx)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (cycle_id, timestamp, category, amount_cents) VALUES (?, ?, ?, ?)`,
			c.ID, formatTime(ts), category, amountCents)
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("expense id: %w", err)
		}
		expense = &core.Expense{ID: id, CycleID: c.ID, Timestamp: ts.UTC(), Category: category, Amount: core.Money{Cents: amountCents}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Expense recorded",
		"expense_id", expense.ID,
		"category", category,
		"amount_cents", amountCents)
	return expense, nil
}

// DeleteExpense removes an expense owned by the active cycle.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		c, err := activeCycle(ctx, tx)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM expenses WHERE id = ? AND cycle_id = ?`, id, c.ID)
		if err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete expense result: %w", err)
		}
		if affected == 0 {
			return core.ErrExpenseNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense deleted", "expense_id", id)
	return nil
}

// ListEarnings returns a cycle's earnings ascending by timestamp.
func (r *SQLiteRepository) ListEarnings(ctx context.Context, cycleID int64) ([]core.Earning, error) {
	return listEarnings(ctx, r.db, cycleID)
}

// ListExpenses returns a cycle's expenses ascending by timestamp.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, cycleID int64) ([]core.Expense, error) {
	return listExpenses(ctx, r.db, cycleID)
}

// ListArchives returns all archives descending by archive date.
func (r *SQLiteRepository) ListArchives(ctx context.Context) ([]core.Archive, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, archive_data, archive_date FROM archives ORDER BY archive_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query archives: %w", err)
	}
	defer rows.Close()

	var archives []core.Archive
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, err
		}
		archives = append(archives, *a)
	}
	return archives, rows.Err()
}

// GetArchive loads a single archive by id.
func (r *SQLiteRepository) GetArchive(ctx context.Context, id int64) (*core.Archive, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, archive_data, archive_date FROM archives WHERE id = ?`, id)
	a, err := scanArchive(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrArchiveNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteArchive removes an archive by id. Deleting a partial-period
// archive never reconciles a live cycle's totals; deletion is purely
// destructive to history.
func (r *SQLiteRepository) DeleteArchive(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM archives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete archive: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete archive result: %w", err)
	}
	if affected == 0 {
		return core.ErrArchiveNotFound
	}
	slog.InfoContext(ctx, "Archive deleted", "archive_id", id)
	return nil
}

// ResetAll wipes every table, children before parents. The caller
// re-bootstraps via GetOrCreateCurrent.
func (r *SQLiteRepository) ResetAll(ctx context.Context) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"earnings", "expenses", "archives", "cycles"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Database reset")
	return nil
}

func listEarnings(ctx context.Context, q querier, cycleID int64) ([]core.Earning, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, cycle_id, timestamp, amount_cents
		FROM earnings WHERE cycle_id = ? ORDER BY timestamp ASC, id ASC`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("query earnings: %w", err)
	}
	defer rows.Close()

	var earnings []core.Earning
	for rows.Next() {
		var (
			e  core.Earning
			ts string
		)
		if err := rows.Scan(&e.ID, &e.CycleID, &ts, &e.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan earning: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse earning timestamp: %w", err)
		}
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}

func listExpenses(ctx context.Context, q querier, cycleID int64) ([]core.Expense, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, cycle_id, timestamp, category, amount_cents
		FROM expenses WHERE cycle_id = ? ORDER BY timestamp ASC, id ASC`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e  core.Expense
			ts string
		)
		if err := rows.Scan(&e.ID, &e.CycleID, &ts, &e.Category, &e.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse expense timestamp: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func insertArchive(ctx context.Context, tx *sql.Tx, data []byte, now time.Time) (*core.Archive, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO archives (archive_data, archive_date) VALUES (?, ?)`,
		string(data), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert archive: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("archive id: %w", err)
	}
	return &core.Archive{ID: id, Date: now.UTC(), Data: data}, nil
}

func scanArchive(row rowScanner) (*core.Archive, error) {
	var (
		a    core.Archive
		data string
		date string
	)
	if err := row.Scan(&a.ID, &data, &date); err != nil {
		return nil, err
	}
	a.Data = []byte(data)
	var err error
	if a.Date, err = parseTime(date); err != nil {
		return nil, fmt.Errorf("parse archive date: %w", err)
	}
	return &a, nil
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
