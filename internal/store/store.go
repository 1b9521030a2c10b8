// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kindling-cli/kindling/calendar"
	"github.com/kindling-cli/kindling/grace"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for grace-day state and the activity log,
// keyed by profile. It implements grace.Store.
type Store struct {
	db *sql.DB
}

var _ grace.Store = (*Store)(nil)

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS grace_settings (
			profile TEXT PRIMARY KEY,
			enabled INTEGER NOT NULL,
			max_per_week INTEGER NOT NULL,
			weekend_pause INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS grace_usage (
			profile TEXT NOT NULL,
			used_on TEXT NOT NULL,
			week INTEGER NOT NULL,
			year INTEGER NOT NULL,
			missed_date TEXT NOT NULL,
			streak_at_use INTEGER NOT NULL,
			PRIMARY KEY (profile, missed_date)
		);`,
		`CREATE TABLE IF NOT EXISTS activity (
			profile TEXT NOT NULL,
			day TEXT NOT NULL,
			PRIMARY KEY (profile, day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_grace_usage_week ON grace_usage(profile, year, week);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the grace-day state for a profile. An unknown profile and
// any malformed persisted state both load as grace.DefaultState: a
// corrupt ledger is replaced wholesale, never partially repaired.
func (s *Store) Load(ctx context.Context, profile string) (grace.State, error) {
	state := grace.DefaultState()
	var enabled, weekendPause int
	err := s.db.QueryRowContext(ctx,
		`SELECT enabled, max_per_week, weekend_pause FROM grace_settings WHERE profile = ?`,
		profile,
	).Scan(&enabled, &state.MaxPerWeek, &weekendPause)
	if err == sql.ErrNoRows {
		return grace.DefaultState(), nil
	}
	if err != nil {
		return grace.State{}, fmt.Errorf("load settings: %w", err)
	}
	state.Enabled = enabled != 0
	state.WeekendPause = weekendPause != 0
	if state.MaxPerWeek <= 0 {
		return grace.DefaultState(), nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT used_on, week, year, missed_date, streak_at_use
		 FROM grace_usage WHERE profile = ? ORDER BY used_on ASC`,
		profile,
	)
	if err != nil {
		return grace.State{}, fmt.Errorf("load usage: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var usedOn, missed string
		var u grace.Usage
		if err := rows.Scan(&usedOn, &u.Week, &u.Year, &missed, &u.StreakAtUse); err != nil {
			return grace.State{}, fmt.Errorf("scan usage: %w", err)
		}
		if u.UsedOn, err = calendar.ParseDay(usedOn); err != nil {
			return grace.DefaultState(), nil
		}
		if u.MissedDate, err = calendar.ParseDay(missed); err != nil {
			return grace.DefaultState(), nil
		}
		state.History = append(state.History, u)
	}
	if err := rows.Err(); err != nil {
		return grace.State{}, fmt.Errorf("load usage: %w", err)
	}
	return state, nil
}

// Save replaces the persisted state for a profile with the given value.
func (s *Store) Save(ctx context.Context, profile string, state grace.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO grace_settings (profile, enabled, max_per_week, weekend_pause)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(profile) DO UPDATE SET
			enabled = excluded.enabled,
			max_per_week = excluded.max_per_week,
			weekend_pause = excluded.weekend_pause`,
		profile, boolInt(state.Enabled), state.MaxPerWeek, boolInt(state.WeekendPause),
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM grace_usage WHERE profile = ?`, profile); err != nil {
		return err
	}
	if len(state.History) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO grace_usage (profile, used_on, week, year, missed_date, streak_at_use)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, u := range state.History {
			if _, err = stmt.ExecContext(ctx,
				profile, u.UsedOn.String(), u.Week, u.Year, u.MissedDate.String(), u.StreakAtUse,
			); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Clear removes the persisted state and activity log for a profile.
func (s *Store) Clear(ctx context.Context, profile string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	for _, table := range []string{"grace_settings", "grace_usage", "activity"} {
		if _, err = tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE profile = ?`, table), profile); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LogActivity records a qualifying-activity day. Logging the same day
// twice is a no-op.
func (s *Store) LogActivity(ctx context.Context, profile string, day calendar.Day) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (profile, day) VALUES (?, ?)
		 ON CONFLICT(profile, day) DO NOTHING`,
		profile, day.String())
	if err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}

// ListActivity returns all recorded activity days for a profile, oldest
// first.
func (s *Store) ListActivity(ctx context.Context, profile string) ([]calendar.Day, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day FROM activity WHERE profile = ? ORDER BY day ASC`, profile)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []calendar.Day
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		day, err := calendar.ParseDay(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt activity day %q: %w", raw, err)
		}
		out = append(out, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return out, nil
}

// LastActivity returns the most recent activity day for a profile, or the
// zero Day when none is recorded.
func (s *Store) LastActivity(ctx context.Context, profile string) (calendar.Day, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT day FROM activity WHERE profile = ? ORDER BY day DESC LIMIT 1`, profile,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return calendar.Day{}, nil
	}
	if err != nil {
		return calendar.Day{}, fmt.Errorf("last activity: %w", err)
	}
	day, err := calendar.ParseDay(raw)
	if err != nil {
		return calendar.Day{}, fmt.Errorf("corrupt activity day %q: %w", raw, err)
	}
	return day, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
