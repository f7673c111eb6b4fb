// Package audit persists a durable, queryable record of every decider
// round a scheduling run drove (C10): which window, which batch, what it
// decided, how long it took. It is purely an after-the-fact diagnostic —
// nothing in the kernel ever reads it back into a live run, so it never
// reintroduces the online/dynamic rescheduling spec.md rules out of
// scope. Modeled on the teacher's internal/control/state Store: a single
// modernc.org/sqlite file, WAL journal mode, schema created on Open.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Round is one decider invocation's record.
type Round struct {
	RunID      string
	Mode       string // "one-shot" | "incremental" | "segmented"
	WindowLo   int64
	WindowHi   int64
	BatchSize  int
	Outcome    string // "sat" | "unsat" | "error"
	StartedAtNs int64
	ElapsedMs  int64
}

// Store is the sqlite-backed audit log.
type Store struct {
	db *sql.DB
}

// Open creates (or reuses) the sqlite file at path, applying the schema
// if it is missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set audit db journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set audit db busy timeout: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS decider_rounds (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	window_lo INTEGER NOT NULL,
	window_hi INTEGER NOT NULL,
	batch_size INTEGER NOT NULL,
	outcome TEXT NOT NULL,
	started_at_ns INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize decider_rounds schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRound appends one decider-round record.
func (s *Store) RecordRound(r Round) error {
	_, err := s.db.Exec(
		`INSERT INTO decider_rounds
		 (run_id, mode, window_lo, window_hi, batch_size, outcome, started_at_ns, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Mode, r.WindowLo, r.WindowHi, r.BatchSize, r.Outcome, r.StartedAtNs, r.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("record decider round: %w", err)
	}
	return nil
}

// RoundsForRun returns every recorded round for runID, in insertion order.
func (s *Store) RoundsForRun(runID string) ([]Round, error) {
	rows, err := s.db.Query(
		`SELECT run_id, mode, window_lo, window_hi, batch_size, outcome, started_at_ns, elapsed_ms
		 FROM decider_rounds WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query decider rounds: %w", err)
	}
	defer rows.Close()

	out := make([]Round, 0)
	for rows.Next() {
		var r Round
		if err := rows.Scan(&r.RunID, &r.Mode, &r.WindowLo, &r.WindowHi, &r.BatchSize, &r.Outcome, &r.StartedAtNs, &r.ElapsedMs); err != nil {
			return nil, fmt.Errorf("scan decider round row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decider round rows: %w", err)
	}
	return out, nil
}

// CountByOutcome summarizes how many rounds of runID ended in each outcome.
func (s *Store) CountByOutcome(runID string) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT outcome, COUNT(*) FROM decider_rounds WHERE run_id = ? GROUP BY outcome`, runID)
	if err != nil {
		return nil, fmt.Errorf("count decider rounds by outcome: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan outcome count row: %w", err)
		}
		out[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome count rows: %w", err)
	}
	return out, nil
}
