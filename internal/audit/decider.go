package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/tollan/detsched/internal/constraints/formula"
	"github.com/tollan/detsched/internal/decider"
)

// RecordingDecider wraps a Decider and appends one Round to a Store per
// call, so a schedule run's full sat/unsat history survives the process
// exit even though nothing in the kernel ever reads it back (package
// doc). The Decider interface (spec.md §9) carries only the formula, not
// the window/batch metadata a strategy reasons about, so BatchSize here
// is the declared-variable count rather than a frame count — the
// closest proxy available at this seam.
type RecordingDecider struct {
	next  decider.Decider
	store *Store
	runID string
	mode  string
}

// NewRecordingDecider wraps next, recording every round against runID
// under Store with the given mode label ("one-shot", "incremental", or
// "segmented").
func NewRecordingDecider(next decider.Decider, store *Store, runID, mode string) *RecordingDecider {
	return &RecordingDecider{next: next, store: store, runID: runID, mode: mode}
}

func (d *RecordingDecider) Decide(ctx context.Context, f *formula.Formula) (*decider.Decision, error) {
	started := time.Now()
	decision, err := d.next.Decide(ctx, f)
	elapsed := time.Since(started)

	outcome := "error"
	if err == nil {
		if decision.Sat {
			outcome = "sat"
		} else {
			outcome = "unsat"
		}
	}

	if recErr := d.store.RecordRound(Round{
		RunID:       d.runID,
		Mode:        d.mode,
		BatchSize:   f.NumDecls(),
		Outcome:     outcome,
		StartedAtNs: started.UnixNano(),
		ElapsedMs:   elapsed.Milliseconds(),
	}); recErr != nil {
		slog.With("component", "audit").Error("record decider round", "run_id", d.runID, "mode", d.mode, "error", recErr)
	}

	return decision, err
}
