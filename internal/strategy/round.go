package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tollan/detsched/internal/constraints"
	"github.com/tollan/detsched/internal/constraints/formula"
	"github.com/tollan/detsched/internal/decider"
	"github.com/tollan/detsched/internal/model"
	"github.com/tollan/detsched/internal/offsets"
)

// runner bundles the fixed collaborators every strategy drives a batch
// through: the network model, the constraint emitter built against it,
// and the decider. Strategies differ only in how they slice frames and
// windows into batches.
type runner struct {
	net     *model.Network
	emitter *constraints.Emitter
	dec     decider.Decider
	rounds  int
}

func newRunner(net *model.Network, dec decider.Decider) *runner {
	return &runner{net: net, emitter: constraints.NewEmitter(net), dec: dec}
}

// roundResult is the per-batch verdict, local to one decider round.
type roundResult struct {
	sat      bool
	outcome  Outcome // set only when the round hit a fatal error
	terminal bool    // true when outcome is meaningful and the caller should return it
}

// runBatch drives one Batch through F1..F6 emission and, unless F1
// already proved it unschedulable in this window, one decider call. On
// sat it absorbs the model into the offset grids and advances the batch
// to Frozen via ModelAbsorbed; on unsat it advances to Frozen directly.
func (rn *runner) runBatch(ctx context.Context, b *constraints.Batch) roundResult {
	f, ok, err := rn.emitter.Emit(b)
	if err != nil {
		return roundResult{terminal: true, outcome: errOutcome(rn.rounds, ErrEmission, err)}
	}
	if !ok {
		b.State = b.State.Transition(constraints.StateDecidedUnsat)
		b.State = b.State.Transition(constraints.StateFrozen)
		return roundResult{sat: false}
	}

	rn.rounds++
	decision, err := rn.dec.Decide(ctx, f)
	if err != nil {
		return roundResult{terminal: true, outcome: errOutcome(rn.rounds, ErrDeciderFailure, err)}
	}

	if !decision.Sat {
		b.State = b.State.Transition(constraints.StateDecidedUnsat)
		b.State = b.State.Transition(constraints.StateFrozen)
		return roundResult{sat: false}
	}

	b.State = b.State.Transition(constraints.StateDecidedSat)
	if err := rn.absorb(f, decision); err != nil {
		return roundResult{terminal: true, outcome: errOutcome(rn.rounds, ErrDeciderFailure, err)}
	}
	b.State = b.State.Transition(constraints.StateModelAbsorbed)
	b.State = b.State.Transition(constraints.StateFrozen)
	return roundResult{sat: true}
}

// absorb decodes every variable the formula declared back into its grid
// cell (spec.md §4.4): names are parsed by the §4.2 naming convention,
// located on the network's path nodes or the sensing reservation, and
// written in. A cell the grid already held (a re-introduced predecessor
// or a previously fixed sensing value) must echo back unchanged; a
// mismatch is a fatal sanity-check failure, never silently overwritten.
func (rn *runner) absorb(f *formula.Formula, decision *decider.Decision) error {
	for _, name := range f.Names() {
		v, ok := decision.Model[name]
		if !ok {
			// Absent names are unconstrained per spec.md §6; nothing to absorb.
			continue
		}
		if frameID, linkID, i, r, ok := offsets.ParseOffsetName(name); ok {
			node, exists := rn.net.PathByLink(frameID, linkID)
			if !exists {
				return fmt.Errorf("decoded model name %q: no path node for frame %d link %d", name, frameID, linkID)
			}
			if cur, already := node.Grid.Get(i, r); already {
				if cur != v {
					return fmt.Errorf("decoded model name %q: value %d mismatches already-stored %d", name, v, cur)
				}
				continue
			}
			node.Grid.Set(i, r, v)
			continue
		}
		if linkID, i, ok := offsets.ParseSensingControlName(name); ok {
			sc, exists := rn.net.SensingControlInfo()
			if !exists {
				return fmt.Errorf("decoded model name %q: no sensing control configured", name)
			}
			want := sc.FixedOffset(linkID, int64(i))
			if v != want {
				return fmt.Errorf("decoded model name %q: value %d mismatches fixed sensing offset %d", name, v, want)
			}
			continue
		}
		return fmt.Errorf("decoded model name %q does not match any known naming convention", name)
	}
	return nil
}

func logRound(mode Kind, lo, hi int64, frames []int, sat bool) {
	slog.With("component", "strategy", "mode", mode.String()).Debug(
		"decider round",
		"window_lo", lo, "window_hi", hi, "batch_size", len(frames), "sat", sat,
	)
}
