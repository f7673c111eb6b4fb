package strategy

import (
	"context"

	"github.com/tollan/detsched/internal/constraints"
	"github.com/tollan/detsched/internal/decider"
	"github.com/tollan/detsched/internal/model"
)

// DefaultIncrementalStep is the default slice size spec.md §4.5 names.
const DefaultIncrementalStep = 5

// RunIncremental processes frames in natural order in slices of step,
// restating every previously solved slice as fixed equalities in each
// subsequent round (spec.md §4.5, "Incremental"). An unsat slice fails
// the whole run; there is no retry.
func RunIncremental(ctx context.Context, net *model.Network, dec decider.Decider, step int) Outcome {
	if step <= 0 {
		step = DefaultIncrementalStep
	}
	rn := newRunner(net, dec)
	order := naturalOrder(net)

	var solved []int
	for cursor := 0; cursor < len(order); {
		var batchFrames []int
		batchFrames, cursor = slice(order, cursor, step)

		b := constraints.NewBatch(batchFrames, append([]int(nil), solved...), 0, net.HyperPeriod())
		res := rn.runBatch(ctx, b)
		if res.terminal {
			return res.outcome
		}
		logRound(Incremental, 0, net.HyperPeriod(), batchFrames, res.sat)
		if !res.sat {
			return infeasible(rn.rounds, "incremental: slice %v unsat (no retry)", batchFrames)
		}
		solved = append(solved, batchFrames...)
	}
	return scheduled(rn.rounds)
}
