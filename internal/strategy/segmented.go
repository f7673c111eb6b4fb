package strategy

import (
	"context"

	"github.com/tollan/detsched/internal/constraints"
	"github.com/tollan/detsched/internal/decider"
	"github.com/tollan/detsched/internal/model"
)

// DefaultSegmentedWindowNs is the default window size spec.md §4.5 names.
const DefaultSegmentedWindowNs = 1_000_000

// RunSegmented orders frames by effective deadline ascending and solves
// them window by window (spec.md §4.5, "Segmented"). Within a window it
// keeps pulling step-sized slices until one comes back unsat, at which
// point the window is declared full and the next window starts — already
// solved frames carry forward as previously-decided occurrences, never
// rolled back (spec.md Design Notes: "the source appears to advance
// without rolling back").
func RunSegmented(ctx context.Context, net *model.Network, dec decider.Decider, step int, windowNs int64) Outcome {
	if step <= 0 {
		step = DefaultIncrementalStep
	}
	if windowNs <= 0 {
		windowNs = DefaultSegmentedWindowNs
	}
	rn := newRunner(net, dec)
	order := segmentedOrder(net)
	hyperPeriod := net.HyperPeriod()

	var solved []int
	cursor := 0
	for lo := int64(0); lo < hyperPeriod && cursor < len(order); {
		hi := lo + windowNs
		if hi > hyperPeriod {
			hi = hyperPeriod
		}

		for cursor < len(order) {
			batchFrames, nextCursor := slice(order, cursor, step)

			b := constraints.NewBatch(batchFrames, append([]int(nil), solved...), lo, hi)
			res := rn.runBatch(ctx, b)
			if res.terminal {
				return res.outcome
			}
			logRound(Segmented, lo, hi, batchFrames, res.sat)
			if !res.sat {
				break // window full: advance to the next window without rolling back
			}
			solved = append(solved, batchFrames...)
			cursor = nextCursor
		}
		lo = hi
	}

	if cursor < len(order) {
		return infeasible(rn.rounds, "segmented: %d of %d frames remained unscheduled at hyper-period boundary", len(order)-cursor, len(order))
	}
	return scheduled(rn.rounds)
}
