package strategy

import (
	"context"

	"github.com/tollan/detsched/internal/constraints"
	"github.com/tollan/detsched/internal/decider"
	"github.com/tollan/detsched/internal/model"
)

// RunOneShot emits F1..F6 for every frame in a single batch over the full
// hyper-period and issues a single decider call (spec.md §4.5,
// "One-shot"): simplest strategy, highest per-call cost.
func RunOneShot(ctx context.Context, net *model.Network, dec decider.Decider) Outcome {
	rn := newRunner(net, dec)
	frames := naturalOrder(net)
	b := constraints.NewBatch(frames, nil, 0, net.HyperPeriod())

	res := rn.runBatch(ctx, b)
	if res.terminal {
		return res.outcome
	}
	if !res.sat {
		return infeasible(rn.rounds, "one-shot: all %d frames unsat over [0, %d)", len(frames), net.HyperPeriod())
	}
	return scheduled(rn.rounds)
}
