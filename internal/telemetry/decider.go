package telemetry

import (
	"context"
	"fmt"

	"github.com/tollan/detsched/internal/constraints/formula"
	"github.com/tollan/detsched/internal/decider"
)

// TracingDecider wraps a Decider, running each call inside its own child
// span of op ("round-1", "round-2", ...), so a LineSpanProcessor renders
// one progress line per decider invocation without the strategy package
// needing to know anything about tracing.
type TracingDecider struct {
	next   decider.Decider
	op     *Operation
	prefix string
	round  int
}

// NewTracingDecider wraps next, naming spans "<prefix>-N" starting at 1.
func NewTracingDecider(next decider.Decider, op *Operation, prefix string) *TracingDecider {
	if prefix == "" {
		prefix = "round"
	}
	return &TracingDecider{next: next, op: op, prefix: prefix}
}

func (d *TracingDecider) Decide(ctx context.Context, f *formula.Formula) (*decider.Decision, error) {
	d.round++
	stepID := fmt.Sprintf("%s-%d", d.prefix, d.round)

	var decision *decider.Decision
	err := d.op.RunStep(ctx, stepID, func(stepCtx context.Context) error {
		var innerErr error
		decision, innerErr = d.next.Decide(stepCtx, f)
		return innerErr
	})
	return decision, err
}
