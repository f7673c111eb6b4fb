// Package decider implements the C4 decider gateway: the seam between the
// kernel and the external sat/unsat oracle a constraint batch is handed
// to. spec.md's Design Notes call for a "decide(path) -> Decision"
// abstraction so a scheduling strategy never spawns a process directly;
// Gateway is the real, process-based implementation, and CachingDecider
// wraps any Decider with the memoization C11 describes.
package decider

import (
	"context"

	"github.com/tollan/detsched/internal/constraints/formula"
)

// Decision is the decider's verdict on one formula: either unsat, or sat
// with a full variable assignment keyed by decision-variable name.
type Decision struct {
	Sat   bool
	Model map[string]int64
}

// Decider turns an emitted formula into a Decision.
type Decider interface {
	Decide(ctx context.Context, f *formula.Formula) (*Decision, error)
}
