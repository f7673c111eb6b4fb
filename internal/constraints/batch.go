package constraints

import (
	"fmt"

	"github.com/tollan/detsched/internal/check"
)

// State is the per-batch lifecycle spec.md §4.3 names:
// Empty -> VariablesDeclared -> ConstraintsEmitted -> Decided(sat|unsat)
// -> (sat: ModelAbsorbed) -> Frozen.
type State uint8

const (
	StateEmpty State = iota + 1
	StateVariablesDeclared
	StateConstraintsEmitted
	StateDecidedSat
	StateDecidedUnsat
	StateModelAbsorbed
	StateFrozen
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateVariablesDeclared:
		return "variables_declared"
	case StateConstraintsEmitted:
		return "constraints_emitted"
	case StateDecidedSat:
		return "decided_sat"
	case StateDecidedUnsat:
		return "decided_unsat"
	case StateModelAbsorbed:
		return "model_absorbed"
	case StateFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

func (s State) IsValid() bool {
	switch s {
	case StateEmpty, StateVariablesDeclared, StateConstraintsEmitted, StateDecidedSat, StateDecidedUnsat, StateModelAbsorbed, StateFrozen:
		return true
	default:
		return false
	}
}

// Transition moves to `to`, asserting the move is legal. An illegal move
// indicates a kernel bug (the strategy driving a batch out of order), so it
// panics in debug builds via check.Assertf and is a silent no-op in release
// builds, matching the teacher's phase-transition convention.
func (s State) Transition(to State) State {
	ok := false
	switch s {
	case StateEmpty:
		ok = to == StateVariablesDeclared || to == StateDecidedUnsat
	case StateVariablesDeclared:
		ok = to == StateConstraintsEmitted
	case StateConstraintsEmitted:
		ok = to == StateDecidedSat || to == StateDecidedUnsat
	case StateDecidedSat:
		ok = to == StateModelAbsorbed
	case StateDecidedUnsat:
		ok = to == StateFrozen
	case StateModelAbsorbed:
		ok = to == StateFrozen
	case StateFrozen:
		ok = false
	}
	check.Assertf(ok, "constraint batch transition: %s -> %s", s, to)
	if !ok {
		return s
	}
	return to
}

// Batch is one emission round: a current frame set F, a previously solved
// frame set P (restated as equalities where their offsets fall in the
// window), and a half-open time window.
type Batch struct {
	State    State
	Frames   []int // F: to be decided now
	Previous []int // P: already decided
	WindowLo int64
	WindowHi int64

	reintroduced map[string]bool // predecessor offset name -> already re-equated this batch (F6)
}

// NewBatch constructs an Empty batch over the given window.
func NewBatch(frames, previous []int, windowLo, windowHi int64) *Batch {
	if windowLo >= windowHi {
		panic(fmt.Sprintf("constraints: empty or inverted window [%d, %d)", windowLo, windowHi))
	}
	return &Batch{
		State:        StateEmpty,
		Frames:       frames,
		Previous:     previous,
		WindowLo:     windowLo,
		WindowHi:     windowHi,
		reintroduced: make(map[string]bool),
	}
}
