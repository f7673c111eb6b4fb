// Package strategy implements the scheduling strategies (C5): one-shot,
// incremental, and segmented orchestration of the constraint emitter
// (C3) and decider gateway (C4) against the offset store (C2), per
// spec.md §4.5.
package strategy

import "fmt"

// Kind distinguishes the three top-level modes.
type Kind int

const (
	OneShot Kind = iota
	Incremental
	Segmented
)

func (k Kind) String() string {
	switch k {
	case OneShot:
		return "one-shot"
	case Incremental:
		return "incremental"
	case Segmented:
		return "segmented"
	default:
		return "unknown"
	}
}

// OutcomeKind is the user-visible result enum spec.md §7 mandates:
// {Scheduled, Infeasible, Error(kind, detail)}.
type OutcomeKind int

const (
	Scheduled OutcomeKind = iota
	Infeasible
	Error
)

func (k OutcomeKind) String() string {
	switch k {
	case Scheduled:
		return "Scheduled"
	case Infeasible:
		return "Infeasible"
	case Error:
		return "Error"
	default:
		return "unknown"
	}
}

// ErrorDetail classifies a fatal Error outcome, mirroring spec.md §7's
// error kinds that survive past the parser boundary into the kernel.
type ErrorDetail string

const (
	ErrDeciderFailure    ErrorDetail = "DeciderFailure"
	ErrVerificationFault ErrorDetail = "VerificationFailed"
	ErrEmission          ErrorDetail = "EmissionError"
)

// Outcome is the result of running a strategy to completion.
type Outcome struct {
	Kind   OutcomeKind
	Detail ErrorDetail // set only when Kind == Error
	Reason string      // human-readable detail for Infeasible or Error
	Rounds int         // number of decider rounds consumed
}

func scheduled(rounds int) Outcome { return Outcome{Kind: Scheduled, Rounds: rounds} }

func infeasible(rounds int, format string, args ...any) Outcome {
	return Outcome{Kind: Infeasible, Reason: fmt.Sprintf(format, args...), Rounds: rounds}
}

func errOutcome(rounds int, detail ErrorDetail, err error) Outcome {
	return Outcome{Kind: Error, Detail: detail, Reason: err.Error(), Rounds: rounds}
}

func (o Outcome) String() string {
	switch o.Kind {
	case Scheduled:
		return fmt.Sprintf("Scheduled (%d decider round(s))", o.Rounds)
	case Infeasible:
		return fmt.Sprintf("Infeasible: %s", o.Reason)
	default:
		return fmt.Sprintf("Error(%s): %s", o.Detail, o.Reason)
	}
}
