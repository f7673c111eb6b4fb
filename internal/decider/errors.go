package decider

// ErrDeciderFailure marks a decider invocation that did not produce a
// usable sat/unsat verdict: the process timed out or exited with an
// error, or its solution file could not be opened or parsed. An
// unconfigured binary or a scratch-file failure is reported by Gateway as
// a plain error instead.
// Spec.md §7 classifies this as fatal: no strategy retries it.
type ErrDeciderFailure struct {
	Reason string
}

func (e *ErrDeciderFailure) Error() string { return "decider: " + e.Reason }
