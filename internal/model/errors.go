package model

import "fmt"

// MalformedError reports a model that cannot be scheduled because the
// parser's input violates a structural invariant — period not dividing
// the hyper-period, a split referencing a link outside its frame's tree,
// a dependency naming an unknown frame or link, and so on. It is fatal:
// the scheduler never attempts to recover from it, matching spec.md's
// ModelMalformed error kind, which is defined to occur only at the
// parser boundary, before the kernel ever sees the model.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("model malformed: %s", e.Reason)
}

func malformed(format string, args ...any) error {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}
