package constraints

import "fmt"

// EmissionError marks a failure the emitter cannot recover from: a batch
// whose frame ordering violates the dependency forest (a successor handed
// to Emit before its predecessor has ever been solved or included in the
// same batch). A correctly driven strategy never triggers this; spec.md
// §7 classifies it as a fatal, non-retryable condition rather than an
// ordinary unsat outcome.
type EmissionError struct {
	Reason string
}

func (e *EmissionError) Error() string { return "emission: " + e.Reason }

func emissionErrorf(format string, args ...any) error {
	return &EmissionError{Reason: fmt.Sprintf(format, args...)}
}
