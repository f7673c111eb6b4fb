package model

// Dependency is a directed ordering relation between two frames' last-link
// offsets: the successor frame's transmission on SuccLink must start at
// least WaitingNs, and strictly less than DeadlineNs, after the
// predecessor's transmission on PredLink. Dependencies form a forest: every frame is the
// successor of at most one dependency (enforced by Build).
//
// WaitingNs == 0 means "no minimum wait"; DeadlineNs == 0 means "no
// deadline constraint" (spec.md Design Notes, resolving the ambiguity in
// favor of "absent"). Build rejects a dependency where both are zero.
type Dependency struct {
	PredFrame  int
	PredLink   int
	SuccFrame  int
	SuccLink   int
	WaitingNs  int64
	DeadlineNs int64
}
