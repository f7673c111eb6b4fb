package model

// ReplicaPolicy is the closed sum describing how wireless retransmissions
// are spaced. The absent case is represented by PolicyUnspecified rather
// than a pointer or sentinel string, lifting the source's pseudo-variant
// string into a real enum (spec.md Design Notes).
type ReplicaPolicy int

const (
	PolicyUnspecified ReplicaPolicy = iota
	PolicySpread
	PolicyContinuous
)

func (p ReplicaPolicy) String() string {
	switch p {
	case PolicySpread:
		return "Spread"
	case PolicyContinuous:
		return "Continuous"
	default:
		return "unspecified"
	}
}

// CollisionDomain is a set of wireless link ids that share a radio channel;
// any two transmissions on links of the same domain contend on the air.
type CollisionDomain struct {
	ID       int
	Links    []int
	Replicas int // replicas[d] >= 0, retransmission count beyond the original
}

// NumReplicas returns 1 + Replicas: the total number of transmissions
// (original plus retransmissions) for a path node in this domain.
func (d CollisionDomain) NumReplicas() int {
	return 1 + d.Replicas
}
