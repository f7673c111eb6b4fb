package model

// This file defines the plain-struct input model a parser collaborator is
// expected to populate (spec.md §6, "Input model"). detsched never reads
// XML itself — that conversion lives outside the kernel — but Build needs
// a concrete Go shape to normalize into the immutable Network, so this is
// that seam. Field names mirror the spec's bit-exact wire names; JSON tags
// let the CLI round-trip the same shape to/from disk for testing and for
// driving the kernel without a real XML front end.

// InputNetwork is the full bit-exact input document.
type InputNetwork struct {
	NumFrames       int     `json:"num_frames"`
	NumLinks        int     `json:"num_links"`
	NumDependencies int     `json:"num_dependencies"`
	MinSwitchNs     int64   `json:"min_switch_ns"`
	MaxSwitchNs     int64   `json:"max_switch_ns"`
	HyperPeriodNs   int64   `json:"hyper_period_ns"`
	Utilization     float64 `json:"utilization"`

	SensingControlPeriod *int64 `json:"sensing_control_period,omitempty"`
	SensingControlTime   *int64 `json:"sensing_control_time,omitempty"`

	ReplicaPolicy   *string `json:"replica_policy,omitempty"` // "Spread" | "Continuous" | null
	ReplicaInterval *int64  `json:"replica_interval,omitempty"`
	Replicas        string  `json:"replicas"` // ';'-separated per-domain replica counts

	Links            []InputLink   `json:"links"`
	CollisionDomains [][]int       `json:"collision_domains"`
	Frames           []InputFrame  `json:"frames"`
	Dependencies     []InputDependency `json:"dependencies"`
}

// InputLink is one directional edge.
type InputLink struct {
	Category    string `json:"category"` // "Wired" | "Wireless"
	Speed       int    `json:"speed"`    // Mb/s
	Source      int    `json:"source"`
	Destination int    `json:"destination"`
}

// InputFrame is one periodic multicast flow. Paths is a ';'-separated list
// of per-receiver link-id sequences (root to leaf), each sequence itself
// ','-separated; Splits is a ';'-separated list of sibling link-id sets,
// each set ','-separated.
type InputFrame struct {
	Period  int64  `json:"period"`
	Deadline int64 `json:"deadline"`
	Size    int    `json:"size"`
	Paths   string `json:"paths"`
	Splits  string `json:"splits"`
}

// InputDependency is one predecessor/successor ordering relation.
type InputDependency struct {
	PredecessorFrame int   `json:"predecessor_frame"`
	PredecessorLink  int   `json:"predecessor_link"`
	SuccessorFrame   int   `json:"successor_frame"`
	SuccessorLink    int   `json:"successor_link"`
	Waiting          int64 `json:"waiting"`
	Deadline         int64 `json:"deadline"`
}
