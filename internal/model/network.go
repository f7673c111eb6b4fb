package model

import (
	"strconv"
	"strings"

	"github.com/tollan/detsched/internal/offsets"
)

// Network is the immutable, parsed-and-normalized network model (C1). It
// is built once by Build and never mutated by the scheduler; only the
// offset grids hanging off its path nodes are written, by the constraint
// emitter (fixed sensing offsets) and by the scheduling strategy when it
// absorbs a decided model.
type Network struct {
	HyperPeriodNs     int64
	MinSwitchNs       int64
	MaxSwitchNs       int64
	Policy            ReplicaPolicy
	ReplicaIntervalNs int64
	UtilizationValue  float64

	Links   []Link
	Domains []CollisionDomain

	Frames []Frame

	Dependencies []Dependency

	Sensing *SensingControl

	linkDomain     map[int]int // linkID -> index into Domains
	depBySuccessor map[int]*Dependency
}

// Build normalizes a parsed InputNetwork into an immutable Network,
// performing every structural check spec.md classifies as ModelMalformed.
// A parser collaborator is expected to call this once; the scheduler never
// sees a model that fails here.
func Build(in InputNetwork) (*Network, error) {
	if in.NumLinks != len(in.Links) {
		return nil, malformed("num_links=%d does not match %d link entries", in.NumLinks, len(in.Links))
	}
	if in.NumFrames != len(in.Frames) {
		return nil, malformed("num_frames=%d does not match %d frame entries", in.NumFrames, len(in.Frames))
	}
	if in.NumDependencies != len(in.Dependencies) {
		return nil, malformed("num_dependencies=%d does not match %d dependency entries", in.NumDependencies, len(in.Dependencies))
	}
	if in.HyperPeriodNs <= 0 {
		return nil, malformed("hyper_period_ns must be positive")
	}
	if in.MinSwitchNs < 0 || in.MaxSwitchNs < 0 || in.MinSwitchNs >= in.MaxSwitchNs {
		return nil, malformed("min_switch_ns (%d) must be non-negative and less than max_switch_ns (%d)", in.MinSwitchNs, in.MaxSwitchNs)
	}

	links, err := buildLinks(in.Links)
	if err != nil {
		return nil, err
	}

	replicaCounts, err := parseReplicas(in.Replicas)
	if err != nil {
		return nil, err
	}
	domains, linkDomain, err := buildDomains(in.CollisionDomains, replicaCounts, links)
	if err != nil {
		return nil, err
	}

	policy, replicaIntervalNs, err := parseReplicaPolicy(in.ReplicaPolicy, in.ReplicaInterval, domains)
	if err != nil {
		return nil, err
	}

	net := &Network{
		HyperPeriodNs:     in.HyperPeriodNs,
		MinSwitchNs:       in.MinSwitchNs,
		MaxSwitchNs:       in.MaxSwitchNs,
		Policy:            policy,
		ReplicaIntervalNs: replicaIntervalNs,
		UtilizationValue:  in.Utilization,
		Links:             links,
		Domains:           domains,
		linkDomain:        linkDomain,
		depBySuccessor:    make(map[int]*Dependency),
	}

	frames := make([]Frame, len(in.Frames))
	for i, inFrame := range in.Frames {
		f, err := buildFrame(i, inFrame, net)
		if err != nil {
			return nil, err
		}
		frames[i] = f
	}
	net.Frames = frames

	deps := make([]Dependency, 0, len(in.Dependencies))
	for _, inDep := range in.Dependencies {
		d, err := buildDependency(inDep, net)
		if err != nil {
			return nil, err
		}
		if existing, ok := net.depBySuccessor[d.SuccFrame]; ok {
			return nil, malformed("frame %d is successor of more than one dependency (already successor of predecessor %d)", d.SuccFrame, existing.PredFrame)
		}
		deps = append(deps, d)
	}
	net.Dependencies = deps
	for i := range net.Dependencies {
		d := &net.Dependencies[i]
		net.depBySuccessor[d.SuccFrame] = d
	}

	sc, err := buildSensing(in, links)
	if err != nil {
		return nil, err
	}
	net.Sensing = sc

	return net, nil
}

func buildLinks(in []InputLink) ([]Link, error) {
	links := make([]Link, len(in))
	for i, l := range in {
		var kind LinkKind
		switch l.Category {
		case "Wired":
			kind = LinkWired
		case "Wireless":
			kind = LinkWireless
		default:
			return nil, malformed("link %d: unknown category %q", i, l.Category)
		}
		if l.Speed <= 0 {
			return nil, malformed("link %d: speed must be positive", i)
		}
		links[i] = Link{ID: i, Kind: kind, SpeedMbps: l.Speed}
	}
	return links, nil
}

func parseReplicas(raw string) ([]int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	parts := strings.Split(trimmed, ";")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, malformed("replicas: invalid integer %q: %v", p, err)
		}
		if v < 0 {
			return nil, malformed("replicas: negative replica count %d", v)
		}
		out = append(out, v)
	}
	return out, nil
}

func buildDomains(raw [][]int, replicaCounts []int, links []Link) ([]CollisionDomain, map[int]int, error) {
	if len(raw) > 0 && len(replicaCounts) != len(raw) {
		return nil, nil, malformed("replicas lists %d counts for %d collision domains", len(replicaCounts), len(raw))
	}

	domains := make([]CollisionDomain, len(raw))
	linkDomain := make(map[int]int, len(links))
	for d, linkIDs := range raw {
		for _, linkID := range linkIDs {
			if linkID < 0 || linkID >= len(links) {
				return nil, nil, malformed("collision domain %d references unknown link %d", d, linkID)
			}
			if links[linkID].Kind != LinkWireless {
				return nil, nil, malformed("collision domain %d references wired link %d", d, linkID)
			}
			if existing, ok := linkDomain[linkID]; ok {
				return nil, nil, malformed("link %d belongs to more than one collision domain (%d and %d)", linkID, existing, d)
			}
			linkDomain[linkID] = d
		}
		domains[d] = CollisionDomain{ID: d, Links: append([]int(nil), linkIDs...), Replicas: replicaCounts[d]}
	}
	return domains, linkDomain, nil
}

func parseReplicaPolicy(raw *string, interval *int64, domains []CollisionDomain) (ReplicaPolicy, int64, error) {
	if raw == nil {
		return PolicyUnspecified, 0, nil
	}
	var policy ReplicaPolicy
	switch *raw {
	case "Spread":
		policy = PolicySpread
	case "Continuous":
		policy = PolicyContinuous
	default:
		return 0, 0, malformed("replica_policy: unknown value %q", *raw)
	}
	if len(domains) == 0 {
		return 0, 0, malformed("replica_policy %q given without any collision domains", *raw)
	}
	if policy == PolicySpread {
		if interval == nil || *interval <= 0 {
			return 0, 0, malformed("replica_policy Spread requires a positive replica_interval")
		}
		return policy, *interval, nil
	}
	return policy, 0, nil
}

func buildFrame(id int, in InputFrame, net *Network) (Frame, error) {
	if in.Period <= 0 {
		return Frame{}, malformed("frame %d: period must be positive", id)
	}
	if net.HyperPeriodNs%in.Period != 0 {
		return Frame{}, malformed("frame %d: period %d does not divide hyper_period_ns %d", id, in.Period, net.HyperPeriodNs)
	}
	if in.Deadline <= 0 || in.Deadline > in.Period {
		return Frame{}, malformed("frame %d: deadline %d must be in (0, period=%d]", id, in.Deadline, in.Period)
	}
	if in.Size < 72 || in.Size > 1526 {
		return Frame{}, malformed("frame %d: size %d outside [72, 1526] bytes", id, in.Size)
	}

	f := Frame{
		ID:           id,
		PeriodNs:     in.Period,
		DeadlineNs:   in.Deadline,
		SizeBytes:    in.Size,
		NumInstances: net.HyperPeriodNs / in.Period,
		byLink:       make(map[int]int),
	}

	receiverPaths, err := parseSequences(in.Paths)
	if err != nil {
		return Frame{}, malformed("frame %d: paths: %v", id, err)
	}
	if len(receiverPaths) == 0 {
		return Frame{}, malformed("frame %d: at least one receiver path is required", id)
	}

	f.Root = -1
	for _, seq := range receiverPaths {
		parent := -1
		for _, linkID := range seq {
			if linkID < 0 || linkID >= len(net.Links) {
				return Frame{}, malformed("frame %d: path references unknown link %d", id, linkID)
			}
			if idx, ok := f.byLink[linkID]; ok {
				if f.Nodes[idx].Parent != parent {
					return Frame{}, malformed("frame %d: link %d appears at two different tree positions across receiver paths", id, linkID)
				}
				parent = idx
				continue
			}
			link := net.Links[linkID]
			domainID := -1
			numReplicas := 1
			if d, ok := net.linkDomain[linkID]; ok {
				domainID = d
				numReplicas = net.Domains[d].NumReplicas()
			}
			node := PathNode{
				LinkID:             linkID,
				Parent:             parent,
				TransmissionTimeNs: link.TransmissionTimeNs(in.Size),
				DomainID:           domainID,
				NumReplicas:        numReplicas,
				Grid:               offsets.NewGrid(int(f.NumInstances), numReplicas),
			}
			newIdx := len(f.Nodes)
			f.Nodes = append(f.Nodes, node)
			f.byLink[linkID] = newIdx
			if parent >= 0 {
				f.Nodes[parent].Children = append(f.Nodes[parent].Children, newIdx)
			}
			if f.Root < 0 {
				f.Root = newIdx
			}
			parent = newIdx
		}
	}

	splitSets, err := parseSplitSets(in.Splits)
	if err != nil {
		return Frame{}, malformed("frame %d: splits: %v", id, err)
	}
	for _, set := range splitSets {
		if len(set) < 2 {
			return Frame{}, malformed("frame %d: split must contain at least 2 links", id)
		}
		var parent = -2 // sentinel distinct from "-1 root"
		for _, linkID := range set {
			idx, ok := f.byLink[linkID]
			if !ok {
				return Frame{}, malformed("frame %d: split references link %d absent from the frame's path tree", id, linkID)
			}
			if parent == -2 {
				parent = f.Nodes[idx].Parent
			} else if f.Nodes[idx].Parent != parent {
				return Frame{}, malformed("frame %d: split links %v are not siblings", id, set)
			}
		}
		f.Splits = append(f.Splits, append([]int(nil), set...))
	}

	return f, nil
}

func parseSequences(raw string) ([][]int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	groups := strings.Split(trimmed, ";")
	out := make([][]int, 0, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		ids, err := parseIntList(g, ",")
		if err != nil {
			return nil, err
		}
		out = append(out, ids)
	}
	return out, nil
}

func parseSplitSets(raw string) ([][]int, error) {
	return parseSequences(raw)
}

func parseIntList(raw, sep string) ([]int, error) {
	parts := strings.Split(raw, sep)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func buildDependency(in InputDependency, net *Network) (Dependency, error) {
	if in.PredecessorFrame < 0 || in.PredecessorFrame >= len(net.Frames) {
		return Dependency{}, malformed("dependency references unknown predecessor frame %d", in.PredecessorFrame)
	}
	if in.SuccessorFrame < 0 || in.SuccessorFrame >= len(net.Frames) {
		return Dependency{}, malformed("dependency references unknown successor frame %d", in.SuccessorFrame)
	}
	if _, ok := net.Frames[in.PredecessorFrame].NodeByLink(in.PredecessorLink); !ok {
		return Dependency{}, malformed("dependency references link %d absent from predecessor frame %d", in.PredecessorLink, in.PredecessorFrame)
	}
	if _, ok := net.Frames[in.SuccessorFrame].NodeByLink(in.SuccessorLink); !ok {
		return Dependency{}, malformed("dependency references link %d absent from successor frame %d", in.SuccessorLink, in.SuccessorFrame)
	}
	if in.Waiting < 0 || in.Deadline < 0 {
		return Dependency{}, malformed("dependency waiting/deadline must be non-negative")
	}
	if in.Waiting == 0 && in.Deadline == 0 {
		return Dependency{}, malformed("dependency must set waiting or deadline (both zero is meaningless)")
	}
	if in.Waiting != 0 && in.Deadline != 0 && in.Waiting >= in.Deadline {
		return Dependency{}, malformed("dependency waiting (%d) must be less than deadline (%d)", in.Waiting, in.Deadline)
	}

	return Dependency{
		PredFrame:  in.PredecessorFrame,
		PredLink:   in.PredecessorLink,
		SuccFrame:  in.SuccessorFrame,
		SuccLink:   in.SuccessorLink,
		WaitingNs:  in.Waiting,
		DeadlineNs: in.Deadline,
	}, nil
}

func buildSensing(in InputNetwork, links []Link) (*SensingControl, error) {
	if in.SensingControlPeriod == nil && in.SensingControlTime == nil {
		return nil, nil
	}
	if in.SensingControlPeriod == nil || in.SensingControlTime == nil {
		return nil, malformed("sensing_control_period and sensing_control_time must both be set or both absent")
	}
	period := *in.SensingControlPeriod
	time := *in.SensingControlTime
	if period <= 0 || time <= 0 {
		return nil, malformed("sensing control period and time must be positive")
	}
	if in.HyperPeriodNs%period != 0 {
		return nil, malformed("sensing control period %d does not divide hyper_period_ns %d", period, in.HyperPeriodNs)
	}

	var wireless []int
	for _, l := range links {
		if l.Kind == LinkWireless {
			wireless = append(wireless, l.ID)
		}
	}
	if len(wireless) == 0 {
		return nil, malformed("sensing control configured but no wireless links exist")
	}

	return &SensingControl{
		Links:        wireless,
		PeriodNs:     period,
		TimeNs:       time,
		NumInstances: in.HyperPeriodNs / period,
	}, nil
}

// --- Accessors (spec.md §4.1) ---

func (n *Network) FrameCount() int      { return len(n.Frames) }
func (n *Network) HyperPeriod() int64   { return n.HyperPeriodNs }
func (n *Network) Utilization() float64 { return n.UtilizationValue }

func (n *Network) PathRoot(f int) (*PathNode, bool) {
	if f < 0 || f >= len(n.Frames) || len(n.Frames[f].Nodes) == 0 {
		return nil, false
	}
	return &n.Frames[f].Nodes[n.Frames[f].Root], true
}

// Paths returns a pre-order traversal of frame f's path tree.
func (n *Network) Paths(f int) []*PathNode {
	if f < 0 || f >= len(n.Frames) {
		return nil
	}
	return n.Frames[f].Preorder()
}

func (n *Network) PathByLink(f, link int) (*PathNode, bool) {
	if f < 0 || f >= len(n.Frames) {
		return nil, false
	}
	return n.Frames[f].NodeByLink(link)
}

func (n *Network) Splits(f int) [][]int {
	if f < 0 || f >= len(n.Frames) {
		return nil
	}
	return n.Frames[f].Splits
}

func (n *Network) CollisionDomainOf(link int) (int, bool) {
	d, ok := n.linkDomain[link]
	return d, ok
}

func (n *Network) CollisionDomains() []CollisionDomain { return n.Domains }

func (n *Network) DependencyOfSuccessor(frame int) (*Dependency, bool) {
	d, ok := n.depBySuccessor[frame]
	return d, ok
}

func (n *Network) ReplicaPolicy() ReplicaPolicy { return n.Policy }
func (n *Network) ReplicaInterval() int64       { return n.ReplicaIntervalNs }
func (n *Network) MinSwitch() int64             { return n.MinSwitchNs }
func (n *Network) MaxSwitch() int64             { return n.MaxSwitchNs }

func (n *Network) SensingControlInfo() (*SensingControl, bool) {
	return n.Sensing, n.Sensing != nil
}

// Stride returns the inter-replica spacing used both by F1's replica
// lattice and F2's contention-window enumeration for a path node: the
// replica interval under Spread, else the node's own transmission time
// (Continuous policy transmits back-to-back).
func (n *Network) Stride(node *PathNode) int64 {
	if n.Policy == PolicySpread {
		return n.ReplicaIntervalNs
	}
	return node.TransmissionTimeNs
}
