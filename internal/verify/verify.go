// Package verify implements the independent verifier (C6): a pure,
// read-only pass over the network model and the solved offset grids that
// re-checks every invariant directly against the stored integers, never
// consulting the decider. A schedule that passes here is trusted
// regardless of how it was produced.
package verify

import (
	"fmt"
	"sort"

	"github.com/tollan/detsched/internal/model"
)

// Invariant names the specific check a Result failed, per spec.md §4.6.
type Invariant string

const (
	V1ContentionFree   Invariant = "V1_contention_free"
	V2Period           Invariant = "V2_period"
	V3Deadline         Invariant = "V3_deadline"
	V4ReplicaStride    Invariant = "V4_replica_stride"
	V5InstanceStride   Invariant = "V5_instance_stride"
	V6SwitchMemory     Invariant = "V6_switch_memory"
	V7SimultaneousDisp Invariant = "V7_simultaneous_dispatch"
	V8Dependency       Invariant = "V8_dependency"
)

// Witness locates the (frame, link, instance, replica) responsible for the
// first violated invariant.
type Witness struct {
	Frame    int
	Link     int
	Instance int
	Replica  int
}

// Result is the verifier's single boolean outcome, plus diagnosis on failure.
type Result struct {
	OK        bool
	Invariant Invariant
	Witness   Witness
	Detail    string
}

func fail(inv Invariant, w Witness, format string, args ...any) Result {
	return Result{OK: false, Invariant: inv, Witness: w, Detail: fmt.Sprintf(format, args...)}
}

// Verify checks every invariant for every frame in net, stopping at and
// reporting the first violation found. Checks run in a fixed order, frames
// in id order, and the contention check visits its link and domain groups
// in sorted key order, so results are deterministic.
func Verify(net *model.Network) Result {
	if r := verifyPeriodDeadlineAndStride(net); !r.OK {
		return r
	}
	if r := verifySwitchMemory(net); !r.OK {
		return r
	}
	if r := verifySimultaneousDispatch(net); !r.OK {
		return r
	}
	if r := verifyContentionFree(net); !r.OK {
		return r
	}
	if r := verifyDependencies(net); !r.OK {
		return r
	}
	return Result{OK: true}
}

// verifyPeriodDeadlineAndStride checks V2, V3, V4, V5 per path node.
func verifyPeriodDeadlineAndStride(net *model.Network) Result {
	for fi := range net.Frames {
		frame := &net.Frames[fi]
		for _, node := range frame.Preorder() {
			stride := net.Stride(node)
			instances := node.Grid.Instances()
			replicas := node.Grid.Replicas()
			for i := 0; i < instances; i++ {
				for r := 0; r < replicas; r++ {
					v, ok := node.Grid.Get(i, r)
					w := Witness{Frame: fi, Link: node.LinkID, Instance: i, Replica: r}
					if !ok {
						return fail(V2Period, w, "frame %d link %d instance %d replica %d: unassigned offset", fi, node.LinkID, i, r)
					}

					// V2: O[i][r] <= period*(i+1)
					if v > frame.PeriodNs*int64(i+1) {
						return fail(V2Period, w, "offset %d exceeds period bound %d*(i+1)=%d", v, frame.PeriodNs, frame.PeriodNs*int64(i+1))
					}
					// V3: O[i][r] <= period*i + deadline
					if v > frame.PeriodNs*int64(i)+frame.DeadlineNs {
						return fail(V3Deadline, w, "offset %d exceeds deadline bound period*i+deadline=%d", v, frame.PeriodNs*int64(i)+frame.DeadlineNs)
					}
					// V4: replica stride
					if r > 0 {
						prev, ok := node.Grid.Get(i, r-1)
						if !ok {
							return fail(V4ReplicaStride, w, "replica %d missing predecessor replica %d", r, r-1)
						}
						if v-prev != stride {
							return fail(V4ReplicaStride, w, "O[%d][%d]-O[%d][%d] = %d, want stride %d", i, r, i, r-1, v-prev, stride)
						}
					}
					// V5: instance stride
					if i > 0 {
						prev, ok := node.Grid.Get(i-1, r)
						if !ok {
							return fail(V5InstanceStride, w, "instance %d missing predecessor instance %d", i, i-1)
						}
						if v-prev != frame.PeriodNs {
							return fail(V5InstanceStride, w, "O[%d][%d]-O[%d][%d] = %d, want period %d", i, r, i-1, r, v-prev, frame.PeriodNs)
						}
					}
				}
			}
		}
	}
	return Result{OK: true}
}

// verifySwitchMemory checks V6: every parent/child pair within a frame's
// tree observes min_switch <= child-parent < max_switch.
func verifySwitchMemory(net *model.Network) Result {
	minSwitch, maxSwitch := net.MinSwitch(), net.MaxSwitch()
	for fi := range net.Frames {
		frame := &net.Frames[fi]
		for idx := range frame.Nodes {
			node := &frame.Nodes[idx]
			if node.Parent < 0 {
				continue
			}
			parent := &frame.Nodes[node.Parent]
			childV, _ := node.Grid.Get(0, 0)
			parentV, _ := parent.Grid.Get(0, 0)
			delta := childV - parentV
			w := Witness{Frame: fi, Link: node.LinkID, Instance: 0, Replica: 0}
			if delta < minSwitch || delta >= maxSwitch {
				return fail(V6SwitchMemory, w, "child-parent delta %d outside [%d, %d)", delta, minSwitch, maxSwitch)
			}
		}
	}
	return Result{OK: true}
}

// verifySimultaneousDispatch checks V7: every non-wireless split's path
// heads share an identical O[0][0].
func verifySimultaneousDispatch(net *model.Network) Result {
	for fi := range net.Frames {
		frame := &net.Frames[fi]
		for _, split := range frame.Splits {
			wireless := false
			for _, linkID := range split {
				if net.Links[linkID].Kind == model.LinkWireless {
					wireless = true
					break
				}
			}
			if wireless {
				continue
			}
			first, _ := frame.NodeByLink(split[0])
			firstV, _ := first.Grid.Get(0, 0)
			for _, linkID := range split[1:] {
				node, _ := frame.NodeByLink(linkID)
				v, _ := node.Grid.Get(0, 0)
				if v != firstV {
					w := Witness{Frame: fi, Link: linkID, Instance: 0, Replica: 0}
					return fail(V7SimultaneousDisp, w, "split offset %d differs from sibling %d", v, firstV)
				}
			}
		}
	}
	return Result{OK: true}
}

// verifyContentionFree checks V1: for every pair of occurrences sharing a
// link or collision domain, their [O, O+T) intervals do not overlap.
func verifyContentionFree(net *model.Network) Result {
	type occ struct {
		frame, link, instance, replica int
		start, end                     int64
	}
	byGroup := make(map[string][]occ)

	addOcc := func(key string, fi, linkID int, node *model.PathNode) {
		instances := node.Grid.Instances()
		replicas := node.Grid.Replicas()
		for i := 0; i < instances; i++ {
			for r := 0; r < replicas; r++ {
				v, ok := node.Grid.Get(i, r)
				if !ok {
					continue
				}
				byGroup[key] = append(byGroup[key], occ{
					frame: fi, link: linkID, instance: i, replica: r,
					start: v, end: v + node.TransmissionTimeNs,
				})
			}
		}
	}

	for fi := range net.Frames {
		frame := &net.Frames[fi]
		for idx := range frame.Nodes {
			node := &frame.Nodes[idx]
			addOcc(fmt.Sprintf("link:%d", node.LinkID), fi, node.LinkID, node)
			if node.DomainID >= 0 {
				addOcc(fmt.Sprintf("domain:%d", node.DomainID), fi, node.LinkID, node)
			}
		}
	}
	if sc, ok := net.SensingControlInfo(); ok {
		for _, linkID := range sc.Links {
			grid := sc.GridFor(linkID)
			for i := int64(0); i < sc.NumInstances; i++ {
				v, ok := grid.Get(int(i), 0)
				if !ok {
					continue
				}
				o := occ{frame: -1, link: linkID, instance: int(i), replica: 0, start: v, end: v + sc.TimeNs}
				byGroup[fmt.Sprintf("link:%d", linkID)] = append(byGroup[fmt.Sprintf("link:%d", linkID)], o)
				if d, ok := net.CollisionDomainOf(linkID); ok {
					byGroup[fmt.Sprintf("domain:%d", d)] = append(byGroup[fmt.Sprintf("domain:%d", d)], o)
				}
			}
		}
	}

	keys := make([]string, 0, len(byGroup))
	for key := range byGroup {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		occs := byGroup[key]
		for a := 0; a < len(occs); a++ {
			for b := a + 1; b < len(occs); b++ {
				x, y := occs[a], occs[b]
				if x.frame == y.frame && x.link == y.link && x.instance == y.instance && x.replica == y.replica {
					continue
				}
				if x.start < y.end && y.start < x.end {
					return fail(V1ContentionFree, Witness{Frame: x.frame, Link: x.link, Instance: x.instance, Replica: x.replica},
						"overlaps frame %d link %d instance %d replica %d: [%d,%d) vs [%d,%d)",
						y.frame, y.link, y.instance, y.replica, x.start, x.end, y.start, y.end)
				}
			}
		}
	}
	return Result{OK: true}
}

// verifyDependencies checks V8: waiting <= O_succ - O_pred < deadline,
// the deadline half checked only when DeadlineNs is nonzero (the source's
// "absent" reading of deadline=0, resolved in DESIGN.md).
func verifyDependencies(net *model.Network) Result {
	for _, dep := range net.Dependencies {
		predNode, ok := net.PathByLink(dep.PredFrame, dep.PredLink)
		if !ok {
			continue
		}
		succNode, ok := net.PathByLink(dep.SuccFrame, dep.SuccLink)
		if !ok {
			continue
		}
		predV, _ := predNode.Grid.Get(0, 0)
		succV, _ := succNode.Grid.Get(0, 0)
		delta := succV - predV
		w := Witness{Frame: dep.SuccFrame, Link: dep.SuccLink, Instance: 0, Replica: 0}
		if delta < dep.WaitingNs {
			return fail(V8Dependency, w, "O_succ-O_pred = %d below waiting %d", delta, dep.WaitingNs)
		}
		if dep.DeadlineNs > 0 && delta >= dep.DeadlineNs {
			return fail(V8Dependency, w, "O_succ-O_pred = %d at or beyond deadline %d", delta, dep.DeadlineNs)
		}
	}
	return Result{OK: true}
}
