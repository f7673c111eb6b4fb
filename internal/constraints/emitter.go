// Package constraints is the C3 constraint emitter: it drives a Batch
// through the Empty -> VariablesDeclared -> ConstraintsEmitted lifecycle,
// accumulating an SMT/LIA formula (internal/constraints/formula) from the
// six constraint families spec.md §4.3 names F1 through F6.
package constraints

import (
	"github.com/tollan/detsched/internal/constraints/formula"
	"github.com/tollan/detsched/internal/model"
	"github.com/tollan/detsched/internal/offsets"
)

// Emitter turns a Batch into a Formula against a fixed Network.
type Emitter struct {
	net *model.Network
}

func NewEmitter(net *model.Network) *Emitter {
	return &Emitter{net: net}
}

// Emit runs F1 through F6 over the batch and returns the accumulated
// formula. A false ok with a nil error means F1 found a path that cannot
// possibly meet its deadline anywhere in the window (end < t_lo): the
// batch is unsat without ever reaching the decider, and the caller should
// drive it straight to StateDecidedUnsat. A non-nil error is fatal:
// the batch was handed frames out of dependency order.
func (e *Emitter) Emit(b *Batch) (*formula.Formula, bool, error) {
	f := formula.New()

	ok, err := e.emitF1(b, f)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	b.State = b.State.Transition(StateVariablesDeclared)

	e.emitF2(b, f)
	if err := e.emitF3F4(b, f); err != nil {
		return nil, false, err
	}
	e.emitF5(b, f)
	if err := e.emitF6(b, f); err != nil {
		return nil, false, err
	}

	b.State = b.State.Transition(StateConstraintsEmitted)
	return f, true, nil
}

// emitF1 introduces every current-batch frame's decision variables: the
// free base offset O[0][0] bounded to the window minus the instance/
// replica span it must still fit, the derived instance/replica lattice
// tied to it by the period and replica stride, and (once, in the batch
// containing t=0) the sensing control's fixed offsets.
func (e *Emitter) emitF1(b *Batch, f *formula.Formula) (bool, error) {
	net := e.net
	for _, frameID := range b.Frames {
		if frameID < 0 || frameID >= len(net.Frames) {
			return false, emissionErrorf("batch references unknown frame %d", frameID)
		}
		frame := &net.Frames[frameID]
		for idx := range frame.Nodes {
			node := &frame.Nodes[idx]
			stride := net.Stride(node)
			replicaSpan := int64(node.NumReplicas-1) * stride

			deadlineBound := frame.DeadlineNs
			if b.WindowHi < deadlineBound {
				deadlineBound = b.WindowHi
			}
			end := deadlineBound - node.TransmissionTimeNs - replicaSpan
			// [t_lo, end] is closed: end == t_lo still admits the single
			// point O[0][0] = t_lo (spec.md §8 scenario 1, where a
			// 10000ns frame on a 10000ns deadline has end = 0 = t_lo and
			// O[0][0] = 0 as its unique solution). Only end < t_lo is
			// genuinely empty.
			if end < b.WindowLo {
				return false, nil
			}

			name00 := offsets.OffsetName(frameID, node.LinkID, 0, 0)
			f.DeclareInt(name00)
			f.Assert(formula.Geq(formula.Var(name00), formula.Lit(b.WindowLo)))
			f.Assert(formula.Leq(formula.Var(name00), formula.Lit(end)))

			instances := node.Grid.Instances()
			replicas := node.Grid.Replicas()
			for i := 0; i < instances; i++ {
				for r := 0; r < replicas; r++ {
					if i == 0 && r == 0 {
						continue
					}
					name := offsets.OffsetName(frameID, node.LinkID, i, r)
					f.DeclareInt(name)
					rhs := formula.Add(
						formula.Var(name00),
						formula.Lit(int64(i)*frame.PeriodNs),
						formula.Lit(int64(r)*stride),
					)
					f.Assert(formula.Eq(formula.Var(name), rhs))
				}
			}
		}
	}

	if b.WindowLo == 0 {
		if sc, ok := net.SensingControlInfo(); ok {
			for _, linkID := range sc.Links {
				for i := int64(0); i < sc.NumInstances; i++ {
					name := offsets.SensingControlName(linkID, int(i))
					f.DeclareInt(name)
					v := sc.FixedOffset(linkID, i)
					f.Assert(formula.Eq(formula.Var(name), formula.Lit(v)))
				}
			}
		}
	}
	return true, nil
}

// emitF2 asserts contention-freedom: for every pair of occurrences sharing
// a link, or sharing a collision domain, where at least one occurrence is
// from the current batch, their windows must not overlap: (a ends before b
// starts) or (b ends before a starts).
func (e *Emitter) emitF2(b *Batch, f *formula.Formula) {
	occs := buildOccurrences(e.net, b)

	byLink := make(map[int][]int)   // linkID -> occurrence indices
	byDomain := make(map[int][]int) // domainID -> occurrence indices
	for idx, o := range occs {
		byLink[o.linkID] = append(byLink[o.linkID], idx)
		if o.domainID >= 0 {
			byDomain[o.domainID] = append(byDomain[o.domainID], idx)
		}
	}

	seen := make(map[[2]int]bool)
	emitGroup := func(group []int, crossLink bool) {
		for gi := 0; gi < len(group); gi++ {
			for gj := gi; gj < len(group); gj++ {
				ai, aj := group[gi], group[gj]
				if crossLink && occs[ai].linkID == occs[aj].linkID {
					continue // already covered by the same-link pass
				}
				key := [2]int{ai, aj}
				if ai > aj {
					key = [2]int{aj, ai}
				}
				if seen[key] {
					continue
				}
				a, bo := occs[ai], occs[aj]
				if a.source != srcCurrent && bo.source != srcCurrent {
					continue
				}
				seen[key] = true
				e.emitPairDisjoint(b, f, a, bo, ai == aj)
			}
		}
	}

	for _, group := range byLink {
		emitGroup(group, false)
	}
	for _, group := range byDomain {
		emitGroup(group, true)
	}
}

func (e *Emitter) emitPairDisjoint(b *Batch, f *formula.Formula, a, bo occurrence, selfPair bool) {
	aInstances := a.instancesInWindow(b.WindowLo, b.WindowHi)
	bInstances := bo.instancesInWindow(b.WindowLo, b.WindowHi)

	for _, ia := range aInstances {
		for ra := 0; ra < a.numReplicas; ra++ {
			for _, ib := range bInstances {
				for rb := 0; rb < bo.numReplicas; rb++ {
					if selfPair {
						if ia > ib || (ia == ib && ra >= rb) {
							continue
						}
					}
					aName := a.ensure(f, ia, ra)
					bName := bo.ensure(f, ib, rb)
					f.Assert(formula.Or(
						formula.Leq(formula.Add(formula.Var(aName), formula.Lit(a.transmissionNs)), formula.Var(bName)),
						formula.Leq(formula.Add(formula.Var(bName), formula.Lit(bo.transmissionNs)), formula.Var(aName)),
					))
				}
			}
		}
	}
}

// emitF3F4 asserts path-dependency ordering and the switch memory bound
// between a current-batch path node and its tree parent: the child must
// dispatch no earlier than min_switch after the parent, and strictly
// before max_switch after it (the node would otherwise overflow the
// switch's store-and-forward buffer).
func (e *Emitter) emitF3F4(b *Batch, f *formula.Formula) error {
	net := e.net
	for _, frameID := range b.Frames {
		frame := &net.Frames[frameID]
		for idx := range frame.Nodes {
			node := &frame.Nodes[idx]
			if node.Parent < 0 {
				continue
			}
			parent := &frame.Nodes[node.Parent]
			childName := offsets.OffsetName(frameID, node.LinkID, 0, 0)
			parentName := offsets.OffsetName(frameID, parent.LinkID, 0, 0)
			if !f.Declared(parentName) {
				return emissionErrorf("frame %d: parent link %d not declared before child link %d", frameID, parent.LinkID, node.LinkID)
			}
			f.Assert(formula.Geq(formula.Var(childName), formula.Add(formula.Var(parentName), formula.Lit(net.MinSwitch()))))
			f.Assert(formula.Lt(formula.Var(childName), formula.Add(formula.Var(parentName), formula.Lit(net.MaxSwitch()))))
		}
	}
	return nil
}

// emitF5 asserts simultaneous dispatch across a wired split's sibling
// links: a switch forwarding the same frame out several non-wireless
// ports does so in the same instant.
func (e *Emitter) emitF5(b *Batch, f *formula.Formula) {
	net := e.net
	for _, frameID := range b.Frames {
		frame := &net.Frames[frameID]
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
			first := offsets.OffsetName(frameID, split[0], 0, 0)
			for _, linkID := range split[1:] {
				other := offsets.OffsetName(frameID, linkID, 0, 0)
				f.Assert(formula.Eq(formula.Var(first), formula.Var(other)))
			}
		}
	}
}

// emitF6 asserts the waiting/deadline relation a frame's dependency
// declares against its predecessor's root offset, re-introducing the
// predecessor's solved value as a fixed equality the first time it is
// needed in this batch (it is never re-declared twice, since a single
// batch may have several successors sharing the same predecessor).
func (e *Emitter) emitF6(b *Batch, f *formula.Formula) error {
	net := e.net
	for _, frameID := range b.Frames {
		dep, ok := net.DependencyOfSuccessor(frameID)
		if !ok {
			continue
		}
		predNode, ok := net.PathByLink(dep.PredFrame, dep.PredLink)
		if !ok {
			return emissionErrorf("dependency: predecessor frame %d has no node for link %d", dep.PredFrame, dep.PredLink)
		}
		predName := offsets.OffsetName(dep.PredFrame, dep.PredLink, 0, 0)
		if !f.Declared(predName) {
			v, solved := predNode.Grid.Get(0, 0)
			if !solved {
				return emissionErrorf("dependency: predecessor frame %d link %d not yet solved and not in this batch", dep.PredFrame, dep.PredLink)
			}
			if !b.reintroduced[predName] {
				f.DeclareInt(predName)
				f.Assert(formula.Eq(formula.Var(predName), formula.Lit(v)))
				b.reintroduced[predName] = true
			}
		}

		succName := offsets.OffsetName(frameID, dep.SuccLink, 0, 0)
		if dep.DeadlineNs > 0 {
			f.Assert(formula.Lt(formula.Var(succName), formula.Add(formula.Var(predName), formula.Lit(dep.DeadlineNs))))
		}
		if dep.WaitingNs > 0 {
			f.Assert(formula.Gt(formula.Var(succName), formula.Add(formula.Var(predName), formula.Lit(dep.WaitingNs))))
		}
	}
	return nil
}
