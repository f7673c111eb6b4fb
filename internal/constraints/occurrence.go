package constraints

import (
	"github.com/tollan/detsched/internal/constraints/formula"
	"github.com/tollan/detsched/internal/model"
	"github.com/tollan/detsched/internal/offsets"
)

// source classifies where an occurrence's offsets came from, so F2 can
// restrict the F2 pair space to F×F, F×P and F×sensing: P×P and
// P×sensing pairs were already proven disjoint when P was solved, and
// sensing×sensing slots never collide by construction (§4.3 F2).
type source int

const (
	srcCurrent source = iota
	srcPrevious
	srcSensing
)

// occurrence is one path node's (or the sensing reservation's) claim on a
// link across its instance/replica lattice, abstracted so F2 can treat
// frame transmissions and the sensing control window uniformly.
type occurrence struct {
	source         source
	linkID         int
	domainID       int // -1 if the link belongs to no collision domain
	periodNs       int64
	transmissionNs int64
	numInstances   int
	numReplicas    int
	grid           *offsets.Grid
	nameFn         func(i, r int) string
}

// ensure declares the occurrence's (i,r) variable if not already declared,
// restating it as an equality when the grid already holds a solved value
// (the previous-batch and fixed-sensing re-introduction case).
func (o occurrence) ensure(f *formula.Formula, i, r int) string {
	name := o.nameFn(i, r)
	if !f.Declared(name) {
		f.DeclareInt(name)
		if v, ok := o.grid.Get(i, r); ok {
			f.Assert(formula.Eq(formula.Var(name), formula.Lit(v)))
		}
	}
	return name
}

// instancesInWindow returns the instance indices whose nominal slot
// [i*period, (i+1)*period) overlaps the batch window.
func (o occurrence) instancesInWindow(lo, hi int64) []int {
	var out []int
	for i := 0; i < o.numInstances; i++ {
		start := int64(i) * o.periodNs
		end := start + o.periodNs
		if end > lo && start < hi {
			out = append(out, i)
		}
	}
	return out
}

// buildOccurrences enumerates every path node in the batch's current and
// previous frame sets, plus the sensing reservation if present.
func buildOccurrences(net *model.Network, b *Batch) []occurrence {
	var occs []occurrence

	add := func(frameID int, src source) {
		for _, node := range net.Paths(frameID) {
			n := node
			frame := &net.Frames[frameID]
			occs = append(occs, occurrence{
				source:         src,
				linkID:         n.LinkID,
				domainID:       n.DomainID,
				periodNs:       frame.PeriodNs,
				transmissionNs: n.TransmissionTimeNs,
				numInstances:   n.Grid.Instances(),
				numReplicas:    n.Grid.Replicas(),
				grid:           n.Grid,
				nameFn: func(i, r int) string {
					return offsets.OffsetName(frameID, n.LinkID, i, r)
				},
			})
		}
	}

	for _, frameID := range b.Frames {
		add(frameID, srcCurrent)
	}
	for _, frameID := range b.Previous {
		add(frameID, srcPrevious)
	}

	if sc, ok := net.SensingControlInfo(); ok {
		for _, linkID := range sc.Links {
			linkID := linkID
			domainID := -1
			if d, ok := net.CollisionDomainOf(linkID); ok {
				domainID = d
			}
			occs = append(occs, occurrence{
				source:         srcSensing,
				linkID:         linkID,
				domainID:       domainID,
				periodNs:       sc.PeriodNs,
				transmissionNs: sc.TimeNs,
				numInstances:   int(sc.NumInstances),
				numReplicas:    1,
				grid:           sc.GridFor(linkID),
				nameFn: func(i, r int) string {
					return offsets.SensingControlName(linkID, i)
				},
			})
		}
	}

	return occs
}
