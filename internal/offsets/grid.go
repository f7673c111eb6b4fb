// Package offsets implements the offset store (C2): the mutable
// (instance x replica) integer grid attached to every path node, plus the
// stable variable-naming convention the constraint emitter and decider
// gateway share to identify a grid cell.
package offsets

import "fmt"

// Grid is a dense instances x replicas matrix of optional integers. The
// zero value of a cell is "unassigned"; Set/Get track assignment
// explicitly rather than relying on a sentinel integer, since negative
// offsets are not meaningful but zero is a legitimate offset.
type Grid struct {
	instances int
	replicas  int
	values    []int64
	assigned  []bool
}

// NewGrid allocates a grid with every cell unassigned.
func NewGrid(instances, replicas int) *Grid {
	if instances <= 0 || replicas <= 0 {
		panic(fmt.Sprintf("offsets: invalid grid shape %dx%d", instances, replicas))
	}
	n := instances * replicas
	return &Grid{
		instances: instances,
		replicas:  replicas,
		values:    make([]int64, n),
		assigned:  make([]bool, n),
	}
}

// Instances returns the number of instances (i range) this grid covers.
func (g *Grid) Instances() int { return g.instances }

// Replicas returns the number of replicas (r range) this grid covers.
func (g *Grid) Replicas() int { return g.replicas }

func (g *Grid) index(i, r int) int {
	if i < 0 || i >= g.instances || r < 0 || r >= g.replicas {
		panic(fmt.Sprintf("offsets: index (%d,%d) out of bounds for %dx%d grid", i, r, g.instances, g.replicas))
	}
	return i*g.replicas + r
}

// Get returns the assigned offset at (i, r), or (0, false) if unassigned.
func (g *Grid) Get(i, r int) (int64, bool) {
	idx := g.index(i, r)
	return g.values[idx], g.assigned[idx]
}

// Set records the solved offset at (i, r).
func (g *Grid) Set(i, r int, v int64) {
	idx := g.index(i, r)
	g.values[idx] = v
	g.assigned[idx] = true
}

// Unset clears a cell back to unassigned.
func (g *Grid) Unset(i, r int) {
	idx := g.index(i, r)
	g.values[idx] = 0
	g.assigned[idx] = false
}

// AllAssigned reports whether every cell of the grid has a solved value.
func (g *Grid) AllAssigned() bool {
	for _, ok := range g.assigned {
		if !ok {
			return false
		}
	}
	return true
}

// OffsetName returns the stable decision-variable name for a frame/link
// path node at (instance, replica), per the wire convention
// "Offset_<frame>_<link>_<i>_<r>".
func OffsetName(frameID, linkID, i, r int) string {
	return fmt.Sprintf("Offset_%d_%d_%d_%d", frameID, linkID, i, r)
}

// SensingControlName returns the stable variable name for the
// sensing-and-control pseudo-frame's offset on a link at instance i,
// per the wire convention "Sensing_Control_<link>_<i>".
func SensingControlName(linkID, i int) string {
	return fmt.Sprintf("Sensing_Control_%d_%d", linkID, i)
}

// ParseOffsetName decodes an "Offset_<frame>_<link>_<i>_<r>" name back into
// its four coordinates, the inverse of OffsetName. It is how the decider
// gateway's returned model (named only by convention, per spec.md §4.4) is
// routed back to the path node and grid cell it belongs to.
func ParseOffsetName(name string) (frameID, linkID, i, r int, ok bool) {
	var n int
	got, err := fmt.Sscanf(name, "Offset_%d_%d_%d_%d%n", &frameID, &linkID, &i, &r, &n)
	if err != nil || got != 4 || n != len(name) {
		return 0, 0, 0, 0, false
	}
	return frameID, linkID, i, r, true
}

// ParseSensingControlName decodes a "Sensing_Control_<link>_<i>" name back
// into its coordinates, the inverse of SensingControlName.
func ParseSensingControlName(name string) (linkID, i int, ok bool) {
	var n int
	got, err := fmt.Sscanf(name, "Sensing_Control_%d_%d%n", &linkID, &i, &n)
	if err != nil || got != 2 || n != len(name) {
		return 0, 0, false
	}
	return linkID, i, true
}
