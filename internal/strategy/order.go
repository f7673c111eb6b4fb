package strategy

import (
	"sort"

	"github.com/tollan/detsched/internal/model"
)

// naturalOrder is the frame ordering one-shot and incremental use: plain
// insertion order, the order frames appear in the parsed model.
func naturalOrder(net *model.Network) []int {
	out := make([]int, net.FrameCount())
	for i := range out {
		out[i] = i
	}
	return out
}

// segmentedOrder orders frames by effective deadline ascending, per
// spec.md §4.5: "effective_deadline = frame.deadline -
// max_waiting_in_dependency_chain". The chain's accumulated waiting is
// resolved (DESIGN.md, Open Question) as the sum of WaitingNs along the
// predecessor chain up to the dependency forest's root: a successor must
// additionally clear every ancestor's minimum wait before its own
// deadline is meaningful, so the schedulable slack shrinks by that whole
// chain, not just the immediate predecessor's.
func segmentedOrder(net *model.Network) []int {
	out := naturalOrder(net)
	eff := make([]int64, len(out))
	for _, f := range out {
		eff[f] = effectiveDeadline(net, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return eff[out[i]] < eff[out[j]]
	})
	return out
}

func effectiveDeadline(net *model.Network, frameID int) int64 {
	frame := &net.Frames[frameID]
	return frame.DeadlineNs - chainWaiting(net, frameID, make(map[int]bool))
}

func chainWaiting(net *model.Network, frameID int, visited map[int]bool) int64 {
	if visited[frameID] {
		return 0 // dependency forest: a cycle here would be a model bug, not a data structure we re-walk
	}
	visited[frameID] = true
	dep, ok := net.DependencyOfSuccessor(frameID)
	if !ok {
		return 0
	}
	return dep.WaitingNs + chainWaiting(net, dep.PredFrame, visited)
}

// slice returns the next up-to-n unscheduled frame ids from order,
// starting at cursor, and the advanced cursor.
func slice(order []int, cursor, n int) ([]int, int) {
	end := cursor + n
	if end > len(order) {
		end = len(order)
	}
	return order[cursor:end], end
}
