package constraints

import (
	"strings"
	"testing"

	"github.com/tollan/detsched/internal/model"
)

func twoFrameSharedLinkInput() model.InputNetwork {
	return model.InputNetwork{
		NumFrames:     2,
		NumLinks:      1,
		HyperPeriodNs: 10_000,
		MinSwitchNs:   0,
		MaxSwitchNs:   1_000_000,
		Links: []model.InputLink{
			{Category: "Wired", Speed: 100, Source: 0, Destination: 1},
		},
		Frames: []model.InputFrame{
			{Period: 10_000, Deadline: 10_000, Size: 125, Paths: "0"},
			{Period: 10_000, Deadline: 10_000, Size: 125, Paths: "0"},
		},
	}
}

func TestEmitF1DeclaresBaseOffsetBounds(t *testing.T) {
	net, err := model.Build(twoFrameSharedLinkInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := NewBatch([]int{0, 1}, nil, 0, net.HyperPeriod())
	f, ok, err := NewEmitter(net).Emit(b)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !ok {
		t.Fatalf("expected a satisfiable-candidate batch, got immediate unsat")
	}
	out := f.String()
	if !strings.Contains(out, "Offset_0_0_0_0") || !strings.Contains(out, "Offset_1_0_0_0") {
		t.Fatalf("expected both frames' base offsets declared, got:\n%s", out)
	}
	if b.State != StateConstraintsEmitted {
		t.Fatalf("batch state = %s, want constraints_emitted", b.State)
	}
}

func TestEmitF2AssertsContentionFreedomOnSharedLink(t *testing.T) {
	net, err := model.Build(twoFrameSharedLinkInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := NewBatch([]int{0, 1}, nil, 0, net.HyperPeriod())
	f, ok, err := NewEmitter(net).Emit(b)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	out := f.String()
	if !strings.Contains(out, "(or ") {
		t.Fatalf("expected a disjunctive contention-freedom assertion between frame 0 and 1, got:\n%s", out)
	}
}

func TestEmitF1ImmediateUnsatWhenWindowTooNarrow(t *testing.T) {
	net, err := model.Build(twoFrameSharedLinkInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Transmission time is 10000ns; a window starting at 9999 leaves no
	// room for instance 0 to finish before its 10000ns deadline.
	b := NewBatch([]int{0}, nil, 9_999, 10_000)
	_, ok, err := NewEmitter(net).Emit(b)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if ok {
		t.Fatalf("expected immediate unsat for an unschedulable window")
	}
}

func TestEmitF6AssertsDeadlineAgainstPredecessor(t *testing.T) {
	in := twoFrameSharedLinkInput()
	in.NumDependencies = 1
	in.Dependencies = []model.InputDependency{
		{PredecessorFrame: 0, PredecessorLink: 0, SuccessorFrame: 1, SuccessorLink: 0, Waiting: 0, Deadline: 500},
	}
	net, err := model.Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := NewBatch([]int{0, 1}, nil, 0, net.HyperPeriod())
	f, ok, err := NewEmitter(net).Emit(b)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if !strings.Contains(f.String(), "(< Offset_1_0_0_0 (+ Offset_0_0_0_0 500))") {
		t.Fatalf("expected F6 deadline assertion, got:\n%s", f.String())
	}
}
