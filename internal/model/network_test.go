package model

import "testing"

func twoNodeInput() InputNetwork {
	return InputNetwork{
		NumFrames:     1,
		NumLinks:      1,
		HyperPeriodNs: 10_000,
		MinSwitchNs:   0,
		MaxSwitchNs:   1,
		Links: []InputLink{
			{Category: "Wired", Speed: 100, Source: 0, Destination: 1},
		},
		Frames: []InputFrame{
			{Period: 10_000, Deadline: 10_000, Size: 125, Paths: "0"},
		},
	}
}

func TestBuildTwoNodeScenario(t *testing.T) {
	net, err := Build(twoNodeInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if net.FrameCount() != 1 {
		t.Fatalf("FrameCount() = %d, want 1", net.FrameCount())
	}

	root, ok := net.PathRoot(0)
	if !ok {
		t.Fatalf("expected frame 0 to have a root node")
	}
	if root.LinkID != 0 {
		t.Fatalf("root.LinkID = %d, want 0", root.LinkID)
	}

	// size 125 bytes at 100 Mb/s: ceil(125*8000/100) = 10000 ns.
	if root.TransmissionTimeNs != 10_000 {
		t.Fatalf("TransmissionTimeNs = %d, want 10000", root.TransmissionTimeNs)
	}
	if root.NumReplicas != 1 {
		t.Fatalf("NumReplicas = %d, want 1 (no collision domain)", root.NumReplicas)
	}
}

func TestBuildRejectsPeriodNotDividingHyperPeriod(t *testing.T) {
	in := twoNodeInput()
	in.Frames[0].Period = 3_000
	in.Frames[0].Deadline = 3_000
	if _, err := Build(in); err == nil {
		t.Fatalf("expected malformed error when period does not divide hyper_period_ns")
	}
}

func TestBuildRejectsDependencyBothZero(t *testing.T) {
	in := twoNodeInput()
	in.NumFrames = 2
	in.Frames = append(in.Frames, InputFrame{Period: 10_000, Deadline: 10_000, Size: 125, Paths: "0"})
	in.NumDependencies = 1
	in.Dependencies = []InputDependency{
		{PredecessorFrame: 0, PredecessorLink: 0, SuccessorFrame: 1, SuccessorLink: 0, Waiting: 0, Deadline: 0},
	}
	if _, err := Build(in); err == nil {
		t.Fatalf("expected malformed error for waiting=deadline=0")
	}
}

func TestBuildMergesSharedPathPrefix(t *testing.T) {
	in := InputNetwork{
		NumFrames:     1,
		NumLinks:      3,
		HyperPeriodNs: 10_000,
		MinSwitchNs:   0,
		MaxSwitchNs:   1_000_000,
		Links: []InputLink{
			{Category: "Wired", Speed: 100, Source: 0, Destination: 1},
			{Category: "Wired", Speed: 100, Source: 1, Destination: 2},
			{Category: "Wired", Speed: 100, Source: 1, Destination: 3},
		},
		Frames: []InputFrame{
			{Period: 10_000, Deadline: 10_000, Size: 125, Paths: "0,1;0,2", Splits: "1,2"},
		},
	}
	net, err := Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	nodes := net.Paths(0)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 merged path nodes, got %d", len(nodes))
	}
	splits := net.Splits(0)
	if len(splits) != 1 || len(splits[0]) != 2 {
		t.Fatalf("expected one 2-way split, got %v", splits)
	}
}

func TestBuildRejectsSensingWithoutWireless(t *testing.T) {
	in := twoNodeInput()
	period := int64(1000)
	tm := int64(10)
	in.SensingControlPeriod = &period
	in.SensingControlTime = &tm
	if _, err := Build(in); err == nil {
		t.Fatalf("expected malformed error when sensing control has no wireless links")
	}
}
