package verify

import (
	"testing"

	"github.com/tollan/detsched/internal/model"
)

func singleLinkInput() model.InputNetwork {
	return model.InputNetwork{
		NumFrames:     1,
		NumLinks:      1,
		HyperPeriodNs: 10_000,
		MinSwitchNs:   0,
		MaxSwitchNs:   1_000_000,
		Links: []model.InputLink{
			{Category: "Wired", Speed: 100, Source: 0, Destination: 1},
		},
		Frames: []model.InputFrame{
			{Period: 10_000, Deadline: 10_000, Size: 125, Paths: "0"},
		},
	}
}

func TestVerifyAcceptsCorrectSchedule(t *testing.T) {
	net, err := model.Build(singleLinkInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root, _ := net.PathRoot(0)
	root.Grid.Set(0, 0, 0) // unique feasible offset, scenario 1 of spec.md §8

	res := Verify(net)
	if !res.OK {
		t.Fatalf("expected OK, got invariant %s: %s", res.Invariant, res.Detail)
	}
}

func TestVerifyRejectsDeadlineViolation(t *testing.T) {
	in := singleLinkInput()
	in.Frames[0].Deadline = 5_000
	net, err := model.Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root, _ := net.PathRoot(0)
	root.Grid.Set(0, 0, 5_001) // above the V3 bound period*0+deadline=5000, within the V2 bound of 10000

	res := Verify(net)
	if res.OK {
		t.Fatalf("expected verification failure")
	}
	if res.Invariant != V3Deadline {
		t.Fatalf("invariant = %s, want %s", res.Invariant, V3Deadline)
	}
}

func TestVerifyRejectsContentionOverlap(t *testing.T) {
	in := singleLinkInput()
	in.NumFrames = 2
	in.Frames = append(in.Frames, model.InputFrame{Period: 10_000, Deadline: 10_000, Size: 125, Paths: "0"})
	net, err := model.Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r0, _ := net.PathRoot(0)
	r1, _ := net.PathRoot(1)
	r0.Grid.Set(0, 0, 0)
	r1.Grid.Set(0, 0, 0) // both claim the shared link at the same instant

	res := Verify(net)
	if res.OK {
		t.Fatalf("expected contention violation")
	}
	if res.Invariant != V1ContentionFree {
		t.Fatalf("invariant = %s, want %s", res.Invariant, V1ContentionFree)
	}
}

func TestVerifyRejectsReplicaStrideMismatch(t *testing.T) {
	in := model.InputNetwork{
		NumFrames:     1,
		NumLinks:      1,
		HyperPeriodNs: 100_000,
		MinSwitchNs:   0,
		MaxSwitchNs:   1_000_000,
		ReplicaPolicy: strPtr("Spread"),
		ReplicaInterval: i64Ptr(20_000),
		Replicas:        "1",
		CollisionDomains: [][]int{{0}},
		Links: []model.InputLink{
			{Category: "Wireless", Speed: 100, Source: 0, Destination: 1},
		},
		Frames: []model.InputFrame{
			{Period: 100_000, Deadline: 100_000, Size: 125, Paths: "0"},
		},
	}
	net, err := model.Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root, _ := net.PathRoot(0)
	root.Grid.Set(0, 0, 0)
	root.Grid.Set(0, 1, 5_000) // wrong stride; should be 20000

	res := Verify(net)
	if res.OK {
		t.Fatalf("expected replica stride violation")
	}
	if res.Invariant != V4ReplicaStride {
		t.Fatalf("invariant = %s, want %s", res.Invariant, V4ReplicaStride)
	}
}

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }
