package cmdutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tollan/detsched/internal/model"
)

func TestLoadNetworkParsesInputDocument(t *testing.T) {
	in := model.InputNetwork{
		NumFrames:     1,
		NumLinks:      1,
		HyperPeriodNs: 10_000,
		MaxSwitchNs:   1_000_000,
		Links: []model.InputLink{
			{Category: "Wired", Speed: 100, Source: 0, Destination: 1},
		},
		Frames: []model.InputFrame{
			{Period: 10_000, Deadline: 10_000, Size: 125, Paths: "0"},
		},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "network.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	net, err := LoadNetwork(path)
	if err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}
	if net.FrameCount() != 1 {
		t.Fatalf("FrameCount() = %d, want 1", net.FrameCount())
	}
}

func TestWriteScheduleRoundTrips(t *testing.T) {
	net, err := model.Build(model.InputNetwork{
		NumFrames:     1,
		NumLinks:      1,
		HyperPeriodNs: 10_000,
		MaxSwitchNs:   1_000_000,
		Links: []model.InputLink{
			{Category: "Wired", Speed: 100, Source: 0, Destination: 1},
		},
		Frames: []model.InputFrame{
			{Period: 10_000, Deadline: 10_000, Size: 125, Paths: "0"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	node, _ := net.PathByLink(0, 0)
	node.Grid.Set(0, 0, 7)

	path := filepath.Join(t.TempDir(), "schedule.json")
	if err := WriteSchedule(path, net); err != nil {
		t.Fatalf("WriteSchedule: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var records []model.OffsetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(records) != 1 || records[0].OffsetNs != 7 {
		t.Fatalf("records = %+v", records)
	}
}
