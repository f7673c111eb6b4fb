package offsets

import "testing"

func TestGridGetSetRoundTrip(t *testing.T) {
	g := NewGrid(3, 2)

	if _, ok := g.Get(0, 0); ok {
		t.Fatalf("expected fresh grid cell to be unassigned")
	}

	g.Set(1, 1, 42)
	v, ok := g.Get(1, 1)
	if !ok || v != 42 {
		t.Fatalf("Get(1,1) = (%d, %v), want (42, true)", v, ok)
	}

	if _, ok := g.Get(0, 1); ok {
		t.Fatalf("unrelated cell should remain unassigned")
	}
}

func TestGridAllAssigned(t *testing.T) {
	g := NewGrid(2, 2)
	if g.AllAssigned() {
		t.Fatalf("empty grid should not report AllAssigned")
	}
	g.Set(0, 0, 0)
	g.Set(0, 1, 0)
	g.Set(1, 0, 0)
	g.Set(1, 1, 0)
	if !g.AllAssigned() {
		t.Fatalf("fully populated grid should report AllAssigned")
	}
}

func TestGridIndexOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-bounds access")
		}
	}()
	g := NewGrid(1, 1)
	g.Set(1, 0, 1)
}

func TestOffsetNameConvention(t *testing.T) {
	got := OffsetName(3, 7, 2, 1)
	want := "Offset_3_7_2_1"
	if got != want {
		t.Fatalf("OffsetName() = %q, want %q", got, want)
	}
}

func TestSensingControlNameConvention(t *testing.T) {
	got := SensingControlName(7, 4)
	want := "Sensing_Control_7_4"
	if got != want {
		t.Fatalf("SensingControlName() = %q, want %q", got, want)
	}
}
