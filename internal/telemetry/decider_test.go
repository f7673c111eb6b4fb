package telemetry

import (
	"context"
	"testing"

	"github.com/tollan/detsched/internal/constraints/formula"
	"github.com/tollan/detsched/internal/decider"
)

type stubDecider struct{ calls int }

func (s *stubDecider) Decide(context.Context, *formula.Formula) (*decider.Decision, error) {
	s.calls++
	return &decider.Decision{Sat: true, Model: map[string]int64{}}, nil
}

func TestTracingDeciderNamesSpansSequentially(t *testing.T) {
	tracer, recorder := newTestTracer()
	op, err := EmitPlan(context.Background(), tracer, "schedule.one-shot", Plan{Steps: []PlannedStep{
		{ID: "round-1", Title: "decider round 1"},
		{ID: "round-2", Title: "decider round 2"},
	}})
	if err != nil {
		t.Fatalf("EmitPlan: %v", err)
	}

	stub := &stubDecider{}
	td := NewTracingDecider(stub, op, "round")

	for i := 0; i < 2; i++ {
		if _, err := td.Decide(op.Context(), formula.New()); err != nil {
			t.Fatalf("Decide: %v", err)
		}
	}
	op.End(nil)

	if stub.calls != 2 {
		t.Fatalf("calls = %d, want 2", stub.calls)
	}

	spans := recorder.Ended()
	if findSpanByName(spans, "round-1") == nil || findSpanByName(spans, "round-2") == nil {
		t.Fatalf("missing expected round spans: %v", spans)
	}
}
