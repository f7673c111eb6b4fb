package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LineSpanProcessor renders a schedule run's spans as "[->]"/"[ok]"/"[x]"
// progress lines to stderr, the same prefix convention the teacher's CLI
// uses for its own span-driven progress output — without wiring an actual
// OTel exporter, matching the teacher's NewTracerProvider() call with no
// exporter configured purely to get a working in-process trace.Tracer.
type LineSpanProcessor struct {
	out func(string)
}

// NewLineSpanProcessor returns a processor that writes lines via out.
func NewLineSpanProcessor(out func(string)) *LineSpanProcessor {
	if out == nil {
		out = func(string) {}
	}
	return &LineSpanProcessor{out: out}
}

func (p *LineSpanProcessor) OnStart(_ context.Context, span sdktrace.ReadWriteSpan) {
	if p == nil {
		return
	}
	if !span.Parent().IsValid() {
		planJSON := attributeValue(span.Attributes(), PlanJSONKey)
		if strings.TrimSpace(planJSON) == "" {
			p.out(fmt.Sprintf("[->] %s", span.Name()))
			return
		}
		var plan Plan
		if err := json.Unmarshal([]byte(planJSON), &plan); err == nil {
			p.out(fmt.Sprintf("[->] %s (%d planned step(s))", span.Name(), len(plan.Steps)))
			return
		}
	}
	p.out(fmt.Sprintf("  [->] %s", span.Name()))
}

func (p *LineSpanProcessor) OnEnd(span sdktrace.ReadOnlySpan) {
	if p == nil {
		return
	}
	status := span.Status()
	prefix := "[ok]"
	suffix := ""
	if status.Code == codes.Error {
		prefix = "[x]"
		if msg := strings.TrimSpace(status.Description); msg != "" {
			suffix = " (" + msg + ")"
		}
	}
	indent := "  "
	if !span.Parent().IsValid() {
		indent = ""
	}
	p.out(fmt.Sprintf("%s%s %s%s", indent, prefix, span.Name(), suffix))
}

func (p *LineSpanProcessor) Shutdown(context.Context) error   { return nil }
func (p *LineSpanProcessor) ForceFlush(context.Context) error { return nil }

func attributeValue(attrs []attribute.KeyValue, key string) string {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value.AsString()
		}
	}
	return ""
}
