package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// withRecorder installs a recording tracer provider for the duration of the test.
func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithOrganization("https://dev.azure.com/contoso").
		WithProject("Fabrikam").
		WithReadOnly(true).
		Build()

	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}

	m := make(map[string]interface{})
	for _, attr := range attrs {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}

	if m[SpanAttrProject] != "Fabrikam" {
		t.Errorf("expected project 'Fabrikam', got %v", m[SpanAttrProject])
	}
	if m[SpanAttrReadOnly] != true {
		t.Errorf("expected read_only true, got %v", m[SpanAttrReadOnly])
	}
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithOrganization("").
		WithProject("").
		Build()

	if len(attrs) != 0 {
		t.Errorf("expected no attributes, got %d", len(attrs))
	}
}

func TestStartToolSpan(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartToolSpan(context.Background(), "get_project",
		NewSpanAttributeBuilder().WithProject("Fabrikam").Build()...)
	if GetTraceID(ctx) == "" {
		t.Error("expected a trace ID in the span context")
	}
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "tool.get_project" {
		t.Errorf("span name = %q, want %q", ended[0].Name(), "tool.get_project")
	}
	if ended[0].Status().Code != codes.Ok {
		t.Errorf("span status = %v, want Ok", ended[0].Status().Code)
	}
}

func TestStartAPISpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartAPISpan(context.Background(), "GET", "projects")
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "azure_devops.projects" {
		t.Errorf("span name = %q, want %q", ended[0].Name(), "azure_devops.projects")
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartConnectionSpan(context.Background(), "https://dev.azure.com/contoso")
	SetSpanError(span, errors.New("resource areas request failed"))
	SetSpanError(span, nil)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", ended[0].Status().Code)
	}
	if ended[0].Status().Description != "resource areas request failed" {
		t.Errorf("span description = %q", ended[0].Status().Description)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("expected empty trace ID, got %q", id)
	}
}
