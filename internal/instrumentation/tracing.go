package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the server.
const TracerName = "github.com/teemow/azure-devops-mcp"

// Span attribute keys for operations.
const (
	// SpanAttrTool is the MCP tool name attribute.
	SpanAttrTool = "mcp.tool"

	// SpanAttrReadOnly indicates if the tool only reads.
	SpanAttrReadOnly = "mcp.read_only"

	// SpanAttrStatus is the operation status attribute.
	SpanAttrStatus = "mcp.status"

	// SpanAttrErrorKind is the error kind of a failed tool call.
	SpanAttrErrorKind = "mcp.error_kind"

	// SpanAttrOrganization is the organization URL attribute.
	SpanAttrOrganization = "azure_devops.organization"

	// SpanAttrProject is the project attribute.
	SpanAttrProject = "azure_devops.project"

	// SpanAttrArea is the REST resource area attribute.
	SpanAttrArea = "azure_devops.area"

	// SpanAttrHTTPMethod is the HTTP method of a REST call.
	SpanAttrHTTPMethod = "http.request.method"

	// SpanAttrHTTPStatus is the HTTP status of a REST call.
	SpanAttrHTTPStatus = "http.response.status_code"
)

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 6),
	}
}

// WithOrganization adds the organization attribute.
func (b *SpanAttributeBuilder) WithOrganization(org string) *SpanAttributeBuilder {
	if org != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrOrganization, org))
	}
	return b
}

// WithProject adds the project attribute.
func (b *SpanAttributeBuilder) WithProject(project string) *SpanAttributeBuilder {
	if project != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrProject, project))
	}
	return b
}

// WithReadOnly adds the read-only indicator attribute.
func (b *SpanAttributeBuilder) WithReadOnly(readOnly bool) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Bool(SpanAttrReadOnly, readOnly))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartToolSpan starts a span for an MCP tool invocation.
// Automatically adds tool name and sets appropriate span kind.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartAPISpan starts a client span for one Azure DevOps REST request.
func StartAPISpan(ctx context.Context, method, area string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "azure_devops."+area,
		trace.WithAttributes(
			attribute.String(SpanAttrHTTPMethod, method),
			attribute.String(SpanAttrArea, area),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// StartConnectionSpan starts a span covering credential resolution and the
// connection probe.
func StartConnectionSpan(ctx context.Context, organization string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "azure_devops.connect",
		trace.WithAttributes(attribute.String(SpanAttrOrganization, organization)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
