package instrumentation

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Transport records a client span and the azure_devops_api_* metrics for
// every request it forwards to Base.
type Transport struct {
	Base    http.RoundTripper
	Metrics *Metrics
}

// NewHTTPClient returns an http.Client whose transport is instrumented with
// m. A nil m only adds spans.
func NewHTTPClient(m *Metrics) *http.Client {
	return &http.Client{Transport: &Transport{Metrics: m}}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	area := ExtractArea(req.URL.Path)
	ctx, span := StartAPISpan(req.Context(), req.Method, area)
	defer span.End()

	start := time.Now()
	resp, err := base.RoundTrip(req.WithContext(ctx))
	duration := time.Since(start)

	if err != nil {
		SetSpanError(span, err)
		t.Metrics.RecordAPIRequest(ctx, req.Method, area, 0, duration)
		return nil, err
	}

	span.SetAttributes(attribute.Int(SpanAttrHTTPStatus, resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetAttributes(attribute.String(SpanAttrStatus, StatusError))
	} else {
		SetSpanSuccess(span)
	}
	t.Metrics.RecordAPIRequest(ctx, req.Method, area, resp.StatusCode, duration)
	return resp, nil
}
