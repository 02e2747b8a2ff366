package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func serverConfig() Config {
	return Config{
		ServiceName:     DefaultServiceName,
		ServiceVersion:  "1.0.0",
		Organization:    "https://dev.azure.com/contoso",
		AuthMethod:      "static-token",
		Transport:       "stdio",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	config := serverConfig()
	config.Enabled = false

	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Resource() != nil {
		t.Error("expected no resource when disabled")
	}

	// Recording against the disabled recorder must be a no-op.
	m := provider.Metrics()
	if m == nil {
		t.Fatal("expected metrics to be non-nil even when disabled")
	}
	m.RecordConnectionAttempt(context.Background(), ConnectionResultFailure, time.Second)
	m.RecordAPIRequest(context.Background(), "GET", "core", 401, time.Second)

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestNewProvider_PrometheusExporter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, serverConfig())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}
	if !provider.PrometheusEnabled() {
		t.Error("expected Prometheus export for prometheus exporter")
	}
}

func TestNewProvider_StdoutExporter(t *testing.T) {
	config := serverConfig()
	config.MetricsExporter = ExporterStdout
	config.TracingExporter = ExporterStdout

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, config)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if provider.PrometheusEnabled() {
		t.Error("expected no Prometheus export for stdout exporter")
	}
}

func TestNewProvider_RecordsConnectionAndAPIRequests(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	ctx := context.Background()

	provider, err := NewProvider(ctx, serverConfig(), WithMetricReader(reader))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if provider.PrometheusEnabled() {
		t.Error("expected the supplied reader to replace the prometheus exporter")
	}

	m := provider.Metrics()
	m.RecordConnectionAttempt(ctx, ConnectionResultFailure, 40*time.Millisecond)
	m.RecordConnectionAttempt(ctx, ConnectionResultSuccess, 30*time.Millisecond)
	m.RecordAPIRequest(ctx, "GET", "core", 401, 10*time.Millisecond)
	m.RecordAPIRequest(ctx, "GET", "core", 401, 10*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	for key, want := range map[string]string{
		string(AttrOrganization): "https://dev.azure.com/contoso",
		string(AttrAuthMethod):   "static-token",
		string(AttrTransport):    "stdio",
		"service.name":           DefaultServiceName,
	} {
		got, ok := rm.Resource.Set().Value(attribute.Key(key))
		if !ok {
			t.Errorf("resource is missing %s", key)
			continue
		}
		if got.Emit() != want {
			t.Errorf("resource %s = %q, want %q", key, got.Emit(), want)
		}
	}

	attempts := counterPoints(t, rm, "azure_devops_connection_attempts_total", "result")
	if attempts[ConnectionResultFailure] != 1 || attempts[ConnectionResultSuccess] != 1 {
		t.Errorf("unexpected connection attempts: %v", attempts)
	}

	requests := counterPoints(t, rm, "azure_devops_api_requests_total", "status")
	if requests["401"] != 2 {
		t.Errorf("unexpected API requests: %v", requests)
	}
}

func TestNewProvider_InvalidMetricsExporter(t *testing.T) {
	config := serverConfig()
	config.MetricsExporter = "invalid"

	if _, err := NewProvider(context.Background(), config); err == nil {
		t.Error("expected error for invalid metrics exporter")
	}
}

func TestNewProvider_InvalidTracingExporter(t *testing.T) {
	config := serverConfig()
	config.TracingExporter = "invalid"

	if _, err := NewProvider(context.Background(), config); err == nil {
		t.Error("expected error for invalid tracing exporter")
	}
}

func TestNewProvider_OTLPWithoutEndpoint(t *testing.T) {
	for _, config := range []Config{
		func() Config { c := serverConfig(); c.TracingExporter = ExporterOTLP; return c }(),
		func() Config { c := serverConfig(); c.MetricsExporter = ExporterOTLP; return c }(),
	} {
		if _, err := NewProvider(context.Background(), config); err == nil {
			t.Errorf("expected error for OTLP without endpoint (metrics=%s tracing=%s)", config.MetricsExporter, config.TracingExporter)
		}
	}
}

func TestProvider_Shutdown(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, serverConfig(), WithMetricReader(sdkmetric.NewManualReader()))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestProvider_Tracer_Disabled(t *testing.T) {
	config := serverConfig()
	config.Enabled = false

	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, span := provider.Tracer("test").Start(context.Background(), "list_projects")
	defer span.End()
	if span.SpanContext().IsValid() {
		t.Error("expected a no-op span when instrumentation is disabled")
	}
}

// counterPoints sums the data points of an int64 counter by one attribute.
func counterPoints(t *testing.T, rm metricdata.ResourceMetrics, name, attr string) map[string]int64 {
	t.Helper()

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is %T, want a sum", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(attribute.Key(attr))
				out[v.Emit()] += dp.Value
			}
		}
	}
	return out
}
