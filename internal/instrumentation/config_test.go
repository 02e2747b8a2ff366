package instrumentation

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// clearEnv unsets every variable DefaultConfig reads. Empty values count as
// unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvServiceName, EnvServiceInstanceID, EnvEnabled, EnvMetricsExporter,
		EnvTracingExporter, EnvOTLPEndpoint, EnvOTLPInsecure, EnvTraceSamplingRate,
		EnvDetailedLabels, EnvAuditEnabled, EnvAuditIncludeDetails,
		"K8S_NAMESPACE", "POD_NAMESPACE", "K8S_POD_NAME", "HOSTNAME",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)

	config := DefaultConfig()

	if config.ServiceName != DefaultServiceName {
		t.Errorf("expected ServiceName %q, got %q", DefaultServiceName, config.ServiceName)
	}
	if !config.Enabled {
		t.Error("expected Enabled to be true by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected MetricsExporter 'prometheus', got %q", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("expected TracingExporter 'none', got %q", config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("expected TraceSamplingRate 0.1, got %f", config.TraceSamplingRate)
	}
	if !config.AuditLogging.Enabled {
		t.Error("expected audit logging to be enabled by default")
	}
	if config.AuditLogging.IncludeDetails {
		t.Error("expected audit details to be excluded by default")
	}
	if config.Organization != "" || config.AuthMethod != "" || config.Transport != "" {
		t.Errorf("expected the connection identity to be left empty, got %+v", config)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvServiceName, "ado-mcp-staging")
	t.Setenv(EnvEnabled, "false")
	t.Setenv(EnvMetricsExporter, "OTLP")
	t.Setenv(EnvTracingExporter, "stdout")
	t.Setenv(EnvOTLPEndpoint, "collector:4318")
	t.Setenv(EnvOTLPInsecure, "true")
	t.Setenv(EnvTraceSamplingRate, "0.5")
	t.Setenv(EnvDetailedLabels, "1")
	t.Setenv(EnvAuditEnabled, "false")

	config := DefaultConfig()

	if config.ServiceName != "ado-mcp-staging" {
		t.Errorf("expected ServiceName 'ado-mcp-staging', got %q", config.ServiceName)
	}
	if config.Enabled {
		t.Error("expected Enabled to be false")
	}
	if config.MetricsExporter != ExporterOTLP {
		t.Errorf("expected exporter names to be lower-cased, got %q", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterStdout {
		t.Errorf("expected TracingExporter 'stdout', got %q", config.TracingExporter)
	}
	if config.OTLPEndpoint != "collector:4318" || !config.OTLPInsecure {
		t.Errorf("unexpected OTLP settings: %q insecure=%v", config.OTLPEndpoint, config.OTLPInsecure)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("expected TraceSamplingRate 0.5, got %f", config.TraceSamplingRate)
	}
	if !config.DetailedLabels {
		t.Error("expected DetailedLabels to be true")
	}
	if config.AuditLogging.Enabled {
		t.Error("expected audit logging to be disabled")
	}
}

func TestDefaultConfig_AuditIncludeDetails(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAuditIncludeDetails, "true")

	config := DefaultConfig()
	if !config.AuditLogging.IncludeDetails {
		t.Fatal("expected IncludeDetails to be true")
	}

	var buf bytes.Buffer
	logger := NewAuditLoggerWithConfig(slog.New(slog.NewJSONHandler(&buf, nil)), config.AuditLogging)
	logger.LogToolInvocation(NewToolInvocation("get_work_item").
		WithTarget("https://dev.azure.com/contoso", "Fabrikam").
		CompleteWithError("ResourceNotFound", "Work item '42' not found"))

	out := buf.String()
	if !strings.Contains(out, `"error":"Work item '42' not found"`) {
		t.Errorf("expected the error message in the audit record, got %s", out)
	}
	if !strings.Contains(out, `"organization":"https://dev.azure.com/contoso"`) {
		t.Errorf("expected the organization in the audit record, got %s", out)
	}
}

func TestDefaultConfig_AuditDetailsOmittedByDefault(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	logger := NewAuditLoggerWithConfig(slog.New(slog.NewJSONHandler(&buf, nil)), DefaultConfig().AuditLogging)
	logger.LogToolInvocation(NewToolInvocation("get_work_item").
		CompleteWithError("ResourceNotFound", "Work item '42' not found"))

	out := buf.String()
	if strings.Contains(out, "Work item '42'") {
		t.Errorf("expected the error message to be left out, got %s", out)
	}
	if !strings.Contains(out, `"error_kind":"ResourceNotFound"`) {
		t.Errorf("expected the error kind in the audit record, got %s", out)
	}
}

func TestDefaultConfig_KubernetesFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("POD_NAMESPACE", "tools")
	t.Setenv("HOSTNAME", "azure-devops-mcp-7d9f")

	config := DefaultConfig()
	if config.K8sNamespace != "tools" {
		t.Errorf("expected namespace from POD_NAMESPACE, got %q", config.K8sNamespace)
	}
	if config.K8sPodName != "azure-devops-mcp-7d9f" {
		t.Errorf("expected pod name from HOSTNAME, got %q", config.K8sPodName)
	}

	t.Setenv("K8S_NAMESPACE", "platform")
	t.Setenv("K8S_POD_NAME", "azure-devops-mcp-0")

	config = DefaultConfig()
	if config.K8sNamespace != "platform" {
		t.Errorf("expected K8S_NAMESPACE to win, got %q", config.K8sNamespace)
	}
	if config.K8sPodName != "azure-devops-mcp-0" {
		t.Errorf("expected K8S_POD_NAME to win, got %q", config.K8sPodName)
	}
}

func TestDefaultConfig_InvalidValuesKeepDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvEnabled, "not_a_bool")
	t.Setenv(EnvAuditIncludeDetails, "yes please")
	t.Setenv(EnvTraceSamplingRate, "not_a_float")

	config := DefaultConfig()
	if !config.Enabled {
		t.Error("expected Enabled to keep its default")
	}
	if config.AuditLogging.IncludeDetails {
		t.Error("expected IncludeDetails to keep its default")
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("expected TraceSamplingRate to keep its default, got %f", config.TraceSamplingRate)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errContains string
	}{
		{
			name: "valid config with prometheus",
			config: Config{
				ServiceName:     "test",
				Enabled:         true,
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterNone,
			},
		},
		{
			name: "valid config with otlp",
			config: Config{
				ServiceName:     "test",
				Enabled:         true,
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterOTLP,
				OTLPEndpoint:    "localhost:4318",
			},
		},
		{
			name:        "invalid sampling rate negative",
			config:      Config{TraceSamplingRate: -0.5},
			expectError: true,
			errContains: "sampling rate",
		},
		{
			name:        "invalid sampling rate above 1",
			config:      Config{TraceSamplingRate: 1.5},
			expectError: true,
			errContains: "sampling rate",
		},
		{
			name:        "invalid metrics exporter",
			config:      Config{MetricsExporter: "invalid"},
			expectError: true,
			errContains: "invalid metrics exporter",
		},
		{
			name:        "invalid tracing exporter",
			config:      Config{TracingExporter: "invalid"},
			expectError: true,
			errContains: "invalid tracing exporter",
		},
		{
			name:        "otlp tracing without endpoint",
			config:      Config{TracingExporter: ExporterOTLP},
			expectError: true,
			errContains: "OTLP endpoint is required",
		},
		{
			name:        "otlp metrics without endpoint",
			config:      Config{MetricsExporter: ExporterOTLP},
			expectError: true,
			errContains: "OTLP endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_ServerAttributes(t *testing.T) {
	config := Config{Organization: "https://dev.azure.com/contoso", Transport: "streamable-http"}

	attrs := config.ServerAttributes()
	if len(attrs) != 2 {
		t.Fatalf("expected empty values to be left out, got %v", attrs)
	}
	if attrs[0].Key != AttrOrganization || attrs[0].Value.AsString() != "https://dev.azure.com/contoso" {
		t.Errorf("unexpected organization attribute: %v", attrs[0])
	}
	if attrs[1].Key != AttrTransport || attrs[1].Value.AsString() != "streamable-http" {
		t.Errorf("unexpected transport attribute: %v", attrs[1])
	}

	if got := (&Config{}).ServerAttributes(); len(got) != 0 {
		t.Errorf("expected no attributes, got %v", got)
	}
}
