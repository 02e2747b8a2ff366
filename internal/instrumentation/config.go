package instrumentation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
)

// Environment variables read by DefaultConfig.
const (
	EnvServiceName         = "OTEL_SERVICE_NAME"
	EnvServiceInstanceID   = "OTEL_SERVICE_INSTANCE_ID"
	EnvEnabled             = "INSTRUMENTATION_ENABLED"
	EnvMetricsExporter     = "METRICS_EXPORTER"
	EnvTracingExporter     = "TRACING_EXPORTER"
	EnvOTLPEndpoint        = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPInsecure        = "OTEL_EXPORTER_OTLP_INSECURE"
	EnvTraceSamplingRate   = "OTEL_TRACES_SAMPLER_ARG"
	EnvDetailedLabels      = "METRICS_DETAILED_LABELS"
	EnvAuditEnabled        = "AUDIT_LOGGING_ENABLED"
	EnvAuditIncludeDetails = "AUDIT_LOGGING_INCLUDE_DETAILS"
)

const defaultTraceSamplingRate = 0.1

// Resource attribute keys describing the organization this process serves.
const (
	AttrOrganization = attribute.Key("azure_devops.organization")
	AttrAuthMethod   = attribute.Key("azure_devops.auth_method")
	AttrTransport    = attribute.Key("mcp.transport")
)

// Config controls metrics, tracing and audit logging.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// ServiceInstanceID defaults to the hostname, which is the pod name in
	// Kubernetes.
	ServiceInstanceID string
	K8sNamespace      string
	K8sPodName        string

	// Organization is the redacted organization URL. Together with
	// AuthMethod and Transport it is attached to the resource, so series and
	// spans carry it without a per-sample label.
	Organization string
	AuthMethod   string
	Transport    string

	// Enabled is false when INSTRUMENTATION_ENABLED=false. Tool calls and
	// connection attempts are then neither counted nor traced.
	Enabled bool

	// MetricsExporter is prometheus, otlp or stdout.
	MetricsExporter string

	// TracingExporter is otlp, stdout or none.
	TracingExporter string

	// OTLPEndpoint is host:port without a scheme.
	OTLPEndpoint string

	// OTLPInsecure disables TLS towards the collector. Spans name projects
	// and repositories, so keep it off outside local development.
	OTLPInsecure bool

	// TraceSamplingRate is the parent-based ratio, 0.0 to 1.0.
	TraceSamplingRate float64

	// DetailedLabels adds the project argument to tool metrics.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the tool call audit trail.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludeDetails adds the organization URL and error messages to audit
	// records. Error messages returned by Azure DevOps can quote work item
	// content.
	IncludeDetails bool
}

// DefaultConfig reads the instrumentation settings from the environment.
// The connection identity fields are left for the caller to fill in.
func DefaultConfig() Config {
	return loadConfig(newEnv())
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	// The first variable that is set wins.
	_ = v.BindEnv("k8s_namespace", "K8S_NAMESPACE", "POD_NAMESPACE")
	_ = v.BindEnv("k8s_pod_name", "K8S_POD_NAME", "HOSTNAME")

	v.SetDefault(EnvServiceName, DefaultServiceName)
	v.SetDefault(EnvMetricsExporter, ExporterPrometheus)
	v.SetDefault(EnvTracingExporter, ExporterNone)
	return v
}

func loadConfig(v *viper.Viper) Config {
	return Config{
		ServiceName:       v.GetString(EnvServiceName),
		ServiceVersion:    "unknown",
		ServiceInstanceID: v.GetString(EnvServiceInstanceID),
		K8sNamespace:      v.GetString("k8s_namespace"),
		K8sPodName:        v.GetString("k8s_pod_name"),
		Enabled:           boolSetting(v, EnvEnabled, true),
		MetricsExporter:   strings.ToLower(v.GetString(EnvMetricsExporter)),
		TracingExporter:   strings.ToLower(v.GetString(EnvTracingExporter)),
		OTLPEndpoint:      v.GetString(EnvOTLPEndpoint),
		OTLPInsecure:      boolSetting(v, EnvOTLPInsecure, false),
		TraceSamplingRate: floatSetting(v, EnvTraceSamplingRate, defaultTraceSamplingRate),
		DetailedLabels:    boolSetting(v, EnvDetailedLabels, false),
		AuditLogging: AuditLoggingConfig{
			Enabled:        boolSetting(v, EnvAuditEnabled, true),
			IncludeDetails: boolSetting(v, EnvAuditIncludeDetails, false),
		},
	}
}

// boolSetting keeps def when the variable is unset or not a boolean.
func boolSetting(v *viper.Viper, key string, def bool) bool {
	raw := v.GetString(key)
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return parsed
}

// floatSetting keeps def when the variable is unset or not a number.
func floatSetting(v *viper.Viper, key string, def float64) float64 {
	raw := v.GetString(key)
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return parsed
}

// Validate rejects exporter settings that NewProvider cannot honour.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.OTLPEndpoint == "" {
		if c.TracingExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
		if c.MetricsExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
	}
	return nil
}

// ServerAttributes returns the resource attributes that identify the
// organization, credential kind and transport of this process. Empty values
// are left out.
func (c *Config) ServerAttributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if c.Organization != "" {
		attrs = append(attrs, AttrOrganization.String(c.Organization))
	}
	if c.AuthMethod != "" {
		attrs = append(attrs, AttrAuthMethod.String(c.AuthMethod))
	}
	if c.Transport != "" {
		attrs = append(attrs, AttrTransport.String(c.Transport))
	}
	return attrs
}

// Label values and defaults.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	ConnectionResultSuccess = "success"
	ConnectionResultFailure = "failure"

	// DefaultServiceName is reported as service.name.
	DefaultServiceName = "azure-devops-mcp"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	DefaultMetricInterval = 10 * time.Second
)
