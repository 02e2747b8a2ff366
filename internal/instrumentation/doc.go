// Package instrumentation provides OpenTelemetry instrumentation for the
// Azure DevOps MCP server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, connection attempts, Azure DevOps REST calls and tool invocations
//   - Distributed tracing for tool invocations and REST calls
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Azure DevOps Metrics:
//   - azure_devops_api_requests_total: Counter of REST requests by method, resource area and status
//   - azure_devops_api_request_duration_seconds: Histogram of REST request durations
//   - azure_devops_connection_attempts_total: Counter of connection attempts by result
//   - azure_devops_connection_duration_seconds: Histogram of connection attempt durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// Request paths are reduced to their resource area (ExtractArea) so project
// names and work item IDs never become label values. The organization,
// auth method and transport are resource attributes (azure_devops.organization,
// azure_devops.auth_method, mcp.transport) rather than labels.
//
// # Tracing
//
// Spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - Azure DevOps REST calls (azure_devops.<area>), through Transport
//   - Connection establishment (azure_devops.connect)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: azure-devops-mcp)
//   - K8S_NAMESPACE or POD_NAMESPACE, K8S_POD_NAME or HOSTNAME: Kubernetes resource attributes
//   - AUDIT_LOGGING_ENABLED: Write an audit line per tool call (default: true)
//   - AUDIT_LOGGING_INCLUDE_DETAILS: Log organization and error messages in audit lines
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	client := instrumentation.NewHTTPClient(provider.Metrics())
package instrumentation
