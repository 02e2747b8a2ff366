// Package server provides the runtime around the MCP server: the shared
// server context, health endpoints, the streamable HTTP transport and the
// dedicated metrics server.
//
// # Key Components
//
// ServerContext owns the connection manager and the instrumentation hooks
// every tool call uses. It is created once per process.
//
// HealthChecker serves the Kubernetes probes. Readiness reflects the state of
// the Azure DevOps connection: a failed connection attempt makes the server
// not ready until a later attempt succeeds.
//
// HTTPServer exposes the MCP endpoint over streamable HTTP or SSE together with the
// health endpoints. Every request is counted in http_requests_total.
//
// MetricsServer serves /metrics on its own port so operational data is not
// reachable through the MCP endpoint.
package server
