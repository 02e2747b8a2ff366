// Package logging provides structured logging utilities for the Azure DevOps
// MCP server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "connection.get")
//	logger.Info("connected",
//	    logging.Organization(orgURL),
//	    logging.Status("success"))
//
// # Security Considerations
//
//   - Personal access tokens and bearer tokens are never logged directly;
//     SanitizeToken reports only their length
//   - Organization URLs are passed through RedactURL so embedded credentials
//     and query strings never reach the log
package logging
