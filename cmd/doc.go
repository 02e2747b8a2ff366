// Package cmd implements the command-line interface for azure-devops-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio, streamable HTTP or SSE
//   - check: Verify the configured credentials against the organization
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
