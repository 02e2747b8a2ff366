// Package resources provides MCP resources for exposing connection data.
// Resources are read-only data sources that MCP clients can fetch without
// calling a tool:
//
//   - azure-devops://connection reports the state of the shared connection
//     without establishing it.
//   - azure-devops://projects lists the projects of the organization,
//     connecting on first use.
package resources
