// Package organization_tools provides the MCP tool that lists the Azure
// DevOps organizations the configured credential belongs to.
//
// Available tools:
//   - list_organizations: List organizations through the profile and accounts endpoints
package organization_tools
