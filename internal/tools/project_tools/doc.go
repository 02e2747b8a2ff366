// Package project_tools provides MCP tools for Azure DevOps projects.
//
// Available tools:
//   - list_projects: List the projects of the organization
//   - get_project: Get one project by ID or name
package project_tools
