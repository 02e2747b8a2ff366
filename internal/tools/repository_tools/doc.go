// Package repository_tools provides MCP tools for Azure DevOps Git
// repositories.
//
// Available tools:
//   - get_repository: Get one repository of a project
//   - list_repositories: List the repositories of a project
package repository_tools
