// Package pipeline_tools provides MCP tools for Azure DevOps builds, test
// runs, releases, agent pools and orchestration plans.
package pipeline_tools
