// Package workitem_tools provides MCP tools for Azure DevOps work items.
//
// Available tools:
//   - get_work_item: Get one work item by ID
//   - list_work_items: List work items from a saved query, a WIQL query or all items of a project
//   - create_work_item: Create a work item
//   - update_work_item: Update fields of an existing work item
//
// Listing resolves the matching IDs first and pages through them in memory
// (skip, then top) before fetching the items in batches.
package workitem_tools
