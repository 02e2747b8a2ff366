// Package tools assembles the tool registry from the tool groups.
package tools

import (
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
	"github.com/teemow/azure-devops-mcp/internal/tools/organization_tools"
	"github.com/teemow/azure-devops-mcp/internal/tools/pipeline_tools"
	"github.com/teemow/azure-devops-mcp/internal/tools/project_tools"
	"github.com/teemow/azure-devops-mcp/internal/tools/pullrequest_tools"
	"github.com/teemow/azure-devops-mcp/internal/tools/repository_tools"
	"github.com/teemow/azure-devops-mcp/internal/tools/workitem_tools"
)

// Group is the set of tools of one resource area.
type Group struct {
	Name  string
	Tools []common.Descriptor
}

// Groups returns the tool groups in registration order.
func Groups() []Group {
	return []Group{
		{Name: "Organizations", Tools: organization_tools.Tools()},
		{Name: "Projects", Tools: project_tools.Tools()},
		{Name: "Work Items", Tools: workitem_tools.Tools()},
		{Name: "Repositories", Tools: repository_tools.Tools()},
		{Name: "Pull Requests", Tools: pullrequest_tools.Tools()},
		{Name: "Pipelines", Tools: pipeline_tools.Tools()},
	}
}

// All returns every tool descriptor, grouped by resource area.
func All() []common.Descriptor {
	var all []common.Descriptor
	for _, group := range Groups() {
		all = append(all, group.Tools...)
	}
	return all
}
