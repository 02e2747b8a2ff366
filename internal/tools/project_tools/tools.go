package project_tools

import (
	"context"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

// Tools returns the project tool descriptors.
func Tools() []common.Descriptor {
	return []common.Descriptor{
		{
			Name:        "list_projects",
			Description: "List all projects in the Azure DevOps organization",
			ReadOnly:    true,
			Schema: common.Schema{Fields: []common.Field{
				{
					Name:        "stateFilter",
					Type:        common.TypeInteger,
					Description: "Filter on team project state (0: all, 1: well-formed, 2: creating, 3: deleting, 4: new)",
					Minimum:     common.Min(0),
				},
				{Name: "top", Type: common.TypeInteger, Description: "Maximum number of projects to return", Minimum: common.Min(0)},
				{Name: "skip", Type: common.TypeInteger, Description: "Number of projects to skip", Minimum: common.Min(0)},
				{Name: "continuationToken", Type: common.TypeInteger, Description: "Gets the projects after the continuation token provided"},
			}},
			Handler: common.Handle(listProjects),
		},
		{
			Name:        "get_project",
			Description: "Get details of a specific project",
			ReadOnly:    true,
			Schema:      common.Schema{Fields: []common.Field{common.ProjectIDField()}},
			Handler:     common.Handle(getProject),
		},
	}
}

type listProjectsArgs struct {
	StateFilter       *int `json:"stateFilter"`
	Top               *int `json:"top"`
	Skip              *int `json:"skip"`
	ContinuationToken *int `json:"continuationToken"`
}

func listProjects(ctx context.Context, conn common.Connection, args listProjectsArgs) (any, error) {
	api, err := conn.CoreAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.ListProjects(ctx, azuredevops.ListProjectsOptions{
		StateFilter:       args.StateFilter,
		Top:               args.Top,
		Skip:              args.Skip,
		ContinuationToken: args.ContinuationToken,
	})
}

type getProjectArgs struct {
	ProjectID string `json:"projectId"`
}

func getProject(ctx context.Context, conn common.Connection, args getProjectArgs) (any, error) {
	api, err := conn.CoreAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.GetProject(ctx, args.ProjectID)
}
