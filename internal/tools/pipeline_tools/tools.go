package pipeline_tools

import (
	"context"

	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

// defaultTop bounds list calls when top is not given.
const defaultTop = 50

// Tools returns the pipeline tool descriptors. All of them are read-only.
func Tools() []common.Descriptor {
	return []common.Descriptor{
		{
			Name:        "list_builds",
			Description: "List the most recent builds of a project",
			ReadOnly:    true,
			Schema:      topSchema("builds"),
			Handler:     common.Handle(listBuilds),
		},
		{
			Name:        "list_test_runs",
			Description: "List the most recent test runs of a project",
			ReadOnly:    true,
			Schema:      topSchema("test runs"),
			Handler:     common.Handle(listTestRuns),
		},
		{
			Name:        "list_releases",
			Description: "List the most recent classic releases of a project",
			ReadOnly:    true,
			Schema:      topSchema("releases"),
			Handler:     common.Handle(listReleases),
		},
		{
			Name:        "list_agent_pools",
			Description: "List the agent pools of the organization",
			ReadOnly:    true,
			Handler:     common.Handle(listAgentPools),
		},
		{
			Name:        "list_plan_timelines",
			Description: "List the timelines of an orchestration plan",
			ReadOnly:    true,
			Schema: common.Schema{Fields: []common.Field{
				common.ProjectIDField(),
				{Name: "hubName", Type: common.TypeString, Required: true, Description: "The plan hub", Enum: []string{"build", "release"}},
				{Name: "planId", Type: common.TypeString, Required: true, Description: "The ID of the plan"},
			}},
			Handler: common.Handle(listTimelines),
		},
	}
}

func topSchema(what string) common.Schema {
	return common.Schema{Fields: []common.Field{
		common.ProjectIDField(),
		{Name: "top", Type: common.TypeInteger, Description: "Maximum number of " + what + " to return", Minimum: common.Min(1)},
	}}
}

type topArgs struct {
	ProjectID string `json:"projectId"`
	Top       int    `json:"top"`
}

func (a topArgs) limit() int {
	if a.Top <= 0 {
		return defaultTop
	}
	return a.Top
}

func listBuilds(ctx context.Context, conn common.Connection, args topArgs) (any, error) {
	api, err := conn.BuildAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.ListBuilds(ctx, args.ProjectID, args.limit())
}

func listTestRuns(ctx context.Context, conn common.Connection, args topArgs) (any, error) {
	api, err := conn.TestAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.ListTestRuns(ctx, args.ProjectID, args.limit())
}

func listReleases(ctx context.Context, conn common.Connection, args topArgs) (any, error) {
	api, err := conn.ReleaseAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.ListReleases(ctx, args.ProjectID, args.limit())
}

func listAgentPools(ctx context.Context, conn common.Connection, _ struct{}) (any, error) {
	api, err := conn.TaskAgentAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.ListAgentPools(ctx)
}

type timelinesArgs struct {
	ProjectID string `json:"projectId"`
	HubName   string `json:"hubName"`
	PlanID    string `json:"planId"`
}

func listTimelines(ctx context.Context, conn common.Connection, args timelinesArgs) (any, error) {
	api, err := conn.TaskAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.ListTimelines(ctx, args.ProjectID, args.HubName, args.PlanID)
}
