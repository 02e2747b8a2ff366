package repository_tools

import (
	"context"

	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

// Tools returns the repository tool descriptors.
func Tools() []common.Descriptor {
	return []common.Descriptor{
		{
			Name:        "get_repository",
			Description: "Get details of a specific repository",
			ReadOnly:    true,
			Schema: common.Schema{Fields: []common.Field{
				common.ProjectIDField(),
				{Name: "repositoryId", Type: common.TypeString, Required: true, Description: "The ID or name of the repository"},
			}},
			Handler: common.Handle(getRepository),
		},
		{
			Name:        "list_repositories",
			Description: "List all repositories in a project",
			ReadOnly:    true,
			Schema: common.Schema{Fields: []common.Field{
				common.ProjectIDField(),
				{Name: "includeLinks", Type: common.TypeBoolean, Description: "Whether to include reference links"},
			}},
			Handler: common.Handle(listRepositories),
		},
	}
}

type getRepositoryArgs struct {
	ProjectID    string `json:"projectId"`
	RepositoryID string `json:"repositoryId"`
}

func getRepository(ctx context.Context, conn common.Connection, args getRepositoryArgs) (any, error) {
	git, err := conn.GitAPI(ctx)
	if err != nil {
		return nil, err
	}
	return git.GetRepository(ctx, args.ProjectID, args.RepositoryID)
}

type listRepositoriesArgs struct {
	ProjectID    string `json:"projectId"`
	IncludeLinks bool   `json:"includeLinks"`
}

func listRepositories(ctx context.Context, conn common.Connection, args listRepositoriesArgs) (any, error) {
	git, err := conn.GitAPI(ctx)
	if err != nil {
		return nil, err
	}
	return git.ListRepositories(ctx, args.ProjectID, args.IncludeLinks)
}
