package organization_tools

import (
	"context"

	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

// Tools returns the organization tool descriptors.
func Tools() []common.Descriptor {
	return []common.Descriptor{
		{
			Name:        "list_organizations",
			Description: "List all Azure DevOps organizations accessible to the authenticated user",
			ReadOnly:    true,
			Handler:     common.Handle(listOrganizations),
		},
	}
}

type listOrganizationsArgs struct{}

func listOrganizations(ctx context.Context, conn common.Connection, _ listOrganizationsArgs) (any, error) {
	api, err := conn.OrganizationAPI(ctx)
	if err != nil {
		return nil, err
	}
	return api.ListOrganizations(ctx)
}
