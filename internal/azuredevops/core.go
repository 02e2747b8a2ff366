package azuredevops

import (
	"context"
	"fmt"

	ado "github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/core"
)

// CoreClient talks to the projects endpoints.
type CoreClient struct {
	api core.Client
}

func newCoreClient(sdk *ado.Client) *CoreClient {
	return &CoreClient{api: &core.ClientImpl{Client: *sdk}}
}

// ListProjectsOptions mirrors the query parameters of the projects endpoint.
// Nil fields are not sent.
type ListProjectsOptions struct {
	StateFilter       *int
	Top               *int
	Skip              *int
	ContinuationToken *int
}

// projectStates maps the numeric filter accepted by the tool to the names
// the REST API expects.
var projectStates = map[int]core.ProjectState{
	0: core.ProjectStateValues.All,
	1: core.ProjectStateValues.WellFormed,
	2: core.ProjectStateValues.CreatePending,
	3: core.ProjectStateValues.Deleting,
	4: core.ProjectStateValues.New,
}

// ProjectStateName returns the REST name of a numeric project state filter.
func ProjectStateName(state int) (string, bool) {
	name, ok := projectStates[state]
	return string(name), ok
}

// ListProjects lists the projects of the organization.
func (c *CoreClient) ListProjects(ctx context.Context, opts ListProjectsOptions) ([]TeamProjectReference, error) {
	args := core.GetProjectsArgs{
		Top:               opts.Top,
		Skip:              opts.Skip,
		ContinuationToken: opts.ContinuationToken,
	}
	if opts.StateFilter != nil {
		state, ok := projectStates[*opts.StateFilter]
		if !ok {
			return nil, NewValidationError(fmt.Sprintf("Invalid project state filter: %d", *opts.StateFilter), nil)
		}
		args.StateFilter = &state
	}

	res, err := c.api.GetProjects(ctx, args)
	if err != nil {
		return nil, wrapError(err)
	}
	return convertList[TeamProjectReference](&res.Value)
}

// GetProject returns one project by ID or name.
func (c *CoreClient) GetProject(ctx context.Context, projectID string) (*TeamProject, error) {
	res, err := c.api.GetProject(ctx, core.GetProjectArgs{
		ProjectId:           &projectID,
		IncludeCapabilities: ptr(true),
	})
	if err != nil {
		err = wrapError(err)
		if IsKind(err, KindResourceNotFound) {
			return nil, NewResourceNotFoundError(fmt.Sprintf("Project '%s' not found", projectID))
		}
		return nil, err
	}
	return convertOne[TeamProject](res)
}
