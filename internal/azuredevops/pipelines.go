package azuredevops

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	ado "github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/build"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/release"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/task"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/taskagent"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/test"
)

// BuildClient talks to the build endpoints.
type BuildClient struct {
	api build.Client
}

func newBuildClient(sdk *ado.Client) *BuildClient {
	return &BuildClient{api: &build.ClientImpl{Client: *sdk}}
}

// ListBuilds returns the most recent builds of a project.
func (c *BuildClient) ListBuilds(ctx context.Context, project string, top int) ([]Build, error) {
	res, err := c.api.GetBuilds(ctx, build.GetBuildsArgs{
		Project: &project,
		Top:     optional(top),
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertList[Build](&res.Value)
}

// TestClient talks to the test run endpoints.
type TestClient struct {
	api test.Client
}

func newTestClient(sdk *ado.Client) *TestClient {
	return &TestClient{api: &test.ClientImpl{Client: *sdk}}
}

// ListTestRuns returns the test runs of a project.
func (c *TestClient) ListTestRuns(ctx context.Context, project string, top int) ([]TestRun, error) {
	res, err := c.api.GetTestRuns(ctx, test.GetTestRunsArgs{
		Project: &project,
		Top:     optional(top),
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertList[TestRun](res)
}

// ReleaseClient talks to the release management service.
type ReleaseClient struct {
	api release.Client
}

func newReleaseClient(sdk *ado.Client) *ReleaseClient {
	return &ReleaseClient{api: &release.ClientImpl{Client: *sdk}}
}

// ListReleases returns the most recent releases of a project.
func (c *ReleaseClient) ListReleases(ctx context.Context, project string, top int) ([]Release, error) {
	res, err := c.api.GetReleases(ctx, release.GetReleasesArgs{
		Project: &project,
		Top:     optional(top),
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertList[Release](&res.Value)
}

// TaskAgentClient talks to the agent pool endpoints.
type TaskAgentClient struct {
	api taskagent.Client
}

func newTaskAgentClient(sdk *ado.Client) *TaskAgentClient {
	return &TaskAgentClient{api: &taskagent.ClientImpl{Client: *sdk}}
}

// ListAgentPools returns the agent pools of the organization.
func (c *TaskAgentClient) ListAgentPools(ctx context.Context) ([]TaskAgentPool, error) {
	res, err := c.api.GetAgentPools(ctx, taskagent.GetAgentPoolsArgs{})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertList[TaskAgentPool](res)
}

// TaskClient talks to the orchestration plan endpoints.
type TaskClient struct {
	api  task.Client
	core CoreAPI
}

func newTaskClient(sdk *ado.Client, core CoreAPI) *TaskClient {
	return &TaskClient{api: &task.ClientImpl{Client: *sdk}, core: core}
}

// ListTimelines returns the timelines of an orchestration plan. hubName is
// "build" or "release". project may be a name or an ID.
func (c *TaskClient) ListTimelines(ctx context.Context, project, hubName, planID string) ([]Timeline, error) {
	plan, err := uuid.Parse(planID)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("Plan ID must be a GUID: %s", planID), nil)
	}
	scope, err := c.projectID(ctx, project)
	if err != nil {
		return nil, err
	}

	res, err := c.api.GetTimelines(ctx, task.GetTimelinesArgs{
		ScopeIdentifier: &scope,
		HubName:         &hubName,
		PlanId:          &plan,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertList[Timeline](res)
}

func (c *TaskClient) projectID(ctx context.Context, project string) (uuid.UUID, error) {
	if id, err := uuid.Parse(project); err == nil {
		return id, nil
	}
	p, err := c.core.GetProject(ctx, project)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return uuid.Nil, NewGenericError(fmt.Sprintf("Project '%s' has no usable ID", project)).withCause(err)
	}
	return id, nil
}
