package project_tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
	"github.com/teemow/azure-devops-mcp/internal/tools/tooltest"
)

type fakeCore struct {
	projects []azuredevops.TeamProjectReference
	project  *azuredevops.TeamProject
	err      error

	gotOpts    azuredevops.ListProjectsOptions
	gotProject string
}

func (f *fakeCore) ListProjects(_ context.Context, opts azuredevops.ListProjectsOptions) ([]azuredevops.TeamProjectReference, error) {
	f.gotOpts = opts
	return f.projects, f.err
}

func (f *fakeCore) GetProject(_ context.Context, projectID string) (*azuredevops.TeamProject, error) {
	f.gotProject = projectID
	return f.project, f.err
}

func tool(t *testing.T, name string) common.Descriptor {
	t.Helper()
	for _, d := range Tools() {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("tool %s not found", name)
	return common.Descriptor{}
}

func TestTools(t *testing.T) {
	names := []string{}
	for _, d := range Tools() {
		names = append(names, d.Name)
		assert.True(t, d.ReadOnly, d.Name)
	}
	assert.Equal(t, []string{"list_projects", "get_project"}, names)

	f, ok := tool(t, "get_project").Schema.Field("projectId")
	require.True(t, ok)
	assert.True(t, f.Required)
}

func TestListProjects_PassesOptions(t *testing.T) {
	core := &fakeCore{projects: []azuredevops.TeamProjectReference{{ID: "p1", Name: "Project 1"}}}
	conn := &tooltest.Connection{Core: core}

	out, err := tool(t, "list_projects").Handler(context.Background(), conn, map[string]any{
		"stateFilter": 1,
		"top":         10,
	})
	require.NoError(t, err)
	assert.Equal(t, core.projects, out)

	require.NotNil(t, core.gotOpts.StateFilter)
	assert.Equal(t, 1, *core.gotOpts.StateFilter)
	require.NotNil(t, core.gotOpts.Top)
	assert.Equal(t, 10, *core.gotOpts.Top)
	assert.Nil(t, core.gotOpts.Skip)
	assert.Nil(t, core.gotOpts.ContinuationToken)
}

func TestGetProject(t *testing.T) {
	project := &azuredevops.TeamProject{TeamProjectReference: azuredevops.TeamProjectReference{ID: "p1", Name: "Fabrikam"}}
	core := &fakeCore{project: project}

	out, err := tool(t, "get_project").Handler(context.Background(), &tooltest.Connection{Core: core},
		map[string]any{"projectId": "Fabrikam"})
	require.NoError(t, err)
	assert.Equal(t, project, out)
	assert.Equal(t, "Fabrikam", core.gotProject)
}

func TestGetProject_NotFound(t *testing.T) {
	core := &fakeCore{err: azuredevops.NewResourceNotFoundError("Project 'nope' not found")}

	_, err := tool(t, "get_project").Handler(context.Background(), &tooltest.Connection{Core: core},
		map[string]any{"projectId": "nope"})
	assert.True(t, azuredevops.IsKind(err, azuredevops.KindResourceNotFound))
}
