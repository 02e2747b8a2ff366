package repository_tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
	"github.com/teemow/azure-devops-mcp/internal/tools/tooltest"
)

// fakeGit implements only the repository calls; the rest panic through the
// nil embedded interface.
type fakeGit struct {
	azuredevops.GitAPI

	repo  *azuredevops.GitRepository
	repos []azuredevops.GitRepository
	err   error

	gotProject      string
	gotRepository   string
	gotIncludeLinks bool
}

func (f *fakeGit) GetRepository(_ context.Context, project, repositoryID string) (*azuredevops.GitRepository, error) {
	f.gotProject, f.gotRepository = project, repositoryID
	return f.repo, f.err
}

func (f *fakeGit) ListRepositories(_ context.Context, project string, includeLinks bool) ([]azuredevops.GitRepository, error) {
	f.gotProject, f.gotIncludeLinks = project, includeLinks
	return f.repos, f.err
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

func TestGetRepository(t *testing.T) {
	git := &fakeGit{repo: &azuredevops.GitRepository{ID: "r1", Name: "web"}}
	conn := &tooltest.Connection{Git: git}

	out, err := tool(t, "get_repository").Handler(context.Background(), conn, map[string]any{
		"projectId":    "Fabrikam",
		"repositoryId": "web",
	})
	require.NoError(t, err)
	assert.Equal(t, git.repo, out)
	assert.Equal(t, "Fabrikam", git.gotProject)
	assert.Equal(t, "web", git.gotRepository)
}

func TestGetRepository_NotFound(t *testing.T) {
	git := &fakeGit{err: azuredevops.NewResourceNotFoundError("Repository 'web' not found")}
	conn := &tooltest.Connection{Git: git}

	_, err := tool(t, "get_repository").Handler(context.Background(), conn, map[string]any{
		"projectId":    "Fabrikam",
		"repositoryId": "web",
	})
	require.Error(t, err)
	assert.True(t, azuredevops.IsKind(err, azuredevops.KindResourceNotFound))
}

func TestListRepositories(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		wantLinks bool
	}{
		{name: "default", args: map[string]any{"projectId": "Fabrikam"}},
		{name: "with links", args: map[string]any{"projectId": "Fabrikam", "includeLinks": true}, wantLinks: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			git := &fakeGit{repos: []azuredevops.GitRepository{{ID: "r1"}, {ID: "r2"}}}
			conn := &tooltest.Connection{Git: git}

			out, err := tool(t, "list_repositories").Handler(context.Background(), conn, tt.args)
			require.NoError(t, err)
			assert.Equal(t, git.repos, out)
			assert.Equal(t, tt.wantLinks, git.gotIncludeLinks)
		})
	}
}

func TestRepositoryTools_NoGitClient(t *testing.T) {
	_, err := tool(t, "list_repositories").Handler(context.Background(), &tooltest.Connection{}, map[string]any{"projectId": "Fabrikam"})
	require.Error(t, err)
	assert.Equal(t, "Failed to get Git API: not configured", err.Error())
}
