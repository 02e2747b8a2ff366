package pullrequest_tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
	"github.com/teemow/azure-devops-mcp/internal/tools/tooltest"
)

type fakeGit struct {
	azuredevops.GitAPI

	pr         *azuredevops.GitPullRequest
	prs        []azuredevops.GitPullRequest
	threads    []azuredevops.CommentThread
	thread     *azuredevops.CommentThread
	comment    *azuredevops.Comment
	iterations []azuredevops.PullRequestIteration
	changes    *azuredevops.IterationChanges
	err        error

	gotProject     string
	gotRepository  string
	gotPR          int
	gotCriteria    azuredevops.PullRequestSearchCriteria
	gotThread      azuredevops.CommentThread
	gotThreadID    int
	gotCommentID   int
	gotContent     string
	gotIteration   int
	gotCompareTo   *int
	changesFetched bool
}

func (f *fakeGit) GetPullRequest(_ context.Context, project, repositoryID string, pullRequestID int) (*azuredevops.GitPullRequest, error) {
	f.gotProject, f.gotRepository, f.gotPR = project, repositoryID, pullRequestID
	return f.pr, f.err
}

func (f *fakeGit) ListPullRequests(_ context.Context, project, repositoryID string, criteria azuredevops.PullRequestSearchCriteria) ([]azuredevops.GitPullRequest, error) {
	f.gotProject, f.gotRepository, f.gotCriteria = project, repositoryID, criteria
	return f.prs, f.err
}

func (f *fakeGit) ListThreads(_ context.Context, project, repositoryID string, pullRequestID int) ([]azuredevops.CommentThread, error) {
	f.gotPR = pullRequestID
	return f.threads, f.err
}

func (f *fakeGit) CreateThread(_ context.Context, project, repositoryID string, pullRequestID int, thread azuredevops.CommentThread) (*azuredevops.CommentThread, error) {
	f.gotPR, f.gotThread = pullRequestID, thread
	return f.thread, f.err
}

func (f *fakeGit) UpdateThread(_ context.Context, project, repositoryID string, pullRequestID, threadID int, thread azuredevops.CommentThread) (*azuredevops.CommentThread, error) {
	f.gotPR, f.gotThreadID, f.gotThread = pullRequestID, threadID, thread
	return f.thread, f.err
}

func (f *fakeGit) UpdateComment(_ context.Context, project, repositoryID string, pullRequestID, threadID, commentID int, content string) (*azuredevops.Comment, error) {
	f.gotPR, f.gotThreadID, f.gotCommentID, f.gotContent = pullRequestID, threadID, commentID, content
	return f.comment, f.err
}

func (f *fakeGit) ListIterations(_ context.Context, project, repositoryID string, pullRequestID int) ([]azuredevops.PullRequestIteration, error) {
	return f.iterations, f.err
}

func (f *fakeGit) GetIterationChanges(_ context.Context, project, repositoryID string, pullRequestID, iterationID int, compareTo *int) (*azuredevops.IterationChanges, error) {
	f.changesFetched = true
	f.gotIteration, f.gotCompareTo = iterationID, compareTo
	return f.changes, f.err
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

func call(t *testing.T, git *fakeGit, name string, extra map[string]any) (any, error) {
	t.Helper()
	args := map[string]any{
		"projectId":     "Fabrikam",
		"repositoryId":  "web",
		"pullRequestId": 12,
	}
	for k, v := range extra {
		args[k] = v
	}
	return tool(t, name).Handler(context.Background(), &tooltest.Connection{Git: git}, args)
}

func TestTools_ScopedByPullRequest(t *testing.T) {
	for _, d := range Tools() {
		if d.Name == "list_pull_requests" {
			continue
		}
		for _, name := range []string{"projectId", "repositoryId", "pullRequestId"} {
			f, ok := d.Schema.Field(name)
			require.True(t, ok, "%s.%s", d.Name, name)
			assert.True(t, f.Required, "%s.%s", d.Name, name)
		}
	}

	status, ok := tool(t, "update_pr_thread_status").Schema.Field("status")
	require.True(t, ok)
	assert.Equal(t, []string{"active", "fixed", "wontfix", "closed", "pending"}, status.Enum)
}

func TestGetPullRequest(t *testing.T) {
	git := &fakeGit{pr: &azuredevops.GitPullRequest{PullRequestID: 12, Title: "Fix login"}}

	out, err := call(t, git, "get_pull_request", nil)
	require.NoError(t, err)
	assert.Equal(t, git.pr, out)
	assert.Equal(t, "Fabrikam", git.gotProject)
	assert.Equal(t, "web", git.gotRepository)
	assert.Equal(t, 12, git.gotPR)
}

func TestListPullRequests_Criteria(t *testing.T) {
	git := &fakeGit{prs: []azuredevops.GitPullRequest{{PullRequestID: 1}}}

	out, err := tool(t, "list_pull_requests").Handler(context.Background(), &tooltest.Connection{Git: git}, map[string]any{
		"projectId":     "Fabrikam",
		"repositoryId":  "web",
		"status":        "completed",
		"creatorId":     "u1",
		"targetRefName": "refs/heads/main",
		"includeLinks":  true,
	})
	require.NoError(t, err)
	assert.Equal(t, git.prs, out)
	assert.Equal(t, azuredevops.PullRequestSearchCriteria{
		Status:        "completed",
		CreatorID:     "u1",
		TargetRefName: "refs/heads/main",
		IncludeLinks:  true,
	}, git.gotCriteria)
}

func TestListPullRequests_InvalidStatus(t *testing.T) {
	git := &fakeGit{}

	_, err := tool(t, "list_pull_requests").Handler(context.Background(), &tooltest.Connection{Git: git}, map[string]any{
		"projectId":    "Fabrikam",
		"repositoryId": "web",
		"status":       "merged",
	})
	require.Error(t, err)
	assert.True(t, azuredevops.IsKind(err, azuredevops.KindValidation))
	assert.Equal(t, "Invalid pull request status: merged", err.Error())
}

func TestListComments_FileCommentsOnly(t *testing.T) {
	author := &azuredevops.IdentityRef{DisplayName: "Jamie"}
	git := &fakeGit{threads: []azuredevops.CommentThread{
		{
			ID:     1,
			Status: "active",
			Comments: []azuredevops.Comment{
				{Content: "Rename this", Author: author},
				{Content: "Done", Author: author},
			},
			ThreadContext: &azuredevops.CommentThreadContext{
				FilePath:       "/src/app.go",
				RightFileStart: &azuredevops.CommentPosition{Line: 10, Offset: 1},
				RightFileEnd:   &azuredevops.CommentPosition{Line: 12, Offset: 5},
			},
		},
		{ID: 2, Status: "active", Comments: []azuredevops.Comment{{Content: "General remark", Author: author}}},
		{ID: 3, Status: "active", Comments: []azuredevops.Comment{{Content: "", Author: author}}, ThreadContext: &azuredevops.CommentThreadContext{FilePath: "/a"}},
		{ID: 4, Status: "active", Comments: []azuredevops.Comment{{Content: "no author"}}, ThreadContext: &azuredevops.CommentThreadContext{FilePath: "/a"}},
		{ID: 5, Comments: []azuredevops.Comment{{Content: "no status", Author: author}}, ThreadContext: &azuredevops.CommentThreadContext{FilePath: "/a"}},
		{
			ID:            6,
			Status:        "fixed",
			Comments:      []azuredevops.Comment{{Content: "Whole file", Author: author}},
			ThreadContext: &azuredevops.CommentThreadContext{FilePath: "/README.md"},
		},
	}}

	out, err := call(t, git, "list_pr_comments", nil)
	require.NoError(t, err)

	comments, ok := out.([]FileComment)
	require.True(t, ok)
	require.Len(t, comments, 2)

	first := comments[0]
	assert.Equal(t, "/src/app.go", first.FilePath)
	assert.Equal(t, "Rename this", first.Content)
	assert.Equal(t, "Jamie", first.Author)
	assert.Equal(t, 1, first.ThreadID)
	assert.Equal(t, "active", first.Status)
	require.NotNil(t, first.Location.StartLine)
	assert.Equal(t, 10, *first.Location.StartLine)
	assert.Equal(t, 12, *first.Location.EndLine)
	assert.Equal(t, 5, *first.Location.EndOffset)

	assert.Equal(t, 6, comments[1].ThreadID)
	assert.Equal(t, CommentLocation{}, comments[1].Location)
}

func TestListComments_NoThreads(t *testing.T) {
	out, err := call(t, &fakeGit{}, "list_pr_comments", nil)
	require.NoError(t, err)
	assert.Equal(t, []FileComment{}, out)
}

func TestCreateComment(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]any
		wantComment azuredevops.Comment
		wantContext *azuredevops.CommentThreadContext
	}{
		{
			name:        "general comment",
			args:        map[string]any{"content": "Looks good"},
			wantComment: azuredevops.Comment{Content: "Looks good"},
		},
		{
			name:        "reply",
			args:        map[string]any{"content": "Agreed", "parentCommentId": 3},
			wantComment: azuredevops.Comment{Content: "Agreed", ParentCommentID: 3},
		},
		{
			name:        "file line",
			args:        map[string]any{"content": "Typo", "filePath": "/src/app.go", "lineNumber": 42},
			wantComment: azuredevops.Comment{Content: "Typo"},
			wantContext: &azuredevops.CommentThreadContext{
				FilePath:       "/src/app.go",
				RightFileStart: &azuredevops.CommentPosition{Line: 42, Offset: 1},
				RightFileEnd:   &azuredevops.CommentPosition{Line: 42, Offset: 1},
			},
		},
		{
			name:        "file without line",
			args:        map[string]any{"content": "Whole file", "filePath": "/README.md"},
			wantComment: azuredevops.Comment{Content: "Whole file"},
			wantContext: &azuredevops.CommentThreadContext{
				FilePath:       "/README.md",
				RightFileStart: &azuredevops.CommentPosition{Line: 1, Offset: 1},
				RightFileEnd:   &azuredevops.CommentPosition{Line: 1, Offset: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			git := &fakeGit{thread: &azuredevops.CommentThread{ID: 99}}

			out, err := call(t, git, "create_pr_comment", tt.args)
			require.NoError(t, err)
			assert.Equal(t, git.thread, out)
			assert.Equal(t, []azuredevops.Comment{tt.wantComment}, git.gotThread.Comments)
			assert.Equal(t, tt.wantContext, git.gotThread.ThreadContext)
		})
	}
}

func TestUpdateComment(t *testing.T) {
	git := &fakeGit{comment: &azuredevops.Comment{ID: 2, Content: "Edited"}}

	out, err := call(t, git, "update_pr_comment", map[string]any{"threadId": 7, "commentId": 2, "content": "Edited"})
	require.NoError(t, err)
	assert.Equal(t, git.comment, out)
	assert.Equal(t, 7, git.gotThreadID)
	assert.Equal(t, 2, git.gotCommentID)
	assert.Equal(t, "Edited", git.gotContent)
}

func TestUpdateThreadStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr string
	}{
		{in: "active", want: "active"},
		{in: "fixed", want: "fixed"},
		{in: "wontfix", want: "wontFix"},
		{in: "closed", want: "closed"},
		{in: "pending", want: "pending"},
		{in: "resolved", wantErr: "Invalid thread status: resolved"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			git := &fakeGit{thread: &azuredevops.CommentThread{ID: 7}}

			_, err := call(t, git, "update_pr_thread_status", map[string]any{"threadId": 7, "status": tt.in})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, azuredevops.IsKind(err, azuredevops.KindValidation))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, git.gotThreadID)
			assert.Equal(t, tt.want, git.gotThread.Status)
		})
	}
}

func TestGetFiles(t *testing.T) {
	changes := []azuredevops.PullRequestChange{{ChangeID: 1, ChangeType: "edit"}}

	t.Run("latest iteration", func(t *testing.T) {
		git := &fakeGit{
			iterations: []azuredevops.PullRequestIteration{{ID: 1}, {ID: 2}, {ID: 3}},
			changes:    &azuredevops.IterationChanges{ChangeEntries: changes},
		}
		out, err := call(t, git, "get_pr_files", map[string]any{"compareTo": "1"})
		require.NoError(t, err)
		assert.Equal(t, changes, out)
		assert.Equal(t, 3, git.gotIteration)
		require.NotNil(t, git.gotCompareTo)
		assert.Equal(t, 1, *git.gotCompareTo)
	})

	t.Run("no iterations", func(t *testing.T) {
		git := &fakeGit{}
		out, err := call(t, git, "get_pr_files", nil)
		require.NoError(t, err)
		assert.Equal(t, []azuredevops.PullRequestChange{}, out)
		assert.False(t, git.changesFetched)
	})

	t.Run("no change entries", func(t *testing.T) {
		git := &fakeGit{
			iterations: []azuredevops.PullRequestIteration{{ID: 1}},
			changes:    &azuredevops.IterationChanges{},
		}
		out, err := call(t, git, "get_pr_files", nil)
		require.NoError(t, err)
		assert.Equal(t, []azuredevops.PullRequestChange{}, out)
		assert.Nil(t, git.gotCompareTo)
	})

	t.Run("missing iteration id", func(t *testing.T) {
		git := &fakeGit{iterations: []azuredevops.PullRequestIteration{{ID: 1}, {}}}
		_, err := call(t, git, "get_pr_files", nil)
		require.Error(t, err)
		assert.Equal(t, "Latest iteration ID is missing", err.Error())
	})

	t.Run("invalid compareTo", func(t *testing.T) {
		_, err := call(t, &fakeGit{}, "get_pr_files", map[string]any{"compareTo": "latest"})
		require.Error(t, err)
		assert.True(t, azuredevops.IsKind(err, azuredevops.KindValidation))
	})
}

func TestPullRequestTools_NotFound(t *testing.T) {
	git := &fakeGit{err: azuredevops.NewResourceNotFoundError("Pull request 12 not found")}

	_, err := call(t, git, "get_pull_request", nil)
	require.Error(t, err)
	assert.True(t, azuredevops.IsKind(err, azuredevops.KindResourceNotFound))
}
