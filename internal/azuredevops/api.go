package azuredevops

import "context"

// CoreAPI covers projects.
type CoreAPI interface {
	ListProjects(ctx context.Context, opts ListProjectsOptions) ([]TeamProjectReference, error)
	GetProject(ctx context.Context, projectID string) (*TeamProject, error)
}

// GitAPI covers repositories and pull requests.
type GitAPI interface {
	GetRepository(ctx context.Context, project, repositoryID string) (*GitRepository, error)
	ListRepositories(ctx context.Context, project string, includeLinks bool) ([]GitRepository, error)
	GetPullRequest(ctx context.Context, project, repositoryID string, pullRequestID int) (*GitPullRequest, error)
	ListPullRequests(ctx context.Context, project, repositoryID string, criteria PullRequestSearchCriteria) ([]GitPullRequest, error)
	ListThreads(ctx context.Context, project, repositoryID string, pullRequestID int) ([]CommentThread, error)
	CreateThread(ctx context.Context, project, repositoryID string, pullRequestID int, thread CommentThread) (*CommentThread, error)
	UpdateThread(ctx context.Context, project, repositoryID string, pullRequestID, threadID int, thread CommentThread) (*CommentThread, error)
	UpdateComment(ctx context.Context, project, repositoryID string, pullRequestID, threadID, commentID int, content string) (*Comment, error)
	ListIterations(ctx context.Context, project, repositoryID string, pullRequestID int) ([]PullRequestIteration, error)
	GetIterationChanges(ctx context.Context, project, repositoryID string, pullRequestID, iterationID int, compareTo *int) (*IterationChanges, error)
}

// WorkItemAPI covers work item tracking.
type WorkItemAPI interface {
	GetWorkItem(ctx context.Context, id int, fields []string) (*WorkItem, error)
	GetWorkItems(ctx context.Context, ids []int, fields []string) ([]WorkItem, error)
	QueryByWIQL(ctx context.Context, team TeamContext, query string) (*WorkItemQueryResult, error)
	QueryByID(ctx context.Context, team TeamContext, queryID string) (*WorkItemQueryResult, error)
	CreateWorkItem(ctx context.Context, project, workItemType string, patch []JSONPatchOperation) (*WorkItem, error)
	UpdateWorkItem(ctx context.Context, id int, patch []JSONPatchOperation) (*WorkItem, error)
}

// BuildAPI covers pipeline runs.
type BuildAPI interface {
	ListBuilds(ctx context.Context, project string, top int) ([]Build, error)
}

// TestAPI covers test runs.
type TestAPI interface {
	ListTestRuns(ctx context.Context, project string, top int) ([]TestRun, error)
}

// ReleaseAPI covers classic releases.
type ReleaseAPI interface {
	ListReleases(ctx context.Context, project string, top int) ([]Release, error)
}

// TaskAgentAPI covers agent pools.
type TaskAgentAPI interface {
	ListAgentPools(ctx context.Context) ([]TaskAgentPool, error)
}

// TaskAPI covers orchestration plans.
type TaskAPI interface {
	ListTimelines(ctx context.Context, project, hubName, planID string) ([]Timeline, error)
}

// OrganizationAPI lists the organizations of the authenticated user.
type OrganizationAPI interface {
	ListOrganizations(ctx context.Context) ([]Organization, error)
}

var (
	_ CoreAPI         = (*CoreClient)(nil)
	_ GitAPI          = (*GitClient)(nil)
	_ WorkItemAPI     = (*WorkItemClient)(nil)
	_ BuildAPI        = (*BuildClient)(nil)
	_ TestAPI         = (*TestClient)(nil)
	_ ReleaseAPI      = (*ReleaseClient)(nil)
	_ TaskAgentAPI    = (*TaskAgentClient)(nil)
	_ TaskAPI         = (*TaskClient)(nil)
	_ OrganizationAPI = (*OrganizationClient)(nil)
)
