package azuredevops

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	ado "github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
)

// GitClient talks to the Git repositories and pull request endpoints.
type GitClient struct {
	api git.Client
}

func newGitClient(sdk *ado.Client) *GitClient {
	return &GitClient{api: &git.ClientImpl{Client: *sdk}}
}

// GetRepository returns one repository by ID or name.
func (c *GitClient) GetRepository(ctx context.Context, project, repositoryID string) (*GitRepository, error) {
	res, err := c.api.GetRepository(ctx, git.GetRepositoryArgs{
		Project:      &project,
		RepositoryId: &repositoryID,
	})
	if err != nil {
		err = wrapError(err)
		if IsKind(err, KindResourceNotFound) {
			return nil, NewResourceNotFoundError(
				fmt.Sprintf("Repository '%s' not found in project '%s'", repositoryID, project))
		}
		return nil, err
	}
	return convertOne[GitRepository](res)
}

// ListRepositories lists the repositories of a project.
func (c *GitClient) ListRepositories(ctx context.Context, project string, includeLinks bool) ([]GitRepository, error) {
	res, err := c.api.GetRepositories(ctx, git.GetRepositoriesArgs{
		Project:      &project,
		IncludeLinks: optional(includeLinks),
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertList[GitRepository](res)
}

// GetPullRequest returns one pull request.
func (c *GitClient) GetPullRequest(ctx context.Context, project, repositoryID string, pullRequestID int) (*GitPullRequest, error) {
	res, err := c.api.GetPullRequest(ctx, git.GetPullRequestArgs{
		Project:       &project,
		RepositoryId:  &repositoryID,
		PullRequestId: &pullRequestID,
	})
	if err != nil {
		err = wrapError(err)
		if IsKind(err, KindResourceNotFound) {
			return nil, NewResourceNotFoundError(
				fmt.Sprintf("Pull request %d not found in repository %s", pullRequestID, repositoryID))
		}
		return nil, err
	}
	return convertOne[GitPullRequest](res)
}

// ListPullRequests lists pull requests matching criteria.
func (c *GitClient) ListPullRequests(ctx context.Context, project, repositoryID string, criteria PullRequestSearchCriteria) ([]GitPullRequest, error) {
	search := &git.GitPullRequestSearchCriteria{
		SourceRefName: optional(criteria.SourceRefName),
		TargetRefName: optional(criteria.TargetRefName),
		IncludeLinks:  optional(criteria.IncludeLinks),
	}
	if criteria.Status != "" {
		search.Status = ptr(git.PullRequestStatus(criteria.Status))
	}

	var err error
	if search.CreatorId, err = identityID("creatorId", criteria.CreatorID); err != nil {
		return nil, err
	}
	if search.ReviewerId, err = identityID("reviewerId", criteria.ReviewerID); err != nil {
		return nil, err
	}

	res, err := c.api.GetPullRequests(ctx, git.GetPullRequestsArgs{
		Project:        &project,
		RepositoryId:   &repositoryID,
		SearchCriteria: search,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertList[GitPullRequest](res)
}

// identityID parses an optional identity GUID.
func identityID(name, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("%s must be an identity ID (GUID): %s", name, value), nil)
	}
	return &id, nil
}

// ListThreads lists the comment threads of a pull request.
func (c *GitClient) ListThreads(ctx context.Context, project, repositoryID string, pullRequestID int) ([]CommentThread, error) {
	res, err := c.api.GetThreads(ctx, git.GetThreadsArgs{
		Project:       &project,
		RepositoryId:  &repositoryID,
		PullRequestId: &pullRequestID,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertList[CommentThread](res)
}

// CreateThread starts a new comment thread.
func (c *GitClient) CreateThread(ctx context.Context, project, repositoryID string, pullRequestID int, thread CommentThread) (*CommentThread, error) {
	body, err := convert[git.GitPullRequestCommentThread](thread)
	if err != nil {
		return nil, err
	}
	res, err := c.api.CreateThread(ctx, git.CreateThreadArgs{
		Project:       &project,
		RepositoryId:  &repositoryID,
		PullRequestId: &pullRequestID,
		CommentThread: &body,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertOne[CommentThread](res)
}

// UpdateThread patches a thread, typically its status.
func (c *GitClient) UpdateThread(ctx context.Context, project, repositoryID string, pullRequestID, threadID int, thread CommentThread) (*CommentThread, error) {
	body, err := convert[git.GitPullRequestCommentThread](thread)
	if err != nil {
		return nil, err
	}
	res, err := c.api.UpdateThread(ctx, git.UpdateThreadArgs{
		Project:       &project,
		RepositoryId:  &repositoryID,
		PullRequestId: &pullRequestID,
		ThreadId:      &threadID,
		CommentThread: &body,
	})
	if err != nil {
		err = wrapError(err)
		if IsKind(err, KindResourceNotFound) {
			return nil, NewResourceNotFoundError(
				fmt.Sprintf("Thread %d not found in pull request %d", threadID, pullRequestID))
		}
		return nil, err
	}
	return convertOne[CommentThread](res)
}

// UpdateComment replaces the content of a comment.
func (c *GitClient) UpdateComment(ctx context.Context, project, repositoryID string, pullRequestID, threadID, commentID int, content string) (*Comment, error) {
	res, err := c.api.UpdateComment(ctx, git.UpdateCommentArgs{
		Project:       &project,
		RepositoryId:  &repositoryID,
		PullRequestId: &pullRequestID,
		ThreadId:      &threadID,
		CommentId:     &commentID,
		Comment:       &git.Comment{Content: &content},
	})
	if err != nil {
		err = wrapError(err)
		if IsKind(err, KindResourceNotFound) {
			return nil, NewResourceNotFoundError(
				fmt.Sprintf("Comment %d not found in thread %d", commentID, threadID))
		}
		return nil, err
	}
	return convertOne[Comment](res)
}

// ListIterations lists the iterations of a pull request, oldest first.
func (c *GitClient) ListIterations(ctx context.Context, project, repositoryID string, pullRequestID int) ([]PullRequestIteration, error) {
	res, err := c.api.GetPullRequestIterations(ctx, git.GetPullRequestIterationsArgs{
		Project:       &project,
		RepositoryId:  &repositoryID,
		PullRequestId: &pullRequestID,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertList[PullRequestIteration](res)
}

// GetIterationChanges lists the changes of one iteration, optionally
// relative to another iteration.
func (c *GitClient) GetIterationChanges(ctx context.Context, project, repositoryID string, pullRequestID, iterationID int, compareTo *int) (*IterationChanges, error) {
	res, err := c.api.GetPullRequestIterationChanges(ctx, git.GetPullRequestIterationChangesArgs{
		Project:       &project,
		RepositoryId:  &repositoryID,
		PullRequestId: &pullRequestID,
		IterationId:   &iterationID,
		CompareTo:     compareTo,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return convertOne[IterationChanges](res)
}
