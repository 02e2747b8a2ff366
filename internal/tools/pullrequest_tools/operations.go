package pullrequest_tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

type pullRequestArgs struct {
	ProjectID     string `json:"projectId"`
	RepositoryID  string `json:"repositoryId"`
	PullRequestID int    `json:"pullRequestId"`
}

func getPullRequest(ctx context.Context, conn common.Connection, args pullRequestArgs) (any, error) {
	git, err := conn.GitAPI(ctx)
	if err != nil {
		return nil, err
	}
	return git.GetPullRequest(ctx, args.ProjectID, args.RepositoryID, args.PullRequestID)
}

type listPullRequestsArgs struct {
	ProjectID     string `json:"projectId"`
	RepositoryID  string `json:"repositoryId"`
	Status        string `json:"status"`
	CreatorID     string `json:"creatorId"`
	ReviewerID    string `json:"reviewerId"`
	SourceRefName string `json:"sourceRefName"`
	TargetRefName string `json:"targetRefName"`
	IncludeLinks  bool   `json:"includeLinks"`
}

func listPullRequests(ctx context.Context, conn common.Connection, args listPullRequestsArgs) (any, error) {
	status, err := pullRequestStatus(args.Status)
	if err != nil {
		return nil, err
	}

	git, err := conn.GitAPI(ctx)
	if err != nil {
		return nil, err
	}
	return git.ListPullRequests(ctx, args.ProjectID, args.RepositoryID, azuredevops.PullRequestSearchCriteria{
		Status:        status,
		CreatorID:     args.CreatorID,
		ReviewerID:    args.ReviewerID,
		SourceRefName: args.SourceRefName,
		TargetRefName: args.TargetRefName,
		IncludeLinks:  args.IncludeLinks,
	})
}

// pullRequestStatus maps a status argument to its REST value. Empty means
// no filter.
func pullRequestStatus(s string) (string, error) {
	switch s {
	case "", "active", "abandoned", "completed", "all":
		return s, nil
	default:
		return "", azuredevops.NewValidationError("Invalid pull request status: "+s, nil)
	}
}

// threadStatus maps a status argument to its REST value.
func threadStatus(s string) (string, error) {
	switch s {
	case "active", "fixed", "closed", "pending":
		return s, nil
	case "wontfix":
		return "wontFix", nil
	default:
		return "", azuredevops.NewValidationError("Invalid thread status: "+s, nil)
	}
}

// CommentLocation is the right-side range a file comment is anchored to.
type CommentLocation struct {
	StartLine   *int `json:"startLine,omitempty"`
	EndLine     *int `json:"endLine,omitempty"`
	StartOffset *int `json:"startOffset,omitempty"`
	EndOffset   *int `json:"endOffset,omitempty"`
}

// FileComment is the first comment of a thread anchored to a file.
type FileComment struct {
	FilePath string          `json:"filePath"`
	Location CommentLocation `json:"location"`
	Content  string          `json:"content"`
	Status   string          `json:"status"`
	ThreadID int             `json:"threadId"`
	Author   string          `json:"author"`
}

func listComments(ctx context.Context, conn common.Connection, args pullRequestArgs) (any, error) {
	git, err := conn.GitAPI(ctx)
	if err != nil {
		return nil, err
	}
	threads, err := git.ListThreads(ctx, args.ProjectID, args.RepositoryID, args.PullRequestID)
	if err != nil {
		return nil, err
	}
	return fileComments(threads), nil
}

// fileComments keeps threads anchored to a file whose first comment has
// content and an author, and reduces each to a FileComment.
func fileComments(threads []azuredevops.CommentThread) []FileComment {
	out := []FileComment{}
	for _, t := range threads {
		if t.ID == 0 || t.Status == "" || len(t.Comments) == 0 {
			continue
		}
		if t.ThreadContext == nil || t.ThreadContext.FilePath == "" {
			continue
		}
		first := t.Comments[0]
		if first.Content == "" || first.Author == nil || first.Author.DisplayName == "" {
			continue
		}

		var loc CommentLocation
		if start := t.ThreadContext.RightFileStart; start != nil {
			loc.StartLine, loc.StartOffset = &start.Line, &start.Offset
		}
		if end := t.ThreadContext.RightFileEnd; end != nil {
			loc.EndLine, loc.EndOffset = &end.Line, &end.Offset
		}

		out = append(out, FileComment{
			FilePath: t.ThreadContext.FilePath,
			Location: loc,
			Content:  first.Content,
			Status:   t.Status,
			ThreadID: t.ID,
			Author:   first.Author.DisplayName,
		})
	}
	return out
}

type createCommentArgs struct {
	pullRequestArgs
	Content         string `json:"content"`
	FilePath        string `json:"filePath"`
	LineNumber      *int   `json:"lineNumber"`
	ParentCommentID int    `json:"parentCommentId"`
}

func createComment(ctx context.Context, conn common.Connection, args createCommentArgs) (any, error) {
	git, err := conn.GitAPI(ctx)
	if err != nil {
		return nil, err
	}

	thread := azuredevops.CommentThread{
		Comments: []azuredevops.Comment{{Content: args.Content, ParentCommentID: args.ParentCommentID}},
	}
	if args.FilePath != "" {
		line := 1
		if args.LineNumber != nil {
			line = *args.LineNumber
		}
		thread.ThreadContext = &azuredevops.CommentThreadContext{
			FilePath:       args.FilePath,
			RightFileStart: &azuredevops.CommentPosition{Line: line, Offset: 1},
			RightFileEnd:   &azuredevops.CommentPosition{Line: line, Offset: 1},
		}
	}

	return git.CreateThread(ctx, args.ProjectID, args.RepositoryID, args.PullRequestID, thread)
}

type updateCommentArgs struct {
	pullRequestArgs
	ThreadID  int    `json:"threadId"`
	CommentID int    `json:"commentId"`
	Content   string `json:"content"`
}

func updateComment(ctx context.Context, conn common.Connection, args updateCommentArgs) (any, error) {
	git, err := conn.GitAPI(ctx)
	if err != nil {
		return nil, err
	}
	return git.UpdateComment(ctx, args.ProjectID, args.RepositoryID, args.PullRequestID, args.ThreadID, args.CommentID, args.Content)
}

type updateThreadStatusArgs struct {
	pullRequestArgs
	ThreadID int    `json:"threadId"`
	Status   string `json:"status"`
}

func updateThreadStatus(ctx context.Context, conn common.Connection, args updateThreadStatusArgs) (any, error) {
	status, err := threadStatus(args.Status)
	if err != nil {
		return nil, err
	}

	git, err := conn.GitAPI(ctx)
	if err != nil {
		return nil, err
	}
	return git.UpdateThread(ctx, args.ProjectID, args.RepositoryID, args.PullRequestID, args.ThreadID,
		azuredevops.CommentThread{Status: status})
}

type getFilesArgs struct {
	pullRequestArgs
	CompareTo string `json:"compareTo"`
}

func getFiles(ctx context.Context, conn common.Connection, args getFilesArgs) (any, error) {
	var compareTo *int
	if s := strings.TrimSpace(args.CompareTo); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, azuredevops.NewValidationError(fmt.Sprintf("Invalid compareTo iteration: %s", args.CompareTo), nil)
		}
		compareTo = &n
	}

	git, err := conn.GitAPI(ctx)
	if err != nil {
		return nil, err
	}

	iterations, err := git.ListIterations(ctx, args.ProjectID, args.RepositoryID, args.PullRequestID)
	if err != nil {
		return nil, err
	}
	if len(iterations) == 0 {
		return []azuredevops.PullRequestChange{}, nil
	}

	latest := iterations[len(iterations)-1]
	if latest.ID == 0 {
		return nil, azuredevops.NewGenericError("Latest iteration ID is missing")
	}

	changes, err := git.GetIterationChanges(ctx, args.ProjectID, args.RepositoryID, args.PullRequestID, latest.ID, compareTo)
	if err != nil {
		return nil, err
	}
	if changes == nil || changes.ChangeEntries == nil {
		return []azuredevops.PullRequestChange{}, nil
	}
	return changes.ChangeEntries, nil
}
