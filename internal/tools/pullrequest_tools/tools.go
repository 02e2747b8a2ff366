package pullrequest_tools

import (
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

var (
	pullRequestStatuses = []string{"active", "abandoned", "completed", "all"}
	threadStatuses      = []string{"active", "fixed", "wontfix", "closed", "pending"}
)

// Tools returns the pull request tool descriptors.
func Tools() []common.Descriptor {
	return []common.Descriptor{
		{
			Name:        "get_pull_request",
			Description: "Get details of a specific pull request",
			ReadOnly:    true,
			Schema:      scoped(),
			Handler:     common.Handle(getPullRequest),
		},
		{
			Name:        "list_pull_requests",
			Description: "List pull requests in a repository",
			ReadOnly:    true,
			Schema: common.Schema{Fields: []common.Field{
				common.ProjectIDField(),
				repositoryIDField(),
				{Name: "status", Type: common.TypeString, Description: "Filter by pull request status", Enum: pullRequestStatuses},
				{Name: "creatorId", Type: common.TypeString, Description: "Filter by the ID of the creator"},
				{Name: "reviewerId", Type: common.TypeString, Description: "Filter by the ID of a reviewer"},
				{Name: "sourceRefName", Type: common.TypeString, Description: "Filter by source branch (e.g. refs/heads/feature)"},
				{Name: "targetRefName", Type: common.TypeString, Description: "Filter by target branch (e.g. refs/heads/main)"},
				{Name: "includeLinks", Type: common.TypeBoolean, Description: "Whether to include reference links"},
			}},
			Handler: common.Handle(listPullRequests),
		},
		{
			Name:        "list_pr_comments",
			Description: "List the file comments of a pull request",
			ReadOnly:    true,
			Schema:      scoped(),
			Handler:     common.Handle(listComments),
		},
		{
			Name:        "create_pr_comment",
			Description: "Create a new comment thread on a pull request",
			Schema: scoped(
				common.Field{Name: "content", Type: common.TypeString, Required: true, Description: "The comment text"},
				common.Field{Name: "filePath", Type: common.TypeString, Description: "Path of the file to comment on"},
				common.Field{Name: "lineNumber", Type: common.TypeInteger, Description: "Line in the file to comment on", Minimum: common.Min(1)},
				common.Field{Name: "parentCommentId", Type: common.TypeInteger, Description: "ID of the comment this one replies to"},
			),
			Handler: common.Handle(createComment),
		},
		{
			Name:        "update_pr_comment",
			Description: "Update the content of a pull request comment",
			Schema: scoped(
				threadIDField(),
				common.Field{Name: "commentId", Type: common.TypeInteger, Required: true, Description: "The ID of the comment"},
				common.Field{Name: "content", Type: common.TypeString, Required: true, Description: "The new comment text"},
			),
			Handler: common.Handle(updateComment),
		},
		{
			Name:        "update_pr_thread_status",
			Description: "Update the status of a pull request comment thread",
			Schema: scoped(
				threadIDField(),
				common.Field{Name: "status", Type: common.TypeString, Required: true, Description: "The new thread status", Enum: threadStatuses},
			),
			Handler: common.Handle(updateThreadStatus),
		},
		{
			Name:        "get_pr_files",
			Description: "List the files changed in the latest iteration of a pull request",
			ReadOnly:    true,
			Schema: scoped(
				common.Field{Name: "compareTo", Type: common.TypeString, Description: "Iteration ID to compare against"},
			),
			Handler: common.Handle(getFiles),
		},
	}
}

// scoped returns the projectId, repositoryId and pullRequestId fields
// followed by extra.
func scoped(extra ...common.Field) common.Schema {
	fields := []common.Field{
		common.ProjectIDField(),
		repositoryIDField(),
		{Name: "pullRequestId", Type: common.TypeInteger, Required: true, Description: "The ID of the pull request", Minimum: common.Min(1)},
	}
	return common.Schema{Fields: append(fields, extra...)}
}

func repositoryIDField() common.Field {
	return common.Field{Name: "repositoryId", Type: common.TypeString, Required: true, Description: "The ID or name of the repository"}
}

func threadIDField() common.Field {
	return common.Field{Name: "threadId", Type: common.TypeInteger, Required: true, Description: "The ID of the comment thread"}
}
