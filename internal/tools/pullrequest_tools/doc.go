// Package pullrequest_tools provides MCP tools for Azure DevOps pull
// requests and their comment threads.
//
// Available tools:
//   - get_pull_request: Get one pull request
//   - list_pull_requests: List pull requests of a repository
//   - list_pr_comments: List file comments of a pull request
//   - create_pr_comment: Start a new comment thread, optionally on a file line
//   - update_pr_comment: Edit the content of a comment
//   - update_pr_thread_status: Change the status of a thread
//   - get_pr_files: List the files changed by the latest iteration
package pullrequest_tools
