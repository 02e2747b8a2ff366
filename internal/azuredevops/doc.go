// Package azuredevops is a small REST client for Azure DevOps Services.
//
// A Connection is bound to one organization URL and authorizes every
// request through an oauth2.TokenSource, so the same client works with
// personal access tokens (Basic) and identity tokens (Bearer). Sub-clients
// are grouped by resource area (Core, Git, WorkItemTracking, Build, Test,
// Release, TaskAgent, Task) and satisfy the matching *API interfaces, which
// is what tool handlers program against.
//
// Every non-2xx response is converted into an *Error carrying one of the
// Kind values, and Format renders any error (or arbitrary value) into the
// text returned to MCP clients.
package azuredevops
