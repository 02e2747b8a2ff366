// Package tooltest provides a Connection whose capability clients are set
// directly by tests.
package tooltest

import (
	"context"
	"fmt"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

// Connection returns the configured clients. Accessors for unset clients
// fail with an Authentication error, as the real connection does when a
// capability is unavailable. Err, when set, is returned by every accessor.
type Connection struct {
	Core          azuredevops.CoreAPI
	Git           azuredevops.GitAPI
	WorkItems     azuredevops.WorkItemAPI
	Build         azuredevops.BuildAPI
	Test          azuredevops.TestAPI
	Release       azuredevops.ReleaseAPI
	TaskAgent     azuredevops.TaskAgentAPI
	Task          azuredevops.TaskAPI
	Organizations azuredevops.OrganizationAPI

	Err error
}

var _ common.Connection = (*Connection)(nil)

func get[T any](c *Connection, capability string, client T, set bool) (T, error) {
	var zero T
	if c.Err != nil {
		return zero, c.Err
	}
	if !set {
		return zero, azuredevops.NewAuthenticationError(fmt.Sprintf("Failed to get %s: not configured", capability))
	}
	return client, nil
}

func (c *Connection) CoreAPI(context.Context) (azuredevops.CoreAPI, error) {
	return get(c, "Core API", c.Core, c.Core != nil)
}

func (c *Connection) GitAPI(context.Context) (azuredevops.GitAPI, error) {
	return get(c, "Git API", c.Git, c.Git != nil)
}

func (c *Connection) WorkItemAPI(context.Context) (azuredevops.WorkItemAPI, error) {
	return get(c, "Work Item Tracking API", c.WorkItems, c.WorkItems != nil)
}

func (c *Connection) BuildAPI(context.Context) (azuredevops.BuildAPI, error) {
	return get(c, "Build API", c.Build, c.Build != nil)
}

func (c *Connection) TestAPI(context.Context) (azuredevops.TestAPI, error) {
	return get(c, "Test API", c.Test, c.Test != nil)
}

func (c *Connection) ReleaseAPI(context.Context) (azuredevops.ReleaseAPI, error) {
	return get(c, "Release API", c.Release, c.Release != nil)
}

func (c *Connection) TaskAgentAPI(context.Context) (azuredevops.TaskAgentAPI, error) {
	return get(c, "Task Agent API", c.TaskAgent, c.TaskAgent != nil)
}

func (c *Connection) TaskAPI(context.Context) (azuredevops.TaskAPI, error) {
	return get(c, "Task API", c.Task, c.Task != nil)
}

func (c *Connection) OrganizationAPI(context.Context) (azuredevops.OrganizationAPI, error) {
	return get(c, "Organizations API", c.Organizations, c.Organizations != nil)
}
