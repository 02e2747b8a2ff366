package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/connection"
	"github.com/teemow/azure-devops-mcp/internal/logging"
)

const (
	ConnectionURI = "azure-devops://connection"
	ProjectsURI   = "azure-devops://projects"

	mimeJSON = "application/json"
)

// Connection is the part of the connection manager the resources read.
// *connection.Manager implements it.
type Connection interface {
	State() connection.State
	LastError() error
	OrganizationURL() string
	CoreAPI(ctx context.Context) (azuredevops.CoreAPI, error)
}

// ConnectionStatus is the body of the connection resource.
type ConnectionStatus struct {
	Organization string `json:"organization"`
	State        string `json:"state"`
	LastError    string `json:"lastError,omitempty"`
}

// RegisterConnectionResources registers the connection resources on s.
func RegisterConnectionResources(s *mcpserver.MCPServer, conn Connection) {
	s.AddResource(mcp.NewResource(
		ConnectionURI,
		"Azure DevOps Connection",
		mcp.WithResourceDescription("State of the connection to the configured Azure DevOps organization"),
		mcp.WithMIMEType(mimeJSON),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleConnection(request, conn)
	})

	s.AddResource(mcp.NewResource(
		ProjectsURI,
		"Azure DevOps Projects",
		mcp.WithResourceDescription("Projects of the configured Azure DevOps organization"),
		mcp.WithMIMEType(mimeJSON),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleProjects(ctx, request, conn)
	})
}

func handleConnection(request mcp.ReadResourceRequest, conn Connection) ([]mcp.ResourceContents, error) {
	status := ConnectionStatus{
		Organization: logging.RedactURL(conn.OrganizationURL()),
		State:        conn.State().String(),
	}
	if err := conn.LastError(); err != nil {
		status.LastError = azuredevops.Format(err)
	}
	return jsonContents(request.Params.URI, status)
}

func handleProjects(ctx context.Context, request mcp.ReadResourceRequest, conn Connection) ([]mcp.ResourceContents, error) {
	core, err := conn.CoreAPI(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s", azuredevops.Format(err))
	}
	projects, err := core.ListProjects(ctx, azuredevops.ListProjectsOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s", azuredevops.Format(err))
	}
	if projects == nil {
		projects = []azuredevops.TeamProjectReference{}
	}
	return jsonContents(request.Params.URI, projects)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(jsonData),
		},
	}, nil
}
