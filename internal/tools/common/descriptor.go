package common

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
)

// Connection hands out the capability clients of the shared Azure DevOps
// connection. Each accessor establishes the connection on first use.
type Connection interface {
	CoreAPI(ctx context.Context) (azuredevops.CoreAPI, error)
	GitAPI(ctx context.Context) (azuredevops.GitAPI, error)
	WorkItemAPI(ctx context.Context) (azuredevops.WorkItemAPI, error)
	BuildAPI(ctx context.Context) (azuredevops.BuildAPI, error)
	TestAPI(ctx context.Context) (azuredevops.TestAPI, error)
	ReleaseAPI(ctx context.Context) (azuredevops.ReleaseAPI, error)
	TaskAgentAPI(ctx context.Context) (azuredevops.TaskAgentAPI, error)
	TaskAPI(ctx context.Context) (azuredevops.TaskAPI, error)
	OrganizationAPI(ctx context.Context) (azuredevops.OrganizationAPI, error)
}

// Handler executes a tool with schema-validated arguments. The returned
// value is serialized as indented JSON.
type Handler func(ctx context.Context, conn Connection, args map[string]any) (any, error)

// Descriptor is one registry entry.
type Descriptor struct {
	Name        string
	Description string
	Schema      Schema

	// ReadOnly tools never modify backend state. They stay registered when
	// the server runs in read-only mode.
	ReadOnly bool

	Handler Handler
}

// Handle adapts a typed handler. Arguments are decoded into T through their
// JSON form, so T uses json tags matching the schema field names.
func Handle[T any](fn func(ctx context.Context, conn Connection, args T) (any, error)) Handler {
	return func(ctx context.Context, conn Connection, raw map[string]any) (any, error) {
		var args T
		if err := Bind(raw, &args); err != nil {
			return nil, err
		}
		return fn(ctx, conn, args)
	}
}

// Bind decodes raw arguments into target.
func Bind(raw map[string]any, target any) error {
	payload, err := json.Marshal(raw)
	if err != nil {
		return azuredevops.NewValidationError(fmt.Sprintf("Invalid arguments: %v", err), nil)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return azuredevops.NewValidationError(fmt.Sprintf("Invalid arguments: %v", err), nil)
	}
	return nil
}
