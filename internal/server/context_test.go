package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/azure-devops-mcp/internal/auth"
	"github.com/teemow/azure-devops-mcp/internal/connection"
	"github.com/teemow/azure-devops-mcp/internal/instrumentation"
)

func newManager(orgURL, token string) *connection.Manager {
	return connection.New(connection.Config{
		Auth: auth.Config{
			Method:          auth.MethodStaticToken,
			OrganizationURL: orgURL,
			StaticToken:     token,
		},
	}, auth.NewResolver())
}

func TestNewServerContext(t *testing.T) {
	_, err := NewServerContext(context.Background(), nil)
	require.EqualError(t, err, "connection manager is required")

	conn := newManager("https://dev.azure.com/contoso", "secret")
	sc, err := NewServerContext(context.Background(), conn)
	require.NoError(t, err)

	assert.Same(t, conn, sc.Connection())
	assert.Nil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())
	assert.False(t, sc.IsShutdown())
	assert.Equal(t, connection.StateUninitialized, conn.State())
}

func TestServerContext_Instrumentation(t *testing.T) {
	sc, err := NewServerContext(context.Background(), newManager("", ""))
	require.NoError(t, err)

	metrics := &instrumentation.Metrics{}
	audit := instrumentation.NewAuditLogger(nil)
	sc.SetMetrics(metrics)
	sc.SetAuditLogger(audit)

	assert.Same(t, metrics, sc.Metrics())
	assert.Same(t, audit, sc.AuditLogger())
}

func TestServerContext_Shutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(), newManager("", ""))
	require.NoError(t, err)

	require.NoError(t, sc.Shutdown())
	require.NoError(t, sc.Shutdown())

	assert.True(t, sc.IsShutdown())
	assert.ErrorIs(t, sc.Context().Err(), context.Canceled)
}
