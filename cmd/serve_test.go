package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/azure-devops-mcp/internal/auth"
	"github.com/teemow/azure-devops-mcp/internal/config"
	"github.com/teemow/azure-devops-mcp/internal/instrumentation"
	"github.com/teemow/azure-devops-mcp/internal/server"
	"github.com/teemow/azure-devops-mcp/internal/tools"
)

func TestLoadMetricsEnvVars(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want MetricsConfig
	}{
		{
			name: "defaults",
			want: MetricsConfig{Enabled: true, Addr: server.DefaultMetricsAddr},
		},
		{
			name: "environment",
			env:  map[string]string{"METRICS_ENABLED": "false", "METRICS_ADDR": ":9464"},
			want: MetricsConfig{Enabled: false, Addr: ":9464"},
		},
		{
			name: "flags win",
			args: []string{"--metrics-enabled=true", "--metrics-addr=:9100"},
			env:  map[string]string{"METRICS_ENABLED": "false", "METRICS_ADDR": ":9464"},
			want: MetricsConfig{Enabled: true, Addr: ":9100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("METRICS_ENABLED", "")
			t.Setenv("METRICS_ADDR", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cmd := newServeCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))

			got := MetricsConfig{}
			got.Enabled, _ = cmd.Flags().GetBool("metrics-enabled")
			got.Addr, _ = cmd.Flags().GetString("metrics-addr")
			loadMetricsEnvVars(cmd, &got)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServeCmd_ConfigFlags(t *testing.T) {
	cmd := newServeCmd()
	for _, name := range []string{
		config.FlagConfig,
		config.FlagOrganizationURL,
		config.FlagAuthMethod,
		config.FlagDefaultProject,
		config.FlagAPIVersion,
		"transport",
		"read-only",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Nil(t, cmd.Flags().Lookup("pat"), "the token must not be passed on the command line")
}

func TestRunServe_UnsupportedTransport(t *testing.T) {
	err := runServe(newServeCmd(), serveOptions{transport: "websocket"})
	require.EqualError(t, err, "unsupported transport type: websocket (supported: stdio, streamable-http, sse)")
}

func TestValidateExporters(t *testing.T) {
	stdout := instrumentation.Config{Enabled: true, MetricsExporter: instrumentation.ExporterStdout, TracingExporter: instrumentation.ExporterNone}
	prom := instrumentation.Config{Enabled: true, MetricsExporter: instrumentation.ExporterPrometheus, TracingExporter: instrumentation.ExporterNone}
	disabled := instrumentation.Config{Enabled: false, MetricsExporter: instrumentation.ExporterStdout}

	assert.Error(t, validateExporters(transportStdio, stdout))
	assert.NoError(t, validateExporters(transportStdio, prom))
	assert.NoError(t, validateExporters(transportStdio, disabled))
	assert.NoError(t, validateExporters(server.TransportStreamableHTTP, stdout))

	otlp := instrumentation.Config{Enabled: true, MetricsExporter: instrumentation.ExporterOTLP, TracingExporter: instrumentation.ExporterNone}
	assert.ErrorContains(t, validateExporters(server.TransportStreamableHTTP, otlp), "OTLP endpoint is required")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, server.TransportStreamableHTTP, false).Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "HTTP transports log JSON")

	buf.Reset()
	logger := newLogger(&buf, transportStdio, true)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestGenerateToolsMarkdown(t *testing.T) {
	markdown := generateToolsMarkdown(tools.Groups())

	assert.True(t, strings.HasPrefix(markdown, "# MCP Tools Reference\n"))
	assert.Contains(t, markdown, "- [Pull Requests](#pull-requests)\n")
	assert.Contains(t, markdown, "### list_projects\n")
	assert.Contains(t, markdown, "### create_work_item\n")
	assert.Contains(t, markdown, "- `title` (string, required)")
	assert.Contains(t, markdown, "One of: `active`, `fixed`, `wontfix`, `closed`, `pending`.")
	assert.Contains(t, markdown, "Minimum: 1.")

	for _, g := range tools.Groups() {
		for _, d := range g.Tools {
			assert.Contains(t, markdown, "### "+d.Name+"\n")
		}
	}
}

func TestRunCheck(t *testing.T) {
	var srv *httptest.Server
	var requests atomic.Int32
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"count":2,"value":[{"id":"1","name":"Release","locationUrl":"%[1]s/vsrm/myorg"},{"id":"2","name":"Build","locationUrl":"%[1]s/myorg"}]}`, srv.URL)
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("authorized", func(t *testing.T) {
		cfg := &config.Config{
			OrganizationURL: srv.URL + "/myorg",
			AuthMethod:      auth.MethodStaticToken,
			StaticToken:     "secret",
			APIVersion:      "7.1",
		}
		var out bytes.Buffer
		require.NoError(t, runCheck(context.Background(), &out, newConnectionManager(cfg, logger, nil), logger))

		assert.Contains(t, out.String(), "Authenticated: yes\n")
		assert.Contains(t, out.String(), "Resource areas (2): Build, Release\n")
		assert.Equal(t, int32(1), requests.Load(), "resource areas are listed once per check")
	})

	t.Run("missing token", func(t *testing.T) {
		cfg := &config.Config{
			OrganizationURL: srv.URL + "/myorg",
			AuthMethod:      auth.MethodStaticToken,
			APIVersion:      "7.1",
		}
		var out bytes.Buffer
		err := runCheck(context.Background(), &out, newConnectionManager(cfg, logger, nil), logger)

		require.EqualError(t, err, "connection check failed")
		assert.Contains(t, out.String(), "Authenticated: no\nValidation: Personal Access Token (PAT) is required\n")
	})
}
