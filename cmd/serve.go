package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/azure-devops-mcp/internal/auth"
	"github.com/teemow/azure-devops-mcp/internal/config"
	"github.com/teemow/azure-devops-mcp/internal/connection"
	"github.com/teemow/azure-devops-mcp/internal/dispatcher"
	"github.com/teemow/azure-devops-mcp/internal/instrumentation"
	"github.com/teemow/azure-devops-mcp/internal/logging"
	"github.com/teemow/azure-devops-mcp/internal/resources"
	"github.com/teemow/azure-devops-mcp/internal/server"
	"github.com/teemow/azure-devops-mcp/internal/tools"
)

const (
	transportStdio = "stdio"

	serverName = "azure-devops-mcp"

	startupTimeout = 5 * time.Second
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// serveOptions are the flags of the serve command.
type serveOptions struct {
	transport        string
	httpAddr         string
	debug            bool
	readOnly         bool
	disableStreaming bool
	metrics          MetricsConfig
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Azure DevOps
tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport
  - sse: Server-Sent Events transport

Authentication:
  --auth-method static-token (default) reads the Personal Access Token from
  AZURE_DEVOPS_PAT. service-identity uses the Azure identity chain
  (environment, workload identity, managed identity). cli-identity uses the
  account signed in with 'az login'.

The connection is established on the first tool call. Configuration
problems such as a missing organization URL or token are reported as the
result of that call.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadMetricsEnvVars(cmd, &opts.metrics)
			return runServe(cmd, opts)
		},
	}

	config.AddFlags(cmd.Flags())
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.transport, "transport", transportStdio, "Transport type: stdio, streamable-http or sse")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http and sse transports)")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "Only register tools that do not modify Azure DevOps")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")

	// Metrics server flags
	cmd.Flags().BoolVar(&opts.metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadMetricsEnvVars applies METRICS_ENABLED and METRICS_ADDR unless the
// matching flag was set explicitly.
func loadMetricsEnvVars(cmd *cobra.Command, cfg *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		switch os.Getenv("METRICS_ENABLED") {
		case "true":
			cfg.Enabled = true
		case "false":
			cfg.Enabled = false
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			cfg.Addr = addr
		}
	}
}

// newLogger writes to stderr. The stdio transport owns stdout.
func newLogger(w io.Writer, transport string, debug bool) *slog.Logger {
	return logging.New(w, logging.Options{
		Debug: debug,
		JSON:  transport != transportStdio,
	})
}

// newConnectionManager wires the credential resolver and the instrumented
// HTTP client into a connection manager for cfg.
func newConnectionManager(cfg *config.Config, logger *slog.Logger, metrics *instrumentation.Metrics) *connection.Manager {
	return connection.New(connection.Config{
		Auth:       cfg.Auth(),
		APIVersion: cfg.APIVersion,
		HTTPClient: instrumentation.NewHTTPClient(metrics),
	},
		auth.NewResolver(auth.WithLogger(logger)),
		connection.WithLogger(logger),
		connection.WithMetrics(metrics),
	)
}

// validateExporters rejects exporters that would write telemetry into the
// protocol stream.
func validateExporters(transport string, cfg instrumentation.Config) error {
	if !cfg.Enabled {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation settings: %w", err)
	}
	if transport != transportStdio {
		return nil
	}
	if cfg.MetricsExporter == instrumentation.ExporterStdout || cfg.TracingExporter == instrumentation.ExporterStdout {
		return fmt.Errorf("the stdout exporter cannot be used with the stdio transport")
	}
	return nil
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	switch opts.transport {
	case transportStdio, server.TransportStreamableHTTP, server.TransportSSE:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http, sse)", opts.transport)
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, opts.transport, opts.debug)
	slog.SetDefault(logger)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	instrConfig.Organization = logging.RedactURL(cfg.OrganizationURL)
	instrConfig.AuthMethod = cfg.AuthMethod.String()
	instrConfig.Transport = opts.transport
	if err := validateExporters(opts.transport, instrConfig); err != nil {
		return err
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	var metrics *instrumentation.Metrics
	var auditLogger *instrumentation.AuditLogger
	if provider.Enabled() {
		metrics = provider.Metrics()
		auditLogger = instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)
	}

	conn := newConnectionManager(cfg, logger, metrics)

	serverContext, err := server.NewServerContext(shutdownCtx, conn)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	serverContext.SetMetrics(metrics)
	serverContext.SetAuditLogger(auditLogger)
	defer func() {
		_ = serverContext.Shutdown()
	}()

	d, err := dispatcher.New(conn, dispatcher.Options{
		DefaultProject: cfg.DefaultProject,
		ReadOnly:       opts.readOnly,
		Organization:   logging.RedactURL(cfg.OrganizationURL),
		Metrics:        serverContext.Metrics(),
		AuditLogger:    serverContext.AuditLogger(),
		Logger:         logger,
	}, tools.All()...)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	mcpSrv := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
		mcpserver.WithRecovery(),
	)
	d.Register(mcpSrv)
	resources.RegisterConnectionResources(mcpSrv, conn)

	logger.Info("starting Azure DevOps MCP server",
		slog.String("transport", opts.transport),
		logging.Organization(cfg.OrganizationURL),
		logging.AuthMethod(cfg.AuthMethod.String()),
		slog.Int("tools", len(d.Descriptors())),
		slog.Bool("read_only", opts.readOnly))

	if opts.transport == transportStdio {
		return runStdioServer(shutdownCtx, mcpSrv, logger)
	}

	// Start metrics server if enabled and not in stdio mode
	if opts.metrics.Enabled && provider.PrometheusEnabled() {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metrics.Addr,
			InstrumentationProvider: provider,
			Logger:                  logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		if err := startInBackground(metricsServer.StartWithReadySignal, "metrics server"); err != nil {
			return err
		}
		defer shutdownWithTimeout(logger, "metrics server", metricsServer.Shutdown)
	}

	return runHTTPServer(shutdownCtx, mcpSrv, serverContext, opts, logger)
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, logger *slog.Logger) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(logging.NewSlogAdapter(logger).StdErrorLogger())

	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, opts serveOptions, logger *slog.Logger) error {
	httpServer, err := server.NewHTTPServer(mcpSrv, server.HTTPServerConfig{
		Transport:        opts.transport,
		Addr:             opts.httpAddr,
		Health:           server.NewHealthChecker(serverContext),
		DisableStreaming: opts.disableStreaming,
		Metrics:          serverContext.Metrics(),
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Start()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		_ = serverContext.Shutdown()
		shutdownWithTimeout(logger, "MCP HTTP server", httpServer.Shutdown)
		return nil
	}
}

// startInBackground runs start in a goroutine and waits until it reports
// ready or fails.
func startInBackground(start func(ready chan<- struct{}) error, name string) error {
	ready := make(chan struct{})
	failed := make(chan error, 1)
	go func() {
		if err := start(ready); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case <-ready:
		return nil
	case err := <-failed:
		return fmt.Errorf("%s failed to start: %w", name, err)
	case <-time.After(startupTimeout):
		return fmt.Errorf("%s startup timed out", name)
	}
}

func shutdownWithTimeout(logger *slog.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Warn("error during shutdown", slog.String("component", name), logging.Err(err))
	}
}
