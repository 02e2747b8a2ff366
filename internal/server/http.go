package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/azure-devops-mcp/internal/instrumentation"
	"github.com/teemow/azure-devops-mcp/internal/logging"
)

// Transport names accepted by NewHTTPServer.
const (
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// unmatchedPath labels requests that matched no route.
const unmatchedPath = "unmatched"

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	// Transport is TransportSSE or TransportStreamableHTTP.
	Transport string

	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Health serves /healthz, /readyz and /healthz/detailed when set.
	Health *HealthChecker

	// DisableStreaming answers streamable HTTP requests with plain JSON
	// instead of an SSE upgrade.
	DisableStreaming bool

	// Metrics records one sample per HTTP request when set.
	Metrics *instrumentation.Metrics

	Logger *slog.Logger
}

// HTTPServer exposes an MCP server over HTTP next to the health endpoints.
type HTTPServer struct {
	cfg     HTTPServerConfig
	logger  *slog.Logger
	handler http.Handler

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// NewHTTPServer mounts mcpServer on the endpoints of the configured transport.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, cfg HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("MCP server is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	switch cfg.Transport {
	case TransportSSE:
		sseServer := mcpserver.NewSSEServer(mcpServer,
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
		)
		mux.Handle("/sse", sseServer)
		mux.Handle("/message", sseServer)

	case TransportStreamableHTTP:
		streamable := mcpserver.NewStreamableHTTPServer(mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
			mcpserver.WithDisableStreaming(cfg.DisableStreaming),
			mcpserver.WithLogger(logging.NewSlogAdapter(logger)),
		)
		mux.Handle("/mcp", streamable)

	default:
		return nil, fmt.Errorf("unsupported server type: %s", cfg.Transport)
	}

	if cfg.Health != nil {
		cfg.Health.RegisterHealthEndpoints(mux)
	}

	return &HTTPServer{
		cfg:     cfg,
		logger:  logger,
		handler: recordRequests(cfg.Metrics, mux),
	}, nil
}

// Handler returns the routed and instrumented handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Start binds the address and serves until Shutdown. It blocks.
func (s *HTTPServer) Start() error {
	return s.StartWithReadySignal(nil)
}

// StartWithReadySignal is Start, closing ready once the listener is bound.
func (s *HTTPServer) StartWithReadySignal(ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}

	// No WriteTimeout: SSE streams stay open for the life of the session.
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("starting MCP HTTP server",
		slog.String("transport", s.cfg.Transport),
		slog.String("addr", ln.Addr().String()))
	if ready != nil {
		close(ready)
	}
	return srv.Serve(ln)
}

// Shutdown gracefully shuts down the server. It is a no-op before Start.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Addr returns the bound address once started, or the configured one.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// recordRequests records every request against the route pattern that served
// it, so the path label stays bounded.
func recordRequests(metrics *instrumentation.Metrics, mux *http.ServeMux) http.Handler {
	if metrics == nil {
		return mux
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		mux.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		path := r.Pattern
		if path == "" {
			path = unmatchedPath
		}
		metrics.RecordHTTPRequest(r.Context(), r.Method, path, status, time.Since(start))
	})
}
