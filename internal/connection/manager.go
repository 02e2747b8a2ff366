package connection

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/teemow/azure-devops-mcp/internal/auth"
	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/instrumentation"
	"github.com/teemow/azure-devops-mcp/internal/logging"
)

// State is the lifecycle state of the managed connection.
type State int32

const (
	StateUninitialized State = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// connectKey is the single-flight key; there is only ever one connection.
const connectKey = "connection"

// CredentialResolver turns authentication settings into a credential.
// *auth.Resolver implements it.
type CredentialResolver interface {
	Resolve(ctx context.Context, cfg auth.Config) (*auth.Credential, error)
}

// Config holds everything needed to reach one organization.
type Config struct {
	Auth auth.Config

	// APIVersion overrides azuredevops.DefaultAPIVersion.
	APIVersion string

	// ProfileURL overrides azuredevops.DefaultProfileURL.
	ProfileURL string

	// HTTPClient is the base client wrapped by the credential transport.
	HTTPClient *http.Client
}

// Manager lazily builds and caches the single authenticated connection.
//
// The first caller of GetConnection starts the pipeline (resolve
// credentials, build the client, probe the organization). Concurrent callers
// wait for the same attempt. A successful connection is kept for the life of
// the Manager; a failed attempt is forgotten so the next call retries.
type Manager struct {
	cfg      Config
	resolver CredentialResolver
	logger   *slog.Logger
	metrics  *instrumentation.Metrics

	group singleflight.Group
	state atomic.Int32

	mu      sync.RWMutex
	conn    *azuredevops.Connection
	lastErr error
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithMetrics records connection attempts.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// New returns a Manager. No I/O happens until the first GetConnection.
func New(cfg Config, resolver CredentialResolver, opts ...Option) *Manager {
	m := &Manager{
		cfg:      cfg,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.WithOrganization(logging.WithOperation(m.logger, "connection"), cfg.Auth.OrganizationURL)
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// LastError returns the error of the most recent failed attempt, or nil.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// OrganizationURL returns the configured organization URL.
func (m *Manager) OrganizationURL() string {
	return m.cfg.Auth.OrganizationURL
}

func (m *Manager) cached() *azuredevops.Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn
}

// GetConnection returns the authenticated connection, establishing it on
// first use. The attempt itself is not bound to ctx: a caller that gives up
// stops waiting, but other waiters still receive the outcome.
func (m *Manager) GetConnection(ctx context.Context) (*azuredevops.Connection, error) {
	if conn := m.cached(); conn != nil {
		return conn, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(connectKey, func() (any, error) {
		// Another attempt may have finished while this one was queued.
		if conn := m.cached(); conn != nil {
			return conn, nil
		}
		return m.connect(detached)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*azuredevops.Connection), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Connect establishes the connection and discards it. It satisfies callers
// that only need to know the connection is usable.
func (m *Manager) Connect(ctx context.Context) error {
	_, err := m.GetConnection(ctx)
	return err
}

// connect runs the pipeline once. It is only called inside the
// single-flight group.
func (m *Manager) connect(ctx context.Context) (*azuredevops.Connection, error) {
	m.state.Store(int32(StateConnecting))
	start := time.Now()

	ctx, span := instrumentation.StartConnectionSpan(ctx, logging.RedactURL(m.cfg.Auth.OrganizationURL))
	defer span.End()

	conn, areas, err := m.dial(ctx)
	duration := time.Since(start)

	if err != nil {
		err = normalize(err)
		instrumentation.SetSpanError(span, err)
		m.metrics.RecordConnectionAttempt(ctx, instrumentation.ConnectionResultFailure, duration)
		m.logger.Warn("failed to connect to Azure DevOps",
			logging.AuthMethod(m.cfg.Auth.Method.String()),
			slog.Duration(logging.KeyDuration, duration),
			logging.Err(err))

		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		m.state.Store(int32(StateFailed))
		return nil, err
	}

	instrumentation.SetSpanSuccess(span)
	m.metrics.RecordConnectionAttempt(ctx, instrumentation.ConnectionResultSuccess, duration)
	m.logger.Info("connected to Azure DevOps",
		logging.AuthMethod(m.cfg.Auth.Method.String()),
		slog.Int("resource_areas", areas),
		slog.Duration(logging.KeyDuration, duration))

	m.mu.Lock()
	m.conn = conn
	m.lastErr = nil
	m.mu.Unlock()
	m.state.Store(int32(StateConnected))
	return conn, nil
}

// dial resolves credentials, builds the client and probes the organization.
// A panic in any stage is reported as an error so waiters are released.
func (m *Manager) dial(ctx context.Context) (conn *azuredevops.Connection, areas int, err error) {
	defer func() {
		if r := recover(); r != nil {
			conn, areas, err = nil, 0, fmt.Errorf("panic while connecting: %v", r)
		}
	}()

	cred, err := m.resolver.Resolve(ctx, m.cfg.Auth)
	if err != nil {
		return nil, 0, err
	}

	opts := []azuredevops.Option{
		azuredevops.WithAPIVersion(m.cfg.APIVersion),
		azuredevops.WithProfileURL(m.cfg.ProfileURL),
	}
	if m.cfg.HTTPClient != nil {
		opts = append(opts, azuredevops.WithHTTPClient(m.cfg.HTTPClient))
	}

	// Any failure from here on is reported as an authentication failure.
	conn, err = azuredevops.NewConnection(ctx, m.cfg.Auth.OrganizationURL, cred.TokenSource(), opts...)
	if err != nil {
		return nil, 0, authenticationFailure(err)
	}

	probed, err := conn.Probe(ctx)
	if err != nil {
		return nil, 0, authenticationFailure(err)
	}
	return conn, len(probed), nil
}

// normalize keeps domain errors and reports anything else as an
// authentication failure.
func normalize(err error) error {
	if azuredevops.IsDomainError(err) {
		return err
	}
	return authenticationFailure(err)
}

func authenticationFailure(err error) error {
	wrapped := azuredevops.NewAuthenticationError(
		fmt.Sprintf("Failed to authenticate with Azure DevOps: %s", azuredevops.ErrorMessage(err)))
	wrapped.Cause = err
	return wrapped
}

// IsAuthenticated reports whether a connection can be established. It never
// returns an error; every failure is reported as false.
func (m *Manager) IsAuthenticated(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic while checking authentication", slog.Any("panic", r))
			ok = false
		}
	}()

	conn, err := m.GetConnection(ctx)
	return err == nil && conn != nil
}

// client establishes the connection and obtains one capability client from
// it. Failures are reported as "Failed to get <capability>: <reason>".
func client[T any](ctx context.Context, m *Manager, capability string, get func(*azuredevops.Connection) (T, error)) (T, error) {
	var zero T
	conn, err := m.GetConnection(ctx)
	if err != nil {
		return zero, capabilityError(capability, err)
	}
	c, err := get(conn)
	if err != nil {
		return zero, capabilityError(capability, err)
	}
	return c, nil
}

func capabilityError(capability string, err error) error {
	if azuredevops.IsDomainError(err) {
		return err
	}
	wrapped := azuredevops.NewAuthenticationError(
		fmt.Sprintf("Failed to get %s: %s", capability, azuredevops.ErrorMessage(err)))
	wrapped.Cause = err
	return wrapped
}

// CoreAPI returns the projects client.
func (m *Manager) CoreAPI(ctx context.Context) (azuredevops.CoreAPI, error) {
	return client(ctx, m, "Core API", func(c *azuredevops.Connection) (azuredevops.CoreAPI, error) {
		return c.Core()
	})
}

// GitAPI returns the repositories and pull requests client.
func (m *Manager) GitAPI(ctx context.Context) (azuredevops.GitAPI, error) {
	return client(ctx, m, "Git API", func(c *azuredevops.Connection) (azuredevops.GitAPI, error) {
		return c.Git()
	})
}

// WorkItemAPI returns the work items client.
func (m *Manager) WorkItemAPI(ctx context.Context) (azuredevops.WorkItemAPI, error) {
	return client(ctx, m, "Work Item Tracking API", func(c *azuredevops.Connection) (azuredevops.WorkItemAPI, error) {
		return c.WorkItemTracking()
	})
}

// BuildAPI returns the build client.
func (m *Manager) BuildAPI(ctx context.Context) (azuredevops.BuildAPI, error) {
	return client(ctx, m, "Build API", func(c *azuredevops.Connection) (azuredevops.BuildAPI, error) {
		return c.Build()
	})
}

// TestAPI returns the test runs client.
func (m *Manager) TestAPI(ctx context.Context) (azuredevops.TestAPI, error) {
	return client(ctx, m, "Test API", func(c *azuredevops.Connection) (azuredevops.TestAPI, error) {
		return c.Test()
	})
}

// ReleaseAPI returns the release client.
func (m *Manager) ReleaseAPI(ctx context.Context) (azuredevops.ReleaseAPI, error) {
	return client(ctx, m, "Release API", func(c *azuredevops.Connection) (azuredevops.ReleaseAPI, error) {
		return c.Release()
	})
}

// TaskAgentAPI returns the agent pools client.
func (m *Manager) TaskAgentAPI(ctx context.Context) (azuredevops.TaskAgentAPI, error) {
	return client(ctx, m, "Task Agent API", func(c *azuredevops.Connection) (azuredevops.TaskAgentAPI, error) {
		return c.TaskAgent()
	})
}

// TaskAPI returns the orchestration plan client.
func (m *Manager) TaskAPI(ctx context.Context) (azuredevops.TaskAPI, error) {
	return client(ctx, m, "Task API", func(c *azuredevops.Connection) (azuredevops.TaskAPI, error) {
		return c.Task()
	})
}

// OrganizationAPI returns the profile and accounts client.
func (m *Manager) OrganizationAPI(ctx context.Context) (azuredevops.OrganizationAPI, error) {
	return client(ctx, m, "Organizations API", func(c *azuredevops.Connection) (azuredevops.OrganizationAPI, error) {
		return c.Organizations()
	})
}
