package azuredevops

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	ado "github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"golang.org/x/oauth2"
)

const (
	// DefaultAPIVersion is sent with the resource area probe unless
	// overridden. Capability clients negotiate their own versions.
	DefaultAPIVersion = "7.1"

	// DefaultProfileURL hosts the profile and accounts endpoints that live
	// outside any single organization.
	DefaultProfileURL = "https://app.vssps.visualstudio.com"

	// ReleaseAreaID is the resource area of the release management service,
	// which is served from its own host.
	ReleaseAreaID = "efc2f575-36ef-48e9-b672-0c6fb4a48ac5"

	userAgent = "azure-devops-mcp"
)

// Connection is an authenticated client for one organization.
// It is safe for concurrent use once Probe has returned.
type Connection struct {
	orgURL     *url.URL
	profileURL *url.URL
	httpClient *http.Client
	apiVersion string
	sdk        *ado.Connection

	mu     sync.RWMutex
	areas  map[string]*url.URL
	probed []ResourceArea
}

// Option configures a Connection.
type Option func(*connectionOptions)

type connectionOptions struct {
	apiVersion string
	profileURL string
	httpClient *http.Client
}

// WithAPIVersion overrides DefaultAPIVersion.
func WithAPIVersion(v string) Option {
	return func(o *connectionOptions) {
		if v != "" {
			o.apiVersion = v
		}
	}
}

// WithProfileURL overrides DefaultProfileURL.
func WithProfileURL(u string) Option {
	return func(o *connectionOptions) {
		if u != "" {
			o.profileURL = u
		}
	}
}

// WithHTTPClient sets the base client wrapped by the oauth2 transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *connectionOptions) {
		o.httpClient = c
	}
}

// NewConnection builds a client for the organization at orgURL that
// authorizes every request with tokens from src. It performs no I/O.
func NewConnection(ctx context.Context, orgURL string, src oauth2.TokenSource, opts ...Option) (*Connection, error) {
	o := connectionOptions{
		apiVersion: DefaultAPIVersion,
		profileURL: DefaultProfileURL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if src == nil {
		return nil, fmt.Errorf("token source is required")
	}

	org, err := parseBaseURL(orgURL)
	if err != nil {
		return nil, fmt.Errorf("invalid organization URL: %w", err)
	}
	profile, err := parseBaseURL(o.profileURL)
	if err != nil {
		return nil, fmt.Errorf("invalid profile URL: %w", err)
	}

	return &Connection{
		orgURL:     org,
		profileURL: profile,
		httpClient: authorizedClient(o.httpClient, src),
		apiVersion: o.apiVersion,
		// The Authorization header is set by the oauth2 transport so that
		// refreshed bearer tokens reach every client.
		sdk: &ado.Connection{
			BaseUrl:                 org.String(),
			UserAgent:               userAgent,
			SuppressFedAuthRedirect: true,
		},
	}, nil
}

// authorizedClient wraps base so that every request carries a token from src
// and every error response becomes a *StatusError.
func authorizedClient(base *http.Client, src oauth2.TokenSource) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, src),
			Base:   &statusTransport{base: rt},
		},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host")
	}
	return u, nil
}

// OrganizationURL returns the organization base URL.
func (c *Connection) OrganizationURL() string {
	return c.orgURL.String()
}

// APIVersion returns the api-version sent with the probe.
func (c *Connection) APIVersion() string {
	return c.apiVersion
}

// client returns an SDK client rooted at base that sends through the
// authorized HTTP client.
func (c *Connection) client(base *url.URL) *ado.Client {
	return ado.NewClientWithOptions(c.sdk, base.String(), ado.WithHTTPClient(c.httpClient))
}

// Probe lists the organization's resource areas. It is the cheapest call
// that proves the credential is accepted, and it records area locations
// used to route requests to services hosted elsewhere.
func (c *Connection) Probe(ctx context.Context) ([]ResourceArea, error) {
	sdk := c.client(c.orgURL)
	target := c.orgURL.JoinPath("_apis", "resourceAreas").String()

	req, err := sdk.CreateRequestMessage(ctx, http.MethodGet, target, previewVersion(c.apiVersion, 1), nil, "", ado.MediaTypeApplicationJson, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := sdk.SendRequest(req)
	if err != nil {
		return nil, wrapError(err)
	}

	var out []ResourceArea
	if err := sdk.UnmarshalCollectionBody(resp, &out); err != nil {
		return nil, fmt.Errorf("failed to decode resource areas: %w", err)
	}
	if out == nil {
		out = []ResourceArea{}
	}

	areas := make(map[string]*url.URL, len(out)*2)
	for _, a := range out {
		loc, err := parseBaseURL(a.LocationURL)
		if err != nil {
			continue
		}
		if a.ID != "" {
			areas[strings.ToLower(a.ID)] = loc
		}
		if a.Name != "" {
			areas[strings.ToLower(a.Name)] = loc
		}
	}

	c.mu.Lock()
	c.areas = areas
	c.probed = out
	c.mu.Unlock()

	return slices.Clone(out), nil
}

// ResourceAreas returns the areas reported by the last successful Probe.
func (c *Connection) ResourceAreas() []ResourceArea {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.probed)
}

// location returns the base URL serving an area. Areas hosted on the
// organization URL may be absent from the probe result.
func (c *Connection) location(key string, fallback bool) (*url.URL, error) {
	c.mu.RLock()
	loc, ok := c.areas[strings.ToLower(key)]
	c.mu.RUnlock()
	if ok {
		return loc, nil
	}
	if fallback {
		return c.orgURL, nil
	}
	return nil, fmt.Errorf("resource area %s is not available for %s", key, c.orgURL)
}

func (c *Connection) areaClient(key string, fallback bool) (*ado.Client, error) {
	base, err := c.location(key, fallback)
	if err != nil {
		return nil, err
	}
	return c.client(base), nil
}

// Core returns the projects client.
func (c *Connection) Core() (*CoreClient, error) {
	sdk, err := c.areaClient("core", true)
	if err != nil {
		return nil, err
	}
	return newCoreClient(sdk), nil
}

// Git returns the repositories and pull requests client.
func (c *Connection) Git() (*GitClient, error) {
	sdk, err := c.areaClient("git", true)
	if err != nil {
		return nil, err
	}
	return newGitClient(sdk), nil
}

// WorkItemTracking returns the work items client.
func (c *Connection) WorkItemTracking() (*WorkItemClient, error) {
	sdk, err := c.areaClient("wit", true)
	if err != nil {
		return nil, err
	}
	return newWorkItemClient(sdk), nil
}

// Build returns the build client.
func (c *Connection) Build() (*BuildClient, error) {
	sdk, err := c.areaClient("build", true)
	if err != nil {
		return nil, err
	}
	return newBuildClient(sdk), nil
}

// Test returns the test runs client.
func (c *Connection) Test() (*TestClient, error) {
	sdk, err := c.areaClient("test", true)
	if err != nil {
		return nil, err
	}
	return newTestClient(sdk), nil
}

// Release returns the release client. Release management lives on its own
// host, so the area must have been reported by Probe.
func (c *Connection) Release() (*ReleaseClient, error) {
	sdk, err := c.areaClient(ReleaseAreaID, false)
	if err != nil {
		return nil, err
	}
	return newReleaseClient(sdk), nil
}

// TaskAgent returns the agent pools client.
func (c *Connection) TaskAgent() (*TaskAgentClient, error) {
	sdk, err := c.areaClient("distributedtask", true)
	if err != nil {
		return nil, err
	}
	return newTaskAgentClient(sdk), nil
}

// Task returns the orchestration plan client. Plans are scoped by project
// ID, so project names are resolved through the core client.
func (c *Connection) Task() (*TaskClient, error) {
	sdk, err := c.areaClient("distributedtask", true)
	if err != nil {
		return nil, err
	}
	core, err := c.Core()
	if err != nil {
		return nil, err
	}
	return newTaskClient(sdk, core), nil
}

// Organizations returns the client for the profile and accounts endpoints.
func (c *Connection) Organizations() (*OrganizationClient, error) {
	return newOrganizationClient(c.client(c.profileURL)), nil
}
