// Package adotest serves a fake Azure DevOps organization for tests. It
// answers the location discovery request every SDK client makes and routes
// everything else to handlers keyed by "METHOD /path".
package adotest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// Location is one entry of the location table.
type Location struct {
	ID            string
	Area          string
	Resource      string
	RouteTemplate string
}

// Locations covers every resource the azuredevops package calls.
var Locations = []Location{
	{"603fe2ac-9723-48b9-88ad-09305aa6c6e1", "core", "projects", "_apis/projects/{*projectId}"},
	{"225f7195-f9c7-4d14-ab28-a83f7ff77e1f", "git", "repositories", "{project}/_apis/git/repositories/{repositoryId}"},
	{"9946fd70-0d40-406e-b686-b4744cbbcc37", "git", "pullRequests", "{project}/_apis/git/repositories/{repositoryId}/pullRequests/{pullRequestId}"},
	{"ab6e2e5d-a0b7-4153-b64a-a4efe0d49449", "git", "pullRequestThreads", "{project}/_apis/git/repositories/{repositoryId}/pullRequests/{pullRequestId}/threads/{threadId}"},
	{"965a3ec7-5ed8-455a-bdcb-835a5ea7fe7b", "git", "pullRequestThreadComments", "{project}/_apis/git/repositories/{repositoryId}/pullRequests/{pullRequestId}/threads/{threadId}/comments/{commentId}"},
	{"d43911ee-6958-46b0-a42b-8445b8a0d004", "git", "pullRequestIterations", "{project}/_apis/git/repositories/{repositoryId}/pullRequests/{pullRequestId}/iterations/{iterationId}"},
	{"4216bdcf-b6b1-4d59-8b82-c34cc183fc8b", "git", "pullRequestIterationChanges", "{project}/_apis/git/repositories/{repositoryId}/pullRequests/{pullRequestId}/iterations/{iterationId}/changes"},
	{"72c7ddf8-2cdc-4f60-90cd-ab71c14a399b", "wit", "workItems", "{project}/_apis/wit/workItems/{id}"},
	{"62d3d110-0047-428c-ad3c-4fe872c91c74", "wit", "workItems", "{project}/_apis/wit/workItems/${type}"},
	{"1a9c53f7-f243-4447-b110-35ef023636e4", "wit", "wiql", "{project}/{team}/_apis/wit/wiql/{id}"},
	{"a02355f5-5f8a-4671-8e32-369d23aac83d", "wit", "wiql", "{project}/{team}/_apis/wit/wiql/{id}"},
	{"0cd358e1-9217-4d94-8269-1c1ee6f93dcf", "build", "builds", "{project}/_apis/build/builds/{buildId}"},
	{"cadb3810-d47d-4a3c-a234-fe5f3be50138", "test", "runs", "{project}/_apis/test/runs/{runId}"},
	{"a166fde7-27ad-408e-ba75-703c2cc9d500", "release", "releases", "{project}/_apis/release/releases/{releaseId}"},
	{"a8c47e17-4d56-4a56-92bb-de7ea7dc65be", "distributedtask", "pools", "_apis/distributedtask/pools/{poolId}"},
	{"83597576-cc2c-453c-bea6-2882ae6a1653", "distributedtask", "timelines", "{scopeIdentifier}/_apis/distributedtask/hubs/{hubName}/plans/{planId}/timelines/{timelineId}"},
	{"f83735dc-483f-4238-a291-d45f6080a9af", "Profile", "Profiles", "_apis/profile/profiles/{id}"},
	{"229a6a53-b428-4ffb-a835-e8f36b5b4b1e", "Account", "Accounts", "_apis/accounts"},
}

// Request is a recorded call. Location discovery is not recorded.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

// Server is a fake organization. Every base path under it shares the same
// location table, so organization, release and profile hosts can all be
// rooted on one server.
type Server struct {
	*httptest.Server

	t        *testing.T
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []Request
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{t: t, handlers: map[string]http.HandlerFunc{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers h for route, e.g. "GET /myorg/_apis/projects".
func (s *Server) Handle(route string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[route] = h
}

// Requests returns the recorded calls in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent recorded call and fails the test
// when there is none.
func (s *Server) LastRequest() Request {
	s.t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		s.t.Fatal("no requests recorded")
	}
	return reqs[len(reqs)-1]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions && strings.HasSuffix(r.URL.Path, "/_apis") {
		WriteJSON(w, http.StatusOK, Collection(locationTable()))
		return
	}

	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	h, ok := s.handlers[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]any{"message": "no route for " + r.Method + " " + r.URL.Path})
		return
	}
	h(w, r)
}

func locationTable() []map[string]any {
	out := make([]map[string]any, 0, len(Locations))
	for _, l := range Locations {
		out = append(out, map[string]any{
			"id":              l.ID,
			"area":            l.Area,
			"resourceName":    l.Resource,
			"routeTemplate":   l.RouteTemplate,
			"minVersion":      "1.0",
			"maxVersion":      "7.1",
			"releasedVersion": "7.1",
			"resourceVersion": 9,
		})
	}
	return out
}

// Collection wraps values the way list endpoints do.
func Collection[T any](values []T) map[string]any {
	if values == nil {
		values = []T{}
	}
	return map[string]any{"count": len(values), "value": values}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
