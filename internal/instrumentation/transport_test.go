package instrumentation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestTransport_RecordsRequests(t *testing.T) {
	recorder := withRecorder(t)
	m, reader := newTestMetrics(t, false)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/contoso/_apis/projects/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(m)
	for _, path := range []string{"/contoso/_apis/projects", "/contoso/_apis/projects/missing"} {
		resp, err := client.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		_ = resp.Body.Close()
	}

	statuses := map[string]int64{}
	for _, dp := range counterPoints(t, reader, "azure_devops_api_requests_total") {
		area, _ := attrValue(dp.Attributes, attrArea)
		if area != "projects" {
			t.Errorf("area = %q, want %q", area, "projects")
		}
		status, _ := attrValue(dp.Attributes, attrStatus)
		statuses[status] += dp.Value
	}
	if statuses["200"] != 1 || statuses["404"] != 1 {
		t.Errorf("unexpected status counts: %v", statuses)
	}

	if n := len(recorder.Ended()); n != 2 {
		t.Errorf("expected 2 spans, got %d", n)
	}
}

func TestTransport_TransportError(t *testing.T) {
	m, reader := newTestMetrics(t, false)

	client := &http.Client{Transport: &Transport{Base: failingTransport{}, Metrics: m}}
	_, err := client.Get("http://example.invalid/contoso/_apis/git/repositories")
	if err == nil {
		t.Fatal("expected an error")
	}

	points := counterPoints(t, reader, "azure_devops_api_requests_total")
	if len(points) != 1 {
		t.Fatalf("expected 1 data point, got %d", len(points))
	}
	if status, _ := attrValue(points[0].Attributes, attrStatus); status != "0" {
		t.Errorf("status = %q, want %q", status, "0")
	}
}
