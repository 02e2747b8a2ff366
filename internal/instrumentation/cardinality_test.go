package instrumentation

import "testing"

func TestExtractArea(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/contoso/_apis/projects", "projects"},
		{"/contoso/_apis/projects/Fabrikam", "projects"},
		{"/contoso/Fabrikam/_apis/wit/workitems/42", "wit"},
		{"/contoso/Fabrikam/team/_apis/wit/wiql", "wit"},
		{"/contoso/Fabrikam/_apis/git/repositories/repo/pullrequests", "git"},
		{"/_apis/profile/profiles/me", "profile"},
		{"/contoso/_APIS/ResourceAreas", "resourceareas"},
		{"/contoso/_apis/", "unknown"},
		{"/contoso/healthz", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ExtractArea(tt.path); got != tt.expected {
				t.Errorf("ExtractArea(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
