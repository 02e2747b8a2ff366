package instrumentation

import "strings"

// Cardinality management helpers for metrics.
//
// Azure DevOps request paths embed project names, repository IDs and work
// item numbers. Recording them as labels would create one series per
// resource, so metrics use the resource area instead.

// AreaUnknown is recorded when a path carries no _apis segment.
const AreaUnknown = "unknown"

// ExtractArea returns the resource area of an Azure DevOps REST path: the
// segment following "_apis".
//
// Example:
//
//	ExtractArea("/contoso/_apis/projects")                 // "projects"
//	ExtractArea("/contoso/Fabrikam/_apis/wit/workitems/1") // "wit"
//	ExtractArea("/contoso/healthz")                        // "unknown"
func ExtractArea(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		if strings.EqualFold(s, "_apis") && i+1 < len(segments) && segments[i+1] != "" {
			return strings.ToLower(segments[i+1])
		}
	}
	return AreaUnknown
}
