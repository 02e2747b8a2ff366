// Package connection owns the single authenticated Azure DevOps connection
// of a server process.
//
// A Manager resolves credentials, builds the REST client and probes the
// organization the first time any caller needs it. Concurrent first callers
// share one attempt. The result is cached on success; a failure is returned
// to every waiter and the next call starts over.
//
// Capability accessors (CoreAPI, GitAPI, WorkItemAPI and so on) establish
// the connection on demand and hand out the matching client.
package connection
