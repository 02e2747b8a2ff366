// Package dispatcher routes MCP tool calls to tool handlers.
//
// A Dispatcher owns an immutable registry of tool descriptors and the
// shared connection. Every call runs the same sequence: reject missing
// arguments, look up the tool, establish the connection, validate the
// arguments against the tool's JSON Schema, run the handler and render
// the outcome. Whatever happens, the caller receives a single text content
// item: the indented JSON result, or an error rendered by
// azuredevops.Format. Nothing is returned as a Go error or panic to the
// MCP transport.
package dispatcher
