// Package common holds the pieces every tool package shares: the
// Descriptor that registers a tool, the declarative Schema of its
// arguments, the Connection interface handlers call into, and helpers for
// reading arguments.
//
// Tool packages build descriptors; the dispatcher validates arguments
// against the rendered schema and then calls Handler. Handlers therefore
// receive arguments that already have the declared shape and can decode
// them with Handle.
package common
