package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/instrumentation"
	"github.com/teemow/azure-devops-mcp/internal/logging"
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

// unknownToolLabel replaces unregistered tool names in metrics.
const unknownToolLabel = "unknown"

// ConnectionProvider is the shared connection as seen by the dispatcher.
// *connection.Manager implements it.
type ConnectionProvider interface {
	common.Connection

	// Connect establishes the connection, or reports why it cannot be.
	Connect(ctx context.Context) error
}

// Options configures a Dispatcher. Every field is optional.
type Options struct {
	// DefaultProject fills a missing projectId argument.
	DefaultProject string

	// ReadOnly drops every tool whose descriptor is not ReadOnly.
	ReadOnly bool

	// Organization is recorded in audit lines.
	Organization string

	Metrics     *instrumentation.Metrics
	AuditLogger *instrumentation.AuditLogger
	Logger      *slog.Logger
}

type entry struct {
	desc   common.Descriptor
	schema *jsonschema.Schema
}

// Dispatcher validates and executes tool calls. The registry is fixed at
// construction and the Dispatcher is safe for concurrent use.
type Dispatcher struct {
	conn   ConnectionProvider
	opts   Options
	logger *slog.Logger

	tools map[string]*entry
	order []string
}

// New builds the registry from descriptors and compiles their schemas.
func New(conn ConnectionProvider, opts Options, descriptors ...common.Descriptor) (*Dispatcher, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection provider is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		conn:   conn,
		opts:   opts,
		logger: logging.WithOperation(logger, "dispatch"),
		tools:  make(map[string]*entry, len(descriptors)),
	}

	for _, desc := range descriptors {
		if desc.Name == "" {
			return nil, fmt.Errorf("tool name is required")
		}
		if desc.Handler == nil {
			return nil, fmt.Errorf("tool %s has no handler", desc.Name)
		}
		if _, exists := d.tools[desc.Name]; exists {
			return nil, fmt.Errorf("tool %s is registered twice", desc.Name)
		}
		if opts.ReadOnly && !desc.ReadOnly {
			continue
		}

		schema, err := compileSchema(desc.Name, desc.Schema)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema of %s: %w", desc.Name, err)
		}
		d.tools[desc.Name] = &entry{desc: desc, schema: schema}
		d.order = append(d.order, desc.Name)
	}

	return d, nil
}

// Descriptors returns the registered descriptors in registration order.
func (d *Dispatcher) Descriptors() []common.Descriptor {
	out := make([]common.Descriptor, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.tools[name].desc)
	}
	return out
}

// Tools returns the MCP tool definitions in registration order.
func (d *Dispatcher) Tools() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, toolOf(d.tools[name].desc))
	}
	return out
}

func toolOf(desc common.Descriptor) mcp.Tool {
	tool := mcp.NewToolWithRawSchema(desc.Name, desc.Description, desc.Schema.JSON())
	tool.Annotations = mcp.ToolAnnotation{
		ReadOnlyHint:  mcp.ToBoolPtr(desc.ReadOnly),
		OpenWorldHint: mcp.ToBoolPtr(true),
	}
	return tool
}

// Register adds every tool to s. Tool handlers never return an error; the
// outcome is always in the result text.
func (d *Dispatcher) Register(s *mcpserver.MCPServer) {
	tools := make([]mcpserver.ServerTool, 0, len(d.order))
	for _, name := range d.order {
		tools = append(tools, mcpserver.ServerTool{
			Tool: toolOf(d.tools[name].desc),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.Dispatch(ctx, name, req.GetArguments()), nil
			},
		})
	}
	s.AddTools(tools...)
}

// Dispatch runs one tool call and renders its outcome as a single text
// content item.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	start := time.Now()

	e, known := d.tools[name]
	project := common.ProjectFromArgs(args)
	readOnly := known && e.desc.ReadOnly

	ctx, span := instrumentation.StartToolSpan(ctx, name,
		instrumentation.NewSpanAttributeBuilder().
			WithProject(project).
			WithReadOnly(readOnly).
			Build()...)
	defer span.End()

	invocation := instrumentation.NewToolInvocation(name).
		WithTarget(d.opts.Organization, project).
		WithReadOnly(readOnly).
		WithSpanContext(ctx)

	result, err := d.execute(ctx, name, e, args)

	text, err := render(result, err)
	duration := time.Since(start)

	metricName := name
	if !known {
		metricName = unknownToolLabel
	}

	if err != nil {
		kind := errorKind(err)
		invocation.CompleteWithError(kind, azuredevops.ErrorMessage(err))
		instrumentation.SetSpanError(span, err)
		d.opts.Metrics.RecordToolInvocation(ctx, metricName, instrumentation.StatusError, project, duration)
		d.logger.Warn("tool call failed",
			logging.Tool(name),
			logging.Project(project),
			slog.String("error_kind", kind),
			slog.Duration(logging.KeyDuration, duration),
			logging.Err(err))
	} else {
		invocation.CompleteSuccess()
		instrumentation.SetSpanSuccess(span)
		d.opts.Metrics.RecordToolInvocation(ctx, metricName, instrumentation.StatusSuccess, project, duration)
		d.logger.Debug("tool call succeeded",
			logging.Tool(name),
			logging.Project(project),
			slog.Duration(logging.KeyDuration, duration))
	}
	d.opts.AuditLogger.LogToolInvocation(invocation)

	return mcp.NewToolResultText(text)
}

// execute performs the call steps in order. A panicking handler is
// reported as a Generic error.
func (d *Dispatcher) execute(ctx context.Context, name string, e *entry, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool handler panicked", logging.Tool(name), slog.Any("panic", r))
			result, err = nil, azuredevops.NewGenericError(fmt.Sprintf("Error: %v", r))
		}
	}()

	if args == nil {
		return nil, azuredevops.NewValidationError("Arguments are required", nil)
	}
	if e == nil {
		return nil, azuredevops.NewGenericError("Unknown tool: " + name)
	}

	if err := d.conn.Connect(ctx); err != nil {
		return nil, err
	}

	args = common.WithDefaultProject(e.desc.Schema, args, d.opts.DefaultProject)
	if err := validateArgs(name, e.schema, args); err != nil {
		return nil, err
	}

	return e.desc.Handler(ctx, d.conn, args)
}

// render produces the response text and the error that was rendered, if
// any. Errors outside the taxonomy are wrapped as Generic first.
func render(result any, err error) (string, error) {
	if err == nil {
		text, encErr := encodeResult(result)
		if encErr == nil {
			return text, nil
		}
		err = encErr
	}

	if !azuredevops.IsDomainError(err) {
		wrapped := azuredevops.NewGenericError("Error: " + azuredevops.ErrorMessage(err))
		wrapped.Cause = err
		err = wrapped
	}
	return azuredevops.Format(err), err
}

// encodeResult renders v as JSON indented by two spaces, without escaping
// HTML characters.
func encodeResult(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func errorKind(err error) string {
	if de, ok := azuredevops.AsDomainError(err); ok {
		return string(de.Kind)
	}
	return string(azuredevops.KindGeneric)
}
