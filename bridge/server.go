// Package bridge exposes the task store to agents as MCP tools.
package bridge

import (
	"context"
	"errors"
	"io"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/amonks/tasktree/todo"
)

// Options configures the MCP bridge.
type Options struct {
	// Store is required.
	Store *todo.Store

	// PaddingDays is the default timeline padding for get_gantt.
	PaddingDays int

	// Version is reported to clients during initialization.
	Version string

	Logger *log.Logger
}

// Bridge owns the MCP server and its tool handlers.
type Bridge struct {
	store       *todo.Store
	paddingDays int
	logger      *log.Logger
	server      *server.MCPServer
}

// New registers every tool on a fresh MCP server.
func New(opts Options) (*Bridge, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "tt: ", log.LstdFlags)
	}

	b := &Bridge{
		store:       opts.Store,
		paddingDays: min(max(opts.PaddingDays, 0), todo.MaxPaddingDays),
		logger:      logger,
	}
	b.server = server.NewMCPServer(
		"tasktree",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	for _, tool := range b.tools() {
		b.server.AddTool(tool.definition, tool.handle)
	}
	return b, nil
}

// MCPServer returns the underlying server.
func (b *Bridge) MCPServer() *server.MCPServer {
	return b.server
}

// Serve speaks MCP over in and out until ctx is canceled or in is closed.
func (b *Bridge) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(b.server)
	stdio.SetErrorLogger(b.logger)
	err := stdio.Listen(ctx, in, out)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

const instructions = `Tasktree tracks hierarchical tasks with priorities, dates, categories and tags.
Task ids accept any unique prefix. Dates use YYYY-MM-DD. Priorities are high, medium or low.
Use list_todos with tree=true to see the hierarchy and get_gantt for the timeline.`
