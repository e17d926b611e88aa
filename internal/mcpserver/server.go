// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the OpenAPI explorer as MCP tools over stdio.
package mcpserver

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasexplorer"
	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/internal/metrics"
)

const serverInstructions = `oasexplorer MCP server: browses OpenAPI and Swagger documents as a tag tree, searches and filters operations, resolves $ref pointers and reports effective security.

Every tool except slug takes either spec (one of file, url or content) or specs (several documents shown as one tree, each under its title).

Configuration: All defaults are configurable via OASEXPLORER_* environment variables set in your MCP client config.

Key settings:
- OASEXPLORER_CACHE_TTL (default: 15m): cache TTL for file and inline specs
- OASEXPLORER_CACHE_URL_TTL (default: 5m): cache TTL for URL-fetched specs
- OASEXPLORER_CACHE_ENABLED (default: true): disable workspace caching entirely
- OASEXPLORER_PAGE_LIMIT (default: 100): default result limit for list tools
- OASEXPLORER_TREE_DEPTH (default: 0, unlimited): default depth of the tree tool

Caching: Loaded workspaces are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. Resolved references are memoized inside a workspace, so repeated resolve calls on the same spec are cheap.`

// Options configures the server.
type Options struct {
	// Logger receives load and cache diagnostics. Nil discards them.
	Logger document.Logger
	// Metrics records tool calls. Nil records nothing.
	Metrics *metrics.ToolMetrics
}

// toolServer holds the state of one server that its tool handlers share.
type toolServer struct {
	logger  document.Logger
	metrics *metrics.ToolMetrics
}

type loggerKey struct{}

// withLogger returns ctx carrying l for the handlers of one call.
func withLogger(ctx context.Context, l document.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// contextLogger returns the logger of the calling server, or a no-op logger.
func contextLogger(ctx context.Context) document.Logger {
	l, _ := ctx.Value(loggerKey{}).(document.Logger)
	return document.LoggerOrNop(l)
}

// errToolFailed marks calls that returned an error result.
var errToolFailed = errors.New("tool returned an error result")

// NewServer returns an MCP server with every explorer tool registered.
func NewServer(opts Options) *mcp.Server {
	ts := &toolServer{logger: document.LoggerOrNop(opts.Logger), metrics: opts.Metrics}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasexplorer", Version: oasexplorer.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server, ts)
	return server
}

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	return NewServer(opts).Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server, ts *toolServer) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "tree",
		Description: "Show the tag tree of an OpenAPI document. Tags such as \"Store | Orders\" nest operations under Store > Orders; operations without tags sit under Untagged and webhooks under Webhooks. With specs, each document becomes a top-level node named after its title. Use node (a full path like \"Store | Orders\" or a slug like \"store/orders\") to show one subtree and depth to limit nesting.",
	}, instrumented(ts, "tree", handleTree))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Search operations by a case-insensitive substring of their method, path, summary, description, operationId, tags, parameter names and descriptions, request body description, and response codes and descriptions. Returns a flat list with the document each hit came from. Use offset/limit to paginate.",
	}, instrumented(ts, "search", handleSearch))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "filter",
		Description: "List operations restricted by HTTP method and security. methods is a comma-separated list (get,post,...); security is all, private (authentication required) or public. Each result names the tag node holding it; an operation with several tags appears once per tag.",
	}, instrumented(ts, "filter", handleFilter))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve $ref pointers. Give ref (e.g. #/components/schemas/Pet) to expand one component, or method and path to expand a whole operation. Cycles, missing targets and external references are replaced by markers such as {\"$ref\": \"...\", \"circular\": true} and listed under markers. With specs, spec_index selects the document.",
	}, instrumented(ts, "resolve", handleResolve))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "security",
		Description: "Report effective security. Operation security overrides path item security, which overrides document security; an empty list means public. Give method and path for one operation, or omit them to list every operation, optionally restricted with mode=private or mode=public.",
	}, instrumented(ts, "security", handleSecurity))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "slug",
		Description: "Convert between endpoint paths and URL slugs. path encodes /users/{userId} to users/:user~id, slug decodes it back, and node turns a tag full path such as \"Pet Store | Pets\" into pet-store/pets.",
	}, instrumented(ts, "slug", handleSlug))
}

// instrumented passes the server logger to h and records the duration and
// outcome of every call.
func instrumented[In any](ts *toolServer, name string, h mcp.ToolHandlerFor[In, any]) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		result, out, err := h(withLogger(ctx, ts.logger), req, in)
		failure := err
		if failure == nil && result != nil && result.IsError {
			failure = errToolFailed
		}
		ts.metrics.Observe(name, time.Since(start), failure)
		return result, out, err
	}
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.PageLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.PageLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
