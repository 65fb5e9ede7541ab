// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes tsbridge capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsbridge/tsbridge"
)

const serverInstructions = `tsbridge MCP server — generates TypeScript clients from OpenAPI 3.x documents and inspects schema structure.

Configuration: All defaults are configurable via TSBRIDGE_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- TSBRIDGE_HOOK_MODE (default: basic) — default hook artifact flavor (none, basic, query-style)
- TSBRIDGE_EXCLUDE_TAGS (default: internal) — comma-separated endpoint tags dropped before emission
- TSBRIDGE_MAX_INLINE_SIZE (default: 2097152) — maximum inline spec content size in bytes
- TSBRIDGE_ALLOW_PRIVATE_IPS (default: false) — allow URL inputs resolving to private/loopback addresses

Use inspect first on an unfamiliar spec to see its type and endpoint surface, then generate to write the TypeScript artifacts.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "tsbridge", Version: tsbridge.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate a TypeScript client package from an OpenAPI 3.x document: type declarations, zod validators, a fetch client, data-fetching hooks, and Markdown guides. Requires output_dir. hook_mode selects the hooks flavor (none, basic, query-style); exclude_tags drops endpoints before emission. Returns a manifest of written files plus emission issue counts.",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect",
		Description: "Inspect an OpenAPI 3.x document without writing any files. Returns the document title and version, the named type declarations (with kind and recursion flags), and the endpoint surface (operation id, method, path, tags, visibility under the exclusion list). Use this to preview what generate would emit.",
	}, handleInspect)
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
