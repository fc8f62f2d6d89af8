// Package mcpserver exposes the symbol engine to MCP clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DanielEbert/lineCompletion/pkg/calls"
	"github.com/DanielEbert/lineCompletion/pkg/finder"
	"github.com/DanielEbert/lineCompletion/pkg/resolver"
	"github.com/DanielEbert/lineCompletion/pkg/syntax"
	"github.com/DanielEbert/lineCompletion/pkg/treecache"
)

// MCPServer wraps the symbol services behind MCP tool handlers.
type MCPServer struct {
	cache    *treecache.Cache
	resolver *resolver.Resolver
	finder   *finder.Finder
	rootDir  string
}

// Run starts the MCP server on Stdio.
func Run(ctx context.Context, cache *treecache.Cache, f *finder.Finder, rootDir string) error {
	s := server.NewMCPServer(
		"lineCompletion-Backend",
		"0.1.0",
		server.WithLogging(),
	)

	ms := &MCPServer{
		cache:    cache,
		resolver: resolver.New(cache),
		finder:   f,
		rootDir:  rootDir,
	}

	s.AddTool(
		mcp.NewTool(
			"resolve_symbol",
			mcp.WithDescription("Resolve a source range to its enclosing function or class definition."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path of the source file")),
			mcp.WithNumber("start_line", mcp.Required(), mcp.Description("0-based start line")),
			mcp.WithNumber("start_col", mcp.Description("0-based start column")),
			mcp.WithNumber("end_line", mcp.Required(), mcp.Description("0-based end line (exclusive span end)")),
			mcp.WithNumber("end_col", mcp.Description("0-based end column (exclusive)")),
			mcp.WithString("name", mcp.Description("Optional name hint; the definition name must contain it")),
			mcp.WithBoolean("expand_to_class", mcp.Description("Widen a method to its outermost enclosing class")),
		),
		ms.handleResolveSymbol,
	)

	s.AddTool(
		mcp.NewTool(
			"list_call_sites",
			mcp.WithDescription("List non-builtin call targets in a line range of a file."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path of the source file")),
			mcp.WithNumber("start_line", mcp.Required(), mcp.Description("0-based first line")),
			mcp.WithNumber("end_line", mcp.Required(), mcp.Description("0-based last line, inclusive")),
		),
		ms.handleListCallSites,
	)

	s.AddTool(
		mcp.NewTool(
			"find_definitions",
			mcp.WithDescription("Find every definition of a function name under a directory tree."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Function name to search for")),
			mcp.WithString("root_dir", mcp.Description("Directory to search; defaults to the configured project root")),
		),
		ms.handleFindDefinitions,
	)

	slog.Info("Starting MCP server on Stdio")
	return server.ServeStdio(s)
}

func (ms *MCPServer) handleResolveSymbol(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path argument required"), nil
	}

	start := syntax.Point{Row: intArg(args, "start_line"), Column: intArg(args, "start_col")}
	end := syntax.Point{Row: intArg(args, "end_line"), Column: intArg(args, "end_col")}
	name, _ := args["name"].(string)
	expand, _ := args["expand_to_class"].(bool)

	res, err := ms.resolver.Resolve(path, start, end, name, expand)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolve failed: %v", err)), nil
	}
	if res == nil {
		return mcp.NewToolResultText("No enclosing definition found."), nil
	}

	out := map[string]interface{}{
		"start_line": res.Start.Row,
		"start_col":  res.Start.Column,
		"text":       res.Text,
	}
	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal resolution"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleListCallSites(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path argument required"), nil
	}

	startLine, endLine := intArg(args, "start_line"), intArg(args, "end_line")
	if startLine < 0 || endLine < startLine {
		return mcp.NewToolResultError("require 0 <= start_line <= end_line"), nil
	}

	entry, err := ms.cache.Get(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	defer entry.Release()

	sites := calls.ExtractInRange(entry.Root(), entry.Src, startLine, endLine)
	if len(sites) == 0 {
		return mcp.NewToolResultText("No call sites found."), nil
	}

	jsonBytes, err := json.MarshalIndent(sites, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal call sites"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleFindDefinitions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, ok := args["name"].(string)
	if !ok {
		return mcp.NewToolResultError("name argument required"), nil
	}

	rootDir, _ := args["root_dir"].(string)
	if rootDir == "" {
		rootDir = ms.rootDir
	}
	if rootDir == "" {
		return mcp.NewToolResultError("root_dir argument required (no project root configured)"), nil
	}

	refs, err := ms.finder.Find(name, rootDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(refs) == 0 {
		return mcp.NewToolResultText("No definitions found."), nil
	}

	jsonBytes, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal references"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// intArg reads a JSON number argument, defaulting to 0 when absent.
func intArg(args map[string]interface{}, key string) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return 0
}
