package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dejo1307/routetree/internal/engine"
	"github.com/dejo1307/routetree/internal/render"
	"github.com/dejo1307/routetree/internal/routes"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and connects it to the route engine.
type Server struct {
	mcp *mcp.Server
	eng *engine.Engine

	mu   sync.Mutex
	last *engine.Result
}

// New creates a new MCP server wired to the given engine.
func New(eng *engine.Engine, version string) *Server {
	s := &Server{eng: eng}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "routetree",
		Version: version,
	}, nil)

	s.registerResources()
	s.registerTools()

	return s
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	log.Println("[server] starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// result returns the cached resolution of the configured root, resolving it
// on first use.
func (s *Server) result() *engine.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		s.last = s.eng.Resolve()
	}
	return s.last
}

// resolve runs a fresh resolution and caches it.
func (s *Server) resolve(root string) *engine.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if root == "" {
		s.last = s.eng.Resolve()
	} else {
		s.last = s.eng.ResolveFrom(root)
	}
	return s.last
}

// registerResources adds MCP resources for the resolved tree.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         "routes://tree",
		Name:        "Route Tree",
		Description: "Resolved route tree of the configured root routing file",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: render.Text(s.result().Routes), MIMEType: "text/plain"},
			},
		}, nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "routes://json",
		Name:        "Route Nodes",
		Description: "Resolved route nodes with full paths, titles and source locations",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		data, err := json.MarshalIndent(s.result().Routes, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling routes: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: string(data), MIMEType: "application/json"},
			},
		}, nil
	})
}

// resolveRoutesArgs are the arguments for the resolve_routes tool.
type resolveRoutesArgs struct {
	Root string `json:"root,omitempty" jsonschema:"Repository-relative root routing file. Defaults to the configured root."`
}

// lookupTitleArgs are the arguments for the lookup_title tool.
type lookupTitleArgs struct {
	Name string `json:"name" jsonschema:"required,Class name of the page component"`
}

// routeDiagnosticsArgs are the arguments for the route_diagnostics tool.
type routeDiagnosticsArgs struct {
	Kind string `json:"kind,omitempty" jsonschema:"Filter by diagnostic kind, e.g. routing-file-not-found or title-not-found"`
}

// showRouteArgs are the arguments for the show_route tool.
type showRouteArgs struct {
	FullPath     string `json:"full_path" jsonschema:"required,Full route path as printed in the tree, e.g. /admin/users"`
	ContextLines int    `json:"context_lines,omitempty" jsonschema:"Number of source lines to show around the route (default 20)"`
}

// registerTools adds MCP tools for resolution and lookups.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "resolve_routes",
		Description: "Resolve the routing configuration into a route tree. Follows lazy modules through path aliases and relative imports and looks up page titles.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args resolveRoutesArgs) (*mcp.CallToolResult, any, error) {
		return s.resolveRoutes(args), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "lookup_title",
		Description: "Look up the page title declared on a component class.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args lookupTitleArgs) (*mcp.CallToolResult, any, error) {
		return s.lookupTitle(args), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "route_diagnostics",
		Description: "List the warnings raised by the last resolution as JSON.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args routeDiagnosticsArgs) (*mcp.CallToolResult, any, error) {
		return s.routeDiagnostics(args), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "show_route",
		Description: "Show a resolved route and the source lines where it is declared.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args showRouteArgs) (*mcp.CallToolResult, any, error) {
		return s.showRoute(args), nil, nil
	})
}

func (s *Server) resolveRoutes(args resolveRoutesArgs) *mcp.CallToolResult {
	res := s.resolve(args.Root)
	if len(res.Routes) == 0 && len(res.DiagnosticsOf(engine.DiagUnitNotFound)) > 0 {
		return errorResult(fmt.Sprintf("root routing file not found: %s", res.Root))
	}

	var sb strings.Builder
	sb.WriteString(render.Text(res.Routes))
	sb.WriteString(fmt.Sprintf("\n- Root: %s\n- Routes: %d (%d eager, %d lazy modules, %d lazy components, %d unknown)\n- Titles: %d found, %d not found\n- Duration: %s\n",
		res.Root,
		res.Stats.Nodes, res.Stats.Eager, res.Stats.LazyModules, res.Stats.LazyDestinations, res.Stats.Unknown,
		res.Stats.TitlesFound, res.Stats.TitlesNotFound,
		res.Stats.Duration,
	))
	if len(res.Diagnostics) > 0 {
		sb.WriteString(fmt.Sprintf("\nWarnings (%d):\n", len(res.Diagnostics)))
		for _, d := range res.Diagnostics {
			sb.WriteString("- " + d.String() + "\n")
		}
	}

	return textResult(sb.String())
}

func (s *Server) lookupTitle(args lookupTitleArgs) *mcp.CallToolResult {
	if args.Name == "" {
		return errorResult("name is required")
	}
	t, err := s.eng.Title(args.Name)
	if err != nil {
		return textResult(fmt.Sprintf("%s: %s (%v)", args.Name, routes.NotFound, err))
	}
	return textResult(fmt.Sprintf("%s: %s", args.Name, t))
}

func (s *Server) routeDiagnostics(args routeDiagnosticsArgs) *mcp.CallToolResult {
	res := s.result()
	diags := res.Diagnostics
	if args.Kind != "" {
		diags = res.DiagnosticsOf(engine.DiagnosticKind(args.Kind))
	}
	if diags == nil {
		diags = []engine.Diagnostic{}
	}

	data, err := json.MarshalIndent(diags, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to marshal diagnostics: %v", err))
	}
	return textResult(string(data))
}

func (s *Server) showRoute(args showRouteArgs) *mcp.CallToolResult {
	if args.FullPath == "" {
		return errorResult("full_path is required")
	}

	node := findNode(s.result().Routes, args.FullPath)
	if node == nil {
		return errorResult(fmt.Sprintf("No route with full path %q", args.FullPath))
	}

	contextLines := args.ContextLines
	if contextLines <= 0 {
		contextLines = 20
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### %s\n", node.FullPath))
	sb.WriteString(fmt.Sprintf("Name: %s  Kind: %s\n", node.Name, node.Kind))
	if node.Kind.HasTitle() {
		sb.WriteString(fmt.Sprintf("Title: %s\n", node.TitleOrNotFound()))
	}
	sb.WriteString(fmt.Sprintf("File: %s  Line: %d\n\n", node.Source, node.Line))

	repo, err := filepath.Abs(s.eng.Config().Repo)
	if err != nil {
		return errorResult(fmt.Sprintf("invalid repo path: %v", err))
	}
	window, err := readSourceWindow(filepath.Join(repo, filepath.FromSlash(node.Source)), node.Line, contextLines)
	if err != nil {
		sb.WriteString(fmt.Sprintf("_Could not read source: %v_\n", err))
	} else {
		sb.WriteString(fmt.Sprintf("```ts\n%s```\n", window))
	}

	return textResult(sb.String())
}

// findNode returns the first node, depth first, whose full path matches.
func findNode(nodes []*routes.Node, fullPath string) *routes.Node {
	for _, n := range nodes {
		if n.FullPath == fullPath {
			return n
		}
		if found := findNode(n.Children, fullPath); found != nil {
			return found
		}
	}
	return nil
}

// readSourceWindow reads lines from a file centered around the given line number.
func readSourceWindow(absFile string, centerLine, contextLines int) (string, error) {
	data, err := os.ReadFile(absFile)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty file")
	}

	lines := strings.Split(string(data), "\n")
	startLine := max(centerLine-contextLines/2, 1)
	endLine := min(centerLine+contextLines/2, len(lines))

	var sb strings.Builder
	for i := startLine; i <= endLine; i++ {
		sb.WriteString(fmt.Sprintf("%4d│ %s\n", i, lines[i-1]))
	}
	return sb.String(), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
