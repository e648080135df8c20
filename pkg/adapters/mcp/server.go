// Package mcp exposes the interpreter to agent hosts over the Model Context
// Protocol. Tools mirror the HTTP adapter: each render call runs a fresh
// interpreter, so only the document store carries anything between calls.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/muesli/termenv"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/internal/logging"
	"github.com/hashhooshy/flux-labs/internal/presentation/html"
	"github.com/hashhooshy/flux-labs/internal/presentation/tui"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/ports"
	"github.com/hashhooshy/flux-labs/pkg/registry"
	"github.com/hashhooshy/flux-labs/pkg/runner"
	"github.com/hashhooshy/flux-labs/pkg/schema"
	"github.com/hashhooshy/flux-labs/pkg/session"
)

// RenderResult aligns with the HTTP render response so agents see one shape
// across adapters.
type RenderResult struct {
	Text     string         `json:"text" jsonschema_description:"The document rendered as plain text"`
	HTML     string         `json:"html" jsonschema_description:"The document rendered as an HTML fragment"`
	State    map[string]any `json:"state" jsonschema_description:"Final interpreter state snapshot"`
	Alerts   []Alert        `json:"alerts,omitempty" jsonschema_description:"Alerts raised during execution"`
	View     string         `json:"view" jsonschema_description:"Active view, output or frame"`
	FrameURL string         `json:"frameUrl,omitempty" jsonschema_description:"Destination of the last iframe command"`
}

// Alert mirrors one alert raised during execution.
type Alert struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ValidationIssue is one lint finding against a command document.
type ValidationIssue struct {
	Path   string `json:"path" jsonschema_description:"Position in the document, e.g. commands[2].commands[0]"`
	Kind   string `json:"kind,omitempty" jsonschema_description:"Command type at that position"`
	Reason string `json:"reason" jsonschema_description:"What is wrong"`
}

// ValidateResult reports whether a document would execute cleanly.
type ValidateResult struct {
	Valid  bool              `json:"valid" jsonschema_description:"True when no issues were found"`
	Issues []ValidationIssue `json:"issues,omitempty" jsonschema_description:"Findings, empty when valid"`
}

// Config wires the server's collaborators.
type Config struct {
	// Logger receives execution diagnostics. Defaults to a no-op logger.
	Logger *slog.Logger

	// Store backs the store and load commands. Optional; access is
	// serialized per user.
	Store ports.DocumentStore

	// Locker extends per-user serialization across replicas. Ignored when
	// no Store is set.
	Locker ports.DistributedLocker

	// Handlers adds host command types beyond the built-in vocabulary.
	Handlers *registry.Registry

	// Hooks observes every interpreter run, typically to feed metrics.
	Hooks domain.LifecycleHooks
}

// Server exposes the interpreter as an MCP server.
type Server struct {
	logger   *slog.Logger
	store    ports.DocumentStore
	handlers *registry.Registry
	hooks    domain.LifecycleHooks
	text     *tui.Renderer

	mcpServer *server.MCPServer
}

// NewServer creates an MCP server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	var store ports.DocumentStore
	if cfg.Store != nil {
		sessOpts := []session.Option{session.WithLogger(logger)}
		if cfg.Locker != nil {
			sessOpts = append(sessOpts, session.WithLocker(cfg.Locker))
		}
		store = session.NewManager(cfg.Store, sessOpts...)
	}

	s := &Server{
		logger:   logger,
		store:    store,
		handlers: cfg.Handlers,
		hooks:    cfg.Hooks,
		// Agents read text, not escape codes.
		text:      tui.NewRenderer(tui.WithProfile(termenv.Ascii)),
		mcpServer: server.NewMCPServer("flux-mcp", strings.TrimSpace(flux.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: flux_render
	renderTool := mcp.NewTool("flux_render",
		mcp.WithDescription("Execute a command script and return the rendered document. Accepts JSON or YAML."),
		mcp.WithString("commands", mcp.Required(), mcp.Description("Command document: a list of {type, props, commands} objects")),
		mcp.WithString("user", mcp.Description("Owner id for the store and load commands (optional)")),
		mcp.WithString("state", mcp.Description("JSON object seeding the interpolation state (optional)")),
		mcp.WithOutputSchema[RenderResult](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRender))

	// TOOL: flux_validate
	validateTool := mcp.NewTool("flux_validate",
		mcp.WithDescription("Lint a command script without executing it."),
		mcp.WithString("commands", mcp.Required(), mcp.Description("Command document to check, JSON or YAML")),
		mcp.WithOutputSchema[ValidateResult](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: flux_commands
	s.mcpServer.AddTool(mcp.NewTool("flux_commands",
		mcp.WithDescription("List the command types this server understands."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(map[string][]string{"commands": s.catalog()})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode catalog: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RenderResult, error) {
	script, _ := args["commands"].(string)
	cmds, err := schema.Decode([]byte(script))
	if err != nil {
		return RenderResult{}, fmt.Errorf("decode commands: %w", err)
	}

	surface := headless.New()
	opts := []flux.Option{
		flux.WithSurface(surface),
		flux.WithLogger(s.logger),
		flux.WithLifecycleHooks(s.hooks),
	}
	if s.store != nil {
		opts = append(opts, flux.WithDocumentStore(s.store))
	}
	if user, ok := args["user"].(string); ok && user != "" {
		opts = append(opts, flux.WithUser(user))
	}
	if s.handlers != nil {
		opts = append(opts, flux.WithHandlers(s.handlers))
	}
	it := flux.New(opts...)

	if stateStr, ok := args["state"].(string); ok && stateStr != "" {
		var seed map[string]any
		if err := json.Unmarshal([]byte(stateStr), &seed); err != nil {
			return RenderResult{}, fmt.Errorf("decode state: %w", err)
		}
		for k, v := range seed {
			if text, ok := v.(string); ok {
				clean, err := runner.SanitizeInput(text)
				if err != nil {
					s.logger.Warn("render: rejected state value", "key", k, "err", err)
					return RenderResult{}, fmt.Errorf("invalid state value %q: %w", k, err)
				}
				v = clean
			}
			it.State().Set(k, v)
		}
	}

	if err := it.Execute(ctx, cmds); err != nil {
		return RenderResult{}, fmt.Errorf("execute failed: %w", err)
	}

	nodes := surface.Output().Nodes()
	result := RenderResult{
		Text:     s.text.Render(nodes),
		HTML:     html.Render(nodes),
		State:    it.State().Snapshot(),
		View:     surface.View(),
		FrameURL: surface.FrameURL(),
	}
	for _, a := range surface.Alerts() {
		result.Alerts = append(result.Alerts, Alert{Title: a.Title, Text: a.Text})
	}
	return result, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResult, error) {
	script, _ := args["commands"].(string)
	cmds, err := schema.Decode([]byte(script))
	if err != nil {
		return ValidateResult{
			Issues: []ValidationIssue{{Path: "(document)", Reason: err.Error()}},
		}, nil
	}

	var extra []string
	if s.handlers != nil {
		extra = s.handlers.Kinds()
	}
	issues := schema.Lint(cmds, extra...)

	result := ValidateResult{Valid: len(issues) == 0}
	for _, issue := range issues {
		result.Issues = append(result.Issues, ValidationIssue{
			Path:   issue.Path,
			Kind:   issue.Kind,
			Reason: issue.Reason,
		})
	}
	return result, nil
}

func (s *Server) registerResources() {
	// EXPOSE: flux://commands
	s.mcpServer.AddResource(mcp.NewResource("flux://commands", "Command Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(map[string][]string{"commands": s.catalog()})
		if err != nil {
			return nil, fmt.Errorf("encode catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "flux://commands",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

// catalog merges the built-in vocabulary with host-registered kinds.
func (s *Server) catalog() []string {
	kinds := domain.CommandKinds()
	if s.handlers == nil {
		return kinds
	}
	seen := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		seen[k] = struct{}{}
	}
	for _, k := range s.handlers.Kinds() {
		if _, ok := seen[k]; !ok {
			kinds = append(kinds, k)
		}
	}
	sort.Strings(kinds)
	return kinds
}
