// Package http exposes the interpreter as a stateless JSON API. Every render
// request runs a fresh interpreter over a headless surface; only the document
// store survives between calls, so replicas can sit behind a plain load
// balancer. Requests are checked against the embedded OpenAPI contract before
// they reach a handler.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/api"
	"github.com/hashhooshy/flux-labs/internal/logging"
	"github.com/hashhooshy/flux-labs/internal/presentation/html"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/ports"
	"github.com/hashhooshy/flux-labs/pkg/registry"
	"github.com/hashhooshy/flux-labs/pkg/runner"
	"github.com/hashhooshy/flux-labs/pkg/session"
)

// Config wires the server's collaborators.
type Config struct {
	// Logger receives request warnings and execution errors. Defaults to a
	// no-op logger.
	Logger *slog.Logger

	// Store backs the store and load commands. Optional; scripts that
	// persist values fail without one. Access is serialized per user.
	Store ports.DocumentStore

	// Locker extends per-user serialization across replicas. Ignored when
	// no Store is set.
	Locker ports.DistributedLocker

	// Handlers adds host command types beyond the built-in vocabulary.
	Handlers *registry.Registry

	// Hooks observes every interpreter run, typically to feed metrics.
	Hooks domain.LifecycleHooks

	// Metrics is mounted at GET /metrics when set.
	Metrics http.Handler
}

// Server holds the per-process collaborators shared by all requests.
type Server struct {
	logger   *slog.Logger
	store    ports.DocumentStore
	handlers *registry.Registry
	hooks    domain.LifecycleHooks

	specRouter routers.Router
}

// NewHandler builds the handler tree: the versioned API wrapped in OpenAPI
// request validation and permissive CORS, plus the documentation and demo
// pages. It fails only when the embedded contract does not parse.
func NewHandler(cfg Config) (http.Handler, error) {
	doc, err := Spec()
	if err != nil {
		return nil, err
	}
	router, err := newSpecRouter(doc)
	if err != nil {
		return nil, err
	}

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

	server := &Server{
		logger:     logger,
		store:      store,
		handlers:   cfg.Handlers,
		hooks:      cfg.Hooks,
		specRouter: router,
	}

	r := chi.NewRouter()

	// Documentation and demo chrome, outside the versioned contract.
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.SpecYAML)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Get("/ui", server.GetUI)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Post("/v1/render", server.Render)
	r.Get("/v1/commands", server.ListCommands)
	r.Get("/v1/health", server.GetHealth)
	r.Get("/v1/info", server.GetInfo)

	return enableCORS(server.validateRequests(r)), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RenderRequest is the POST /v1/render payload.
type RenderRequest struct {
	Commands []domain.Command `json:"commands"`
	User     string           `json:"user,omitempty"`
	State    map[string]any   `json:"state,omitempty"`
}

// Alert mirrors one alert raised during execution.
type Alert struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// RenderResponse carries the rendered document and everything the script
// raised on the way.
type RenderResponse struct {
	HTML     string         `json:"html"`
	State    map[string]any `json:"state"`
	Alerts   []Alert        `json:"alerts,omitempty"`
	View     string         `json:"view"`
	FrameURL string         `json:"frameUrl,omitempty"`
}

// CommandCatalog is the GET /v1/commands payload.
type CommandCatalog struct {
	Commands []string `json:"commands"`
}

// Render handles the POST /v1/render request.
func (s *Server) Render(w http.ResponseWriter, r *http.Request) {
	var body RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("render: invalid request body", "err", err)
		return
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
	if body.User != "" {
		opts = append(opts, flux.WithUser(body.User))
	}
	if s.handlers != nil {
		opts = append(opts, flux.WithHandlers(s.handlers))
	}

	it := flux.New(opts...)
	for k, v := range body.State {
		if text, ok := v.(string); ok {
			clean, err := runner.SanitizeInput(text)
			if err != nil {
				http.Error(w, fmt.Sprintf("Invalid state value %q: %v", k, err), http.StatusBadRequest)
				s.logger.Warn("render: rejected state value", "key", k, "err", err)
				return
			}
			v = clean
		}
		it.State().Set(k, v)
	}

	// Per-command failures are absorbed by the executor and surface as
	// logged skips and alerts; an error here means the run itself died.
	if err := it.Execute(r.Context(), body.Commands); err != nil {
		http.Error(w, fmt.Sprintf("Execute error: %v", err), http.StatusInternalServerError)
		s.logger.Error("render: execution failed", "err", err, "user", body.User)
		return
	}

	resp := RenderResponse{
		HTML:  html.Render(surface.Output().Nodes()),
		State: it.State().Snapshot(),
		View:  surface.View(),
	}
	for _, a := range surface.Alerts() {
		resp.Alerts = append(resp.Alerts, Alert{Title: a.Title, Text: a.Text})
	}
	resp.FrameURL = surface.FrameURL()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("render: response encode failed", "err", err)
	}
}

// ListCommands handles the GET /v1/commands request.
func (s *Server) ListCommands(w http.ResponseWriter, r *http.Request) {
	kinds := domain.CommandKinds()
	if s.handlers != nil {
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
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CommandCatalog{Commands: kinds}); err != nil {
		s.logger.Error("commands: response encode failed", "err", err)
	}
}

// GetHealth handles the GET /v1/health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetInfo handles the GET /v1/info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := Spec(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	resp := map[string]string{
		"app":         "flux-http",
		"version":     strings.TrimSpace(flux.Version),
		"api_version": apiVersion,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetUI serves a self-contained demo page that posts scripts back to this
// server and injects the returned fragment. Browser tests drive it by the
// script, render and target element ids.
func (s *Server) GetUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html.Document("flux demo", uiBody)))
}

const uiBody = `<h1>flux demo</h1>
<p>Paste a command script and render it against this server.</p>
<textarea id="script" rows="14" style="width: 100%; font-family: monospace;">[
  {"type": "heading", "props": {"text": "Hello from flux", "level": 2}},
  {"type": "paragraph", "props": {"text": "Rendered over HTTP."}},
  {"type": "badge", "props": {"text": "live", "color": "green"}}
]</textarea>
<p><button id="render" class="btn btn-primary">Render</button></p>
<div id="target"></div>
<script>
document.getElementById('render').addEventListener('click', async () => {
  const target = document.getElementById('target');
  try {
    const commands = JSON.parse(document.getElementById('script').value);
    const res = await fetch('/v1/render', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({commands: commands}),
    });
    if (!res.ok) {
      target.textContent = await res.text();
      return;
    }
    const body = await res.json();
    target.innerHTML = body.html;
  } catch (err) {
    target.textContent = String(err);
  }
});
</script>`

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Flux API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
