package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/pkg/adapters/memory"
	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/registry"
	"github.com/hashhooshy/flux-labs/pkg/runner"
)

func newTestHandler(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	handler, err := NewHandler(cfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return handler
}

func postRender(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeRender(t *testing.T, rec *httptest.ResponseRecorder) RenderResponse {
	t.Helper()
	var resp RenderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestRender_ExecutesScript(t *testing.T) {
	handler := newTestHandler(t, Config{})

	rec := postRender(t, handler, `{
		"commands": [
			{"type": "heading", "props": {"text": "Hello {name}", "level": 2}},
			{"type": "paragraph", "props": {"text": "Welcome aboard."}}
		],
		"state": {"name": "Ada"}
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeRender(t, rec)

	if !strings.Contains(resp.HTML, "<h2>Hello Ada</h2>") {
		t.Errorf("html missing interpolated heading: %s", resp.HTML)
	}
	if !strings.Contains(resp.HTML, "<p>Welcome aboard.</p>") {
		t.Errorf("html missing paragraph: %s", resp.HTML)
	}
	if resp.View != "output" {
		t.Errorf("view = %q, want output", resp.View)
	}
	if resp.State["name"] != "Ada" {
		t.Errorf("state[name] = %v, want Ada", resp.State["name"])
	}
}

func TestRender_PersistsAcrossRequests(t *testing.T) {
	store := memory.NewStore()
	handler := newTestHandler(t, Config{Store: store})

	rec := postRender(t, handler, `{
		"user": "u1",
		"commands": [{"type": "store", "props": {"id": "city", "value": "Lisbon"}}]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("store request status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = postRender(t, handler, `{
		"user": "u1",
		"commands": [
			{"type": "load", "props": {"id": "city"}},
			{"type": "heading", "props": {"text": "Hi from {city}"}}
		]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("load request status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeRender(t, rec)

	if !strings.Contains(resp.HTML, "Hi from Lisbon") {
		t.Errorf("html missing loaded value: %s", resp.HTML)
	}
	if resp.State["city"] != "Lisbon" {
		t.Errorf("state[city] = %v, want Lisbon", resp.State["city"])
	}
}

func TestRender_IsolatesUsers(t *testing.T) {
	store := memory.NewStore()
	handler := newTestHandler(t, Config{Store: store})

	postRender(t, handler, `{
		"user": "u1",
		"commands": [{"type": "store", "props": {"id": "plan", "value": "pro"}}]
	}`)

	rec := postRender(t, handler, `{
		"user": "u2",
		"commands": [{"type": "load", "props": {"id": "plan"}}]
	}`)
	resp := decodeRender(t, rec)

	if _, ok := resp.State["plan"]; ok {
		t.Errorf("u2 sees u1's value: %v", resp.State["plan"])
	}
}

func TestRender_FrameView(t *testing.T) {
	handler := newTestHandler(t, Config{})

	rec := postRender(t, handler, `{
		"commands": [{"type": "iframe", "props": {"url": "https://example.com/report"}}]
	}`)
	resp := decodeRender(t, rec)

	if resp.View != "frame" {
		t.Errorf("view = %q, want frame", resp.View)
	}
	if resp.FrameURL != "https://example.com/report" {
		t.Errorf("frameUrl = %q", resp.FrameURL)
	}
}

func TestRender_ReportsAlerts(t *testing.T) {
	handler := newTestHandler(t, Config{})

	// An iframe without a url raises the alert chrome; the run itself
	// still succeeds.
	rec := postRender(t, handler, `{
		"commands": [{"type": "iframe", "props": {}}]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeRender(t, rec)

	if len(resp.Alerts) != 1 {
		t.Fatalf("alerts = %v, want one", resp.Alerts)
	}
	if resp.Alerts[0].Title != "Error" {
		t.Errorf("alert title = %q", resp.Alerts[0].Title)
	}
	if !strings.Contains(resp.Alerts[0].Text, "url") {
		t.Errorf("alert text = %q", resp.Alerts[0].Text)
	}
}

func TestRender_SkipsFailingCommands(t *testing.T) {
	handler := newTestHandler(t, Config{})

	// A button with a malformed closure renders nothing, but the commands
	// around it still apply.
	rec := postRender(t, handler, `{
		"commands": [
			{"type": "heading", "props": {"text": "Before"}},
			{"type": "button", "props": {"label": "Go", "onClick": "nope"}},
			{"type": "paragraph", "props": {"text": "After"}}
		]
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeRender(t, rec)
	if !strings.Contains(resp.HTML, "Before") || !strings.Contains(resp.HTML, "After") {
		t.Errorf("surrounding commands lost: %s", resp.HTML)
	}
	if strings.Contains(resp.HTML, "<button") {
		t.Errorf("malformed button rendered: %s", resp.HTML)
	}
}

func TestRender_FeedsHooks(t *testing.T) {
	var kinds []string
	var persists []string
	hooks := domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			kinds = append(kinds, e.Kind)
		},
		OnPersist: func(ctx context.Context, e *domain.PersistEvent) {
			persists = append(persists, e.Op)
		},
	}
	handler := newTestHandler(t, Config{Store: memory.NewStore(), Hooks: hooks})

	rec := postRender(t, handler, `{
		"user": "u1",
		"commands": [
			{"type": "heading", "props": {"text": "Metrics"}},
			{"type": "store", "props": {"id": "k", "value": "v"}}
		]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if len(kinds) != 2 || kinds[0] != "heading" || kinds[1] != "store" {
		t.Errorf("command events = %v, want [heading store]", kinds)
	}
	if len(persists) != 1 || persists[0] != "store" {
		t.Errorf("persist events = %v, want [store]", persists)
	}
}

func TestRender_SanitizesState(t *testing.T) {
	handler := newTestHandler(t, Config{})

	// Oversize values are rejected before anything runs.
	oversize := fmt.Sprintf(`{
		"commands": [{"type": "heading", "props": {"text": "{blob}"}}],
		"state": {"blob": %q}
	}`, strings.Repeat("x", runner.DefaultMaxInputSize+1))
	rec := postRender(t, handler, oversize)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversize status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Invalid state value") {
		t.Errorf("oversize body = %s", rec.Body.String())
	}

	// Control characters are stripped, not rejected.
	rec = postRender(t, handler, `{
		"commands": [{"type": "heading", "props": {"text": "{who}"}}],
		"state": {"who": "A\u001bda"}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("control-char status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeRender(t, rec)
	if !strings.Contains(resp.HTML, "<h2>Ada</h2>") {
		t.Errorf("html = %s, want escape stripped from heading", resp.HTML)
	}
}

func TestRender_RejectsInvalidBody(t *testing.T) {
	handler := newTestHandler(t, Config{})

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{not json`},
		{"commands not a list", `{"commands": "nope"}`},
		{"missing commands", `{"state": {"k": "v"}}`},
		{"command without type", `{"commands": [{"props": {"text": "hi"}}]}`},
		{"props misspelled", `{"commands": [{"type": "heading", "porps": {}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postRender(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListCommands(t *testing.T) {
	handlers := registry.NewRegistry()
	handlers.Register("sparkline", func(ctx context.Context, cmd domain.Command, container *domain.Container) (*domain.Node, error) {
		return nil, nil
	})
	handler := newTestHandler(t, Config{Handlers: handlers})

	req := httptest.NewRequest(http.MethodGet, "/v1/commands", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var catalog CommandCatalog
	if err := json.NewDecoder(rec.Body).Decode(&catalog); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}

	seen := make(map[string]bool, len(catalog.Commands))
	for _, k := range catalog.Commands {
		seen[k] = true
	}
	for _, want := range []string{"heading", "store", "carousel", "sparkline"} {
		if !seen[want] {
			t.Errorf("catalog missing %q", want)
		}
	}
	for i := 1; i < len(catalog.Commands); i++ {
		if catalog.Commands[i-1] > catalog.Commands[i] {
			t.Errorf("catalog not sorted at %d: %q > %q", i, catalog.Commands[i-1], catalog.Commands[i])
		}
	}
}

func TestGetHealth(t *testing.T) {
	handler := newTestHandler(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGetInfo(t *testing.T) {
	handler := newTestHandler(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/v1/info", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var info map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info["app"] != "flux-http" {
		t.Errorf("app = %q", info["app"])
	}
	if info["version"] != flux.Version {
		t.Errorf("version = %q, want %q", info["version"], flux.Version)
	}
	if info["api_version"] != "1.0.0" {
		t.Errorf("api_version = %q", info["api_version"])
	}
}

func TestCORSPreflights(t *testing.T) {
	handler := newTestHandler(t, Config{})

	req := httptest.NewRequest(http.MethodOptions, "/v1/render", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestServesContractAndDemoPages(t *testing.T) {
	handler := newTestHandler(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Flux Render API") {
		t.Errorf("openapi.yaml status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/ui", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	body := rec.Body.String()
	for _, want := range []string{`id="script"`, `id="render"`, `id="target"`} {
		if !strings.Contains(body, want) {
			t.Errorf("demo page missing %s", want)
		}
	}
}

func TestSpecParses(t *testing.T) {
	doc, err := Spec()
	if err != nil {
		t.Fatalf("Spec() error = %v", err)
	}
	if doc.Info == nil || doc.Info.Version != "1.0.0" {
		t.Errorf("contract version = %+v", doc.Info)
	}
	if doc.Paths.Find("/v1/render") == nil {
		t.Error("contract missing /v1/render")
	}
}
