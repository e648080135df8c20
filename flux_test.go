package flux_test

import (
	"context"
	"errors"
	"testing"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	"github.com/hashhooshy/flux-labs/pkg/adapters/memory"
	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/registry"
)

func TestFacade_ScriptRoundTrip(t *testing.T) {
	surface := headless.New()
	it := flux.New(flux.WithSurface(surface))

	script := []byte(`[
		{"type": "heading", "props": {"text": "Signup"}},
		{"type": "form", "props": {"id": "signup"}, "commands": [
			{"type": "input", "props": {"id": "email", "label": "Email"}}
		]},
		{"type": "button", "props": {"label": "Send", "onClick": [
			{"type": "paragraph", "props": {"text": "Sent to {email}"}}
		]}}
	]`)

	ctx := context.Background()
	if err := it.Run(ctx, script); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := surface.Output().Len(); got != 3 {
		t.Fatalf("output nodes = %d, want 3", got)
	}

	if err := it.SetValue(ctx, "email", "ada@example.com"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if got := it.State().Get("email"); got != "ada@example.com" {
		t.Errorf("state email = %v, want input value", got)
	}

	// The button has no id; fire it through the node handle.
	var button *domain.Node
	for _, n := range surface.Output().Nodes() {
		if n.Kind == domain.CmdButton {
			button = n
		}
	}
	if button == nil {
		t.Fatal("button node not rendered")
	}
	if err := button.Activate(ctx); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	nodes := surface.Dynamic().Nodes()
	if len(nodes) != 1 || nodes[0].Text != "Sent to ada@example.com" {
		t.Errorf("dynamic output = %+v, want interpolated confirmation", nodes)
	}
}

func TestFacade_DefaultsToHeadlessSurface(t *testing.T) {
	it := flux.New()

	if it.Surface() == nil {
		t.Fatal("Surface() = nil")
	}
	err := it.Dispatch(context.Background(), domain.Command{
		Type:  domain.CmdHeading,
		Props: map[string]any{"text": "hi"},
	})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if got := it.Surface().Output().Len(); got != 1 {
		t.Errorf("output nodes = %d, want 1", got)
	}
}

func TestFacade_PersistenceAcrossInterpreters(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	first := flux.New(flux.WithDocumentStore(store), flux.WithUser("u1"))
	err := first.Execute(ctx, []domain.Command{
		{Type: domain.CmdStore, Props: map[string]any{"id": "city", "value": "Lisbon"}},
	})
	if err != nil {
		t.Fatalf("Execute store failed: %v", err)
	}

	second := flux.New(flux.WithDocumentStore(store), flux.WithUser("u1"))
	err = second.Execute(ctx, []domain.Command{
		{Type: domain.CmdLoad, Props: map[string]any{"id": "city"}},
	})
	if err != nil {
		t.Fatalf("Execute load failed: %v", err)
	}

	if got := second.State().Get("city"); got != "Lisbon" {
		t.Errorf("loaded city = %v, want %q", got, "Lisbon")
	}
}

func TestFacade_ActivateUnknownNode(t *testing.T) {
	it := flux.New()

	err := it.Activate(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNodeNotFound) {
		t.Errorf("Activate error = %v, want ErrNodeNotFound", err)
	}
	err = it.SetValue(context.Background(), "ghost", "x")
	if !errors.Is(err, domain.ErrNodeNotFound) {
		t.Errorf("SetValue error = %v, want ErrNodeNotFound", err)
	}
}

func TestFacade_RunRejectsMalformedScript(t *testing.T) {
	it := flux.New()

	if err := it.Run(context.Background(), []byte(`{not json`)); err == nil {
		t.Fatal("Run accepted malformed script")
	}
	if got := it.Surface().Output().Len(); got != 0 {
		t.Errorf("output nodes = %d, want 0 after decode failure", got)
	}
}

func TestFacade_CustomHandlerExtendsVocabulary(t *testing.T) {
	handlers := registry.NewRegistry()
	handlers.Register("stamp", func(ctx context.Context, cmd domain.Command, container *domain.Container) (*domain.Node, error) {
		n := domain.NewNode("stamp")
		n.Text = "approved"
		return n, nil
	})

	surface := headless.New()
	it := flux.New(flux.WithSurface(surface), flux.WithHandlers(handlers))

	err := it.Dispatch(context.Background(), domain.Command{Type: "stamp"})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	nodes := surface.Output().Nodes()
	if len(nodes) != 1 || nodes[0].Text != "approved" {
		t.Errorf("output = %+v, want stamp node", nodes)
	}
}

func TestFacade_ShowFrameSwitchesView(t *testing.T) {
	surface := headless.New()
	it := flux.New(flux.WithSurface(surface))
	ctx := context.Background()

	if err := it.ShowFrame(ctx, "https://example.com"); err != nil {
		t.Fatalf("ShowFrame failed: %v", err)
	}
	if surface.View() != "frame" || surface.FrameURL() != "https://example.com" {
		t.Errorf("view = %s url = %s, want frame view", surface.View(), surface.FrameURL())
	}
	if err := it.ShowOutput(ctx); err != nil {
		t.Fatalf("ShowOutput failed: %v", err)
	}
	if surface.View() != "output" {
		t.Errorf("view = %s, want output", surface.View())
	}
}
