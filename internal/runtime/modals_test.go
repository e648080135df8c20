package runtime_test

import (
	"context"
	"testing"

	"github.com/hashhooshy/flux-labs/internal/runtime"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	"github.com/hashhooshy/flux-labs/pkg/domain"
)

func TestModal_CreatedOncePerID(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)
	ctx := context.Background()

	err := engine.Execute(ctx, []domain.Command{
		{Type: domain.CmdModal, Props: map[string]any{"id": "help", "title": "Help", "text": "Press ? for keys."}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	overlay := engine.Find("help")
	if overlay == nil {
		t.Fatal("overlay not registered")
	}
	if !overlay.Hidden {
		t.Error("first call should leave the overlay hidden")
	}
	if surface.Output().Len() != 1 {
		t.Fatalf("output = %d nodes, want 1", surface.Output().Len())
	}

	// Same id again: reveal, never a second overlay.
	if err := engine.Execute(ctx, []domain.Command{
		{Type: domain.CmdModal, Props: map[string]any{"id": "help"}},
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if overlay.Hidden {
		t.Error("second call should reveal the overlay")
	}
	if surface.Output().Len() != 1 {
		t.Errorf("output = %d nodes after repeat, want 1", surface.Output().Len())
	}
}

func TestModal_OverlayShape(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)

	err := engine.Execute(context.Background(), []domain.Command{
		{Type: domain.CmdModal, Props: map[string]any{"id": "about", "title": "About", "text": "v1"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	overlay := engine.Find("about")
	if len(overlay.Children) != 3 {
		t.Fatalf("overlay children = %d, want heading + paragraph + close", len(overlay.Children))
	}
	heading := overlay.Children[0]
	if heading.Kind != domain.CmdHeading || heading.Text != "About" || heading.Attr("level") != "3" {
		t.Errorf("heading = %+v", heading)
	}
	if overlay.Children[1].Text != "v1" {
		t.Errorf("paragraph = %+v", overlay.Children[1])
	}

	closeBtn := overlay.Children[2]
	if closeBtn.Kind != "modal-close" || closeBtn.Label != "x" {
		t.Fatalf("close control = %+v", closeBtn)
	}

	overlay.Hidden = false
	if err := closeBtn.Activate(context.Background()); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !overlay.Hidden {
		t.Error("close control did not hide the overlay")
	}
}

func TestModal_TextOnly(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)

	err := engine.Execute(context.Background(), []domain.Command{
		{Type: domain.CmdModal, Props: map[string]any{"id": "note", "text": "just text"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	overlay := engine.Find("note")
	if len(overlay.Children) != 2 {
		t.Fatalf("overlay children = %d, want paragraph + close", len(overlay.Children))
	}
	if overlay.Children[0].Kind != domain.CmdParagraph {
		t.Errorf("first child = %q", overlay.Children[0].Kind)
	}
}

func TestModal_WithoutIDSkipped(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)

	err := engine.Execute(context.Background(), []domain.Command{
		{Type: domain.CmdModal, Props: map[string]any{"title": "Anonymous"}},
		{Type: domain.CmdParagraph, Props: map[string]any{"text": "after"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	nodes := surface.Output().Nodes()
	if len(nodes) != 1 || nodes[0].Text != "after" {
		t.Fatalf("nodes = %+v", nodes)
	}
}

func TestModalButton_RevealsRegisteredOverlay(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)

	err := engine.Execute(context.Background(), []domain.Command{
		{Type: domain.CmdModal, Props: map[string]any{"id": "confirm", "title": "Sure?"}},
		{Type: domain.CmdButton, Props: map[string]any{"label": "Delete", "modalId": "confirm"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	overlay := engine.Find("confirm")
	if !overlay.Hidden {
		t.Fatal("overlay visible before the button fired")
	}

	button := surface.Output().Nodes()[1]
	if err := button.Activate(context.Background()); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if overlay.Hidden {
		t.Error("button did not reveal the overlay")
	}
	if len(surface.Alerts()) != 0 {
		t.Errorf("alerts = %+v", surface.Alerts())
	}
}

func TestModalButton_UnknownIDAlerts(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)

	err := engine.Execute(context.Background(), []domain.Command{
		{Type: domain.CmdButton, Props: map[string]any{"label": "Open", "modalId": "ghost"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	button := surface.Output().Nodes()[0]
	if err := button.Activate(context.Background()); err != nil {
		t.Fatalf("Activate leaked an error: %v", err)
	}

	alerts := surface.Alerts()
	if len(alerts) != 1 || alerts[0].Title != "Error" {
		t.Fatalf("alerts = %+v", alerts)
	}
	if alerts[0].Text != `Modal "ghost" is not defined` {
		t.Errorf("alert text = %q", alerts[0].Text)
	}
}

func TestShowHide_ToggleByID(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)
	ctx := context.Background()

	err := engine.Execute(ctx, []domain.Command{
		{Type: domain.CmdCard, Props: map[string]any{"id": "panel", "title": "P", "text": "body"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	panel := engine.Find("panel")

	if err := engine.Execute(ctx, []domain.Command{
		{Type: domain.CmdHide, Props: map[string]any{"id": "panel"}},
	}); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if !panel.Hidden {
		t.Error("hide left the node visible")
	}

	if err := engine.Execute(ctx, []domain.Command{
		{Type: domain.CmdShow, Props: map[string]any{"id": "panel"}},
	}); err != nil {
		t.Fatalf("show: %v", err)
	}
	if panel.Hidden {
		t.Error("show left the node hidden")
	}
}

func TestShowHide_MissingTargetIgnored(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)

	err := engine.Execute(context.Background(), []domain.Command{
		{Type: domain.CmdShow, Props: map[string]any{"id": "nowhere"}},
		{Type: domain.CmdHide},
		{Type: domain.CmdParagraph, Props: map[string]any{"text": "after"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if surface.Output().Len() != 1 {
		t.Errorf("output = %d nodes, want 1", surface.Output().Len())
	}
}

func TestShow_RevealsModalOverlay(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)
	ctx := context.Background()

	err := engine.Execute(ctx, []domain.Command{
		{Type: domain.CmdModal, Props: map[string]any{"id": "tips", "text": "tip"}},
		{Type: domain.CmdShow, Props: map[string]any{"id": "tips"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if engine.Find("tips").Hidden {
		t.Error("show did not reveal the overlay")
	}
}
