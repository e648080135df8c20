package runtime_test

import (
	"context"
	"testing"

	"github.com/hashhooshy/flux-labs/internal/runtime"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	"github.com/hashhooshy/flux-labs/pkg/domain"
)

func TestEngine_InterpolationEndToEnd(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)
	engine.State().Set("greeting", "Hi")

	err := engine.Execute(context.Background(), []domain.Command{
		{Type: domain.CmdHeading, Props: map[string]any{"text": "{greeting}"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	nodes := surface.Output().Nodes()
	if len(nodes) != 1 {
		t.Fatalf("rendered %d nodes, want 1", len(nodes))
	}
	if nodes[0].Text != "Hi" {
		t.Errorf("heading text = %q, want Hi", nodes[0].Text)
	}
}

func TestEngine_InterpolationRules(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)
	engine.State().Set("name", "Ada")
	engine.State().Set("n", 3)
	engine.State().Set("prefs", []string{"a", "b"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Hello {name}", "Hello Ada"},
		{"every occurrence", "{name} and {name}", "Ada and Ada"},
		{"number stringified", "{n} items", "3 items"},
		{"sequence joins", "picked: {prefs}", "picked: a,b"},
		{"unmatched verbatim", "Hello {nobody}", "Hello {nobody}"},
		{"mixed", "{name} {nobody} {n}", "Ada {nobody} 3"},
		{"no placeholders", "plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface.Reset()
			err := engine.Execute(context.Background(), []domain.Command{
				{Type: domain.CmdParagraph, Props: map[string]any{"text": tt.in}},
			})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if got := surface.Output().Nodes()[0].Text; got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEngine_UnknownTypeSkipped(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)

	err := engine.Execute(context.Background(), []domain.Command{
		{Type: "holo-deck", Props: map[string]any{"text": "beam"}},
		{Type: domain.CmdParagraph, Props: map[string]any{"text": "after"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Nothing appended for the unknown kind, and the sequence continued.
	nodes := surface.Output().Nodes()
	if len(nodes) != 1 || nodes[0].Text != "after" {
		t.Fatalf("nodes = %+v", nodes)
	}
}

func TestEngine_IDPostProcessing(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)

	err := engine.Execute(context.Background(), []domain.Command{
		{Type: domain.CmdCard, Props: map[string]any{"title": "T", "text": "b", "id": "intro"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := engine.Find("intro"); got == nil || got.Kind != domain.CmdCard {
		t.Errorf("Find(intro) = %+v", got)
	}
}

func TestEngine_HostHandlers(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)

	engine.Handlers().Register("stamp", func(ctx context.Context, cmd domain.Command, c *domain.Container) (*domain.Node, error) {
		n := domain.NewNode("stamp")
		n.Text = engine.State().GetString("who")
		return n, nil
	})
	engine.State().Set("who", "hosts")

	err := engine.Execute(context.Background(), []domain.Command{{Type: "stamp"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	nodes := surface.Output().Nodes()
	if len(nodes) != 1 || nodes[0].Text != "hosts" {
		t.Fatalf("handler node = %+v", nodes)
	}
}

func TestEngine_StaticContent(t *testing.T) {
	surface := headless.New()
	engine := runtime.NewEngine(surface)

	err := engine.Execute(context.Background(), []domain.Command{
		{Type: domain.CmdHeading, Props: map[string]any{"text": "Title", "level": 9}},
		{Type: domain.CmdBadge, Props: map[string]any{"text": "New", "color": "green"}},
		{Type: domain.CmdBadge, Props: map[string]any{"text": "Odd", "color": "chartreuse"}},
		{Type: domain.CmdAlert, Props: map[string]any{"text": "Careful", "severity": "warning"}},
		{Type: domain.CmdAlert, Props: map[string]any{"text": "Plain"}},
		{Type: domain.CmdDivider},
		{Type: domain.CmdList, Props: map[string]any{"title": "L", "items": "a, b,c", "listStyle": "numbered"}},
		{Type: domain.CmdList, Props: map[string]any{"items": []any{"x"}, "listStyle": "NUMBERED"}},
		{Type: domain.CmdTable, Props: map[string]any{
			"headers": []any{"Name", "Age"},
			"rows":    []any{[]any{"Ada", 36}, []any{"short"}},
		}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	nodes := surface.Output().Nodes()
	if len(nodes) != 9 {
		t.Fatalf("rendered %d nodes, want 9", len(nodes))
	}

	if nodes[0].Attr("level") != "6" {
		t.Errorf("heading level clamped to %q, want 6", nodes[0].Attr("level"))
	}
	if nodes[1].Classes[0] != "badge-green" {
		t.Errorf("badge class = %v", nodes[1].Classes)
	}
	if nodes[2].Classes[0] != "badge-blue" {
		t.Errorf("unknown color fell back to %v, want badge-blue", nodes[2].Classes)
	}
	if nodes[3].Classes[0] != "alert-warning" {
		t.Errorf("alert class = %v", nodes[3].Classes)
	}
	if nodes[4].Classes[0] != "alert-info" {
		t.Errorf("default alert class = %v", nodes[4].Classes)
	}

	list := nodes[6]
	if list.Attr("style") != "numbered" || len(list.Children) != 3 {
		t.Errorf("list = style %q, %d items", list.Attr("style"), len(list.Children))
	}
	// listStyle matching is exact; "NUMBERED" renders unordered.
	if nodes[7].Attr("style") != "" {
		t.Errorf("case-mismatched listStyle treated as numbered")
	}

	table := nodes[8]
	if len(table.Children) != 3 {
		t.Fatalf("table children = %d, want head + 2 rows", len(table.Children))
	}
	if table.Children[0].Kind != "table-head" || len(table.Children[0].Children) != 2 {
		t.Errorf("table head = %+v", table.Children[0])
	}
	// Ragged rows render as-is.
	if len(table.Children[2].Children) != 1 {
		t.Errorf("ragged row padded: %d cells", len(table.Children[2].Children))
	}
}
