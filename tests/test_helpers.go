package tests

import (
	"context"
	"testing"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// newInterpreter builds an interpreter on a fresh headless surface the test
// can inspect, with any extra options appended.
func newInterpreter(opts ...flux.Option) (*flux.Interpreter, *headless.Surface) {
	surface := headless.New()
	it := flux.New(append([]flux.Option{flux.WithSurface(surface)}, opts...)...)
	return it, surface
}

// runScript executes a JSON or YAML script and fails the test on error.
func runScript(t *testing.T, it *flux.Interpreter, script string) {
	t.Helper()
	if err := it.Run(context.Background(), []byte(script)); err != nil {
		t.Fatalf("run script: %v", err)
	}
}

// texts flattens the readable text of a container's tree in render order.
func texts(c *domain.Container) []string {
	var out []string
	c.Walk(func(n *domain.Node) bool {
		if n.Text != "" {
			out = append(out, n.Text)
		}
		return true
	})
	return out
}

// containsText reports whether any node in the container carries the text.
func containsText(c *domain.Container, want string) bool {
	for _, got := range texts(c) {
		if got == want {
			return true
		}
	}
	return false
}
