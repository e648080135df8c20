package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// modalRegistry tracks every overlay ever created, one per distinct id. A
// modal is constructed at most once; later commands with the same id only
// toggle its visibility.
type modalRegistry struct {
	mu       sync.Mutex
	overlays map[string]*domain.Node
}

func newModalRegistry() *modalRegistry {
	return &modalRegistry{overlays: make(map[string]*domain.Node)}
}

func (r *modalRegistry) get(id string) (*domain.Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.overlays[id]
	return n, ok
}

func (r *modalRegistry) put(id string, n *domain.Node) {
	r.mu.Lock()
	r.overlays[id] = n
	r.mu.Unlock()
}

func (r *modalRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.overlays)
}

// runModal creates a hidden overlay on the first call per id, and only
// reveals the existing one on subsequent calls.
func (e *Engine) runModal(ctx context.Context, props map[string]any) error {
	id := schema.Text(props, "id")
	if id == "" {
		e.logger.Warn("modal without id, skipping")
		return nil
	}

	if overlay, ok := e.modals.get(id); ok {
		overlay.Hidden = false
		return nil
	}

	overlay := buildModalOverlay(id, schema.Text(props, "title"), schema.Text(props, "text"))
	e.modals.put(id, overlay)
	e.surface.Output().Append(overlay)
	return nil
}

// revealModal shows a registered modal by id. An unknown id is a
// user-visible error.
func (e *Engine) revealModal(ctx context.Context, id string) error {
	if overlay, ok := e.modals.get(id); ok {
		overlay.Hidden = false
		return nil
	}
	e.Alert(ctx, "Error", fmt.Sprintf("Modal %q is not defined", id))
	return fmt.Errorf("%w: %s", domain.ErrUnknownModal, id)
}

func buildModalOverlay(id, title, text string) *domain.Node {
	overlay := domain.NewNode(domain.CmdModal)
	overlay.ID = id
	overlay.Hidden = true

	if title != "" {
		h := domain.NewNode(domain.CmdHeading)
		h.Text = title
		h.SetAttr("level", "3")
		overlay.Append(h)
	}
	if text != "" {
		p := domain.NewNode(domain.CmdParagraph)
		p.Text = text
		overlay.Append(p)
	}

	closeBtn := domain.NewNode("modal-close")
	closeBtn.Label = "x"
	closeBtn.OnActivate(func(ctx context.Context) error {
		overlay.Hidden = true
		return nil
	})
	overlay.Append(closeBtn)

	return overlay
}
