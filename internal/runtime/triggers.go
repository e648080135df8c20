package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// loadingLabel replaces a trigger's caption while its bound sequence runs.
const loadingLabel = "Loading..."

// bindTrigger wires a node's activation to a nested command sequence. On
// activation the node disables itself, swaps its caption for a loading
// indicator, runs the sequence against the dynamic output container, then
// restores caption and enabled state, no matter how the sequence fared. No
// failure signal reaches the host that fired the trigger.
//
// The sequence runs under the engine's run mutex, so it serializes against
// top-level execution and against other triggers. Nodes it renders may carry
// triggers of their own; those re-enter here when fired.
func (e *Engine) bindTrigger(node *domain.Node, commands []domain.Command) {
	kind := node.Kind
	node.OnActivate(func(ctx context.Context) error {
		e.runMu.Lock()
		defer e.runMu.Unlock()

		original := node.Label
		node.Label = loadingLabel
		node.Disabled = true
		defer func() {
			node.Label = original
			node.Disabled = false
		}()

		e.fireTrigger(ctx, node, kind, commands)
		return nil
	})
}

// fireTrigger runs a trigger-bound sequence and reports it through hooks and
// logs. Callers hold runMu.
func (e *Engine) fireTrigger(ctx context.Context, node *domain.Node, kind string, commands []domain.Command) {
	start := time.Now()
	err := e.run(ctx, commands, e.dynamicTarget(), true)
	e.hooks.EmitTrigger(ctx, &domain.TriggerEvent{
		Kind:     kind,
		NodeID:   node.ID,
		Commands: len(commands),
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		e.logger.Warn("trigger sequence aborted", "kind", kind, "node", node.ID, "error", err)
	}
}

// buildButton constructs a trigger button. A button with a modalId prop
// reveals the registered modal instead of running a sequence; an unknown
// modal id surfaces a user-visible alert.
func (e *Engine) buildButton(props map[string]any) (*domain.Node, error) {
	n := domain.NewNode(domain.CmdButton)
	n.Label = schema.FirstText(props, "label", "text")

	if modalID := schema.Text(props, "modalId"); modalID != "" {
		n.OnActivate(func(ctx context.Context) error {
			e.runMu.Lock()
			defer e.runMu.Unlock()
			if err := e.revealModal(ctx, modalID); err != nil {
				e.logger.Warn("modal button failed", "modal", modalID, "error", err)
			}
			return nil
		})
		return n, nil
	}

	onClick, err := schema.CommandList(props, "onClick")
	if err != nil {
		return nil, &domain.PropError{Kind: domain.CmdButton, Prop: "onClick", Err: err}
	}
	e.bindTrigger(n, onClick)
	return n, nil
}

// buildSubmit constructs a form submit trigger. Before its bound sequence
// runs, it gathers every input/textarea descendant of the identified form
// into a flat field map and writes it into state under the form id.
func (e *Engine) buildSubmit(props map[string]any) (*domain.Node, error) {
	n := domain.NewNode(domain.CmdSubmit)
	n.Label = schema.FirstText(props, "label", "text")
	formID := schema.Text(props, "formId")

	onClick, err := schema.CommandList(props, "onClick")
	if err != nil {
		return nil, &domain.PropError{Kind: domain.CmdSubmit, Prop: "onClick", Err: err}
	}

	kind := n.Kind
	n.OnActivate(func(ctx context.Context) error {
		e.runMu.Lock()
		defer e.runMu.Unlock()

		original := n.Label
		n.Label = loadingLabel
		n.Disabled = true
		defer func() {
			n.Label = original
			n.Disabled = false
		}()

		e.captureForm(formID)
		e.fireTrigger(ctx, n, kind, onClick)
		return nil
	})
	return n, nil
}

// captureForm writes the identified form's current field values into state.
func (e *Engine) captureForm(formID string) {
	if formID == "" {
		e.logger.Warn("submit without formId, nothing captured")
		return
	}
	form := e.findNode(formID)
	if form == nil {
		e.logger.Warn("submit form not found", "form", formID)
		return
	}

	fields := make(map[string]string)
	form.Walk(func(n *domain.Node) bool {
		if (n.Kind == domain.CmdInput || n.Kind == domain.CmdTextarea) && n.ID != "" {
			fields[n.ID] = n.Value()
		}
		return true
	})
	e.state.Set(formID, fields)
}

// buildLink constructs a link node. With an onClick sequence it behaves as a
// trigger; with a url it switches the view to an embedded frame on
// activation.
func (e *Engine) buildLink(props map[string]any) (*domain.Node, error) {
	n := domain.NewNode(domain.CmdLink)
	n.Text = schema.FirstText(props, "text", "label")

	onClick, err := schema.CommandList(props, "onClick")
	if err != nil {
		return nil, &domain.PropError{Kind: domain.CmdLink, Prop: "onClick", Err: err}
	}
	if len(onClick) > 0 {
		e.bindTrigger(n, onClick)
		return n, nil
	}

	url := schema.Text(props, "url")
	if url != "" {
		n.SetAttr("href", url)
		n.OnActivate(func(ctx context.Context) error {
			e.runMu.Lock()
			defer e.runMu.Unlock()
			if err := e.surface.ShowFrame(ctx, url); err != nil {
				e.logger.Warn("frame navigation failed", "url", url, "error", err)
			}
			return nil
		})
	}
	return n, nil
}

// runFrame switches the view to an embedded frame. A missing url is a
// user-visible error.
func (e *Engine) runFrame(ctx context.Context, props map[string]any) error {
	url := schema.Text(props, "url")
	if url == "" {
		e.Alert(ctx, "Error", "iframe command requires a url")
		return domain.ErrFrameURLMissing
	}
	return e.surface.ShowFrame(ctx, url)
}

// buildForm renders a form container and executes its nested commands into
// it, preserving strict sequencing.
func (e *Engine) buildForm(ctx context.Context, cmd domain.Command) (*domain.Node, error) {
	n := domain.NewNode(domain.CmdForm)
	n.ID = schema.Text(cmd.Props, "id")
	n.Label = schema.Text(cmd.Props, "title")

	body := domain.NewContainer(fmt.Sprintf("form:%s", n.ID))
	if err := e.run(ctx, cmd.Commands, body, true); err != nil {
		return nil, err
	}
	n.Append(body.Nodes()...)
	return n, nil
}
