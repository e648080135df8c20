package runtime

import (
	"context"

	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/registry"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// dispatch maps one command to its effect: most kinds construct a node and
// append it to container, a few perform a pure side effect, and unknown
// kinds fall through to host handlers or a logged no-op. The command's
// top-level string props are interpolated in place first.
func (e *Engine) dispatch(ctx context.Context, cmd domain.Command, container *domain.Container) error {
	if container == nil {
		return domain.ErrContainerRequired
	}
	props := cmd.Props
	e.interpolateProps(props)

	var (
		node *domain.Node
		err  error
	)

	switch cmd.Type {
	case domain.CmdHeading:
		node = buildHeading(props)
	case domain.CmdParagraph:
		node = buildParagraph(props)
	case domain.CmdBadge:
		node = buildBadge(props)
	case domain.CmdDivider:
		node = domain.NewNode(domain.CmdDivider)
	case domain.CmdAlert:
		node = buildAlert(props)
	case domain.CmdCard:
		node = buildCard(props)
	case domain.CmdList:
		node = buildList(props)
	case domain.CmdTable:
		node = buildTable(props)

	case domain.CmdForm:
		node, err = e.buildForm(ctx, cmd)

	case domain.CmdButton:
		node, err = e.buildButton(props)
	case domain.CmdSubmit:
		node, err = e.buildSubmit(props)
	case domain.CmdLink:
		node, err = e.buildLink(props)
	case domain.CmdIFrame:
		err = e.runFrame(ctx, props)

	case domain.CmdProgress:
		node = buildProgress(props)
	case domain.CmdCircularProgress:
		node = buildCircularProgress(props)

	case domain.CmdInput:
		node = e.buildInput(props)
	case domain.CmdTextarea:
		node = e.buildTextarea(props)
	case domain.CmdToggle:
		node = e.buildToggle(props)
	case domain.CmdRadioGroup:
		node = e.buildRadioGroup(props)
	case domain.CmdCheckboxGroup:
		node = e.buildCheckboxGroup(props)
	case domain.CmdDropdown:
		node = e.buildDropdown(props)

	case domain.CmdModal:
		err = e.runModal(ctx, props)
	case domain.CmdShow:
		e.setVisibility(schema.Text(props, "id"), false)
	case domain.CmdHide:
		e.setVisibility(schema.Text(props, "id"), true)

	case domain.CmdStore:
		err = e.runStore(ctx, props)
	case domain.CmdLoad:
		err = e.runLoad(ctx, props)
	case domain.CmdWait:
		err = e.runWait(ctx, props)

	case domain.CmdCarousel:
		node = e.buildCarousel(props)
	case domain.CmdChart:
		node, err = e.buildChart(ctx, props)

	default:
		if fn, ok := e.handlers.Lookup(cmd.Type); ok {
			// Handlers may live in a registry shared across interpreters,
			// so the state bag travels on the context.
			node, err = fn(registry.WithState(ctx, e.state), cmd, container)
		} else {
			// Unknown kinds are a logged no-op: nothing appended, nothing
			// raised, the sequence continues.
			e.logger.Warn("unknown command type, skipping", "type", cmd.Type)
			return nil
		}
	}

	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}

	// Universal post-processing: an explicit id prop names the node before
	// it is appended.
	if id := schema.Text(props, "id"); id != "" {
		node.ID = id
	}
	container.Append(node)
	return nil
}

// setVisibility flips the hidden flag on the identified node. A missing
// target is a logged no-op.
func (e *Engine) setVisibility(id string, hidden bool) {
	if id == "" {
		e.logger.Warn("show/hide without id, skipping")
		return
	}
	node := e.findNode(id)
	if node == nil {
		e.logger.Debug("show/hide target not found", "id", id)
		return
	}
	node.Hidden = hidden
}
