package runtime

import (
	"strconv"

	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// Static content builders: pure construction from props, no listeners.

func buildHeading(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdHeading)
	n.Text = schema.Text(props, "text")
	level := schema.IntOr(props, "level", 2)
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	n.SetAttr("level", strconv.Itoa(level))
	return n
}

func buildParagraph(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdParagraph)
	n.Text = schema.Text(props, "text")
	return n
}

func buildBadge(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdBadge)
	n.Text = schema.Text(props, "text")
	n.AddClass(domain.BadgeClass(schema.Text(props, "color")))
	return n
}

func buildAlert(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdAlert)
	n.Text = schema.Text(props, "text")
	n.AddClass(domain.AlertClass(schema.Text(props, "severity")))
	return n
}

func buildCard(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdCard)
	n.Label = schema.Text(props, "title")
	n.Text = schema.Text(props, "text")
	return n
}

func buildList(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdList)
	n.Label = schema.Text(props, "title")
	// Exact match: anything but "numbered" renders unordered.
	if schema.Text(props, "listStyle") == "numbered" {
		n.SetAttr("style", "numbered")
	}
	for _, item := range schema.Items(props, "items") {
		li := domain.NewNode("list-item")
		li.Text = item
		n.Append(li)
	}
	return n
}

func buildTable(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdTable)

	headers := schema.Items(props, "headers")
	if len(headers) > 0 {
		head := domain.NewNode("table-head")
		for _, h := range headers {
			cell := domain.NewNode("table-cell")
			cell.Text = h
			head.Append(cell)
		}
		n.Append(head)
	}

	// Ragged rows render as-is; no column-count validation.
	for _, row := range schema.Rows(props, "rows") {
		tr := domain.NewNode("table-row")
		for _, cell := range row {
			td := domain.NewNode("table-cell")
			td.Text = cell
			tr.Append(td)
		}
		n.Append(tr)
	}
	return n
}
