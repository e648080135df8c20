// Package html renders node trees to HTML fragments.
//
// Rendering is a pure apply step: the interpreter produces inert node
// descriptors and this package maps them to markup. Hidden nodes render with
// the "hidden" class instead of being dropped, so hosts holding node
// references can toggle visibility without re-rendering, and ids carry
// through so remote hosts can address activatable elements.
package html

import (
	"html"
	"strings"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// Render produces an HTML fragment for a list of root nodes, one line per
// top-level node.
func Render(nodes []*domain.Node) string {
	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeNode(&sb, n)
	}
	return sb.String()
}

func esc(s string) string {
	return html.EscapeString(s)
}

// attrString builds the shared ` id=".." class=".."` fragment for a node.
// base is the element's structural class; node classes and the hidden marker
// are appended after it.
func attrString(n *domain.Node, base string) string {
	classes := make([]string, 0, len(n.Classes)+2)
	if base != "" {
		classes = append(classes, base)
	}
	classes = append(classes, n.Classes...)
	if n.Hidden {
		classes = append(classes, "hidden")
	}

	var sb strings.Builder
	if n.ID != "" {
		sb.WriteString(` id="` + esc(n.ID) + `"`)
	}
	if len(classes) > 0 {
		sb.WriteString(` class="` + esc(strings.Join(classes, " ")) + `"`)
	}
	return sb.String()
}

func writeChildren(sb *strings.Builder, n *domain.Node) {
	for _, child := range n.Children {
		writeNode(sb, child)
	}
}

func writeButton(sb *strings.Builder, n *domain.Node, class, extra string) {
	sb.WriteString("<button" + attrString(n, class) + extra)
	if n.Disabled {
		sb.WriteString(" disabled")
	}
	sb.WriteString(">" + esc(n.Label) + "</button>")
}

// writeFieldLabel emits the label element preceding a form control.
func writeFieldLabel(sb *strings.Builder, n *domain.Node) {
	if n.Label == "" {
		return
	}
	sb.WriteString(`<label class="field-label"`)
	if n.ID != "" {
		sb.WriteString(` for="` + esc(n.ID) + `"`)
	}
	sb.WriteString(">" + esc(n.Label) + "</label>")
}

func writeNode(sb *strings.Builder, n *domain.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case domain.CmdHeading:
		level := n.Attr("level")
		switch level {
		case "1", "2", "3", "4", "5", "6":
		default:
			level = "2"
		}
		sb.WriteString("<h" + level + attrString(n, "") + ">" + esc(n.Text) + "</h" + level + ">")

	case domain.CmdParagraph:
		sb.WriteString("<p" + attrString(n, "") + ">" + esc(n.Text) + "</p>")

	case domain.CmdBadge:
		sb.WriteString("<span" + attrString(n, "badge") + ">" + esc(n.Text) + "</span>")

	case domain.CmdDivider:
		sb.WriteString("<hr" + attrString(n, "") + ">")

	case domain.CmdAlert:
		sb.WriteString("<div" + attrString(n, "alert") + ">" + esc(n.Text) + "</div>")

	case domain.CmdCard:
		sb.WriteString("<div" + attrString(n, "card") + ">")
		if n.Label != "" {
			sb.WriteString(`<div class="card-title">` + esc(n.Label) + `</div>`)
		}
		if n.Text != "" {
			sb.WriteString("<p>" + esc(n.Text) + "</p>")
		}
		writeChildren(sb, n)
		sb.WriteString("</div>")

	case domain.CmdList:
		if n.Label != "" {
			sb.WriteString(`<div class="list-title">` + esc(n.Label) + `</div>`)
		}
		tag := "ul"
		if n.Attr("style") == "numbered" {
			tag = "ol"
		}
		sb.WriteString("<" + tag + attrString(n, "") + ">")
		for _, li := range n.Children {
			sb.WriteString("<li>" + esc(li.Text) + "</li>")
		}
		sb.WriteString("</" + tag + ">")

	case domain.CmdTable:
		sb.WriteString("<table" + attrString(n, "") + ">")
		var rows []*domain.Node
		for _, child := range n.Children {
			switch child.Kind {
			case "table-head":
				sb.WriteString("<thead><tr>")
				for _, cell := range child.Children {
					sb.WriteString("<th>" + esc(cell.Text) + "</th>")
				}
				sb.WriteString("</tr></thead>")
			case "table-row":
				rows = append(rows, child)
			}
		}
		if len(rows) > 0 {
			sb.WriteString("<tbody>")
			for _, row := range rows {
				sb.WriteString("<tr>")
				for _, cell := range row.Children {
					sb.WriteString("<td>" + esc(cell.Text) + "</td>")
				}
				sb.WriteString("</tr>")
			}
			sb.WriteString("</tbody>")
		}
		sb.WriteString("</table>")

	case domain.CmdForm:
		sb.WriteString("<form" + attrString(n, "") + ">")
		if n.Label != "" {
			sb.WriteString(`<div class="form-title">` + esc(n.Label) + `</div>`)
		}
		writeChildren(sb, n)
		sb.WriteString("</form>")

	case domain.CmdButton:
		writeButton(sb, n, "btn", "")

	case domain.CmdSubmit:
		writeButton(sb, n, "btn btn-primary", ` type="submit"`)

	case "modal-close":
		writeButton(sb, n, "modal-close", "")

	case "carousel-control":
		extra := ""
		if d := n.Attr("direction"); d != "" {
			extra = ` data-direction="` + esc(d) + `"`
		}
		writeButton(sb, n, "carousel-control", extra)

	case domain.CmdLink:
		href := n.Attr("href")
		if href == "" {
			href = "#"
		}
		sb.WriteString("<a" + attrString(n, "") + ` href="` + esc(href) + `">` + esc(n.Text) + "</a>")

	case domain.CmdProgress:
		if n.Label != "" {
			sb.WriteString(`<div class="progress-label">` + esc(n.Label) + `</div>`)
		}
		sb.WriteString("<div" + attrString(n, "progress") + ">")
		sb.WriteString(`<div class="progress-fill" style="width: ` + esc(n.Attr("pct")) + `%"></div>`)
		sb.WriteString("</div>")

	case domain.CmdCircularProgress:
		if n.Label != "" {
			sb.WriteString(`<div class="progress-label">` + esc(n.Label) + `</div>`)
		}
		r := esc(n.Attr("radius"))
		sb.WriteString("<svg" + attrString(n, "circular-progress") + ` viewBox="0 0 100 100">`)
		sb.WriteString(`<circle class="ring-track" cx="50" cy="50" r="` + r + `" fill="none"></circle>`)
		sb.WriteString(`<circle class="ring-fill" cx="50" cy="50" r="` + r + `" fill="none"` +
			` stroke-dasharray="` + esc(n.Attr("circumference")) + `"` +
			` stroke-dashoffset="` + esc(n.Attr("dashoffset")) + `"></circle>`)
		sb.WriteString(`<text x="50" y="55" text-anchor="middle">` + esc(n.Attr("pct")) + `%</text>`)
		sb.WriteString("</svg>")

	case domain.CmdInput:
		writeFieldLabel(sb, n)
		sb.WriteString(`<input type="text"` + attrString(n, ""))
		if v := n.Value(); v != "" {
			sb.WriteString(` value="` + esc(v) + `"`)
		}
		if p := n.Attr("placeholder"); p != "" {
			sb.WriteString(` placeholder="` + esc(p) + `"`)
		}
		if n.Disabled {
			sb.WriteString(" disabled")
		}
		sb.WriteString(">")

	case domain.CmdTextarea:
		writeFieldLabel(sb, n)
		sb.WriteString("<textarea" + attrString(n, ""))
		if r := n.Attr("rows"); r != "" {
			sb.WriteString(` rows="` + esc(r) + `"`)
		}
		if p := n.Attr("placeholder"); p != "" {
			sb.WriteString(` placeholder="` + esc(p) + `"`)
		}
		if n.Disabled {
			sb.WriteString(" disabled")
		}
		sb.WriteString(">" + esc(n.Value()) + "</textarea>")

	case domain.CmdToggle:
		sb.WriteString("<label" + attrString(n, "toggle") + ">")
		sb.WriteString(`<input type="checkbox"`)
		if n.Value() == "true" {
			sb.WriteString(" checked")
		}
		if n.Disabled {
			sb.WriteString(" disabled")
		}
		sb.WriteString(">")
		if n.Label != "" {
			sb.WriteString("<span>" + esc(n.Label) + "</span>")
		}
		sb.WriteString("</label>")

	case domain.CmdRadioGroup, domain.CmdCheckboxGroup:
		class, inputType := "radio-group", "radio"
		if n.Kind == domain.CmdCheckboxGroup {
			class, inputType = "checkbox-group", "checkbox"
		}
		sb.WriteString("<fieldset" + attrString(n, class) + ">")
		if n.Label != "" {
			sb.WriteString("<legend>" + esc(n.Label) + "</legend>")
		}
		for _, o := range n.Children {
			sb.WriteString(`<label class="option"><input type="` + inputType + `"`)
			if n.ID != "" {
				sb.WriteString(` name="` + esc(n.ID) + `"`)
			}
			if v := o.Attr("value"); v != "" {
				sb.WriteString(` value="` + esc(v) + `"`)
			}
			if o.Attr("checked") == "true" {
				sb.WriteString(" checked")
			}
			sb.WriteString(">" + esc(o.Text) + "</label>")
		}
		sb.WriteString("</fieldset>")

	case domain.CmdDropdown:
		writeFieldLabel(sb, n)
		sb.WriteString("<select" + attrString(n, "") + ">")
		for _, o := range n.Children {
			sb.WriteString(`<option value="` + esc(o.Attr("value")) + `"`)
			if o.Attr("selected") == "true" {
				sb.WriteString(" selected")
			}
			sb.WriteString(">" + esc(o.Text) + "</option>")
		}
		sb.WriteString("</select>")

	case domain.CmdModal:
		sb.WriteString("<div" + attrString(n, "modal") + `><div class="modal-content">`)
		writeChildren(sb, n)
		sb.WriteString("</div></div>")

	case domain.CmdCarousel:
		sb.WriteString("<div" + attrString(n, "carousel") + ">")
		writeChildren(sb, n)
		sb.WriteString("</div>")

	case "carousel-slide":
		sb.WriteString("<img" + attrString(n, "carousel-slide") + ` src="` + esc(n.Attr("src")) + `" alt="">`)

	case domain.CmdChart:
		sb.WriteString("<div" + attrString(n, "chart"))
		if t := n.Attr("type"); t != "" {
			sb.WriteString(` data-type="` + esc(t) + `"`)
		}
		sb.WriteString(">")
		if n.Label != "" {
			sb.WriteString(`<div class="chart-title">` + esc(n.Label) + `</div>`)
		}
		writeChildren(sb, n)
		sb.WriteString("</div>")

	case "chart-bar":
		style := "width: " + n.Attr("pct") + "%"
		if c := n.Attr("color"); c != "" {
			style += "; background: " + c
		}
		sb.WriteString("<div" + attrString(n, "chart-bar") + ">")
		sb.WriteString(`<span class="chart-bar-label">` + esc(n.Text) + `</span>`)
		sb.WriteString(`<div class="chart-bar-fill" style="` + esc(style) + `"></div>`)
		sb.WriteString(`<span class="chart-bar-value">` + esc(n.Attr("value")) + `</span>`)
		sb.WriteString("</div>")

	default:
		// Host-registered handlers can emit kinds this package has never
		// heard of; render them as a classed div so the output stays whole.
		sb.WriteString("<div" + attrString(n, n.Kind) + ">")
		if n.Text != "" {
			sb.WriteString(esc(n.Text))
		}
		writeChildren(sb, n)
		sb.WriteString("</div>")
	}
}
