// Package tui renders node trees as terminal text.
//
// Color is gated on the detected termenv profile: when stdout is not a
// terminal the renderer degrades to plain text, so piped output stays free
// of escape sequences. Hidden nodes are skipped entirely; a terminal frame
// shows the current visible state rather than toggling classes.
package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

const (
	barWidth    = 24
	accentColor = "#3b82f6"
)

var badgePalette = map[string]string{
	"blue":   "#3b82f6",
	"green":  "#22c55e",
	"red":    "#ef4444",
	"yellow": "#eab308",
	"purple": "#a855f7",
	"gray":   "#6b7280",
}

var severityPalette = map[string]string{
	"info":    "#3b82f6",
	"success": "#22c55e",
	"warning": "#eab308",
	"error":   "#ef4444",
}

var severitySymbols = map[string]string{
	"info":    "i",
	"success": "✓",
	"warning": "!",
	"error":   "✗",
}

// Renderer converts node trees to terminal text.
type Renderer struct {
	profile  termenv.Profile
	out      *termenv.Output
	markdown func(string) (string, error)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithProfile forces a termenv color profile instead of auto-detection.
// Tests pass termenv.Ascii for deterministic output.
func WithProfile(p termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = p
	}
}

// WithMarkdown routes paragraph and card bodies through a glamour markdown
// renderer.
func WithMarkdown() Option {
	return func(r *Renderer) {
		r.markdown = newMarkdownRenderer()
	}
}

// NewRenderer returns a renderer with the color profile detected from the
// environment.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{profile: detectProfile()}
	for _, opt := range opts {
		opt(r)
	}
	r.out = termenv.NewOutput(os.Stdout, termenv.WithProfile(r.profile))
	return r
}

func detectProfile() termenv.Profile {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// Render produces terminal text for a list of root nodes.
func (r *Renderer) Render(nodes []*domain.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		r.writeNode(&sb, n, "")
	}
	return sb.String()
}

// FormatAlert styles a surface alert for terminal display.
func (r *Renderer) FormatAlert(title, text string) string {
	return r.paint("["+title+"]", severityPalette["error"]) + " " + text
}

func (r *Renderer) paint(text, hex string) string {
	if r.profile == termenv.Ascii {
		return text
	}
	return r.out.String(text).Foreground(r.profile.Color(hex)).String()
}

func (r *Renderer) bold(text string) string {
	if r.profile == termenv.Ascii {
		return text
	}
	return r.out.String(text).Bold().String()
}

func (r *Renderer) faint(text string) string {
	if r.profile == termenv.Ascii {
		return text
	}
	return r.out.String(text).Faint().String()
}

// classSuffix extracts the variant from a prefixed presentation class, e.g.
// "green" from "badge-green".
func classSuffix(classes []string, prefix string) string {
	for _, c := range classes {
		if strings.HasPrefix(c, prefix) {
			return strings.TrimPrefix(c, prefix)
		}
	}
	return ""
}

func pad(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func writeIndented(sb *strings.Builder, indent, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		sb.WriteString(indent + line + "\n")
	}
}

func (r *Renderer) writeBody(sb *strings.Builder, indent, text string) {
	if r.markdown != nil {
		if out, err := r.markdown(text); err == nil {
			writeIndented(sb, indent, out)
			return
		}
	}
	writeIndented(sb, indent, text)
}

func (r *Renderer) writeChildren(sb *strings.Builder, n *domain.Node, indent string) {
	for _, child := range n.Children {
		r.writeNode(sb, child, indent)
	}
}

func (r *Renderer) writeNode(sb *strings.Builder, n *domain.Node, indent string) {
	if n == nil || n.Hidden {
		return
	}

	switch n.Kind {
	case domain.CmdHeading:
		sb.WriteString(indent + r.bold(n.Text) + "\n")
		if n.Attr("level") == "1" {
			sb.WriteString(indent + strings.Repeat("=", len([]rune(n.Text))) + "\n")
		}

	case domain.CmdParagraph:
		r.writeBody(sb, indent, n.Text)

	case domain.CmdBadge:
		color := badgePalette[classSuffix(n.Classes, "badge-")]
		sb.WriteString(indent + r.paint("["+n.Text+"]", color) + "\n")

	case domain.CmdDivider:
		sb.WriteString(indent + strings.Repeat("─", 40) + "\n")

	case domain.CmdAlert:
		severity := classSuffix(n.Classes, "alert-")
		symbol := severitySymbols[severity]
		if symbol == "" {
			symbol = severitySymbols["info"]
		}
		sb.WriteString(indent + r.paint(symbol+" "+n.Text, severityPalette[severity]) + "\n")

	case domain.CmdCard:
		if n.Label != "" {
			sb.WriteString(indent + r.bold(n.Label) + "\n")
		}
		if n.Text != "" {
			r.writeBody(sb, indent+"  ", n.Text)
		}
		r.writeChildren(sb, n, indent+"  ")

	case domain.CmdList:
		if n.Label != "" {
			sb.WriteString(indent + r.bold(n.Label) + "\n")
		}
		numbered := n.Attr("style") == "numbered"
		for i, li := range n.Children {
			marker := "-"
			if numbered {
				marker = strconv.Itoa(i+1) + "."
			}
			sb.WriteString(indent + "  " + marker + " " + li.Text + "\n")
		}

	case domain.CmdTable:
		r.writeTable(sb, n, indent)

	case domain.CmdForm:
		if n.Label != "" {
			sb.WriteString(indent + r.bold(n.Label) + "\n")
		}
		r.writeChildren(sb, n, indent+"  ")

	case domain.CmdButton, domain.CmdSubmit:
		label := "[ " + n.Label + " ]"
		if n.Disabled {
			sb.WriteString(indent + r.faint(label) + "\n")
		} else {
			sb.WriteString(indent + r.bold(label) + "\n")
		}

	case domain.CmdLink:
		line := n.Text
		if href := n.Attr("href"); href != "" {
			line += " " + r.faint("("+href+")")
		}
		sb.WriteString(indent + r.paint(line, accentColor) + "\n")

	case domain.CmdProgress:
		pct, _ := strconv.ParseFloat(n.Attr("pct"), 64)
		filled := int(pct/100*barWidth + 0.5)
		if filled > barWidth {
			filled = barWidth
		}
		if filled < 0 {
			filled = 0
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		prefix := ""
		if n.Label != "" {
			prefix = n.Label + " "
		}
		sb.WriteString(indent + prefix + r.paint(bar, accentColor) + " " + n.Attr("pct") + "%\n")

	case domain.CmdCircularProgress:
		prefix := ""
		if n.Label != "" {
			prefix = n.Label + " "
		}
		sb.WriteString(indent + prefix + r.paint("◉", accentColor) + " " + n.Attr("pct") + "%\n")

	case domain.CmdInput, domain.CmdTextarea:
		label := n.Label
		if label == "" {
			label = n.ID
		}
		value := n.Value()
		if value == "" {
			value = r.faint(n.Attr("placeholder"))
		}
		sb.WriteString(indent + label + ": " + value + "\n")

	case domain.CmdToggle:
		mark := "[ ]"
		if n.Value() == "true" {
			mark = "[x]"
		}
		sb.WriteString(indent + mark + " " + n.Label + "\n")

	case domain.CmdRadioGroup:
		if n.Label != "" {
			sb.WriteString(indent + r.bold(n.Label) + "\n")
		}
		for _, o := range n.Children {
			mark := "( )"
			if o.Attr("checked") == "true" {
				mark = "(•)"
			}
			sb.WriteString(indent + "  " + mark + " " + o.Text + "\n")
		}

	case domain.CmdCheckboxGroup:
		if n.Label != "" {
			sb.WriteString(indent + r.bold(n.Label) + "\n")
		}
		for _, o := range n.Children {
			mark := "[ ]"
			if o.Attr("checked") == "true" {
				mark = "[x]"
			}
			sb.WriteString(indent + "  " + mark + " " + o.Text + "\n")
		}

	case domain.CmdDropdown:
		selected := ""
		for _, o := range n.Children {
			if o.Attr("selected") == "true" {
				selected = o.Text
				break
			}
		}
		label := n.Label
		if label == "" {
			label = n.ID
		}
		sb.WriteString(indent + label + ": " + selected + " ▾\n")

	case domain.CmdModal:
		sb.WriteString(indent + strings.Repeat("─", 12) + "\n")
		r.writeChildren(sb, n, indent+"  ")
		sb.WriteString(indent + strings.Repeat("─", 12) + "\n")

	case "modal-close", "carousel-control":
		// Interactive chrome without a terminal rendering.

	case domain.CmdCarousel:
		slides, current := 0, 0
		src := ""
		for _, c := range n.Children {
			if c.Kind != "carousel-slide" {
				continue
			}
			slides++
			if !c.Hidden {
				current = slides
				src = c.Attr("src")
			}
		}
		if current > 0 {
			fmt.Fprintf(sb, "%s[image: %s] %s\n", indent, src, r.faint(fmt.Sprintf("(%d/%d)", current, slides)))
		}

	case domain.CmdChart:
		r.writeChart(sb, n, indent)

	default:
		if n.Text != "" {
			writeIndented(sb, indent, n.Text)
		} else if n.Label != "" {
			sb.WriteString(indent + n.Label + "\n")
		}
		r.writeChildren(sb, n, indent)
	}
}

func (r *Renderer) writeTable(sb *strings.Builder, n *domain.Node, indent string) {
	var rows [][]string
	hasHead := false
	for _, child := range n.Children {
		switch child.Kind {
		case "table-head", "table-row":
			if child.Kind == "table-head" {
				hasHead = true
			}
			cells := make([]string, 0, len(child.Children))
			for _, cell := range child.Children {
				cells = append(cells, cell.Text)
			}
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return
	}

	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if l := len([]rune(cell)); l > widths[i] {
				widths[i] = l
			}
		}
	}

	for ri, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i])
		}
		sb.WriteString(indent + strings.TrimRight(strings.Join(cells, "  "), " ") + "\n")
		if ri == 0 && hasHead {
			total := 0
			for _, w := range widths {
				total += w
			}
			total += 2 * (len(widths) - 1)
			sb.WriteString(indent + strings.Repeat("-", total) + "\n")
		}
	}
}

func (r *Renderer) writeChart(sb *strings.Builder, n *domain.Node, indent string) {
	if n.Label != "" {
		sb.WriteString(indent + r.bold(n.Label) + "\n")
	}

	labelWidth := 0
	for _, bar := range n.Children {
		if bar.Kind != "chart-bar" {
			continue
		}
		if l := len([]rune(bar.Text)); l > labelWidth {
			labelWidth = l
		}
	}

	for _, bar := range n.Children {
		if bar.Kind != "chart-bar" {
			continue
		}
		pct, _ := strconv.ParseFloat(bar.Attr("pct"), 64)
		length := int(pct/100*barWidth + 0.5)
		if length > barWidth {
			length = barWidth
		}
		if length < 1 && pct > 0 {
			length = 1
		}
		color := bar.Attr("color")
		if color == "" {
			color = accentColor
		}
		sb.WriteString(indent + pad(bar.Text, labelWidth) + " " +
			r.paint(strings.Repeat("█", length), color) + " " + bar.Attr("value") + "\n")
	}
}

// newMarkdownRenderer builds a glamour renderer that auto-detects the
// light/dark background.
func newMarkdownRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	return func(markdown string) (string, error) {
		if r == nil {
			return markdown, nil
		}
		return r.Render(markdown)
	}
}
