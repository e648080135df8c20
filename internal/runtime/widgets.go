package runtime

import (
	"context"
	"math"
	"strconv"
	"sync"

	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// circularRadius is the fixed radius of the circular progress ring.
const circularRadius = 45.0

// percent computes the displayed fraction from value/max props: parsed as
// floats defaulting to 0/100, NaN falls back to 0, result clamped to
// [0,100].
func percent(props map[string]any) float64 {
	value := schema.FloatOr(props, "value", 0)
	max := schema.FloatOr(props, "max", 100)

	pct := value / max * 100
	if math.IsNaN(pct) {
		pct = 0
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func buildProgress(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdProgress)
	n.Label = schema.Text(props, "label")
	pct := percent(props)
	n.SetAttr("value", formatFloat(schema.FloatOr(props, "value", 0)))
	n.SetAttr("max", formatFloat(schema.FloatOr(props, "max", 100)))
	n.SetAttr("pct", formatFloat(pct))
	return n
}

func buildCircularProgress(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdCircularProgress)
	n.Label = schema.Text(props, "label")
	pct := percent(props)

	// Stroke-dash geometry over a fixed-radius ring.
	circumference := 2 * math.Pi * circularRadius
	offset := circumference * (1 - pct/100)

	n.SetAttr("pct", formatFloat(pct))
	n.SetAttr("radius", formatFloat(circularRadius))
	n.SetAttr("circumference", strconv.FormatFloat(circumference, 'f', 3, 64))
	n.SetAttr("dashoffset", strconv.FormatFloat(offset, 'f', 3, 64))
	return n
}

// Input widgets. Each registers a change closure writing the control's
// current value into state under its id/name. Initial values seed the node
// only; state is written on interaction.

func (e *Engine) buildInput(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdInput)
	n.ID = schema.Text(props, "id")
	n.Label = schema.Text(props, "label")
	if p := schema.Text(props, "placeholder"); p != "" {
		n.SetAttr("placeholder", p)
	}
	n.SetInitialValue(schema.Text(props, "value"))

	id := n.ID
	n.OnChange(func(ctx context.Context, value string) error {
		if id != "" {
			e.state.Set(id, value)
		}
		return nil
	})
	return n
}

func (e *Engine) buildTextarea(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdTextarea)
	n.ID = schema.Text(props, "id")
	n.Label = schema.Text(props, "label")
	if p := schema.Text(props, "placeholder"); p != "" {
		n.SetAttr("placeholder", p)
	}
	if rows := schema.IntOr(props, "rows", 0); rows > 0 {
		n.SetAttr("rows", strconv.Itoa(rows))
	}
	n.SetInitialValue(schema.Text(props, "value"))

	id := n.ID
	n.OnChange(func(ctx context.Context, value string) error {
		if id != "" {
			e.state.Set(id, value)
		}
		return nil
	})
	return n
}

func (e *Engine) buildToggle(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdToggle)
	n.ID = schema.FirstText(props, "id", "name")
	n.Label = schema.Text(props, "label")
	n.SetInitialValue(strconv.FormatBool(schema.BoolOr(props, "checked", false)))

	id := n.ID
	n.OnChange(func(ctx context.Context, value string) error {
		if id != "" {
			e.state.Set(id, value == "true")
		}
		return nil
	})
	// Activation flips the switch.
	n.OnActivate(func(ctx context.Context) error {
		return n.SetValue(ctx, strconv.FormatBool(n.Value() != "true"))
	})
	return n
}

func (e *Engine) buildRadioGroup(props map[string]any) *domain.Node {
	g := domain.NewNode(domain.CmdRadioGroup)
	name := schema.Text(props, "name")
	g.ID = name
	g.Label = schema.Text(props, "label")

	initial := schema.Text(props, "value")
	for _, opt := range schema.Items(props, "options") {
		o := domain.NewNode("option")
		o.Text = opt
		o.SetAttr("value", opt)
		if opt == initial {
			o.SetAttr("checked", "true")
		}
		value := opt
		o.OnActivate(func(ctx context.Context) error {
			return g.SetValue(ctx, value)
		})
		g.Append(o)
	}
	g.SetInitialValue(initial)

	g.OnChange(func(ctx context.Context, value string) error {
		if name != "" {
			e.state.Set(name, value) // scalar overwrite
		}
		for _, o := range g.Children {
			if o.Attr("value") == value {
				o.SetAttr("checked", "true")
			} else {
				o.SetAttr("checked", "")
			}
		}
		return nil
	})
	return g
}

func (e *Engine) buildCheckboxGroup(props map[string]any) *domain.Node {
	g := domain.NewNode(domain.CmdCheckboxGroup)
	name := schema.Text(props, "name")
	g.ID = name
	g.Label = schema.Text(props, "label")

	for _, opt := range schema.Items(props, "options") {
		o := domain.NewNode("option")
		o.Text = opt
		o.SetAttr("value", opt)
		o.SetInitialValue("false")

		option := opt
		box := o
		o.OnChange(func(ctx context.Context, value string) error {
			checked := value == "true"
			if checked {
				box.SetAttr("checked", "true")
			} else {
				box.SetAttr("checked", "")
			}
			if name != "" {
				e.toggleMembership(name, option, checked)
			}
			return nil
		})
		o.OnActivate(func(ctx context.Context) error {
			return box.SetValue(ctx, strconv.FormatBool(box.Value() != "true"))
		})
		g.Append(o)
	}
	return g
}

// toggleMembership adds or removes an option from the sequence stored under
// key, preserving check order. The compound read-modify-write is guarded so
// concurrent checkbox flips cannot lose updates.
func (e *Engine) toggleMembership(key, option string, on bool) {
	e.memberMu.Lock()
	defer e.memberMu.Unlock()

	current := asStringSlice(e.state.Get(key))
	next := make([]string, 0, len(current)+1)
	present := false
	for _, item := range current {
		if item == option {
			present = true
			continue
		}
		next = append(next, item)
	}
	if on {
		if present {
			next = current // already there, keep order untouched
		} else {
			next = append(append(next[:0:0], current...), option)
		}
	}
	e.state.Set(key, next)
}

func asStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, domain.Stringify(item))
		}
		return out
	default:
		return nil
	}
}

func (e *Engine) buildDropdown(props map[string]any) *domain.Node {
	d := domain.NewNode(domain.CmdDropdown)
	name := schema.FirstText(props, "id", "name")
	d.ID = name
	d.Label = schema.Text(props, "label")

	initial := schema.Text(props, "value")
	for _, opt := range schema.Items(props, "options") {
		o := domain.NewNode("option")
		o.Text = opt
		o.SetAttr("value", opt)
		if opt == initial {
			o.SetAttr("selected", "true")
		}
		value := opt
		o.OnActivate(func(ctx context.Context) error {
			return d.SetValue(ctx, value)
		})
		d.Append(o)
	}
	d.SetInitialValue(initial)

	d.OnChange(func(ctx context.Context, value string) error {
		if name != "" {
			e.state.Set(name, value)
		}
		for _, o := range d.Children {
			if o.Attr("value") == value {
				o.SetAttr("selected", "true")
			} else {
				o.SetAttr("selected", "")
			}
		}
		return nil
	})
	return d
}

// buildCarousel constructs a slide sequence with previous/next controls.
// The slide index is local to the carousel and advances modulo the slide
// count with wraparound; exactly one slide is visible at a time.
func (e *Engine) buildCarousel(props map[string]any) *domain.Node {
	n := domain.NewNode(domain.CmdCarousel)

	images := schema.Items(props, "images")
	slides := make([]*domain.Node, 0, len(images))
	for i, src := range images {
		s := domain.NewNode("carousel-slide")
		s.SetAttr("src", src)
		s.Hidden = i != 0
		slides = append(slides, s)
		n.Append(s)
	}

	var mu sync.Mutex
	idx := 0
	advance := func(delta int) {
		mu.Lock()
		defer mu.Unlock()
		if len(slides) == 0 {
			return
		}
		slides[idx].Hidden = true
		idx = (idx + delta + len(slides)) % len(slides)
		slides[idx].Hidden = false
	}

	prev := domain.NewNode("carousel-control")
	prev.Label = "<"
	prev.SetAttr("direction", "prev")
	prev.OnActivate(func(ctx context.Context) error {
		advance(-1)
		return nil
	})

	next := domain.NewNode("carousel-control")
	next.Label = ">"
	next.SetAttr("direction", "next")
	next.OnActivate(func(ctx context.Context) error {
		advance(1)
		return nil
	})

	n.Append(prev, next)
	return n
}

// buildChart delegates to the configured chart renderer, falling back to a
// plain bar rendering when none is wired.
func (e *Engine) buildChart(ctx context.Context, props map[string]any) (*domain.Node, error) {
	spec := domain.ChartSpec{
		Type:   schema.TextOr(props, "chartType", domain.ChartBar),
		Title:  schema.Text(props, "title"),
		Labels: schema.Items(props, "labels"),
		Data:   schema.Numbers(props, "data"),
		Colors: schema.Items(props, "colors"),
	}

	if e.charts != nil {
		return e.charts.RenderChart(ctx, spec)
	}
	return fallbackChart(spec), nil
}

func fallbackChart(spec domain.ChartSpec) *domain.Node {
	n := domain.NewNode(domain.CmdChart)
	n.Label = spec.Title
	n.SetAttr("type", spec.Type)

	max := spec.Max()
	for i, p := range spec.Points() {
		bar := domain.NewNode("chart-bar")
		bar.Text = p.Label
		bar.SetAttr("value", formatFloat(p.Value))
		pct := 0.0
		if max > 0 && p.Value > 0 {
			pct = p.Value / max * 100
		}
		bar.SetAttr("pct", strconv.FormatFloat(pct, 'f', 1, 64))
		if c := spec.Color(i); c != "" {
			bar.SetAttr("color", c)
		}
		n.Append(bar)
	}
	return n
}
