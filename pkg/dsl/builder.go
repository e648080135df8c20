package dsl

import (
	"encoding/json"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// Script accumulates commands through a fluent chain. The zero value is not
// usable; start with New.
type Script struct {
	cmds []domain.Command
}

// New creates an empty script builder.
func New() *Script {
	return &Script{}
}

// Add appends a raw command. It is the escape hatch for kinds the builder
// has no method for, such as host-registered vocabulary.
func (s *Script) Add(cmd domain.Command) *Script {
	s.cmds = append(s.cmds, cmd)
	return s
}

func (s *Script) add(kind string, props map[string]any, body []domain.Command) *Script {
	s.cmds = append(s.cmds, domain.Command{Type: kind, Props: props, Commands: body})
	return s
}

// Commands returns the accumulated command list.
func (s *Script) Commands() []domain.Command {
	return s.cmds
}

// JSON renders the script as a JSON document, ready for Run or a render
// request body.
func (s *Script) JSON() ([]byte, error) {
	return json.Marshal(s.cmds)
}

// Static content.

// Heading appends a level-2 heading.
func (s *Script) Heading(text string) *Script {
	return s.add(domain.CmdHeading, map[string]any{"text": text}, nil)
}

// HeadingLevel appends a heading with an explicit level (1..6).
func (s *Script) HeadingLevel(text string, level int) *Script {
	return s.add(domain.CmdHeading, map[string]any{"text": text, "level": level}, nil)
}

func (s *Script) Paragraph(text string) *Script {
	return s.add(domain.CmdParagraph, map[string]any{"text": text}, nil)
}

func (s *Script) Badge(text, color string) *Script {
	return s.add(domain.CmdBadge, map[string]any{"text": text, "color": color}, nil)
}

func (s *Script) Divider() *Script {
	return s.add(domain.CmdDivider, nil, nil)
}

// Alert appends an inline alert. Severity is one of info, success, warning
// or error.
func (s *Script) Alert(text, severity string) *Script {
	return s.add(domain.CmdAlert, map[string]any{"text": text, "severity": severity}, nil)
}

func (s *Script) Card(title, text string) *Script {
	return s.add(domain.CmdCard, map[string]any{"title": title, "text": text}, nil)
}

func (s *Script) List(title string, items ...string) *Script {
	return s.add(domain.CmdList, map[string]any{"title": title, "items": items}, nil)
}

func (s *Script) Table(headers []string, rows ...[]string) *Script {
	return s.add(domain.CmdTable, map[string]any{"headers": headers, "rows": rows}, nil)
}

// Progress indicators.

func (s *Script) Progress(label string, value, max float64) *Script {
	return s.add(domain.CmdProgress, map[string]any{"label": label, "value": value, "max": max}, nil)
}

func (s *Script) CircularProgress(label string, value, max float64) *Script {
	return s.add(domain.CmdCircularProgress, map[string]any{"label": label, "value": value, "max": max}, nil)
}

// Input widgets.

func (s *Script) Input(id, label string) *Script {
	return s.add(domain.CmdInput, map[string]any{"id": id, "label": label}, nil)
}

func (s *Script) Textarea(id, label string) *Script {
	return s.add(domain.CmdTextarea, map[string]any{"id": id, "label": label}, nil)
}

func (s *Script) Toggle(id, label string, checked bool) *Script {
	return s.add(domain.CmdToggle, map[string]any{"id": id, "label": label, "checked": checked}, nil)
}

func (s *Script) Dropdown(id, label string, options ...string) *Script {
	return s.add(domain.CmdDropdown, map[string]any{"id": id, "label": label, "options": options}, nil)
}

func (s *Script) RadioGroup(name, label string, options ...string) *Script {
	return s.add(domain.CmdRadioGroup, map[string]any{"name": name, "label": label, "options": options}, nil)
}

func (s *Script) CheckboxGroup(name, label string, options ...string) *Script {
	return s.add(domain.CmdCheckboxGroup, map[string]any{"name": name, "label": label, "options": options}, nil)
}

// Containers.

// Form appends a form container holding the body's commands.
func (s *Script) Form(id string, body *Script) *Script {
	return s.add(domain.CmdForm, map[string]any{"id": id}, body.Commands())
}

// Loop repeats the body count times; the body sees the iteration number
// under the loopIndex state key.
func (s *Script) Loop(count int, body *Script) *Script {
	return s.add(domain.CmdLoop, map[string]any{"count": count}, body.Commands())
}

// Triggers and navigation.

// Button appends a button whose onClick runs the given script.
func (s *Script) Button(id, label string, onClick *Script) *Script {
	props := map[string]any{"id": id, "label": label}
	if onClick != nil {
		props["onClick"] = onClick.Commands()
	}
	return s.add(domain.CmdButton, props, nil)
}

// ModalButton appends a button that opens the modal with the given id.
func (s *Script) ModalButton(id, label, modalID string) *Script {
	return s.add(domain.CmdButton, map[string]any{"id": id, "label": label, "modalId": modalID}, nil)
}

// Submit appends a submit trigger for the form with the given formID. The id
// names the trigger itself so hosts can Activate it; pass "" to omit it.
func (s *Script) Submit(id, label, formID string, onClick *Script) *Script {
	props := map[string]any{"label": label, "formId": formID}
	if id != "" {
		props["id"] = id
	}
	if onClick != nil {
		props["onClick"] = onClick.Commands()
	}
	return s.add(domain.CmdSubmit, props, nil)
}

// Link appends a navigation link. Pass a url, an onClick script, or both.
func (s *Script) Link(text, url string, onClick *Script) *Script {
	props := map[string]any{"text": text}
	if url != "" {
		props["url"] = url
	}
	if onClick != nil {
		props["onClick"] = onClick.Commands()
	}
	return s.add(domain.CmdLink, props, nil)
}

func (s *Script) IFrame(url string) *Script {
	return s.add(domain.CmdIFrame, map[string]any{"url": url}, nil)
}

// Overlays and visibility.

// Modal appends a modal definition. Modals render hidden; reveal them with
// Show or a ModalButton.
func (s *Script) Modal(id, title, text string) *Script {
	return s.add(domain.CmdModal, map[string]any{"id": id, "title": title, "text": text}, nil)
}

func (s *Script) Show(id string) *Script {
	return s.add(domain.CmdShow, map[string]any{"id": id}, nil)
}

func (s *Script) Hide(id string) *Script {
	return s.add(domain.CmdHide, map[string]any{"id": id}, nil)
}

// Side effects.

// Store persists a named value for the configured user.
func (s *Script) Store(id, value string) *Script {
	return s.add(domain.CmdStore, map[string]any{"id": id, "value": value}, nil)
}

// Load reads a persisted value into state under its id.
func (s *Script) Load(id string) *Script {
	return s.add(domain.CmdLoad, map[string]any{"id": id}, nil)
}

func (s *Script) Wait(seconds float64) *Script {
	return s.add(domain.CmdWait, map[string]any{"seconds": seconds}, nil)
}

// Composite widgets.

func (s *Script) Carousel(images ...string) *Script {
	return s.add(domain.CmdCarousel, map[string]any{"images": images}, nil)
}

// Chart appends a chart. chartType is bar, line or pie.
func (s *Script) Chart(chartType, title string, labels []string, data []float64) *Script {
	return s.add(domain.CmdChart, map[string]any{
		"chartType": chartType,
		"title":     title,
		"labels":    labels,
		"data":      data,
	}, nil)
}

