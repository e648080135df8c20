package domain

import "sort"

// Command kind constants define the closed command vocabulary.
// The string values are the wire-level `type` field and must not change.
const (
	// Static content.
	CmdHeading   = "heading"
	CmdParagraph = "paragraph"
	CmdBadge     = "badge"
	CmdDivider   = "divider"
	CmdAlert     = "alert"
	CmdCard      = "card"
	CmdList      = "list"
	CmdTable     = "table"

	// Containers.
	CmdForm = "form"
	CmdLoop = "loop"

	// Triggers and navigation.
	CmdButton = "button"
	CmdSubmit = "submit"
	CmdLink   = "link"
	CmdIFrame = "iframe"

	// Progress indicators.
	CmdProgress         = "progress"
	CmdCircularProgress = "circular-progress"

	// Input widgets.
	CmdInput         = "input"
	CmdTextarea      = "textarea"
	CmdToggle        = "toggle"
	CmdRadioGroup    = "radio-group"
	CmdCheckboxGroup = "checkbox-group"
	CmdDropdown      = "dropdown"

	// Overlays and visibility.
	CmdModal = "modal"
	CmdShow  = "show"
	CmdHide  = "hide"

	// Side effects.
	CmdStore = "store"
	CmdLoad  = "load"
	CmdWait  = "wait"

	// Composite widgets.
	CmdCarousel = "carousel"
	CmdChart    = "chart"
)

// Command is one declarative instruction consumed by the interpreter.
// Commands are transient descriptors: they carry no identity and are consumed
// once. Props are rewritten in place by the interpolation pass immediately
// before dispatch.
type Command struct {
	Type     string         `json:"type" yaml:"type" mapstructure:"type"`
	Props    map[string]any `json:"props,omitempty" yaml:"props,omitempty" mapstructure:"props"`
	Commands []Command      `json:"commands,omitempty" yaml:"commands,omitempty" mapstructure:"commands"`
}

// Prop returns the raw prop value for key, or nil when absent.
// It is nil-safe on commands decoded without a props object.
func (c Command) Prop(key string) any {
	if c.Props == nil {
		return nil
	}
	return c.Props[key]
}

// commandKinds is the membership set behind KnownKind. Matching is exact:
// hosts must send the lowercase wire names.
var commandKinds = map[string]struct{}{
	CmdHeading: {}, CmdParagraph: {}, CmdBadge: {}, CmdDivider: {},
	CmdAlert: {}, CmdCard: {}, CmdList: {}, CmdTable: {},
	CmdForm: {}, CmdLoop: {},
	CmdButton: {}, CmdSubmit: {}, CmdLink: {}, CmdIFrame: {},
	CmdProgress: {}, CmdCircularProgress: {},
	CmdInput: {}, CmdTextarea: {}, CmdToggle: {},
	CmdRadioGroup: {}, CmdCheckboxGroup: {}, CmdDropdown: {},
	CmdModal: {}, CmdShow: {}, CmdHide: {},
	CmdStore: {}, CmdLoad: {}, CmdWait: {},
	CmdCarousel: {}, CmdChart: {},
}

// KnownKind reports whether kind is part of the built-in command vocabulary.
// Host-registered handlers may extend the vocabulary at runtime; those kinds
// are not reported here.
func KnownKind(kind string) bool {
	_, ok := commandKinds[kind]
	return ok
}

// CommandKinds returns the built-in command vocabulary in sorted order.
// Used by the catalog endpoints and the validate command.
func CommandKinds() []string {
	kinds := make([]string, 0, len(commandKinds))
	for k := range commandKinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
