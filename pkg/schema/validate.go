package schema

import (
	"fmt"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// Lint walks a decoded command tree and reports structural findings: unknown
// command types, props a command cannot work without, and suspicious shapes
// (loops with no body, triggers bound to nothing). Findings are advisory;
// the interpreter degrades gracefully on most of them at runtime.
//
// extraKinds names host-registered command types that should not be flagged
// as unknown.
func Lint(cmds []domain.Command, extraKinds ...string) []Issue {
	extra := make(map[string]struct{}, len(extraKinds))
	for _, k := range extraKinds {
		extra[k] = struct{}{}
	}
	var issues []Issue
	lintBlock(cmds, "commands", extra, &issues)
	return issues
}

// Validate is Lint folded into an error: nil when the document is clean,
// an *AggregateError carrying every finding otherwise.
func Validate(cmds []domain.Command, extraKinds ...string) error {
	issues := Lint(cmds, extraKinds...)
	if len(issues) == 0 {
		return nil
	}
	return &AggregateError{Issues: issues}
}

func lintBlock(cmds []domain.Command, path string, extra map[string]struct{}, issues *[]Issue) {
	for i, cmd := range cmds {
		lintCommand(cmd, fmt.Sprintf("%s[%d]", path, i), extra, issues)
	}
}

func lintCommand(cmd domain.Command, path string, extra map[string]struct{}, issues *[]Issue) {
	report := func(reason string) {
		*issues = append(*issues, Issue{Path: path, Kind: cmd.Type, Reason: reason})
	}

	if cmd.Type == "" {
		*issues = append(*issues, Issue{Path: path, Reason: "missing type"})
		return
	}
	if _, ok := extra[cmd.Type]; !ok && !domain.KnownKind(cmd.Type) {
		*issues = append(*issues, Issue{Path: path, Reason: fmt.Sprintf("unknown type %q", cmd.Type)})
		return
	}

	switch cmd.Type {
	case domain.CmdHeading, domain.CmdParagraph, domain.CmdBadge, domain.CmdAlert:
		if Text(cmd.Props, "text") == "" {
			report("missing text")
		}
	case domain.CmdCard:
		if Text(cmd.Props, "title") == "" && Text(cmd.Props, "text") == "" {
			report("missing title and text")
		}
	case domain.CmdList:
		if len(Items(cmd.Props, "items")) == 0 {
			report("missing items")
		}
	case domain.CmdTable:
		if len(Items(cmd.Props, "headers")) == 0 && len(Rows(cmd.Props, "rows")) == 0 {
			report("missing headers and rows")
		}
	case domain.CmdButton:
		onClick, err := CommandList(cmd.Props, "onClick")
		if err != nil {
			report(err.Error())
		} else if len(onClick) == 0 && Text(cmd.Props, "modalId") == "" {
			report("no onClick sequence and no modalId; button does nothing")
		}
		lintBlock(onClick, path+".onClick", extra, issues)
	case domain.CmdSubmit:
		if Text(cmd.Props, "formId") == "" {
			report("missing formId")
		}
		onClick, err := CommandList(cmd.Props, "onClick")
		if err != nil {
			report(err.Error())
		}
		lintBlock(onClick, path+".onClick", extra, issues)
	case domain.CmdLink:
		onClick, err := CommandList(cmd.Props, "onClick")
		if err != nil {
			report(err.Error())
		} else if len(onClick) == 0 && Text(cmd.Props, "url") == "" {
			report("missing url and onClick")
		}
		lintBlock(onClick, path+".onClick", extra, issues)
	case domain.CmdIFrame:
		if Text(cmd.Props, "url") == "" {
			report("missing url")
		}
	case domain.CmdInput, domain.CmdTextarea:
		if Text(cmd.Props, "id") == "" {
			report("missing id; value will not reach state")
		}
	case domain.CmdToggle:
		if FirstText(cmd.Props, "id", "name") == "" {
			report("missing id")
		}
	case domain.CmdRadioGroup, domain.CmdCheckboxGroup:
		if Text(cmd.Props, "name") == "" {
			report("missing name")
		}
		if len(Items(cmd.Props, "options")) == 0 {
			report("missing options")
		}
	case domain.CmdDropdown:
		if FirstText(cmd.Props, "id", "name") == "" {
			report("missing id")
		}
		if len(Items(cmd.Props, "options")) == 0 {
			report("missing options")
		}
	case domain.CmdModal:
		if Text(cmd.Props, "id") == "" {
			report("missing id")
		}
	case domain.CmdShow, domain.CmdHide, domain.CmdLoad:
		if Text(cmd.Props, "id") == "" {
			report("missing id")
		}
	case domain.CmdStore:
		if Text(cmd.Props, "id") == "" {
			report("missing id")
		}
	case domain.CmdCarousel:
		if len(Items(cmd.Props, "images")) == 0 {
			report("missing images")
		}
	case domain.CmdChart:
		if len(Numbers(cmd.Props, "data")) == 0 {
			report("missing data")
		}
	case domain.CmdLoop:
		if len(cmd.Commands) == 0 {
			report("empty loop body")
		}
		if IntOr(cmd.Props, "count", 0) <= 0 {
			report("count missing or not positive; loop renders nothing")
		}
	case domain.CmdForm:
		if Text(cmd.Props, "id") == "" {
			report("missing id; submit cannot address this form")
		}
	}

	if cmd.Type != domain.CmdLoop && cmd.Type != domain.CmdForm && len(cmd.Commands) > 0 {
		report("nested commands are only honored on loop and form")
	}
	lintBlock(cmd.Commands, path+".commands", extra, issues)
}
