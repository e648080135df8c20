package schema

import "fmt"

// Issue represents a single finding against a command document.
type Issue struct {
	Path   string // position in the document, e.g. "commands[2].commands[0]"
	Kind   string // command type at that position, "" when the type itself is the problem
	Reason string // human-readable description
}

func (e *Issue) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s (%s): %s", e.Path, e.Kind, e.Reason)
}

// AggregateError collects multiple findings into one error.
type AggregateError struct {
	Issues []Issue
}

func (e *AggregateError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].Error()
	}
	msg := fmt.Sprintf("%d validation issues:\n", len(e.Issues))
	for i := range e.Issues {
		msg += fmt.Sprintf("  %d. %s\n", i+1, e.Issues[i].Error())
	}
	return msg
}

// IssuesOf returns the findings carried by err when it is an AggregateError,
// nil otherwise.
func IssuesOf(err error) []Issue {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Issues
	}
	return nil
}
