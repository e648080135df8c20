package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the runtime and adapters. Wrap them with
// fmt.Errorf("...: %w", err) to add context; callers match with errors.Is.
var (
	// ErrUnknownModal is returned when show/hide names a modal that was
	// never rendered.
	ErrUnknownModal = errors.New("unknown modal")

	// ErrFrameURLMissing is returned when an iframe command carries no url.
	ErrFrameURLMissing = errors.New("frame url missing")

	// ErrNoIdentity is returned when a persistence operation runs without a
	// user identity configured.
	ErrNoIdentity = errors.New("no user identity configured")

	// ErrNoDocumentStore is returned when a persistence operation runs
	// without a document store configured.
	ErrNoDocumentStore = errors.New("no document store configured")

	// ErrFieldNotFound is returned by document stores when the requested
	// field is absent from the user's document.
	ErrFieldNotFound = errors.New("field not found")

	// ErrNodeNotFound is returned when show/hide/find names an id no
	// rendered node carries.
	ErrNodeNotFound = errors.New("node not found")

	// ErrContainerRequired is returned when rendering is attempted without
	// an output container.
	ErrContainerRequired = errors.New("output container required")
)

// UnknownCommandError reports a command kind outside the vocabulary and the
// registry. The executor logs it and continues with the next command.
type UnknownCommandError struct {
	Kind  string
	Index int
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command type %q at index %d", e.Kind, e.Index)
}

// PropError reports a prop that could not be coerced to the shape a command
// requires.
type PropError struct {
	Kind string
	Prop string
	Err  error
}

func (e *PropError) Error() string {
	return fmt.Sprintf("command %q: prop %q: %v", e.Kind, e.Prop, e.Err)
}

func (e *PropError) Unwrap() error { return e.Err }
