package domain

import (
	"context"
	"sync"
)

// ActivateFunc runs when a trigger node fires (button click, link press).
type ActivateFunc func(ctx context.Context) error

// ChangeFunc runs when an input node's value changes.
type ChangeFunc func(ctx context.Context, value string) error

// Node is one rendered element. The interpreter produces Node trees; a
// presentation layer (HTML, ANSI, headless) applies them to a concrete
// surface afterwards. Nodes stay inert descriptors except for the value
// cell and the bound closures, which carry the interactive behavior.
type Node struct {
	// Kind mirrors the command kind that produced the node, or a
	// renderer-internal kind for structural children.
	Kind string

	// ID is the user-visible identifier used by show/hide/find, when set.
	ID string

	// Text is the primary content: heading text, paragraph body, cell value.
	Text string

	// Label is the secondary content: button caption, input label.
	Label string

	// Classes are presentation hints consumed by the HTML renderer.
	Classes []string

	// Attrs carries kind-specific attributes (href, src, placeholder, ...).
	Attrs map[string]string

	Hidden   bool
	Disabled bool

	Children []*Node

	mu       sync.Mutex
	value    string
	activate ActivateFunc
	change   ChangeFunc
}

// NewNode returns a node of the given kind with no attributes bound.
func NewNode(kind string) *Node {
	return &Node{Kind: kind}
}

// SetAttr sets a single attribute, allocating the map on first use.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string, 4)
	}
	n.Attrs[key] = value
}

// Attr returns the attribute value for key, or "" when absent.
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// AddClass appends a presentation class.
func (n *Node) AddClass(class string) {
	n.Classes = append(n.Classes, class)
}

// Append adds children to the node.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// OnActivate binds the closure fired by Activate. Binding replaces any
// previous closure.
func (n *Node) OnActivate(fn ActivateFunc) {
	n.mu.Lock()
	n.activate = fn
	n.mu.Unlock()
}

// OnChange binds the closure fired by SetValue.
func (n *Node) OnChange(fn ChangeFunc) {
	n.mu.Lock()
	n.change = fn
	n.mu.Unlock()
}

// Activate fires the node's trigger closure. Nodes without one (static
// content, inputs) activate as a no-op so hosts can fire blindly.
func (n *Node) Activate(ctx context.Context) error {
	n.mu.Lock()
	fn := n.activate
	disabled := n.Disabled
	n.mu.Unlock()
	if fn == nil || disabled {
		return nil
	}
	return fn(ctx)
}

// SetValue records the node's current value and fires the change closure
// bound to it, if any. The value is stored before the closure runs so the
// closure observes it through Value.
func (n *Node) SetValue(ctx context.Context, value string) error {
	n.mu.Lock()
	n.value = value
	fn := n.change
	n.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, value)
}

// Value returns the node's current value as last set by SetValue or
// SetInitialValue.
func (n *Node) Value() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.value
}

// SetInitialValue seeds the value cell without firing the change closure.
// Used at render time for inputs carrying a default.
func (n *Node) SetInitialValue(value string) {
	n.mu.Lock()
	n.value = value
	n.mu.Unlock()
}

// Find walks the subtree rooted at n and returns the first node with the
// given id, depth-first in child order. Returns nil when absent.
func (n *Node) Find(id string) *Node {
	if n == nil || id == "" {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, child := range n.Children {
		if hit := child.Find(id); hit != nil {
			return hit
		}
	}
	return nil
}

// Walk visits n and every descendant depth-first in child order. Returning
// false from the visitor stops the walk.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	n.walk(visit)
}

func (n *Node) walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.walk(visit) {
			return false
		}
	}
	return true
}
