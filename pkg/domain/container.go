package domain

import "sync"

// Container is a named mount point nodes are rendered into. The runtime owns
// one container per surface region (main output, dynamic region, overlay) and
// the interpreter appends into whichever is current. Containers are safe for
// concurrent use: trigger closures append from request goroutines while the
// host reads snapshots.
type Container struct {
	name string

	mu    sync.RWMutex
	nodes []*Node
}

// NewContainer returns an empty container with the given name.
func NewContainer(name string) *Container {
	return &Container{name: name}
}

// Name returns the container's name.
func (c *Container) Name() string {
	return c.name
}

// Append adds nodes to the end of the container.
func (c *Container) Append(nodes ...*Node) {
	if len(nodes) == 0 {
		return
	}
	c.mu.Lock()
	c.nodes = append(c.nodes, nodes...)
	c.mu.Unlock()
}

// Nodes returns a snapshot of the container's top-level nodes. The slice is
// a copy; the nodes themselves are shared.
func (c *Container) Nodes() []*Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Len returns the number of top-level nodes.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// Clear removes every node from the container.
func (c *Container) Clear() {
	c.mu.Lock()
	c.nodes = nil
	c.mu.Unlock()
}

// Find returns the first node in the container with the given id, searching
// each top-level node's subtree in order. Returns nil when absent.
func (c *Container) Find(id string) *Node {
	if id == "" {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.nodes {
		if hit := n.Find(id); hit != nil {
			return hit
		}
	}
	return nil
}

// Walk visits every node in the container depth-first. Returning false from
// the visitor stops the walk.
func (c *Container) Walk(visit func(*Node) bool) {
	for _, n := range c.Nodes() {
		stop := false
		n.Walk(func(node *Node) bool {
			if !visit(node) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}
