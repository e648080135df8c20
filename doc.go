/*
Package flux is a declarative UI command interpreter. It consumes JSON or
YAML command lists and renders them, in order, into a tree of inert node
descriptors that any host — terminal, HTTP service, test harness — can apply
to a concrete surface.

# Concept

A script is a flat list of commands, each a {type, props, commands?} object.
Static commands (heading, paragraph, table, ...) append nodes to the main
output. Interactive commands (button, form, toggle, ...) bind closures onto
their nodes; hosts fire them through Activate and SetValue. Props interpolate
{key} placeholders from a shared state bag, and store/load move named values
through a pluggable document store keyed by user identity.

The interpreter is strictly sequential: one command finishes before the next
starts, and trigger-bound sequences serialize against top-level execution.
Rendering is split from application — the engine produces node trees, and the
presentation layer (HTML, ANSI) is a separate apply step.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		flux "github.com/hashhooshy/flux-labs"
		"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	)

	func main() {
		surface := headless.New()
		it := flux.New(flux.WithSurface(surface))

		script := []byte(`[
			{"type": "heading", "props": {"text": "Hello {name}"}},
			{"type": "input", "props": {"id": "name", "label": "Name"}}
		]`)

		it.State().Set("name", "there")
		if err := it.Run(context.Background(), script); err != nil {
			log.Fatal(err)
		}

		for _, n := range surface.Output().Nodes() {
			fmt.Println(n.Kind, n.Text)
		}
	}

Persistence, remote rendering, and page libraries are wired through options:
WithDocumentStore accepts the memory, file, or Redis adapters (optionally
wrapped in the session manager and persistence middleware), and the adapters
under pkg/adapters expose the same interpreter over HTTP and MCP.
*/
package flux
