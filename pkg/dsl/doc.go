/*
Package dsl provides a fluent Go builder for constructing command scripts
programmatically.

It lets hosts define interface trees with type-safe method chains instead of
external JSON or YAML files. This is particularly useful for dynamic script
generation, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		flux "github.com/hashhooshy/flux-labs"
		"github.com/hashhooshy/flux-labs/pkg/dsl"
	)

	func main() {
		script := dsl.New().
			Heading("Welcome").
			Paragraph("Hello, {name}!").
			Form("signup", dsl.New().
				Input("name", "Name")).
			Submit("save", "Save", "signup", dsl.New().
				Store("profile-name", "{name}"))

		it := flux.New()
		_ = it.Execute(context.Background(), script.Commands())
	}
*/
package dsl
