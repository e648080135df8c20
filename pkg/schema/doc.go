// Package schema decodes and validates command documents.
//
// A command document is either a bare JSON/YAML list of commands or an
// envelope object with a top-level "commands" key. Decode sniffs the format;
// DecodeJSON and DecodeYAML pin it.
//
//	cmds, err := schema.Decode(raw)
//	if err != nil {
//	    // malformed document
//	}
//	issues := schema.Lint(cmds)
//
// Lint walks the decoded tree and reports structural problems (unknown
// command types, missing required props, empty loops) without rendering
// anything. It returns findings rather than failing fast so callers can show
// the full list at once.
//
// The prop helpers (Text, IntOr, Items, Rows, Numbers) coerce the loosely
// typed prop values JSON and YAML produce into the shapes the interpreter
// consumes. Coercion is permissive: numeric strings count as numbers,
// comma-separated strings count as lists, and anything unconvertible falls
// back to the zero value or a caller-supplied default.
package schema
