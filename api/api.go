// Package api carries the OpenAPI contract for the render service. The
// document is embedded so the served spec can never drift from the binary.
package api

import _ "embed"

//go:embed openapi.yaml
var SpecYAML []byte
