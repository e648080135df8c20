// Package middleware provides composable decorators for document stores:
// at-rest encryption of field values and masking of sensitive fields.
package middleware

import "github.com/hashhooshy/flux-labs/pkg/ports"

// Middleware wraps a DocumentStore to add behavior.
type Middleware func(ports.DocumentStore) ports.DocumentStore
