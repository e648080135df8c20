package runtime

import (
	"regexp"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// placeholderRe matches {identifier} where identifier is word characters.
var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// interpolate replaces every {key} placeholder with the stringified state
// value when the key is present. Unmatched placeholders stay verbatim.
func (e *Engine) interpolate(text string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		key := match[1 : len(match)-1]
		if v, ok := e.state.Lookup(key); ok {
			return domain.Stringify(v)
		}
		return match
	})
}

// interpolateProps rewrites string-valued props in place, immediately before
// the command is acted on. Only top-level strings are touched: nested
// structures and nested command sequences pass through untouched, and a
// consumed placeholder is gone for good (a loop body re-dispatching the same
// props map sees the first iteration's substitution).
func (e *Engine) interpolateProps(props map[string]any) {
	for k, v := range props {
		if s, ok := v.(string); ok {
			props[k] = e.interpolate(s)
		}
	}
}
