package schema

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// Has reports whether key is present with a non-nil value.
func Has(props map[string]any, key string) bool {
	if props == nil {
		return false
	}
	v, ok := props[key]
	return ok && v != nil
}

// Text returns the prop as a string, or "" when absent or unconvertible.
func Text(props map[string]any, key string) string {
	if props == nil {
		return ""
	}
	return cast.ToString(props[key])
}

// TextOr returns the prop as a string, or def when absent or empty.
func TextOr(props map[string]any, key, def string) string {
	if s := Text(props, key); s != "" {
		return s
	}
	return def
}

// FirstText returns the first non-empty prop among keys. Commands that grew
// prop aliases over time (button label/text) resolve through it.
func FirstText(props map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := Text(props, key); s != "" {
			return s
		}
	}
	return ""
}

// IntOr returns the prop as an int. Floats truncate toward zero; numeric
// strings parse; anything else yields def.
func IntOr(props map[string]any, key string, def int) int {
	if !Has(props, key) {
		return def
	}
	v := props[key]
	if n, err := cast.ToIntE(v); err == nil {
		return n
	}
	// "3.9" and friends: not an int literal, but still a number.
	if f, err := cast.ToFloat64E(v); err == nil {
		return int(f)
	}
	return def
}

// FloatOr returns the prop as a float64, or def when absent or
// unconvertible.
func FloatOr(props map[string]any, key string, def float64) float64 {
	if !Has(props, key) {
		return def
	}
	if f, err := cast.ToFloat64E(props[key]); err == nil {
		return f
	}
	return def
}

// BoolOr returns the prop as a bool, or def when absent or unconvertible.
// Accepts bool literals and the usual string forms ("true", "1", "on" is
// not one of them).
func BoolOr(props map[string]any, key string, def bool) bool {
	if !Has(props, key) {
		return def
	}
	if b, err := cast.ToBoolE(props[key]); err == nil {
		return b
	}
	return def
}

// Items returns the prop as a string list. Sequences convert element-wise;
// a plain string splits on commas with whitespace trimmed; a bare scalar
// becomes a one-element list. Absent props yield nil.
func Items(props map[string]any, key string) []string {
	if !Has(props, key) {
		return nil
	}
	switch v := props[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, cast.ToString(item))
		}
		return out
	case string:
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return []string{cast.ToString(v)}
	}
}

// Rows returns the prop as a table body: a list of rows, each a list of cell
// strings. Non-list rows become single-cell rows.
func Rows(props map[string]any, key string) [][]string {
	if !Has(props, key) {
		return nil
	}
	switch raw := props[key].(type) {
	case [][]string:
		out := make([][]string, 0, len(raw))
		for _, row := range raw {
			r := make([]string, len(row))
			copy(r, row)
			out = append(out, r)
		}
		return out
	case []any:
		out := make([][]string, 0, len(raw))
		for _, row := range raw {
			switch cells := row.(type) {
			case []any:
				r := make([]string, 0, len(cells))
				for _, cell := range cells {
					r = append(r, cast.ToString(cell))
				}
				out = append(out, r)
			case []string:
				r := make([]string, len(cells))
				copy(r, cells)
				out = append(out, r)
			default:
				out = append(out, []string{cast.ToString(row)})
			}
		}
		return out
	default:
		return nil
	}
}

// CommandList returns the prop as a nested command sequence. Triggers carry
// their bound sequence inside props (onClick) rather than in the commands
// field, so the value arrives as raw decoded maps and is shaped here.
func CommandList(props map[string]any, key string) ([]domain.Command, error) {
	if !Has(props, key) {
		return nil, nil
	}
	switch v := props[key].(type) {
	case []domain.Command:
		return v, nil
	case []any:
		var cmds []domain.Command
		if err := mapstructure.Decode(v, &cmds); err != nil {
			return nil, fmt.Errorf("decode %s sequence: %w", key, err)
		}
		return cmds, nil
	case map[string]any:
		var cmd domain.Command
		if err := mapstructure.Decode(v, &cmd); err != nil {
			return nil, fmt.Errorf("decode %s command: %w", key, err)
		}
		return []domain.Command{cmd}, nil
	default:
		return nil, fmt.Errorf("decode %s: unexpected type %T", key, v)
	}
}

// Numbers returns the prop as a float64 list for chart series. Unconvertible
// elements become 0 so series length stays aligned with labels.
func Numbers(props map[string]any, key string) []float64 {
	if !Has(props, key) {
		return nil
	}
	switch raw := props[key].(type) {
	case []float64:
		out := make([]float64, len(raw))
		copy(out, raw)
		return out
	case []any:
		out := make([]float64, 0, len(raw))
		for _, item := range raw {
			out = append(out, cast.ToFloat64(item))
		}
		return out
	default:
		if f, err := cast.ToFloat64E(props[key]); err == nil {
			return []float64{f}
		}
		return nil
	}
}
