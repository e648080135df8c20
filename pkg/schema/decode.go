package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// Document is the envelope form of a command document. The Version field is
// accepted and ignored so hosts can tag payloads without breaking older
// interpreters.
type Document struct {
	Version  string           `json:"version,omitempty" yaml:"version,omitempty"`
	Commands []domain.Command `json:"commands" yaml:"commands"`
}

// Decode parses a command document, sniffing JSON versus YAML from the first
// byte. JSON documents start with '[' or '{'; everything else is treated as
// YAML. YAML being a JSON superset, the fallback also accepts JSON that
// sneaks in with leading comments.
func Decode(data []byte) ([]domain.Command, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' || trimmed[0] == '{' {
		return DecodeJSON(data)
	}
	return DecodeYAML(data)
}

// DecodeJSON parses a JSON command document. Accepted shapes, in order: a
// bare command array, an envelope object with a "commands" key, and a single
// command object (decoded as a one-command list).
func DecodeJSON(data []byte) ([]domain.Command, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var cmds []domain.Command
		if err := json.Unmarshal(data, &cmds); err != nil {
			return nil, fmt.Errorf("decode command list: %w", err)
		}
		return cmds, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode command document: %w", err)
	}
	if doc.Commands != nil {
		return doc.Commands, nil
	}

	var single domain.Command
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	if single.Type == "" {
		return nil, fmt.Errorf("decode command document: no commands key and no type field")
	}
	return []domain.Command{single}, nil
}

// DecodeYAML parses a YAML command document. The same shapes as DecodeJSON
// are accepted. Nested prop maps are normalized so non-string keys (YAML
// permits them) become strings.
func DecodeYAML(data []byte) ([]domain.Command, error) {
	var listForm []domain.Command
	if err := yaml.Unmarshal(data, &listForm); err == nil && listForm != nil {
		normalizeCommands(listForm)
		return listForm, nil
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml document: %w", err)
	}
	if doc.Commands == nil {
		return nil, fmt.Errorf("decode yaml document: no commands key")
	}
	normalizeCommands(doc.Commands)
	return doc.Commands, nil
}

func normalizeCommands(cmds []domain.Command) {
	for i := range cmds {
		if cmds[i].Props != nil {
			for k, v := range cmds[i].Props {
				cmds[i].Props[k] = normalizeValue(v)
			}
		}
		normalizeCommands(cmds[i].Commands)
	}
}

// normalizeValue rewrites yaml's map[any]any into map[string]any so prop
// access behaves identically for both decoders.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalizeValue(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeValue(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalizeValue(val)
		}
		return t
	default:
		return v
	}
}
