package domain

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// KeyLoopIndex is the state key loop iterations write their counter to.
// Nested loops share the one key; the innermost active loop wins.
const KeyLoopIndex = "loopIndex"

// State is the shared key/value bag behind {key} interpolation. Inputs write
// into it as they change, loops publish their counter through it, and the
// persistence commands move entries between it and a document store. Values
// are arbitrary: inputs write strings, toggles booleans, checkbox groups
// string slices, submit a flat field map. All methods are safe for
// concurrent use.
type State struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewState returns an empty state bag.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

// Get returns the value for key, or nil when absent.
func (s *State) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Lookup returns the value for key and whether it is present.
func (s *State) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the stringified value for key, or "" when absent.
func (s *State) GetString(key string) string {
	v, ok := s.Lookup(key)
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Set stores value under key, replacing any previous value.
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *State) Delete(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

// Keys returns the present keys in sorted order.
func (s *State) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Snapshot returns a copy of the current entries. Values are shared, not
// deep-copied.
func (s *State) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Replace swaps the entire contents for the given entries. The map is
// copied; the caller keeps ownership of its argument.
func (s *State) Replace(entries map[string]any) {
	next := make(map[string]any, len(entries))
	for k, v := range entries {
		next[k] = v
	}
	s.mu.Lock()
	s.values = next
	s.mu.Unlock()
}

// MarshalJSON encodes the state as a flat JSON object.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// UnmarshalJSON replaces the state with the entries of a flat JSON object.
func (s *State) UnmarshalJSON(data []byte) error {
	var entries map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	s.Replace(entries)
	return nil
}

// Stringify renders a state value the way interpolation and persistence see
// it. Slices join with commas, maps and structured values encode as JSON,
// floats drop their trailing zeros, nil renders empty.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case json.Number:
		return t.String()
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
		return ""
	}
}
