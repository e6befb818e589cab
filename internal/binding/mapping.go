package binding

import "github.com/mapstorm/mapstorm/internal/event"

// Mapping is an insertion-ordered mapping from string key to handler.
// Setting an existing key replaces the value but keeps the key's original
// position; new keys append. The resolver uses it twice: keyed by raw
// property name during the merge, keyed by event name in the result.
type Mapping struct {
	keys    []string
	entries map[string]event.Handler
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{entries: make(map[string]event.Handler)}
}

// Set stores h under key, preserving insertion order.
func (m *Mapping) Set(key string, h event.Handler) {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = h
}

// Get returns the handler for key.
func (m *Mapping) Get(key string) (event.Handler, bool) {
	if m == nil {
		return nil, false
	}
	h, ok := m.entries[key]
	return h, ok
}

// Len returns the number of entries. Safe on a nil mapping.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Mapping) Range(fn func(key string, h event.Handler) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.entries[k]) {
			return
		}
	}
}
