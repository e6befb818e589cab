package binding

import "strings"

// HandlerPrefix marks a property name as an event handler slot.
const HandlerPrefix = "on"

// IgnoreSet is a set of property names never treated as handler slots.
type IgnoreSet map[string]struct{}

// NewIgnoreSet builds an IgnoreSet from the given names.
func NewIgnoreSet(names ...string) IgnoreSet {
	s := make(IgnoreSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set. Safe on a nil set.
func (s IgnoreSet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s[name]
	return ok
}

// IsHandlerName reports whether a property name looks like a handler slot:
// its first two characters are the literal prefix "on".
func IsHandlerName(name string) bool {
	return len(name) >= len(HandlerPrefix) && name[:len(HandlerPrefix)] == HandlerPrefix
}

// EventName derives the canonical native event name from a raw key:
// the handler prefix is stripped when present and the remainder is
// lowercased. EventName("onDragEnd") == "dragend"; a key with no prefix,
// as explicit event mappings may use, is lowercased as-is.
func EventName(raw string) string {
	if IsHandlerName(raw) {
		raw = raw[len(HandlerPrefix):]
	}
	return strings.ToLower(raw)
}
