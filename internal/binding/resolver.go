package binding

import "github.com/mapstorm/mapstorm/internal/event"

// LookupFunc returns the current handler value for a property name, or nil
// when the property carries no handler.
type LookupFunc func(name string) event.Handler

// Resolve produces the final mapping of event names to handlers for a
// registration call.
//
// Property names are filtered to handler-shaped names (see IsHandlerName)
// not present in ignored, in their original order. The explicit mapping
// and the surviving property-derived handlers are merged keyed by RAW
// name, property-derived entries overriding explicit entries of the same
// key. Event-name derivation happens only after the merge, over the final
// key set.
//
// Entries whose handler is nil are dropped silently, on both sides of the
// merge: a handler-named property with no value yields no binding. An
// empty result is legal and binds zero listeners.
//
// Resolve is a pure function of its inputs.
func Resolve(explicit *Mapping, names []string, lookup LookupFunc, ignored IgnoreSet) *Mapping {
	merged := NewMapping()

	explicit.Range(func(key string, h event.Handler) bool {
		if h != nil {
			merged.Set(key, h)
		}
		return true
	})

	for _, name := range names {
		if !IsHandlerName(name) || ignored.Has(name) {
			continue
		}
		if lookup == nil {
			continue
		}
		h := lookup(name)
		if h == nil {
			continue
		}
		merged.Set(name, h)
	}

	resolved := NewMapping()
	merged.Range(func(key string, h event.Handler) bool {
		resolved.Set(EventName(key), h)
		return true
	})
	return resolved
}
