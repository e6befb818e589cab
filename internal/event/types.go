package event

import "context"

// Dispatch is the enriched payload passed to a user handler when its bound
// event fires. EventName, Target and Native are derived by the binding
// layer; Extra carries the caller-supplied payload verbatim. Because the
// derived fields are struct fields and the extras are a separate map, a
// caller-supplied "eventName" or "target" key can never shadow the derived
// values.
type Dispatch struct {
	// EventName is the canonical lowercase native event name.
	EventName string

	// Target is the event source the listener was bound to.
	Target Source

	// Native is the event object the widget delivered to the listener.
	Native any

	// Platform is the ambient platform event, if the frontend has one.
	// Nil in the terminal frontend.
	Platform any

	// Extra holds the caller-supplied payload passed at bind time.
	Extra map[string]any
}

// Handler is the interface for map event handlers.
type Handler interface {
	// Handle processes a dispatched event.
	Handle(ctx context.Context, d Dispatch) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, d Dispatch) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, d Dispatch) error {
	return f(ctx, d)
}

// Callback is the function a Source invokes when a native event fires.
// The argument is the widget's native event object.
type Callback func(native any)

// Handle detaches one previously established native binding.
type Handle interface {
	// Detach removes the native listener. Implementations are not required
	// to make Detach idempotent; call it at most once.
	Detach()
}

// Source is the native add-listener primitive of an event-emitting widget
// object. The name is a lowercase event name with no prefix.
type Source interface {
	// AddListener registers fn for the named event and returns a handle
	// whose Detach removes the registration.
	AddListener(name string, fn Callback) (Handle, error)
}
