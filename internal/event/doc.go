// Package event defines the contracts shared by the binding layer and the
// map widget: the dispatch payload delivered to user handlers, the handler
// interfaces, and the native listener primitive (Source/Handle) that the
// listener registry depends on.
//
// # Dispatch Payload
//
// When a bound event fires, the user handler receives a Dispatch value
// carrying the canonical event name, the emitting target, the widget's
// native event object, and any caller-supplied extras:
//
//	func onClick(ctx context.Context, d event.Dispatch) error {
//	    click := d.Native.(widget.ClickEvent)
//	    fmt.Printf("clicked %s at %d,%d\n", d.EventName, click.X, click.Y)
//	    return nil
//	}
//
// Derived fields always win: caller-supplied payload entries live under
// Extra and can never shadow EventName, Target or Native.
//
// # Native Listener Primitive
//
// Source is the sole operation the registry needs from a widget:
//
//	handle, err := target.AddListener("click", adapter)
//	...
//	handle.Detach()
//
// Detach is not guaranteed idempotent by implementations, so callers must
// invoke it at most once per handle.
package event
