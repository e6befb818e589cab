// Package widget implements the embedded interactive map widget: the
// event-emitting object components bind their handlers to.
//
// Emitter is the widget's native event machinery. It implements
// event.Source: AddListener registers a callback for a lowercase event
// name and returns a handle whose Detach removes exactly that
// registration. Listener registrations are identified by UUID so two
// listeners on the same event detach independently.
//
// MapView is the widget itself: a slippy-map style view with a center
// coordinate, an integer zoom level and markers. Every interaction emits
// a native event through the embedded Emitter:
//
//	click, dblclick   - pointer interaction at a geographic position
//	drag, dragend     - view panning in progress / finished
//	centerchanged     - center moved for any reason
//	zoomchanged       - zoom level changed
//	markeradded       - a marker was dropped
//
// The widget knows nothing about handler properties or dispatch payloads;
// it only invokes registered callbacks with its native event structs.
package widget
