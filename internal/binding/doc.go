// Package binding wires declaratively named handler properties to the
// event source of an embedded map widget.
//
// The package has two halves:
//
//   - The resolver turns a component's handler properties and its explicit
//     events mapping into a single ordered mapping from canonical event
//     name to handler. Property names carrying the "on" prefix (onClick,
//     onDragEnd) are discovered, merged over the explicit mapping with
//     property-derived entries taking precedence, and mapped to native
//     event names (click, dragend).
//
//   - The registry binds each resolved pair to a live event source,
//     records one removal capability per event name, and releases every
//     binding exactly once at teardown.
//
// # Lifecycle
//
// A Registry moves through three states:
//
//	uninitialized → active → torn down
//
// The zero value is uninitialized and rejects every operation. NewRegistry
// returns an active registry. ReleaseAll tears the registry down; a second
// call is a no-op and Bind afterwards fails with ErrTornDown.
//
// # Deferred dispatch
//
// Handlers never run on the native callback stack. The registry's callback
// adapter assembles the dispatch payload and submits the handler invocation
// to the owning Scheduler, so effects land on the component's single
// logical thread in FIFO order. Native callbacks that arrive after
// teardown are dropped by a liveness check before submission.
package binding
