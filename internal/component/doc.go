// Package component provides the declarative UI component that owns map
// event bindings.
//
// A component declares its handled events statically, either through an
// explicit events mapping or through ordered handler-slot Props whose
// names carry the "on" prefix (onClick, onZoomChanged). There is no
// runtime reflection over field names: what is declared is what can bind.
//
// Each component instance owns exactly one listener registry and one task
// loop. The lifecycle is:
//
//	cfg := component.Config{...}
//	c := component.New(cfg, logger)
//	if err := c.Init(); err != nil { ... }       // store + loop created
//	if err := c.Attach(ctx, mapView); err != nil { ... } // resolve + bind
//	...
//	c.Teardown(ctx)                              // release all bindings
//
// Teardown releases every native binding exactly once and stops the loop;
// a second Teardown is a no-op. Attach before Init or after Teardown is a
// lifecycle error.
package component
