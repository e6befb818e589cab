// Package app provides the main application structure and coordination.
//
// The application owns the map widget, the terminal backend and the
// declarative components wired to the widget. Terminal input is
// translated into native widget interactions (click, drag, zoom); the
// widget's emitter fans those out to whatever handlers the components
// bound. The status bar is itself a component: its handler-slot Props
// (onCenterChanged, onZoomChanged, ...) keep the bottom line current, so
// the application exercises the same binding path user scripts do.
package app
