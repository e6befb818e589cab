package binding

import "errors"

// Sentinel errors for the listener registry.
var (
	// ErrNotInitialized is returned when operating on a zero-value registry.
	ErrNotInitialized = errors.New("listener registry is not initialized")

	// ErrTornDown is returned when binding after ReleaseAll.
	ErrTornDown = errors.New("listener registry has been torn down")

	// ErrNilTarget is returned when Bind is given a nil event source.
	ErrNilTarget = errors.New("bind target cannot be nil")

	// ErrNilScheduler is returned when the registry has no scheduler to
	// defer handler invocations onto.
	ErrNilScheduler = errors.New("registry scheduler cannot be nil")

	// ErrNilHandle is returned when a source hands back an unusable
	// listener handle.
	ErrNilHandle = errors.New("event source returned a nil listener handle")
)
