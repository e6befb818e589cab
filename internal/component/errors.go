package component

import "errors"

// Sentinel errors for the component lifecycle.
var (
	// ErrNotInitialized is returned when Attach is called before Init.
	ErrNotInitialized = errors.New("component is not initialized")

	// ErrAlreadyInitialized is returned when Init is called twice.
	ErrAlreadyInitialized = errors.New("component is already initialized")

	// ErrTornDown is returned when Attach is called after Teardown.
	ErrTornDown = errors.New("component has been torn down")
)
