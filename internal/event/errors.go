package event

import "errors"

// Sentinel errors shared by event sources.
var (
	// ErrNilCallback is returned when AddListener is given a nil callback.
	ErrNilCallback = errors.New("listener callback cannot be nil")

	// ErrEmptyEventName is returned when AddListener is given an empty name.
	ErrEmptyEventName = errors.New("event name cannot be empty")

	// ErrSourceClosed is returned when registering on a closed source.
	ErrSourceClosed = errors.New("event source is closed")
)
