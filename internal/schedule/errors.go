package schedule

import "errors"

// Sentinel errors for the task loop.
var (
	// ErrAlreadyRunning is returned when Start is called on a running loop.
	ErrAlreadyRunning = errors.New("task loop is already running")

	// ErrNotRunning is returned when submitting to or stopping a stopped loop.
	ErrNotRunning = errors.New("task loop is not running")

	// ErrQueueFull is returned when the task queue is at capacity.
	ErrQueueFull = errors.New("task queue is full")

	// ErrNilTask is returned when Submit is given a nil function.
	ErrNilTask = errors.New("task cannot be nil")
)
