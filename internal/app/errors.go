package app

import "errors"

// errQuit signals a clean exit from the terminal event loop.
var errQuit = errors.New("quit requested")
