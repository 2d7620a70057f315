package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrProcessing wraps any upstream failure that aborted a computation.
	ErrProcessing = errors.New("processing failed")
	// ErrNotStarted is returned by operations called before Start.
	ErrNotStarted = errors.New("service not started")
)
