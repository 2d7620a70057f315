package analytics

import "errors"

// Sentinel kinds for analytics requests.
var (
	// ErrUnknownType rejects an analytics type before any aggregation runs.
	ErrUnknownType = errors.New("unknown analytics type")
	// ErrInvalidQuery covers malformed or missing query parameters.
	ErrInvalidQuery = errors.New("invalid analytics query")
)
