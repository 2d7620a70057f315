package reference

import "errors"

// Sentinel kinds for reference lookups.
var (
	// ErrMissingReference means no baseline exists for a (grade, gender) pair.
	ErrMissingReference = errors.New("missing reference baseline")
	// ErrInvalidTable is returned when a reference file cannot be used.
	ErrInvalidTable = errors.New("invalid reference table")
)
