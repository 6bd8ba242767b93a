package countdown

import "errors"

// Sentinel errors for countdown operations.
var (
	ErrInvalidLimit   = errors.New("limit must be a positive number of minutes")
	ErrAlreadyStarted = errors.New("countdown already started")
)
