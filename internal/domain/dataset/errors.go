package dataset

import (
	"errors"
)

// Sentinel kinds for dataset errors. Callers use errors.Is to classify
// failures; the HTTP layer surfaces all of them as a server error.
var (
	ErrNotFound  = errors.New("dataset file not found")
	ErrMalformed = errors.New("dataset malformed")
	ErrRead      = errors.New("dataset read failed")
)
