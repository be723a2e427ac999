package service

import "errors"

// Domain error taxonomy. Handlers translate these at the API boundary:
// InvalidInput → 400, NotFound → 404, StoreUnavailable → 503; anything else
// is logged and surfaced as a generic 500.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)
