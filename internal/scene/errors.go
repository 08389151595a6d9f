package scene

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrNotFound    = errors.New("event object not found")
	ErrDuplicateID = errors.New("event object already exists")
	ErrMissingID   = errors.New("event record has no id")
)
