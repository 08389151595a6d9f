package persistence

import "errors"

var (
	// ErrPersistence marks a failed load, save or export.
	ErrPersistence = errors.New("persistence failure")
	// ErrInvalidImport marks an import payload that is not a list of records.
	ErrInvalidImport = errors.New("invalid import")
)
