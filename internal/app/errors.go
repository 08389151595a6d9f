package app

import "errors"

var (
	// ErrNotReady is returned for edits attempted before the first load.
	ErrNotReady = errors.New("events not loaded yet")
	// ErrDuplicateEvent is returned when adding an id that already exists.
	ErrDuplicateEvent = errors.New("event id already exists")
)
