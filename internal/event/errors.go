package event

import "errors"

// ErrInvalidRecord marks a record that fails validation or decoding.
var ErrInvalidRecord = errors.New("invalid event record")
