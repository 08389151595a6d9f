package visual

import "errors"

// ErrMalformedRecord means a record could not be interpreted and the
// fallback visual was used instead.
var ErrMalformedRecord = errors.New("malformed record")
