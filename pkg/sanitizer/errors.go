package sanitizer

import "errors"

// ErrUnknownFilter is returned for a filter name that is not registered.
var ErrUnknownFilter = errors.New("sanitizer: unknown filter")
