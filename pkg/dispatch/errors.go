package dispatch

import "errors"

// ErrUnknownKind is returned when a kind string does not name a descriptor kind.
var ErrUnknownKind = errors.New("dispatch: unknown descriptor kind")
