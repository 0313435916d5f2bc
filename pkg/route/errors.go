package route

import "errors"

var (
	ErrEmptyPattern    = errors.New("route: empty pattern")
	ErrInvalidPattern  = errors.New("route: invalid pattern")
	ErrNoTarget        = errors.New("route: rule has no target")
	ErrMultipleTargets = errors.New("route: rule has more than one target")
	ErrParseRules      = errors.New("route: failed to parse rule file")
	ErrReadCache       = errors.New("route: failed to read compiled rules")
	ErrWriteCache      = errors.New("route: failed to write compiled rules")
)
