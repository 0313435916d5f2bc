package lang

import "errors"

var (
	ErrParsePack      = errors.New("lang: failed to parse language pack")
	ErrUnsupportedExt = errors.New("lang: unsupported language pack extension")
)
