package config

import "errors"

var (
	ErrEmptyKey   = errors.New("config: empty key")
	ErrParseFile  = errors.New("config: failed to parse file")
	ErrReadFile   = errors.New("config: failed to read file")
	ErrNotMapping = errors.New("config: file root is not a mapping")
)
