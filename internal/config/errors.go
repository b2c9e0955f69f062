package config

import "errors"

// ErrInvalidConfig marks values outside their allowed range; ErrLoadConfig
// marks sources that could not be read or parsed.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
