package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUnknownFlag = errors.New("unknown builder flag")
)
