package zodiac

import "errors"

// Sentinel errors for parsing.
var (
	ErrUnknownSign    = errors.New("unknown sign")
	ErrUnknownElement = errors.New("unknown element")
)
