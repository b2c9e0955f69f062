package reference

import "errors"

// Sentinel kinds for reference data errors.
var (
	ErrRead        = errors.New("read reference data failed")
	ErrDecode      = errors.New("decode reference data failed")
	ErrInvalidData = errors.New("invalid reference data")
)
