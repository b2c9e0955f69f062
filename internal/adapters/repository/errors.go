package repository

import "errors"

// Sentinel kinds for profile store errors.
var (
	ErrNotFound     = errors.New("profile not found")
	ErrInvalidInput = errors.New("invalid profile")
	ErrDecode       = errors.New("decode profiles")
)
