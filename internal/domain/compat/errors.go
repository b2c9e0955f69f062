package compat

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for matrix construction and lookup.
var (
	ErrIncompleteMatrix = errors.New("incomplete compatibility matrix")
	ErrUnknownSign      = errors.New("unknown sign")
)

// IncompleteMatrixError describes every problem found while validating
// reference data. It is only produced at startup.
type IncompleteMatrixError struct {
	Missing    []Key
	Duplicates []Key
	Problems   []string
}

func (e *IncompleteMatrixError) Error() string {
	var parts []string
	if n := len(e.Missing); n > 0 {
		parts = append(parts, fmt.Sprintf("%d missing pairs (first %s)", n, e.Missing[0]))
	}
	if n := len(e.Duplicates); n > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate pairs (first %s)", n, e.Duplicates[0]))
	}
	parts = append(parts, e.Problems...)
	return ErrIncompleteMatrix.Error() + ": " + strings.Join(parts, "; ")
}

func (e *IncompleteMatrixError) Unwrap() error { return ErrIncompleteMatrix }

func (e *IncompleteMatrixError) empty() bool {
	return len(e.Missing) == 0 && len(e.Duplicates) == 0 && len(e.Problems) == 0
}
