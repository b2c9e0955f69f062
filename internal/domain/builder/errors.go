package builder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConstraintUnsatisfiable is matched by ConstraintUnsatisfiableError.
var ErrConstraintUnsatisfiable = errors.New("constraint unsatisfiable")

// Constraint names a build constraint.
type Constraint string

const (
	ConstraintMinScore       Constraint = "min_compatibility_score"
	ConstraintElementBalance Constraint = "element_balance"
)

// ConstraintUnsatisfiableError lists the constraints the built team misses.
type ConstraintUnsatisfiableError struct {
	Constraints []Constraint
	Score       float64
}

func (e *ConstraintUnsatisfiableError) Error() string {
	names := make([]string, len(e.Constraints))
	for i, c := range e.Constraints {
		names[i] = string(c)
	}
	return fmt.Sprintf("%s: %s (score %.2f)", ErrConstraintUnsatisfiable, strings.Join(names, ", "), e.Score)
}

func (e *ConstraintUnsatisfiableError) Unwrap() error { return ErrConstraintUnsatisfiable }
