package dsl

import "errors"

var (
	// ErrComposedApplier wraps a fault raised inside a composed Applier. The
	// original fault stays reachable through errors.Is/As.
	ErrComposedApplier = errors.New("dsl: composed applier failed")

	// ErrMissingJoinTarget is returned when a join is added without a table
	// or subquery to join against.
	ErrMissingJoinTarget = errors.New("dsl: missing join target")
)

// IsComposedApplierErr returns true if err is or wraps ErrComposedApplier.
func IsComposedApplierErr(err error) bool {
	return errors.Is(err, ErrComposedApplier)
}
