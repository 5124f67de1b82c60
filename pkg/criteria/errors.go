package criteria

import "errors"

// Sentinel errors for criteria construction faults. All of them are raised
// synchronously while a statement is being built; none are retryable, the call
// sequence itself has to change.
var (
	// ErrNoWhere is returned when AND/OR groups are added to a statement that
	// has no WHERE fragment yet. Call Where first.
	ErrNoWhere = errors.New("criteria: and/or used before where")

	// ErrIncompleteCriteria is returned when a tree would be built without its
	// required first criterion: a nil initial or ON criterion, a nil criterion
	// in a group, or an empty group list.
	ErrIncompleteCriteria = errors.New("criteria: missing required criterion")
)

// IsNoWhereErr returns true if err is or wraps ErrNoWhere.
func IsNoWhereErr(err error) bool {
	return errors.Is(err, ErrNoWhere)
}

// IsIncompleteCriteriaErr returns true if err is or wraps ErrIncompleteCriteria.
func IsIncompleteCriteriaErr(err error) bool {
	return errors.Is(err, ErrIncompleteCriteria)
}
