package criteria

import "fmt"

// JoinCriteria is the condition of one join clause: a required ON criterion
// followed by AND-chained criteria in authoring order.
type JoinCriteria struct {
	On  Criterion
	And []Criterion
}

// JoinFunc populates the AND chain that follows a join's ON criterion.
type JoinFunc func(*JoinCollector)

// JoinCollector accumulates AND criteria for a join. It has no Or and no
// nesting; join conditions are a flat AND chain.
type JoinCollector struct {
	and []Criterion
	err error
}

// And appends a criterion to the join condition.
func (j *JoinCollector) And(cr Criterion) *JoinCollector {
	if cr == nil {
		if j.err == nil {
			j.err = fmt.Errorf("join and criterion %d: %w", len(j.and), ErrIncompleteCriteria)
		}
		return j
	}
	j.and = append(j.and, cr)
	return j
}

// CollectJoin builds a JoinCriteria from a required ON criterion and the AND
// criteria registered by fns.
func CollectJoin(on Criterion, fns ...JoinFunc) (JoinCriteria, error) {
	if on == nil {
		return JoinCriteria{}, fmt.Errorf("join on criterion: %w", ErrIncompleteCriteria)
	}
	j := &JoinCollector{}
	for _, fn := range fns {
		if fn != nil {
			fn(j)
		}
	}
	if j.err != nil {
		return JoinCriteria{}, j.err
	}
	return JoinCriteria{On: on, And: j.and}, nil
}
