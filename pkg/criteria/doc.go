// Package criteria collects WHERE and JOIN ON conditions into trees.
//
// # Overview
//
// A WHERE clause under construction is a Fragment: one initial Criterion
// followed by an ordered list of Groups, each tagged AND or OR. A Group carries
// its own Criterion and may carry nested Groups of its own, so arbitrarily deep
// trees can be described:
//
//	frag, err := criteria.Collect(idEquals3, func(c *criteria.Collector) {
//	    c.Or(nameIsNull, func(c *criteria.Collector) {
//	        c.And(ageOver18)
//	    })
//	    c.And(active)
//	})
//
// renders (in a statement model) as:
//
//	id = 3 OR (name IS NULL AND age > 18) AND active
//
// JOIN conditions are intentionally flatter. A JoinCriteria is a single ON
// criterion followed by AND-chained criteria; the JoinCollector has no Or
// method and no nesting, matching the usual shape of SQL join conditions.
//
// # Required first criterion
//
// Both collectors take their first criterion as an argument rather than as a
// method call. A collector handed to a GroupFunc or JoinFunc therefore cannot
// register a second initial criterion, and a fragment without an initial
// criterion cannot be produced by a well-typed call. The only remaining way to
// build an incomplete tree is passing a nil Criterion, which is reported as
// ErrIncompleteCriteria when the collecting call returns.
//
// # Criterion values
//
// Criterion is opaque here. Column models supply their own predicate types and
// the statement model that finally stores a Fragment decides how to render
// them. This package never inspects a Criterion beyond checking it is non-nil.
package criteria
