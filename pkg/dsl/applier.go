package dsl

import "fmt"

// Applier applies a set of WHERE operations to a builder. Appliers capture no
// builder state, so one Applier can be applied to any number of statements.
//
//	active := func(b *dsl.Builder) error { return b.Where(isActive) }
//	recent := func(b *dsl.Builder) error { return b.And(createdAfter) }
//	err := stmt.ApplyWhere(dsl.Applier(active).AndThen(recent))
type Applier func(*Builder) error

// AndThen returns an Applier that runs a and then next against the same
// builder. If a fails, next is not run.
func (a Applier) AndThen(next Applier) Applier {
	return func(b *Builder) error {
		if err := a.apply(b); err != nil {
			return err
		}
		return next.apply(b)
	}
}

func (a Applier) apply(b *Builder) error {
	if a == nil {
		return nil
	}
	if err := a(b); err != nil {
		if IsComposedApplierErr(err) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrComposedApplier, err)
	}
	return nil
}

// Chain composes appliers left to right with AndThen.
func Chain(appliers ...Applier) Applier {
	var out Applier
	for _, a := range appliers {
		if out == nil {
			out = a
			continue
		}
		out = out.AndThen(a)
	}
	if out == nil {
		return func(*Builder) error { return nil }
	}
	return out
}
