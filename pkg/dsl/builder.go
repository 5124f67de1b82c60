package dsl

import (
	"fmt"

	"github.com/pthm/sqlcriteria/pkg/criteria"
)

// Builder is the WHERE surface of a statement builder. It dispatches to the
// criteria collectors and stores the results in its StatementModel.
//
// A Builder is not safe for concurrent use; one statement is built by one
// goroutine.
type Builder struct {
	model StatementModel
}

// NewBuilder creates a Builder writing into model.
func NewBuilder(model StatementModel) *Builder {
	if model == nil {
		panic("dsl: nil statement model")
	}
	return &Builder{model: model}
}

// Where establishes the statement's WHERE fragment from initial and the
// groups registered by fns. An existing fragment is replaced.
func (b *Builder) Where(initial criteria.Criterion, fns ...criteria.GroupFunc) error {
	frag, err := criteria.Collect(initial, fns...)
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}
	b.model.SetWhereFragment(frag)
	return nil
}

// WhereGroups establishes the WHERE fragment from an already assembled group
// list. The first group's connector is ignored. An existing fragment is
// replaced.
func (b *Builder) WhereGroups(groups []criteria.Group) error {
	frag, err := criteria.FromGroups(groups)
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}
	b.model.SetWhereFragment(frag)
	return nil
}

// And appends an AND group to the existing WHERE fragment.
func (b *Builder) And(cr criteria.Criterion, nested ...criteria.GroupFunc) error {
	return b.extend(criteria.And, cr, nested)
}

// Or appends an OR group to the existing WHERE fragment.
func (b *Builder) Or(cr criteria.Criterion, nested ...criteria.GroupFunc) error {
	return b.extend(criteria.Or, cr, nested)
}

// AndGroups appends the given groups, as one parenthesised AND group, to the
// existing WHERE fragment.
func (b *Builder) AndGroups(groups []criteria.Group) error {
	return b.extendGroups(criteria.And, groups)
}

// OrGroups appends the given groups, as one parenthesised OR group, to the
// existing WHERE fragment.
func (b *Builder) OrGroups(groups []criteria.Group) error {
	return b.extendGroups(criteria.Or, groups)
}

func (b *Builder) extend(conn criteria.Connector, cr criteria.Criterion, nested []criteria.GroupFunc) error {
	frag, ok := b.model.WhereFragment()
	if !ok {
		return fmt.Errorf("%s: %w", conn, criteria.ErrNoWhere)
	}
	g, err := criteria.NewGroup(conn, cr, nested...)
	if err != nil {
		return fmt.Errorf("%s: %w", conn, err)
	}
	b.model.SetWhereFragment(frag.Append(g))
	return nil
}

func (b *Builder) extendGroups(conn criteria.Connector, groups []criteria.Group) error {
	frag, ok := b.model.WhereFragment()
	if !ok {
		return fmt.Errorf("%s: %w", conn, criteria.ErrNoWhere)
	}
	g, err := criteria.Wrap(conn, groups)
	if err != nil {
		return fmt.Errorf("%s: %w", conn, err)
	}
	b.model.SetWhereFragment(frag.Append(g))
	return nil
}

// ConfigureStatement forwards fn to the statement model unchanged.
func (b *Builder) ConfigureStatement(fn func(*StatementConfig)) {
	b.model.Configure(fn)
}

// AllRows does nothing. It marks a statement that intentionally has no WHERE
// clause, so that "select everything" reads differently from a forgotten
// predicate at the call site.
func (b *Builder) AllRows() {}

// ApplyWhere runs a reusable Applier against this builder.
func (b *Builder) ApplyWhere(a Applier) error {
	if a == nil {
		return nil
	}
	return a(b)
}
