package dsl

import (
	"fmt"
	"reflect"

	"github.com/pthm/sqlcriteria/pkg/criteria"
)

// JoiningBuilder extends Builder with join operations. Every join call
// registers exactly one JoinSpec with the model, in call order.
type JoiningBuilder struct {
	*Builder
	model JoiningModel
}

// NewJoiningBuilder creates a JoiningBuilder writing into model.
func NewJoiningBuilder(model JoiningModel) *JoiningBuilder {
	return &JoiningBuilder{Builder: NewBuilder(model), model: model}
}

// Join adds an INNER JOIN against table.
func (b *JoiningBuilder) Join(table Table, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(TableTarget{Table: table}, InnerJoin, on, fns)
}

// JoinAs adds an INNER JOIN against table under alias.
func (b *JoiningBuilder) JoinAs(table Table, alias string, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(AliasedTableTarget{Table: table, Alias: alias}, InnerJoin, on, fns)
}

// JoinSubquery adds an INNER JOIN against a subquery.
func (b *JoiningBuilder) JoinSubquery(sub Subquery, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(subqueryTarget(sub), InnerJoin, on, fns)
}

// FullJoin adds a FULL JOIN against table.
func (b *JoiningBuilder) FullJoin(table Table, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(TableTarget{Table: table}, FullJoin, on, fns)
}

// FullJoinAs adds a FULL JOIN against table under alias.
func (b *JoiningBuilder) FullJoinAs(table Table, alias string, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(AliasedTableTarget{Table: table, Alias: alias}, FullJoin, on, fns)
}

// FullJoinSubquery adds a FULL JOIN against a subquery.
func (b *JoiningBuilder) FullJoinSubquery(sub Subquery, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(subqueryTarget(sub), FullJoin, on, fns)
}

// LeftJoin adds a LEFT JOIN against table.
func (b *JoiningBuilder) LeftJoin(table Table, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(TableTarget{Table: table}, LeftJoin, on, fns)
}

// LeftJoinAs adds a LEFT JOIN against table under alias.
func (b *JoiningBuilder) LeftJoinAs(table Table, alias string, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(AliasedTableTarget{Table: table, Alias: alias}, LeftJoin, on, fns)
}

// LeftJoinSubquery adds a LEFT JOIN against a subquery.
func (b *JoiningBuilder) LeftJoinSubquery(sub Subquery, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(subqueryTarget(sub), LeftJoin, on, fns)
}

// RightJoin adds a RIGHT JOIN against table.
func (b *JoiningBuilder) RightJoin(table Table, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(TableTarget{Table: table}, RightJoin, on, fns)
}

// RightJoinAs adds a RIGHT JOIN against table under alias.
func (b *JoiningBuilder) RightJoinAs(table Table, alias string, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(AliasedTableTarget{Table: table, Alias: alias}, RightJoin, on, fns)
}

// RightJoinSubquery adds a RIGHT JOIN against a subquery.
func (b *JoiningBuilder) RightJoinSubquery(sub Subquery, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(subqueryTarget(sub), RightJoin, on, fns)
}

// JoinWith adds a join of the given kind against an arbitrary target. The
// named methods above are shorthands for it.
func (b *JoiningBuilder) JoinWith(kind JoinKind, target JoinTarget, on criteria.Criterion, fns ...criteria.JoinFunc) error {
	return b.join(target, kind, on, fns)
}

func subqueryTarget(sub Subquery) JoinTarget {
	if isNil(sub) {
		return SubqueryTarget{}
	}
	return SubqueryTarget{Query: sub, CorrelationName: sub.CorrelationName()}
}

func (b *JoiningBuilder) join(target JoinTarget, kind JoinKind, on criteria.Criterion, fns []criteria.JoinFunc) error {
	if err := validateTarget(target); err != nil {
		return fmt.Errorf("%s join: %w", kind, err)
	}
	jc, err := criteria.CollectJoin(on, fns...)
	if err != nil {
		return fmt.Errorf("%s join: %w", kind, err)
	}
	b.model.RegisterJoin(JoinSpec{
		Target: target,
		Kind:   kind,
		On:     jc.On,
		And:    jc.And,
	})
	return nil
}

func validateTarget(target JoinTarget) error {
	switch t := target.(type) {
	case TableTarget:
		if isNil(t.Table) {
			return ErrMissingJoinTarget
		}
	case AliasedTableTarget:
		if isNil(t.Table) {
			return ErrMissingJoinTarget
		}
	case SubqueryTarget:
		if isNil(t.Query) {
			return ErrMissingJoinTarget
		}
	default:
		return ErrMissingJoinTarget
	}
	return nil
}

// isNil also catches typed nil pointers, whose value methods would panic.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
