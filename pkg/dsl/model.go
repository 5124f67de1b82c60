package dsl

import (
	"fmt"

	"github.com/pthm/sqlcriteria/pkg/criteria"
)

// StatementModel stores the WHERE fragment and configuration of one statement.
// The builders in this package hold no criteria state of their own and write
// everything through this interface.
type StatementModel interface {
	// WhereFragment returns the current fragment, or false if no WHERE has
	// been established yet.
	WhereFragment() (criteria.Fragment, bool)
	// SetWhereFragment replaces the current fragment.
	SetWhereFragment(criteria.Fragment)
	// Configure applies statement-level configuration.
	Configure(func(*StatementConfig))
}

// JoiningModel is a StatementModel that also accepts join clauses.
type JoiningModel interface {
	StatementModel
	// RegisterJoin appends a join. Joins are kept in registration order.
	RegisterJoin(JoinSpec)
}

// StatementConfig holds statement-level settings that the builders forward
// to the model without interpreting them.
type StatementConfig struct {
	// AllowEmptyWhere permits rendering statements that would otherwise
	// require a WHERE clause (DELETE, UPDATE) without one.
	AllowEmptyWhere bool
}

// Table is a table reference supplied by the table model.
type Table interface {
	TableName() string
}

// Subquery is a nested query usable as a join target. It names itself.
type Subquery interface {
	CorrelationName() string
}

// JoinKind is the kind of a join clause.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	FullJoin
	LeftJoin
	RightJoin
)

// String returns the SQL keyword for the join kind.
func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "INNER"
	case FullJoin:
		return "FULL"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	default:
		return fmt.Sprintf("JoinKind(%d)", int(k))
	}
}

// JoinTarget is what a join clause joins against. It is one of TableTarget,
// AliasedTableTarget or SubqueryTarget.
type JoinTarget interface {
	joinTarget()
}

// TableTarget joins a bare table.
type TableTarget struct {
	Table Table
}

// AliasedTableTarget joins a table under an alias.
type AliasedTableTarget struct {
	Table Table
	Alias string
}

// SubqueryTarget joins a subquery under its correlation name.
type SubqueryTarget struct {
	Query           Subquery
	CorrelationName string
}

func (TableTarget) joinTarget()        {}
func (AliasedTableTarget) joinTarget() {}
func (SubqueryTarget) joinTarget()     {}

// JoinSpec is a complete join clause as handed to JoiningModel.RegisterJoin.
type JoinSpec struct {
	Target JoinTarget
	Kind   JoinKind
	On     criteria.Criterion
	And    []criteria.Criterion
}
