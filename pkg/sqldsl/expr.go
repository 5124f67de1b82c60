package sqldsl

import (
	"strconv"
	"strings"
)

// Expr is the interface that all SQL expression types implement. Every Expr
// can be passed to the dsl builders as a criteria.Criterion.
type Expr interface {
	SQL() string
}

// Param is a placeholder rendered verbatim, such as :user_id or $1.
type Param string

func (p Param) SQL() string { return string(p) }

// Col is a column reference, optionally qualified by a table or alias.
type Col struct {
	Table  string
	Column string
}

func (c Col) SQL() string {
	if c.Table == "" {
		return c.Column
	}
	return c.Table + "." + c.Column
}

// C is shorthand for Col{Table: table, Column: column}.
func C(table, column string) Col {
	return Col{Table: table, Column: column}
}

// ParseCol splits a "table.column" reference at its first dot. A reference
// without a dot is an unqualified column.
func ParseCol(ref string) Col {
	if table, column, ok := strings.Cut(ref, "."); ok {
		return Col{Table: table, Column: column}
	}
	return Col{Column: ref}
}

// Lit is a string literal. Single quotes are doubled when rendered.
type Lit string

func (l Lit) SQL() string {
	return "'" + strings.ReplaceAll(string(l), "'", "''") + "'"
}

// Raw is SQL text rendered as-is.
type Raw string

func (r Raw) SQL() string { return string(r) }

// Int is an integer literal.
type Int int

func (i Int) SQL() string { return strconv.Itoa(int(i)) }

// Bool is a boolean literal.
type Bool bool

func (b Bool) SQL() string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Null is the NULL literal.
type Null struct{}

func (Null) SQL() string { return "NULL" }

// Paren wraps an expression in parentheses.
type Paren struct {
	Expr Expr
}

func (p Paren) SQL() string { return "(" + p.Expr.SQL() + ")" }
