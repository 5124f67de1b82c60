package sqldsl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOperator is returned by Compare for an operator name it does not
// know.
var ErrUnknownOperator = errors.New("sqldsl: unknown operator")

func binary(left Expr, op string, right Expr) string {
	return left.SQL() + " " + op + " " + right.SQL()
}

// Eq represents an equality comparison (=).
type Eq struct {
	Left  Expr
	Right Expr
}

func (e Eq) SQL() string { return binary(e.Left, "=", e.Right) }

// Ne represents a not-equal comparison (<>).
type Ne struct {
	Left  Expr
	Right Expr
}

func (n Ne) SQL() string { return binary(n.Left, "<>", n.Right) }

// Lt represents a less-than comparison (<).
type Lt struct {
	Left  Expr
	Right Expr
}

func (l Lt) SQL() string { return binary(l.Left, "<", l.Right) }

// Gt represents a greater-than comparison (>).
type Gt struct {
	Left  Expr
	Right Expr
}

func (g Gt) SQL() string { return binary(g.Left, ">", g.Right) }

// Lte represents a less-than-or-equal comparison (<=).
type Lte struct {
	Left  Expr
	Right Expr
}

func (l Lte) SQL() string { return binary(l.Left, "<=", l.Right) }

// Gte represents a greater-than-or-equal comparison (>=).
type Gte struct {
	Left  Expr
	Right Expr
}

func (g Gte) SQL() string { return binary(g.Left, ">=", g.Right) }

// Like represents a LIKE pattern match.
type Like struct {
	Expr    Expr
	Pattern Expr
}

func (l Like) SQL() string { return binary(l.Expr, "LIKE", l.Pattern) }

// Compare builds the binary comparison named by op. Both the symbol and the
// word form are accepted: "=" or "eq", "<>" "!=" or "ne", "<" or "lt",
// ">" or "gt", "<=" or "lte", ">=" or "gte", and "like".
func Compare(left Expr, op string, right Expr) (Expr, error) {
	switch strings.ToLower(op) {
	case "=", "eq":
		return Eq{Left: left, Right: right}, nil
	case "<>", "!=", "ne":
		return Ne{Left: left, Right: right}, nil
	case "<", "lt":
		return Lt{Left: left, Right: right}, nil
	case ">", "gt":
		return Gt{Left: left, Right: right}, nil
	case "<=", "lte":
		return Lte{Left: left, Right: right}, nil
	case ">=", "gte":
		return Gte{Left: left, Right: right}, nil
	case "like":
		return Like{Expr: left, Pattern: right}, nil
	default:
		return nil, fmt.Errorf("%q: %w", op, ErrUnknownOperator)
	}
}

func quoteValues(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Lit(v).SQL()
	}
	return strings.Join(quoted, ", ")
}

// In represents an IN clause for string values. An empty list renders FALSE.
type In struct {
	Expr   Expr
	Values []string
}

func (i In) SQL() string {
	if len(i.Values) == 0 {
		return "FALSE"
	}
	return i.Expr.SQL() + " IN (" + quoteValues(i.Values) + ")"
}

// NotIn represents a NOT IN clause for string values. An empty list renders TRUE.
type NotIn struct {
	Expr   Expr
	Values []string
}

func (n NotIn) SQL() string {
	if len(n.Values) == 0 {
		return "TRUE"
	}
	return n.Expr.SQL() + " NOT IN (" + quoteValues(n.Values) + ")"
}

// IsNull represents IS NULL check.
type IsNull struct {
	Expr Expr
}

func (i IsNull) SQL() string { return i.Expr.SQL() + " IS NULL" }

// IsNotNull represents IS NOT NULL check.
type IsNotNull struct {
	Expr Expr
}

func (i IsNotNull) SQL() string { return i.Expr.SQL() + " IS NOT NULL" }

// NotExpr negates an expression.
type NotExpr struct {
	Expr Expr
}

func (n NotExpr) SQL() string { return "NOT (" + n.Expr.SQL() + ")" }

// Not creates a NOT expression.
func Not(expr Expr) NotExpr { return NotExpr{Expr: expr} }

// Link is one connector-prefixed step of a Chain.
type Link struct {
	Op   string // "AND" or "OR"
	Expr Expr
}

// Chain renders expressions left to right, each joined to the previous one by
// its own connector. It adds no parentheses of its own; FragmentExpr and
// JoinExpr wrap operands that need them.
//
// Example: Chain{Head: a, Links: []Link{{"AND", b}, {"OR", c}}}
// Renders: a AND b OR c
type Chain struct {
	Head  Expr
	Links []Link
}

func (c Chain) SQL() string {
	var sb strings.Builder
	sb.WriteString(c.Head.SQL())
	for _, l := range c.Links {
		sb.WriteString(" ")
		sb.WriteString(l.Op)
		sb.WriteString(" ")
		sb.WriteString(l.Expr.SQL())
	}
	return sb.String()
}
