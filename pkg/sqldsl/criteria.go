package sqldsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pthm/sqlcriteria/pkg/criteria"
)

// Render-time errors.
var (
	// ErrUnsupportedCriterion is returned when a stored criterion is neither an
	// Expr nor a criteria.Group.
	ErrUnsupportedCriterion = errors.New("sqldsl: unsupported criterion")

	// ErrEmptyWhere is returned when a statement that needs a WHERE clause
	// has none and the statement is not configured to allow that.
	ErrEmptyWhere = errors.New("sqldsl: statement requires a where clause")

	// ErrUnsupportedJoinTarget is returned when a join target cannot be
	// rendered by this package.
	ErrUnsupportedJoinTarget = errors.New("sqldsl: unsupported join target")
)

// FragmentExpr converts a WHERE fragment into an expression tree.
//
// Groups are chained left to right with their connector. A group that has
// nested groups is parenthesised together with them:
//
//	{c1, [AND c2 [OR c3], OR c4]}  ->  c1 AND (c2 OR c3) OR c4
//
// A chained operand with an OR of its own, such as Raw("a OR b"), is
// parenthesised so the rendered SQL keeps the tree's shape.
func FragmentExpr(frag criteria.Fragment) (Expr, error) {
	head, err := CriterionExpr(frag.Initial)
	if err != nil {
		return nil, fmt.Errorf("initial: %w", err)
	}
	links, err := groupLinks(frag.Groups)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return head, nil
	}
	return Chain{Head: operand(head), Links: links}, nil
}

// CriterionExpr converts a single stored criterion into an Expr. A
// criteria.Group used as a criterion renders as its own sub-tree.
func CriterionExpr(c criteria.Criterion) (Expr, error) {
	switch v := c.(type) {
	case Expr:
		return v, nil
	case criteria.Group:
		return groupExpr(v)
	case *criteria.Group:
		if v == nil {
			return nil, fmt.Errorf("nil group: %w", ErrUnsupportedCriterion)
		}
		return groupExpr(*v)
	default:
		return nil, fmt.Errorf("%T: %w", c, ErrUnsupportedCriterion)
	}
}

func groupExpr(g criteria.Group) (Expr, error) {
	head, err := CriterionExpr(g.Criterion)
	if err != nil {
		return nil, err
	}
	if len(g.Nested) == 0 {
		return head, nil
	}
	links, err := groupLinks(g.Nested)
	if err != nil {
		return nil, err
	}
	return Paren{Expr: Chain{Head: operand(head), Links: links}}, nil
}

func groupLinks(groups []criteria.Group) ([]Link, error) {
	links := make([]Link, 0, len(groups))
	for i, g := range groups {
		e, err := groupExpr(g)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		links = append(links, Link{Op: g.Connector.String(), Expr: operand(e)})
	}
	return links, nil
}

// JoinExpr converts a join's ON criterion and AND chain into one expression:
// on AND and1 AND and2 ...
func JoinExpr(on criteria.Criterion, and []criteria.Criterion) (Expr, error) {
	head, err := CriterionExpr(on)
	if err != nil {
		return nil, fmt.Errorf("on: %w", err)
	}
	if len(and) == 0 {
		return head, nil
	}
	links := make([]Link, len(and))
	for i, c := range and {
		e, err := CriterionExpr(c)
		if err != nil {
			return nil, fmt.Errorf("and %d: %w", i, err)
		}
		links[i] = Link{Op: "AND", Expr: operand(e)}
	}
	return Chain{Head: operand(head), Links: links}, nil
}

// operand wraps e in parentheses when it would split at a top-level OR once
// chained with other criteria.
func operand(e Expr) Expr {
	if hasTopLevelOr(e) {
		return Paren{Expr: e}
	}
	return e
}

func hasTopLevelOr(e Expr) bool {
	switch v := e.(type) {
	case Raw:
		return rawHasTopLevelOr(string(v))
	case Chain:
		if hasTopLevelOr(v.Head) {
			return true
		}
		for _, l := range v.Links {
			if strings.EqualFold(l.Op, "OR") || hasTopLevelOr(l.Expr) {
				return true
			}
		}
	}
	return false
}

// rawHasTopLevelOr scans SQL text for an OR keyword outside parentheses and
// quotes.
func rawHasTopLevelOr(sql string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && (c == 'o' || c == 'O') && i+1 < len(sql) && (sql[i+1] == 'r' || sql[i+1] == 'R'):
			before := i == 0 || !isWordByte(sql[i-1])
			after := i+2 == len(sql) || !isWordByte(sql[i+2])
			if before && after {
				return true
			}
		}
	}
	return false
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
