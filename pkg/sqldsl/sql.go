package sqldsl

import (
	"fmt"
	"strings"
)

// SQLer is an interface for types that can render SQL.
// SelectStmt and DeleteStmt implement this interface.
type SQLer interface {
	SQL() string
}

// JoinClause represents a SQL JOIN clause.
type JoinClause struct {
	Type      string // "INNER", "LEFT", etc.
	TableExpr TableExpr
	On        Expr
}

// SQL renders the JOIN clause.
func (j JoinClause) SQL() string {
	if j.On == nil {
		return j.Type + " JOIN " + j.TableExpr.TableSQL()
	}
	return j.Type + " JOIN " + j.TableExpr.TableSQL() + " ON " + j.On.SQL()
}

// SelectStmt represents a SELECT query.
type SelectStmt struct {
	Distinct    bool
	ColumnExprs []Expr
	FromExpr    TableExpr
	Joins       []JoinClause
	Where       Expr
	Limit       int
}

// SQL renders the SELECT statement, one clause per line.
func (s SelectStmt) SQL() string {
	return joinClauses(
		"SELECT "+optf(s.Distinct, "DISTINCT ")+s.columnsSQL(),
		s.fromSQL(),
		s.joinsSQL(),
		whereSQL(s.Where),
		s.limitSQL(),
	)
}

func (s SelectStmt) columnsSQL() string {
	if len(s.ColumnExprs) == 0 {
		return "*"
	}
	parts := make([]string, len(s.ColumnExprs))
	for i, e := range s.ColumnExprs {
		parts[i] = e.SQL()
	}
	return strings.Join(parts, ", ")
}

func (s SelectStmt) fromSQL() string {
	if s.FromExpr == nil {
		return ""
	}
	return "FROM " + s.FromExpr.TableSQL()
}

func (s SelectStmt) joinsSQL() string {
	if len(s.Joins) == 0 {
		return ""
	}
	parts := make([]string, len(s.Joins))
	for i, j := range s.Joins {
		parts[i] = j.SQL()
	}
	return strings.Join(parts, "\n")
}

func (s SelectStmt) limitSQL() string {
	if s.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf("LIMIT %d", s.Limit)
}

// DeleteStmt represents a DELETE statement.
type DeleteStmt struct {
	Table TableExpr
	Where Expr
}

// SQL renders the DELETE statement.
func (d DeleteStmt) SQL() string {
	return joinClauses(
		"DELETE FROM "+d.Table.TableSQL(),
		whereSQL(d.Where),
	)
}

func whereSQL(where Expr) string {
	if where == nil {
		return ""
	}
	return "WHERE " + where.SQL()
}

// optf returns formatted string if condition is true, empty string otherwise.
// Useful for optional SQL clauses.
func optf(cond bool, format string, args ...any) string {
	if !cond {
		return ""
	}
	return fmt.Sprintf(format, args...)
}

// joinClauses joins the non-empty clauses with newlines.
func joinClauses(clauses ...string) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n")
}

// IndentLines adds the given indent prefix to each line of input.
func IndentLines(input, indent string) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(input), "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// Compact collapses a multi-line statement onto a single line. Line
// indentation is dropped; text inside a line is left alone.
func Compact(sql string) string {
	var sb strings.Builder
	for _, line := range strings.Split(sql, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "(") && !strings.HasPrefix(line, ")") {
			sb.WriteString(" ")
		}
		sb.WriteString(line)
	}
	return sb.String()
}
