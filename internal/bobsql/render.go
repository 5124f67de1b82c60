// Package bobsql renders sqldsl statement models through the bob query
// builder instead of the sqldsl text renderer.
//
// Criteria are still rendered to SQL text by sqldsl and handed to bob as raw
// expressions; bob owns the statement skeleton (columns, FROM, joins, LIMIT).
package bobsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"

	"github.com/pthm/sqlcriteria/pkg/dsl"
	"github.com/pthm/sqlcriteria/pkg/sqldsl"
)

// ErrUnexpectedArgs is returned when bob produced bound arguments. Every
// expression handed to bob is raw SQL, so any argument indicates a bug.
var ErrUnexpectedArgs = errors.New("bobsql: unexpected query args")

// SelectQuery converts m into a bob psql SELECT.
func SelectQuery(m *sqldsl.SelectModel) (bob.BaseQuery[*dialect.SelectQuery], error) {
	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns(m.ColumnExprs())...),
	}

	from := m.From()
	if from.Alias != "" {
		mods = append(mods, sm.From(from.Name).As(from.Alias))
	} else {
		mods = append(mods, sm.From(from.Name))
	}

	if m.IsDistinct() {
		mods = append(mods, sm.Distinct())
	}

	for i, j := range m.Joins() {
		mod, err := joinMod(j)
		if err != nil {
			return bob.BaseQuery[*dialect.SelectQuery]{}, fmt.Errorf("join %d: %w", i, err)
		}
		mods = append(mods, mod)
	}

	if frag, ok := m.WhereFragment(); ok {
		where, err := sqldsl.FragmentExpr(frag)
		if err != nil {
			return bob.BaseQuery[*dialect.SelectQuery]{}, fmt.Errorf("where: %w", err)
		}
		mods = append(mods, sm.Where(psql.Raw(where.SQL())))
	}

	if n := m.LimitValue(); n > 0 {
		mods = append(mods, sm.Limit(int64(n)))
	}

	return psql.Select(mods...), nil
}

// RenderSelect builds m with bob and returns the SQL text.
func RenderSelect(ctx context.Context, m *sqldsl.SelectModel) (string, error) {
	q, err := SelectQuery(m)
	if err != nil {
		return "", err
	}
	return render(ctx, q)
}

func render(ctx context.Context, q bob.Query) (string, error) {
	sql, args, err := bob.Build(ctx, q)
	if err != nil {
		return "", err
	}
	if len(args) != 0 {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedArgs, len(args))
	}
	return strings.TrimSpace(sql), nil
}

func columns(exprs []sqldsl.Expr) []any {
	if len(exprs) == 0 {
		return []any{psql.Raw("*")}
	}
	cols := make([]any, len(exprs))
	for i, e := range exprs {
		cols[i] = psql.Raw(e.SQL())
	}
	return cols
}

func joinMod(j dsl.JoinSpec) (bob.Mod[*dialect.SelectQuery], error) {
	on, err := sqldsl.JoinExpr(j.On, j.And)
	if err != nil {
		return nil, err
	}

	var (
		target any
		alias  string
	)
	switch t := j.Target.(type) {
	case dsl.TableTarget:
		target = t.Table.TableName()
	case dsl.AliasedTableTarget:
		target, alias = t.Table.TableName(), t.Alias
	case dsl.SubqueryTarget:
		model, err := sqldsl.SubqueryModel(t.Query)
		if err != nil {
			return nil, err
		}
		sub, err := model.Render()
		if err != nil {
			return nil, fmt.Errorf("subquery %s: %w", t.CorrelationName, err)
		}
		target, alias = psql.Raw("("+sqldsl.Compact(sub)+")"), t.CorrelationName
	default:
		return nil, fmt.Errorf("%T: %w", j.Target, sqldsl.ErrUnsupportedJoinTarget)
	}

	chain := joinChain(j.Kind, target)
	if alias != "" {
		chain = chain.As(alias)
	}
	return chain.On(psql.Raw(on.SQL())), nil
}

func joinChain(kind dsl.JoinKind, target any) dialect.JoinChain[*dialect.SelectQuery] {
	switch kind {
	case dsl.LeftJoin:
		return sm.LeftJoin(target)
	case dsl.RightJoin:
		return sm.RightJoin(target)
	case dsl.FullJoin:
		return sm.FullJoin(target)
	default:
		return sm.InnerJoin(target)
	}
}
