package querydoc

import (
	"fmt"
	"strings"

	"github.com/pthm/sqlcriteria/pkg/criteria"
	"github.com/pthm/sqlcriteria/pkg/dsl"
	"github.com/pthm/sqlcriteria/pkg/sqldsl"
)

// Statement is a built document. Exactly one of Select and Delete is set.
type Statement struct {
	Select *sqldsl.SelectModel
	Delete *sqldsl.DeleteModel
}

// Render renders the statement with the sqldsl text renderer.
func (s Statement) Render() (string, error) {
	if s.Delete != nil {
		return s.Delete.Render()
	}
	return s.Select.Render()
}

// Build replays the document through the dsl builders. Each configure
// function is forwarded to the statement before the document's own
// allow_empty_where setting.
func (d *Document) Build(configure ...func(*dsl.StatementConfig)) (Statement, error) {
	if err := d.Validate(); err != nil {
		return Statement{}, err
	}
	if d.Kind() == StatementDelete {
		m := sqldsl.DeleteFrom(d.From)
		if err := d.replayWhere(m.Builder(), configure); err != nil {
			return Statement{}, err
		}
		return Statement{Delete: m}, nil
	}
	m, err := d.buildSelect(configure)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Select: m}, nil
}

func (d *Document) buildSelect(configure []func(*dsl.StatementConfig)) (*sqldsl.SelectModel, error) {
	m := sqldsl.Select(d.From).As(d.Alias).Limit(d.Limit)
	for _, c := range d.Columns {
		m.Columns(sqldsl.Raw(c))
	}
	if d.Distinct {
		m.Distinct()
	}

	b := m.Builder()
	if err := d.replayWhere(b.Builder, configure); err != nil {
		return nil, err
	}
	for i, j := range d.Joins {
		if err := replayJoin(b, j); err != nil {
			return nil, fmt.Errorf("join %d: %w", i, err)
		}
	}
	return m, nil
}

func (d *Document) replayWhere(b *dsl.Builder, configure []func(*dsl.StatementConfig)) error {
	for _, fn := range configure {
		b.ConfigureStatement(fn)
	}
	if d.AllowEmptyWhere {
		b.ConfigureStatement(func(c *dsl.StatementConfig) { c.AllowEmptyWhere = true })
	}
	if d.Where == nil {
		b.AllRows()
		return nil
	}
	return b.ApplyWhere(WhereApplier(d.Where))
}

// WhereApplier returns an Applier that establishes w on a builder.
// Criteria are converted on each application, so a malformed criterion is
// reported by the Applier rather than here.
func WhereApplier(w *Where) dsl.Applier {
	if len(w.AnyOf) > 0 {
		return func(b *dsl.Builder) error {
			nodes, err := resolve(w.AnyOf)
			if err != nil {
				return err
			}
			return b.WhereGroups(toGroups(nodes))
		}
	}

	return func(b *dsl.Builder) error {
		initial, err := w.Criterion.Expr()
		if err != nil {
			return fmt.Errorf("criterion: %w", err)
		}
		nodes, err := resolve(w.Groups)
		if err != nil {
			return err
		}

		appliers := make([]dsl.Applier, 0, len(nodes)+1)
		appliers = append(appliers, func(b *dsl.Builder) error { return b.Where(initial) })
		for _, n := range nodes {
			appliers = append(appliers, n.applier())
		}
		return dsl.Chain(appliers...)(b)
	}
}

// node is a Group with its criterion converted to an expression.
type node struct {
	conn   criteria.Connector
	expr   sqldsl.Expr
	nested []node
}

func resolve(groups []Group) ([]node, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	out := make([]node, len(groups))
	for i, g := range groups {
		conn, c := g.criterion()
		e, err := c.Expr()
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		nested, err := resolve(g.Groups)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		out[i] = node{conn: conn, expr: e, nested: nested}
	}
	return out, nil
}

func (n node) applier() dsl.Applier {
	nested := collect(n.nested)
	if n.conn == criteria.Or {
		return func(b *dsl.Builder) error { return b.Or(n.expr, nested...) }
	}
	return func(b *dsl.Builder) error { return b.And(n.expr, nested...) }
}

func collect(nodes []node) []criteria.GroupFunc {
	if len(nodes) == 0 {
		return nil
	}
	return []criteria.GroupFunc{func(c *criteria.Collector) {
		for _, n := range nodes {
			if n.conn == criteria.Or {
				c.Or(n.expr, collect(n.nested)...)
			} else {
				c.And(n.expr, collect(n.nested)...)
			}
		}
	}}
}

func toGroups(nodes []node) []criteria.Group {
	out := make([]criteria.Group, len(nodes))
	for i, n := range nodes {
		out[i] = criteria.Group{Connector: n.conn, Criterion: n.expr}
		if len(n.nested) > 0 {
			out[i].Nested = toGroups(n.nested)
		}
	}
	return out
}

type joinOps struct {
	table    func(dsl.Table, criteria.Criterion, ...criteria.JoinFunc) error
	aliased  func(dsl.Table, string, criteria.Criterion, ...criteria.JoinFunc) error
	subquery func(dsl.Subquery, criteria.Criterion, ...criteria.JoinFunc) error
}

func opsFor(b *dsl.JoiningBuilder, kind dsl.JoinKind) joinOps {
	switch kind {
	case dsl.FullJoin:
		return joinOps{b.FullJoin, b.FullJoinAs, b.FullJoinSubquery}
	case dsl.LeftJoin:
		return joinOps{b.LeftJoin, b.LeftJoinAs, b.LeftJoinSubquery}
	case dsl.RightJoin:
		return joinOps{b.RightJoin, b.RightJoinAs, b.RightJoinSubquery}
	default:
		return joinOps{b.Join, b.JoinAs, b.JoinSubquery}
	}
}

func replayJoin(b *dsl.JoiningBuilder, j Join) error {
	kind, err := joinKind(j.Kind)
	if err != nil {
		return err
	}
	ops := opsFor(b, kind)
	on, err := j.On.Expr()
	if err != nil {
		return fmt.Errorf("condition: %w", err)
	}
	and, err := joinAnd(j.And)
	if err != nil {
		return err
	}

	switch {
	case j.Subquery != nil:
		sub, err := j.Subquery.buildSelect(nil)
		if err != nil {
			return fmt.Errorf("subquery: %w", err)
		}
		return ops.subquery(sub.Subquery(j.Alias), on, and...)
	case j.Alias != "":
		return ops.aliased(sqldsl.Table(j.Table), j.Alias, on, and...)
	default:
		return ops.table(sqldsl.Table(j.Table), on, and...)
	}
}

func joinAnd(ands []Criterion) ([]criteria.JoinFunc, error) {
	if len(ands) == 0 {
		return nil, nil
	}
	exprs := make([]sqldsl.Expr, len(ands))
	for i, a := range ands {
		e, err := a.Expr()
		if err != nil {
			return nil, fmt.Errorf("and %d: %w", i, err)
		}
		exprs[i] = e
	}
	return []criteria.JoinFunc{func(jc *criteria.JoinCollector) {
		for _, e := range exprs {
			jc.And(e)
		}
	}}, nil
}

func joinKind(s string) (dsl.JoinKind, error) {
	switch strings.ToLower(s) {
	case "", "inner":
		return dsl.InnerJoin, nil
	case "full":
		return dsl.FullJoin, nil
	case "left":
		return dsl.LeftJoin, nil
	case "right":
		return dsl.RightJoin, nil
	default:
		return 0, fmt.Errorf("unknown join kind %q", s)
	}
}
