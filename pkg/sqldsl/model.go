package sqldsl

import (
	"fmt"

	"github.com/pthm/sqlcriteria/pkg/criteria"
	"github.com/pthm/sqlcriteria/pkg/dsl"
)

// SelectModel is a SELECT statement under construction. It implements
// dsl.JoiningModel: the dsl builders store WHERE fragments and joins in it,
// and Build renders them into a SelectStmt.
//
// A SelectModel is not safe for concurrent use.
type SelectModel struct {
	table    string
	alias    string
	columns  []Expr
	distinct bool
	limit    int

	where  *criteria.Fragment
	joins  []dsl.JoinSpec
	config dsl.StatementConfig
}

var (
	_ dsl.JoiningModel   = (*SelectModel)(nil)
	_ dsl.StatementModel = (*DeleteModel)(nil)
	_ dsl.Subquery       = Subquery{}
)

// Select creates a SelectModel reading from table.
func Select(table string, columns ...Expr) *SelectModel {
	return &SelectModel{table: table, columns: columns}
}

// As sets the FROM alias.
func (m *SelectModel) As(alias string) *SelectModel {
	m.alias = alias
	return m
}

// Columns appends columns to the select list.
func (m *SelectModel) Columns(cols ...Expr) *SelectModel {
	m.columns = append(m.columns, cols...)
	return m
}

// Distinct enables DISTINCT in the SELECT.
func (m *SelectModel) Distinct() *SelectModel {
	m.distinct = true
	return m
}

// Limit sets the LIMIT clause.
func (m *SelectModel) Limit(n int) *SelectModel {
	m.limit = n
	return m
}

// Builder returns a JoiningBuilder writing into m.
func (m *SelectModel) Builder() *dsl.JoiningBuilder {
	return dsl.NewJoiningBuilder(m)
}

// Subquery wraps m as a join target named name.
func (m *SelectModel) Subquery(name string) Subquery {
	return Subquery{Model: m, Name: name}
}

// WhereFragment implements dsl.StatementModel.
func (m *SelectModel) WhereFragment() (criteria.Fragment, bool) {
	if m.where == nil {
		return criteria.Fragment{}, false
	}
	return *m.where, true
}

// SetWhereFragment implements dsl.StatementModel.
func (m *SelectModel) SetWhereFragment(f criteria.Fragment) {
	m.where = &f
}

// Configure implements dsl.StatementModel.
func (m *SelectModel) Configure(fn func(*dsl.StatementConfig)) {
	if fn != nil {
		fn(&m.config)
	}
}

// RegisterJoin implements dsl.JoiningModel.
func (m *SelectModel) RegisterJoin(j dsl.JoinSpec) {
	m.joins = append(m.joins, j)
}

// Joins returns the registered joins in registration order.
func (m *SelectModel) Joins() []dsl.JoinSpec {
	out := make([]dsl.JoinSpec, len(m.joins))
	copy(out, m.joins)
	return out
}

// Config returns the statement configuration.
func (m *SelectModel) Config() dsl.StatementConfig {
	return m.config
}

// From returns the FROM table reference.
func (m *SelectModel) From() TableRef {
	return TableRef{Name: m.table, Alias: m.alias}
}

// ColumnExprs returns the select list.
func (m *SelectModel) ColumnExprs() []Expr {
	return m.columns
}

// IsDistinct reports whether DISTINCT is enabled.
func (m *SelectModel) IsDistinct() bool {
	return m.distinct
}

// LimitValue returns the LIMIT, or 0 if none.
func (m *SelectModel) LimitValue() int {
	return m.limit
}

// Build renders the stored fragment and joins into a SelectStmt.
func (m *SelectModel) Build() (SelectStmt, error) {
	stmt := SelectStmt{
		Distinct:    m.distinct,
		ColumnExprs: m.columns,
		FromExpr:    m.From(),
		Limit:       m.limit,
	}
	for i, j := range m.joins {
		jc, err := JoinClauseFor(j)
		if err != nil {
			return SelectStmt{}, fmt.Errorf("join %d: %w", i, err)
		}
		stmt.Joins = append(stmt.Joins, jc)
	}
	if m.where != nil {
		where, err := FragmentExpr(*m.where)
		if err != nil {
			return SelectStmt{}, fmt.Errorf("where: %w", err)
		}
		stmt.Where = where
	}
	return stmt, nil
}

// Render builds the statement and returns its SQL.
func (m *SelectModel) Render() (string, error) {
	stmt, err := m.Build()
	if err != nil {
		return "", err
	}
	return stmt.SQL(), nil
}

// Subquery is a SelectModel used as a join target under a correlation name.
type Subquery struct {
	Model *SelectModel
	Name  string
}

// CorrelationName implements dsl.Subquery.
func (s Subquery) CorrelationName() string {
	return s.Name
}

// JoinClauseFor renders one registered join.
func JoinClauseFor(j dsl.JoinSpec) (JoinClause, error) {
	table, err := JoinTableExpr(j.Target)
	if err != nil {
		return JoinClause{}, err
	}
	on, err := JoinExpr(j.On, j.And)
	if err != nil {
		return JoinClause{}, err
	}
	return JoinClause{Type: j.Kind.String(), TableExpr: table, On: on}, nil
}

// JoinTableExpr renders a join target as a table expression.
func JoinTableExpr(target dsl.JoinTarget) (TableExpr, error) {
	switch t := target.(type) {
	case dsl.TableTarget:
		return TableRef{Name: t.Table.TableName()}, nil
	case dsl.AliasedTableTarget:
		return TableRef{Name: t.Table.TableName(), Alias: t.Alias}, nil
	case dsl.SubqueryTarget:
		model, err := SubqueryModel(t.Query)
		if err != nil {
			return nil, err
		}
		stmt, err := model.Build()
		if err != nil {
			return nil, fmt.Errorf("subquery %s: %w", t.CorrelationName, err)
		}
		return SubqueryTable{Query: stmt, Alias: t.CorrelationName}, nil
	default:
		return nil, fmt.Errorf("%T: %w", target, ErrUnsupportedJoinTarget)
	}
}

// SubqueryModel returns the SelectModel behind a subquery join target.
func SubqueryModel(q dsl.Subquery) (*SelectModel, error) {
	switch s := q.(type) {
	case Subquery:
		if s.Model != nil {
			return s.Model, nil
		}
	case *Subquery:
		if s != nil && s.Model != nil {
			return s.Model, nil
		}
	}
	return nil, fmt.Errorf("subquery %T: %w", q, ErrUnsupportedJoinTarget)
}

// DeleteModel is a DELETE statement under construction. It implements
// dsl.StatementModel. Build refuses to render without a WHERE clause unless
// the statement was configured with AllowEmptyWhere.
type DeleteModel struct {
	table  string
	where  *criteria.Fragment
	config dsl.StatementConfig
}

// DeleteFrom creates a DeleteModel for table.
func DeleteFrom(table string) *DeleteModel {
	return &DeleteModel{table: table}
}

// Builder returns a Builder writing into m.
func (m *DeleteModel) Builder() *dsl.Builder {
	return dsl.NewBuilder(m)
}

// WhereFragment implements dsl.StatementModel.
func (m *DeleteModel) WhereFragment() (criteria.Fragment, bool) {
	if m.where == nil {
		return criteria.Fragment{}, false
	}
	return *m.where, true
}

// SetWhereFragment implements dsl.StatementModel.
func (m *DeleteModel) SetWhereFragment(f criteria.Fragment) {
	m.where = &f
}

// Configure implements dsl.StatementModel.
func (m *DeleteModel) Configure(fn func(*dsl.StatementConfig)) {
	if fn != nil {
		fn(&m.config)
	}
}

// Build renders the stored fragment into a DeleteStmt.
func (m *DeleteModel) Build() (DeleteStmt, error) {
	stmt := DeleteStmt{Table: TableRef{Name: m.table}}
	if m.where == nil {
		if !m.config.AllowEmptyWhere {
			return DeleteStmt{}, fmt.Errorf("delete from %s: %w", m.table, ErrEmptyWhere)
		}
		return stmt, nil
	}
	where, err := FragmentExpr(*m.where)
	if err != nil {
		return DeleteStmt{}, fmt.Errorf("where: %w", err)
	}
	stmt.Where = where
	return stmt, nil
}

// Render builds the statement and returns its SQL.
func (m *DeleteModel) Render() (string, error) {
	stmt, err := m.Build()
	if err != nil {
		return "", err
	}
	return stmt.SQL(), nil
}
