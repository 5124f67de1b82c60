package querydoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/sqlcriteria/pkg/dsl"
	"github.com/pthm/sqlcriteria/pkg/sqldsl"
)

const usersDoc = `
from: users
alias: u
columns: [u.id, u.email]
distinct: true
limit: 20
where:
  criterion: u.active = TRUE
  groups:
    - and: u.verified = TRUE
    - or: u.role = 'admin'
      groups:
        - and: u.banned_at IS NULL
joins:
  - kind: left
    table: orders
    alias: o
    condition: o.user_id = u.id
    and: ["o.status = 'open'"]
`

func TestParseAndRender(t *testing.T) {
	doc, err := Parse([]byte(usersDoc))
	require.NoError(t, err)
	assert.Equal(t, StatementSelect, doc.Kind())

	stmt, err := doc.Build()
	require.NoError(t, err)
	require.NotNil(t, stmt.Select)
	assert.Nil(t, stmt.Delete)

	got, err := stmt.Render()
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT u.id, u.email\n"+
		"FROM users AS u\n"+
		"LEFT JOIN orders AS o ON o.user_id = u.id AND o.status = 'open'\n"+
		"WHERE u.active = TRUE AND u.verified = TRUE OR (u.role = 'admin' AND u.banned_at IS NULL)\n"+
		"LIMIT 20", got)
}

func TestBuild_AnyOf(t *testing.T) {
	doc, err := Parse([]byte(`
from: t
where:
  any_of:
    - and: a = 1
      groups:
        - or: b = 2
    - or: c = 3
`))
	require.NoError(t, err)

	stmt, err := doc.Build()
	require.NoError(t, err)
	got, err := stmt.Render()
	require.NoError(t, err)
	assert.Equal(t, "SELECT *\nFROM t\nWHERE (a = 1 OR b = 2) OR c = 3", got)
}

func TestBuild_TextCriterionWithOr(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "initial",
			doc:  "from: t\nwhere: {criterion: 'a = 1 OR b = 2', groups: [{and: 'c = 3'}]}\n",
			want: "SELECT * FROM t WHERE (a = 1 OR b = 2) AND c = 3",
		},
		{
			name: "group",
			doc:  "from: t\nwhere: {criterion: 'c = 3', groups: [{and: 'a = 1 or b = 2'}]}\n",
			want: "SELECT * FROM t WHERE c = 3 AND (a = 1 or b = 2)",
		},
		{
			name: "join condition",
			doc:  "from: t\njoins: [{table: u, condition: 'u.a = t.a OR u.b = t.b', and: ['u.live']}]\n",
			want: "SELECT * FROM t INNER JOIN u ON (u.a = t.a OR u.b = t.b) AND u.live",
		},
		{
			name: "already parenthesised",
			doc:  "from: t\nwhere: {criterion: '(a = 1 OR b = 2)', groups: [{and: 'c = 3'}]}\n",
			want: "SELECT * FROM t WHERE (a = 1 OR b = 2) AND c = 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			stmt, err := doc.Build()
			require.NoError(t, err)
			got, err := stmt.Render()
			require.NoError(t, err)
			assert.Equal(t, tt.want, sqldsl.Compact(got))
		})
	}
}

func TestBuild_StructuredCriteria(t *testing.T) {
	doc, err := Parse([]byte(`
from: users
alias: u
where:
  criterion: {column: u.age, op: gte, value: 18}
  groups:
    - and: {column: u.role, op: in, values: [admin, "o'wner"]}
    - and: {column: u.banned_at, op: is_null}
    - or: {column: u.email, op: like, value: "%@example.com", not: true}
      groups:
        - and: {column: u.score, op: "<>", param: ":score"}
        - and: {column: u.trial, op: eq, value: false}
        - and: {column: u.tier, op: not_in, values: [free]}
joins:
  - kind: left
    table: orders
    alias: o
    condition: {column: o.user_id, op: eq, ref: u.id}
    and:
      - {column: o.total, op: gt, value: 9.5}
      - {column: o.paid_at, op: is_not_null}
      - {column: o.status, op: ne, value: void}
      - {column: o.qty, op: lt, value: 3}
      - {column: o.discount, op: lte, value: 0}
`))
	require.NoError(t, err)

	stmt, err := doc.Build()
	require.NoError(t, err)
	got, err := stmt.Render()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users AS u "+
		"LEFT JOIN orders AS o ON o.user_id = u.id AND o.total > 9.5 AND o.paid_at IS NOT NULL "+
		"AND o.status <> 'void' AND o.qty < 3 AND o.discount <= 0 "+
		"WHERE u.age >= 18 AND u.role IN ('admin', 'o''wner') AND u.banned_at IS NULL "+
		"OR (NOT (u.email LIKE '%@example.com') AND u.score <> :score AND u.trial = FALSE AND u.tier NOT IN ('free'))",
		sqldsl.Compact(got))
}

func TestCriterion_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		parse   bool
		wantMsg string
	}{
		{"unknown key", "from: t\nwhere: {criterion: {column: a, op: eq, value: 1, colour: red}}\n", true, ""},
		{"scalar criterion", "from: t\nwhere: {criterion: 42}\n", true, ""},
		{"missing column", "from: t\nwhere: {criterion: {op: eq, value: 1}}\n", false, "needs SQL text or a column"},
		{"missing op", "from: t\nwhere: {criterion: {column: a, value: 1}}\n", false, "op is required"},
		{"unknown op", "from: t\nwhere: {criterion: {column: a, op: between, value: 1}}\n", false, "unknown operator"},
		{"no operand", "from: t\nwhere: {criterion: {column: a, op: eq}}\n", false, "exactly one of value, ref or param"},
		{"two operands", "from: t\nwhere: {criterion: {column: a, op: eq, value: 1, ref: b}}\n", false, "exactly one of value, ref or param"},
		{"list value", "from: t\nwhere: {criterion: {column: a, op: eq, value: [1]}}\n", false, "must be a scalar"},
		{"is_null operand", "from: t\nwhere: {criterion: {column: a, op: is_null, value: 1}}\n", false, "takes no operand"},
		{"in with value", "from: t\nwhere: {criterion: {column: a, op: in, value: x}}\n", false, "takes values"},
		{"values on eq", "from: t\nwhere: {criterion: {column: a, op: eq, value: 1, values: [x]}}\n", false, "only apply to in"},
		{"bad group", "from: t\nwhere: {criterion: a, groups: [{or: {column: b}}]}\n", false, "group 0"},
		{"bad condition", "from: t\njoins: [{table: u, condition: {column: u.a, op: eq}}]\n", false, "condition"},
		{"bad join and", "from: t\njoins: [{table: u, condition: x, and: [{column: u.a}]}]\n", false, "and 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			if tt.parse {
				assert.True(t, IsParseErr(err), "want parse error, got %v", err)
				return
			}
			assert.True(t, IsInvalidErr(err), "want invalid error, got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestWhereApplier_ReportsBadCriterion(t *testing.T) {
	a := WhereApplier(&Where{Criterion: Text("x"), Groups: []Group{{And: Criterion{Column: "y", Op: "eq"}}}})

	m := sqldsl.Select("t")
	err := m.Builder().ApplyWhere(a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group 0")
	_, ok := m.WhereFragment()
	assert.False(t, ok)
}

func TestBuild_Subquery(t *testing.T) {
	doc, err := Parse([]byte(`
from: users
alias: u
joins:
  - kind: inner
    alias: totals
    condition: totals.user_id = u.id
    subquery:
      from: orders
      alias: o
      columns: [o.user_id]
      where:
        criterion: o.total > 100
`))
	require.NoError(t, err)

	stmt, err := doc.Build()
	require.NoError(t, err)
	got, err := stmt.Render()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM users AS u INNER JOIN (SELECT o.user_id FROM orders AS o WHERE o.total > 100) AS totals ON totals.user_id = u.id",
		sqldsl.Compact(got))

	joins := stmt.Select.Joins()
	require.Len(t, joins, 1)
	target, ok := joins[0].Target.(dsl.SubqueryTarget)
	require.True(t, ok)
	assert.Equal(t, "totals", target.CorrelationName)
}

func TestBuild_JoinKinds(t *testing.T) {
	doc, err := Parse([]byte(`
from: a
joins:
  - {table: b, condition: b.id = a.id}
  - {kind: FULL, table: c, condition: c.id = a.id}
  - {kind: right, table: d, alias: dd, condition: dd.id = a.id}
`))
	require.NoError(t, err)

	stmt, err := doc.Build()
	require.NoError(t, err)

	joins := stmt.Select.Joins()
	require.Len(t, joins, 3)
	assert.Equal(t, dsl.InnerJoin, joins[0].Kind)
	assert.Equal(t, dsl.FullJoin, joins[1].Kind)
	assert.Equal(t, dsl.RightJoin, joins[2].Kind)
	assert.Equal(t, dsl.AliasedTableTarget{Table: sqldsl.Table("d"), Alias: "dd"}, joins[2].Target)
}

func TestBuild_Delete(t *testing.T) {
	t.Run("with where", func(t *testing.T) {
		doc, err := Parse([]byte("statement: delete\nfrom: sessions\nwhere:\n  criterion: expires_at < now()\n"))
		require.NoError(t, err)
		stmt, err := doc.Build()
		require.NoError(t, err)
		got, err := stmt.Render()
		require.NoError(t, err)
		assert.Equal(t, "DELETE FROM sessions\nWHERE expires_at < now()", got)
	})

	t.Run("without where", func(t *testing.T) {
		doc, err := Parse([]byte("statement: delete\nfrom: sessions\n"))
		require.NoError(t, err)
		stmt, err := doc.Build()
		require.NoError(t, err)
		_, err = stmt.Render()
		assert.ErrorIs(t, err, sqldsl.ErrEmptyWhere)
	})

	t.Run("allowed by document", func(t *testing.T) {
		doc, err := Parse([]byte("statement: delete\nfrom: sessions\nallow_empty_where: true\n"))
		require.NoError(t, err)
		stmt, err := doc.Build()
		require.NoError(t, err)
		got, err := stmt.Render()
		require.NoError(t, err)
		assert.Equal(t, "DELETE FROM sessions", got)
	})

	t.Run("allowed by caller", func(t *testing.T) {
		doc, err := Parse([]byte("statement: delete\nfrom: sessions\n"))
		require.NoError(t, err)
		stmt, err := doc.Build(func(c *dsl.StatementConfig) { c.AllowEmptyWhere = true })
		require.NoError(t, err)
		_, err = stmt.Render()
		assert.NoError(t, err)
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		parse   bool
		wantMsg string
	}{
		{"not yaml", "from: [", true, ""},
		{"unknown field", "from: t\ntable: x\n", true, ""},
		{"missing from", "columns: [a]\n", false, "from is required"},
		{"unknown statement", "statement: update\nfrom: t\n", false, "unknown statement"},
		{"negative limit", "from: t\nlimit: -1\n", false, "limit must not be negative"},
		{"missing criterion", "from: t\nwhere:\n  groups:\n    - and: a\n", false, "criterion is required"},
		{"both and and or", "from: t\nwhere:\n  criterion: a\n  groups:\n    - {and: b, or: c}\n", false, "group 0"},
		{"nested group without connector", "from: t\nwhere:\n  criterion: a\n  groups:\n    - and: b\n      groups:\n        - {}\n", false, "exactly one of and/or"},
		{"criterion with any_of", "from: t\nwhere:\n  criterion: a\n  any_of:\n    - and: b\n", false, "mutually exclusive"},
		{"join without on", "from: t\njoins:\n  - table: u\n", false, "condition is required"},
		{"join without target", "from: t\njoins:\n  - condition: x\n", false, "table or subquery"},
		{"bad join kind", "from: t\njoins:\n  - {kind: cross, table: u, condition: x}\n", false, "unknown join kind"},
		{"subquery without alias", "from: t\njoins:\n  - condition: x\n    subquery: {from: u}\n", false, "need an alias"},
		{"delete with joins", "statement: delete\nfrom: t\njoins:\n  - {table: u, condition: x}\n", false, "cannot have joins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			if tt.parse {
				assert.True(t, IsParseErr(err), "want parse error, got %v", err)
				return
			}
			assert.True(t, IsInvalidErr(err), "want invalid error, got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte(usersDoc), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "users", doc.From)
	require.NotNil(t, doc.Where)
	assert.Len(t, doc.Where.Groups, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDocument_MarshalRoundTrip(t *testing.T) {
	docs := map[string]string{
		"text": usersDoc,
		"structured": `
from: users
where:
  criterion: {column: u.age, op: gte, value: 18}
  groups:
    - or: {column: u.role, op: in, values: [admin]}
joins:
  - table: orders
    condition: {column: orders.user_id, op: eq, ref: u.id}
    and: ["orders.open"]
`,
	}

	for name, src := range docs {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(src))
			require.NoError(t, err)

			data, err := doc.Marshal()
			require.NoError(t, err)

			again, err := Parse(data)
			require.NoError(t, err)
			assert.Equal(t, doc, again)
		})
	}
}

func TestWhereApplier_Reusable(t *testing.T) {
	a := WhereApplier(&Where{Criterion: Text("x = 1"), Groups: []Group{{Or: Text("y = 2")}}})

	first := sqldsl.Select("t1")
	second := sqldsl.Select("t2")
	require.NoError(t, first.Builder().ApplyWhere(a))
	require.NoError(t, second.Builder().ApplyWhere(a))

	f1, _ := first.WhereFragment()
	f2, _ := second.WhereFragment()
	assert.Equal(t, f1, f2)
}
