package dsl_test

import (
	"fmt"

	"github.com/pthm/sqlcriteria/pkg/criteria"
	"github.com/pthm/sqlcriteria/pkg/dsl"
	"github.com/pthm/sqlcriteria/pkg/sqldsl"
)

func Example() {
	users := sqldsl.Select("users", sqldsl.C("u", "id")).As("u")
	b := users.Builder()

	_ = b.Where(sqldsl.Eq{Left: sqldsl.C("u", "active"), Right: sqldsl.Bool(true)})
	_ = b.Or(sqldsl.Eq{Left: sqldsl.C("u", "role"), Right: sqldsl.Lit("admin")}, func(c *criteria.Collector) {
		c.And(sqldsl.IsNull{Expr: sqldsl.C("u", "banned_at")})
	})
	_ = b.LeftJoinAs(sqldsl.Table("orders"), "o", sqldsl.Eq{Left: sqldsl.C("o", "user_id"), Right: sqldsl.C("u", "id")})

	sql, _ := users.Render()
	fmt.Println(sql)
	// Output:
	// SELECT u.id
	// FROM users AS u
	// LEFT JOIN orders AS o ON o.user_id = u.id
	// WHERE u.active = TRUE OR (u.role = 'admin' AND u.banned_at IS NULL)
}

func ExampleApplier_AndThen() {
	active := dsl.Applier(func(b *dsl.Builder) error {
		return b.Where(sqldsl.Eq{Left: sqldsl.C("", "active"), Right: sqldsl.Bool(true)})
	})
	recent := dsl.Applier(func(b *dsl.Builder) error {
		return b.And(sqldsl.Gt{Left: sqldsl.C("", "created_at"), Right: sqldsl.Raw("now() - interval '7 days'")})
	})

	for _, table := range []string{"users", "teams"} {
		m := sqldsl.Select(table)
		if err := m.Builder().ApplyWhere(active.AndThen(recent)); err != nil {
			fmt.Println(err)
			continue
		}
		sql, _ := m.Render()
		fmt.Println(sqldsl.Compact(sql))
	}
	// Output:
	// SELECT * FROM users WHERE active = TRUE AND created_at > now() - interval '7 days'
	// SELECT * FROM teams WHERE active = TRUE AND created_at > now() - interval '7 days'
}
