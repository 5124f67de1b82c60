// Package dsl provides the statement builder surface: Where/And/Or for WHERE
// trees, a family of join operations, and composable Appliers for sharing
// predicate fragments between statements.
//
// Builders do not render SQL and do not keep criteria state. Each operation
// runs the matching collector from package criteria and hands the finished
// tree to a StatementModel, which owns storage and rendering:
//
//	model := sqldsl.Select("users").As("u")
//	b := dsl.NewJoiningBuilder(model)
//
//	_ = b.Where(sqldsl.Eq{Left: sqldsl.Col{Table: "u", Column: "active"}, Right: sqldsl.Bool(true)})
//	_ = b.Or(sqldsl.IsNull{Expr: sqldsl.Col{Table: "u", Column: "deleted_at"}}, func(c *criteria.Collector) {
//	    c.And(sqldsl.Gt{Left: sqldsl.Col{Table: "u", Column: "age"}, Right: sqldsl.Int(18)})
//	})
//	_ = b.LeftJoinAs(sqldsl.Table("orders"), "o",
//	    sqldsl.Eq{Left: sqldsl.Col{Table: "o", Column: "user_id"}, Right: sqldsl.Col{Table: "u", Column: "id"}},
//	    func(j *criteria.JoinCollector) {
//	        j.And(sqldsl.Eq{Left: sqldsl.Col{Table: "o", Column: "status"}, Right: sqldsl.Lit("open")})
//	    })
//
// # WHERE state
//
// A statement starts with no WHERE fragment. Where (or WhereGroups) creates
// one, replacing any fragment that already exists. And/Or extend it and fail
// with criteria.ErrNoWhere when there is nothing to extend; the model is left
// untouched in that case. AllRows is a deliberate no-op for statements that
// select everything.
//
// # Joins
//
// Joins are independent of the WHERE state. Each join call registers one
// JoinSpec with the model, so the model sees joins in call order.
package dsl
