// Package sqldsl provides typed SQL expressions and a reference statement
// model for the dsl builders.
//
// # Overview
//
// Rather than constructing SQL strings through concatenation, this package
// provides typed building blocks that compose into criteria and statements.
// Every expression type implements Expr, so it can be passed to the dsl
// builders as a criteria.Criterion.
//
// # Expression Types
//
// Basic expressions:
//
//	Param(":user_id")                 // Named placeholder
//	Col{Table: "u", Column: "id"}     // Column reference: u.id
//	C("u", "id")                      // Same, shorter
//	Lit("open")                       // String literal: 'open'
//	Int(42)                           // Integer literal: 42
//	Bool(true)                        // Boolean literal: TRUE
//	Null{}                            // NULL literal
//	Raw("CURRENT_TIMESTAMP")          // Raw SQL (escape hatch)
//
// Operators:
//
//	Eq{Left: col, Right: param}       // col = param
//	In{Expr: col, Values: []string}   // col IN ('a', 'b')
//	Like{Expr: col, Pattern: Lit("a%")}
//	Compare(col, "gte", Int(18))      // col >= 18
//	Not(expr)                         // NOT (expr)
//	IsNull{Expr: col}                 // col IS NULL
//
// Criteria chained by FragmentExpr or JoinExpr are parenthesised when they
// contain a top-level OR, so Raw("a OR b") followed by AND c renders as
// (a OR b) AND c.
//
// # Statement Models
//
// SelectModel and DeleteModel implement the dsl statement model interfaces.
// The builders store WHERE fragments and joins in them; Build converts the
// stored trees into SelectStmt/DeleteStmt values whose SQL method renders
// PostgreSQL syntax:
//
//	users := sqldsl.Select("users", sqldsl.C("u", "id")).As("u")
//	b := users.Builder()
//	_ = b.Where(sqldsl.Eq{Left: sqldsl.C("u", "active"), Right: sqldsl.Bool(true)})
//	sql, err := users.Render()
//
// A fragment renders left to right with each group's connector. Groups with
// nested groups are parenthesised with them; nothing else is reordered or
// regrouped, so the SQL reads in the order the criteria were authored.
//
// # Subqueries
//
// A SelectModel can be joined as a subquery under a correlation name:
//
//	recent := sqldsl.Select("orders", sqldsl.C("o", "user_id")).As("o")
//	_ = b.LeftJoinSubquery(recent.Subquery("r"), sqldsl.Eq{Left: sqldsl.C("r", "user_id"), Right: sqldsl.C("u", "id")})
package sqldsl
