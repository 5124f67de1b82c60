package querydoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pthm/sqlcriteria/pkg/sqldsl"
)

// Criterion is one document criterion. It is written either as SQL text or
// as a structured comparison against a column:
//
//	criterion: u.active = TRUE
//	criterion: {column: u.age, op: gte, value: 18}
//	criterion: {column: u.role, op: in, values: [admin, owner]}
//	criterion: {column: u.banned_at, op: is_null, not: true}
//	condition: {column: o.user_id, op: eq, ref: u.id}
//
// The right-hand side of a comparison is exactly one of value (a YAML
// scalar), ref (a column) or param (a placeholder rendered verbatim).
type Criterion struct {
	SQL string `json:"-"`

	Column string          `json:"column,omitempty"`
	Op     string          `json:"op,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
	Values []string        `json:"values,omitempty"`
	Ref    string          `json:"ref,omitempty"`
	Param  string          `json:"param,omitempty"`
	Not    bool            `json:"not,omitempty"`
}

// structured has Criterion's fields without its JSON methods.
type structured Criterion

// Text returns a SQL text criterion.
func Text(sql string) Criterion {
	return Criterion{SQL: sql}
}

// IsZero reports whether c is unset.
func (c Criterion) IsZero() bool {
	return c.SQL == "" && c.Column == "" && c.Op == "" && len(c.Value) == 0 &&
		len(c.Values) == 0 && c.Ref == "" && c.Param == "" && !c.Not
}

// UnmarshalJSON accepts a string or a mapping. Unknown mapping keys are
// rejected.
func (c *Criterion) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		*c = Criterion{}
		return json.Unmarshal(data, &c.SQL)
	}
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("criterion must be SQL text or a mapping, got %s", data)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s structured
	if err := dec.Decode(&s); err != nil {
		return fmt.Errorf("criterion: %w", err)
	}
	*c = Criterion(s)
	return nil
}

// MarshalJSON writes SQL text criteria as strings.
func (c Criterion) MarshalJSON() ([]byte, error) {
	if c.SQL != "" {
		return json.Marshal(c.SQL)
	}
	return json.Marshal(structured(c))
}

// Expr converts the criterion into a sqldsl expression.
func (c Criterion) Expr() (sqldsl.Expr, error) {
	if c.SQL != "" {
		if c.Column != "" || c.Op != "" {
			return nil, errors.New("criterion cannot be both SQL text and structured")
		}
		return sqldsl.Raw(c.SQL), nil
	}
	if c.Column == "" {
		return nil, errors.New("criterion needs SQL text or a column")
	}

	e, err := c.comparison(sqldsl.ParseCol(c.Column))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Column, err)
	}
	if c.Not {
		return sqldsl.Not(e), nil
	}
	return e, nil
}

func (c Criterion) comparison(col sqldsl.Col) (sqldsl.Expr, error) {
	switch op := strings.ToLower(c.Op); op {
	case "is_null", "is_not_null":
		if c.hasRight() || len(c.Values) > 0 {
			return nil, fmt.Errorf("%s takes no operand", op)
		}
		if op == "is_null" {
			return sqldsl.IsNull{Expr: col}, nil
		}
		return sqldsl.IsNotNull{Expr: col}, nil
	case "in", "not_in":
		if c.hasRight() {
			return nil, fmt.Errorf("%s takes values, not value, ref or param", op)
		}
		if op == "in" {
			return sqldsl.In{Expr: col, Values: c.Values}, nil
		}
		return sqldsl.NotIn{Expr: col, Values: c.Values}, nil
	case "":
		return nil, errors.New("op is required")
	default:
		if len(c.Values) > 0 {
			return nil, fmt.Errorf("values only apply to in and not_in, not %s", op)
		}
		right, err := c.right()
		if err != nil {
			return nil, err
		}
		return sqldsl.Compare(col, op, right)
	}
}

func (c Criterion) hasRight() bool {
	return len(c.Value) > 0 || c.Ref != "" || c.Param != ""
}

func (c Criterion) right() (sqldsl.Expr, error) {
	set := 0
	for _, ok := range []bool{len(c.Value) > 0, c.Ref != "", c.Param != ""} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("exactly one of value, ref or param is required")
	}

	switch {
	case c.Ref != "":
		return sqldsl.ParseCol(c.Ref), nil
	case c.Param != "":
		return sqldsl.Param(c.Param), nil
	}
	return scalar(c.Value)
}

// scalar maps a JSON scalar onto a literal: strings quote, integers and
// booleans render bare, and null renders NULL.
func scalar(raw json.RawMessage) (sqldsl.Expr, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}

	switch v := v.(type) {
	case nil:
		return sqldsl.Null{}, nil
	case string:
		return sqldsl.Lit(v), nil
	case bool:
		return sqldsl.Bool(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return sqldsl.Int(n), nil
		}
		return sqldsl.Raw(v.String()), nil
	default:
		return nil, fmt.Errorf("value must be a scalar, got %T", v)
	}
}
