// Package querydoc loads declarative YAML query documents and replays them
// through the dsl builders into sqldsl statement models.
//
// A document looks like:
//
//	from: users
//	alias: u
//	columns: [u.id, u.email]
//	where:
//	  criterion: u.active = TRUE
//	  groups:
//	    - or: u.role = 'admin'
//	      groups:
//	        - and: u.banned_at IS NULL
//	joins:
//	  - kind: left
//	    table: orders
//	    alias: o
//	    condition: o.user_id = u.id
//	    and: [o.status = 'open']
//
// Criteria are SQL text, passed to the builders as raw expressions, or
// structured comparisons such as {column: u.age, op: gte, value: 18} that
// map onto the sqldsl operators. See Criterion.
//
// The join condition key is "condition" because YAML 1.1 reads a bare "on"
// key as a boolean.
package querydoc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/pthm/sqlcriteria/pkg/criteria"
)

// Statement kinds.
const (
	StatementSelect = "select"
	StatementDelete = "delete"
)

var (
	// ErrParse is returned when a document is not valid YAML or has unknown fields.
	ErrParse = errors.New("querydoc: parse error")

	// ErrInvalid is returned when a document parses but describes no valid statement.
	ErrInvalid = errors.New("querydoc: invalid document")
)

// IsParseErr reports whether err is a document parse error.
func IsParseErr(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsInvalidErr reports whether err is a document validation error.
func IsInvalidErr(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// Document describes one statement.
type Document struct {
	Statement       string   `json:"statement,omitempty"`
	From            string   `json:"from"`
	Alias           string   `json:"alias,omitempty"`
	Columns         []string `json:"columns,omitempty"`
	Distinct        bool     `json:"distinct,omitempty"`
	Limit           int      `json:"limit,omitempty"`
	AllowEmptyWhere bool     `json:"allow_empty_where,omitempty"`
	Where           *Where   `json:"where,omitempty"`
	Joins           []Join   `json:"joins,omitempty"`
}

// Where is the WHERE clause of a document. Either Criterion (optionally
// followed by Groups) or AnyOf must be set.
type Where struct {
	Criterion Criterion `json:"criterion,omitzero"`
	Groups    []Group `json:"groups,omitempty"`

	// AnyOf is the list form: its first entry becomes the initial
	// criterion and the rest follow with their own connectors.
	AnyOf []Group `json:"any_of,omitempty"`
}

// Group is one connector-tagged criterion. Exactly one of And and Or is set.
type Group struct {
	And    Criterion `json:"and,omitzero"`
	Or     Criterion `json:"or,omitzero"`
	Groups []Group   `json:"groups,omitempty"`
}

// Join is one join clause. Exactly one of Table and Subquery is set. On is
// the ON criterion; And holds further criteria joined with AND.
type Join struct {
	Kind     string      `json:"kind,omitempty"`
	Table    string      `json:"table,omitempty"`
	Alias    string      `json:"alias,omitempty"`
	Subquery *Document   `json:"subquery,omitempty"`
	On       Criterion   `json:"condition"`
	And      []Criterion `json:"and,omitempty"`
}

// Parse decodes a document. Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Kind returns the statement kind, defaulting to select.
func (d *Document) Kind() string {
	if d.Statement == "" {
		return StatementSelect
	}
	return strings.ToLower(d.Statement)
}

// Validate checks the document's structure without building it.
func (d *Document) Validate() error {
	if err := d.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (d *Document) validate() error {
	if d.From == "" {
		return errors.New("from is required")
	}
	switch d.Kind() {
	case StatementSelect:
	case StatementDelete:
		if len(d.Joins) > 0 {
			return errors.New("delete statements cannot have joins")
		}
		if len(d.Columns) > 0 || d.Distinct || d.Limit != 0 || d.Alias != "" {
			return errors.New("delete statements only take from, where and allow_empty_where")
		}
	default:
		return fmt.Errorf("unknown statement %q", d.Statement)
	}
	if d.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", d.Limit)
	}
	if d.Where != nil {
		if err := d.Where.validate(); err != nil {
			return fmt.Errorf("where: %w", err)
		}
	}
	for i, j := range d.Joins {
		if err := j.validate(); err != nil {
			return fmt.Errorf("join %d: %w", i, err)
		}
	}
	return nil
}

func (w *Where) validate() error {
	switch {
	case !w.Criterion.IsZero() && len(w.AnyOf) > 0:
		return errors.New("criterion and any_of are mutually exclusive")
	case len(w.AnyOf) > 0:
		if len(w.Groups) > 0 {
			return errors.New("groups cannot follow any_of")
		}
		return validateGroups(w.AnyOf)
	case w.Criterion.IsZero():
		return errors.New("criterion is required")
	}
	if _, err := w.Criterion.Expr(); err != nil {
		return fmt.Errorf("criterion: %w", err)
	}
	return validateGroups(w.Groups)
}

func (g Group) validate() error {
	if g.And.IsZero() == g.Or.IsZero() {
		return errors.New("exactly one of and/or is required")
	}
	_, c := g.criterion()
	if _, err := c.Expr(); err != nil {
		return err
	}
	return validateGroups(g.Groups)
}

// criterion returns the group's connector and criterion.
func (g Group) criterion() (criteria.Connector, Criterion) {
	if g.Or.IsZero() {
		return criteria.And, g.And
	}
	return criteria.Or, g.Or
}

func validateGroups(groups []Group) error {
	for i, g := range groups {
		if err := g.validate(); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}
	return nil
}

func (j Join) validate() error {
	if _, err := joinKind(j.Kind); err != nil {
		return err
	}
	if j.On.IsZero() {
		return errors.New("condition is required")
	}
	if _, err := j.On.Expr(); err != nil {
		return fmt.Errorf("condition: %w", err)
	}
	for i, a := range j.And {
		if a.IsZero() {
			return fmt.Errorf("and %d is empty", i)
		}
		if _, err := a.Expr(); err != nil {
			return fmt.Errorf("and %d: %w", i, err)
		}
	}
	switch {
	case j.Table != "" && j.Subquery != nil:
		return errors.New("table and subquery are mutually exclusive")
	case j.Subquery != nil:
		if j.Alias == "" {
			return errors.New("subquery joins need an alias")
		}
		if j.Subquery.Kind() != StatementSelect {
			return errors.New("subquery must be a select")
		}
		if err := j.Subquery.validate(); err != nil {
			return fmt.Errorf("subquery: %w", err)
		}
	case j.Table == "":
		return errors.New("table or subquery is required")
	}
	return nil
}
