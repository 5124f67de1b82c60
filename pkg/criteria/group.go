package criteria

import "fmt"

// Criterion is an atomic predicate supplied by the column/expression model.
// It is opaque to this package.
type Criterion any

// Connector tags how a Group attaches to whatever precedes it.
type Connector int

const (
	And Connector = iota
	Or
)

// String returns the SQL keyword for the connector.
func (c Connector) String() string {
	switch c {
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return fmt.Sprintf("Connector(%d)", int(c))
	}
}

// Group is one connector-tagged node of a criteria tree.
//
// A Group may also be used as a Criterion in its own right (the list-based
// builder operations do this). Statement models render such a value as a
// parenthesised sub-tree and ignore its Connector.
type Group struct {
	Connector Connector
	Criterion Criterion
	Nested    []Group
}

// Fragment is a WHERE clause under construction.
type Fragment struct {
	Initial Criterion
	Groups  []Group
}

// GroupFunc populates the groups that follow an already-registered criterion.
type GroupFunc func(*Collector)

// Collector accumulates groups after a criterion that was fixed when the
// collector was created. It is only valid for the duration of the call that
// received it.
type Collector struct {
	groups []Group
	err    error
}

// And appends an AND group. Any nested functions populate the group's own
// nested groups.
func (c *Collector) And(cr Criterion, nested ...GroupFunc) *Collector {
	c.add(And, cr, nested)
	return c
}

// Or appends an OR group. Any nested functions populate the group's own
// nested groups.
func (c *Collector) Or(cr Criterion, nested ...GroupFunc) *Collector {
	c.add(Or, cr, nested)
	return c
}

func (c *Collector) add(conn Connector, cr Criterion, nested []GroupFunc) {
	if cr == nil {
		c.fail(fmt.Errorf("%s group: %w", conn, ErrIncompleteCriteria))
		return
	}
	sub, err := collectGroups(nested)
	if err != nil {
		c.fail(err)
		return
	}
	c.groups = append(c.groups, Group{Connector: conn, Criterion: cr, Nested: sub})
}

// fail records the first error only.
func (c *Collector) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func collectGroups(fns []GroupFunc) ([]Group, error) {
	if len(fns) == 0 {
		return nil, nil
	}
	c := &Collector{}
	for _, fn := range fns {
		if fn != nil {
			fn(c)
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.groups, nil
}

// Collect builds a Fragment from a required initial criterion and the groups
// registered by fns, in the order they were registered.
func Collect(initial Criterion, fns ...GroupFunc) (Fragment, error) {
	if initial == nil {
		return Fragment{}, fmt.Errorf("initial criterion: %w", ErrIncompleteCriteria)
	}
	groups, err := collectGroups(fns)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Initial: initial, Groups: groups}, nil
}

// NewGroup builds a standalone Group in the same way Collector.And/Or would,
// for callers that assemble group lists programmatically.
func NewGroup(conn Connector, cr Criterion, nested ...GroupFunc) (Group, error) {
	c := &Collector{}
	c.add(conn, cr, nested)
	if c.err != nil {
		return Group{}, c.err
	}
	return c.groups[0], nil
}

// FromGroups builds a Fragment from an already assembled group list. The first
// group becomes the initial criterion (its connector is ignored) and the rest
// follow verbatim.
func FromGroups(groups []Group) (Fragment, error) {
	head, rest, err := splitGroups(groups)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Initial: head, Groups: rest}, nil
}

// Wrap turns a group list into a single Group with the given connector, so
// that the whole list reads as one parenthesised unit.
func Wrap(conn Connector, groups []Group) (Group, error) {
	head, rest, err := splitGroups(groups)
	if err != nil {
		return Group{}, err
	}
	return Group{Connector: conn, Criterion: head, Nested: rest}, nil
}

func splitGroups(groups []Group) (Group, []Group, error) {
	if len(groups) == 0 {
		return Group{}, nil, fmt.Errorf("empty group list: %w", ErrIncompleteCriteria)
	}
	for i, g := range groups {
		if err := validateGroup(g); err != nil {
			return Group{}, nil, fmt.Errorf("group %d: %w", i, err)
		}
	}
	rest := make([]Group, len(groups)-1)
	copy(rest, groups[1:])
	return groups[0], rest, nil
}

func validateGroup(g Group) error {
	if g.Criterion == nil {
		return ErrIncompleteCriteria
	}
	for _, n := range g.Nested {
		if err := validateGroup(n); err != nil {
			return err
		}
	}
	return nil
}

// Append returns a copy of f with g added after its existing groups. f itself
// is not modified.
func (f Fragment) Append(g Group) Fragment {
	groups := make([]Group, 0, len(f.Groups)+1)
	groups = append(groups, f.Groups...)
	groups = append(groups, g)
	return Fragment{Initial: f.Initial, Groups: groups}
}
