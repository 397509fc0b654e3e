package sketch

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

// ErrUnderConstrained means no fixed value is reachable from a set.
var ErrUnderConstrained = domain.ErrUnderConstrained

// ConstraintSet is an ordered, duplicate-free list of constraints on one
// unknown, plus optional named properties (x and y for a point).
type ConstraintSet struct {
	name        string
	kind        string
	constraints []Constraint
	props       map[string]*ConstraintSet
}

const (
	kindValue = "ConstraintSet"
	kindPoint = "Point"
	kindLine  = "Line"
)

func NewConstraintSet(name string) *ConstraintSet {
	return &ConstraintSet{name: name, kind: kindValue}
}

func (cs *ConstraintSet) Name() string { return cs.name }

func (cs *ConstraintSet) String() string { return cs.name }

// Constraints returns a copy of the constraints in insertion order.
func (cs *ConstraintSet) Constraints() []Constraint {
	return append([]Constraint(nil), cs.constraints...)
}

// Property returns the named child set, or nil.
func (cs *ConstraintSet) Property(name string) *ConstraintSet {
	return cs.props[name]
}

func (cs *ConstraintSet) addProperty(name string) *ConstraintSet {
	if cs.props == nil {
		cs.props = map[string]*ConstraintSet{}
	}
	child := NewConstraintSet(cs.name + "." + name)
	cs.props[name] = child
	return child
}

func (cs *ConstraintSet) propertyNames() []string {
	names := make([]string, 0, len(cs.props))
	for n := range cs.props {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ConstrainWith validates c, appends it unless an equal constraint is already
// present, then cascades it to properties and applies its reciprocal.
func (cs *ConstraintSet) ConstrainWith(c Constraint) error {
	if c == nil {
		return fmt.Errorf("%w: nil constraint on %s", ErrInvalidConstraint, cs.name)
	}
	if err := c.validate(cs); err != nil {
		return err
	}
	for _, existing := range cs.constraints {
		if existing.equal(c) {
			return nil
		}
	}
	cs.constraints = append(cs.constraints, c)
	if err := c.cascade(cs); err != nil {
		return err
	}
	return c.reciprocal(cs)
}

// Reset removes every constraint from cs and its properties.
func (cs *ConstraintSet) Reset() {
	cs.constraints = nil
	for _, p := range cs.props {
		p.Reset()
	}
}

// Resolve returns the value of cs. A fixed value on cs wins; otherwise linked
// sets are tried in order. Every set is visited at most once, so link cycles
// end in ErrUnderConstrained rather than recursing forever.
func (cs *ConstraintSet) Resolve() (float64, error) {
	return cs.resolve(map[*ConstraintSet]bool{})
}

func (cs *ConstraintSet) resolve(visited map[*ConstraintSet]bool) (float64, error) {
	visited[cs] = true

	for _, c := range cs.constraints {
		if f, ok := c.(FixedValue); ok {
			return f.Value, nil
		}
	}
	for _, c := range cs.constraints {
		l, ok := c.(LinkedValue)
		if !ok || visited[l.Set] {
			continue
		}
		v, err := l.Set.resolve(visited)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrUnderConstrained) {
			return 0, err
		}
	}
	return 0, fmt.Errorf("%w: %s has no fixed value", ErrUnderConstrained, cs.name)
}

// Describe renders cs as a tree: properties sorted by name inside the
// parentheses, constraints of cs inside the angle brackets.
func (cs *ConstraintSet) Describe() string {
	var b strings.Builder
	b.WriteString(cs.name)
	b.WriteString(": ")
	b.WriteString(cs.kind)

	names := cs.propertyNames()
	if len(names) == 0 {
		b.WriteString("()")
	} else {
		b.WriteString("(\n")
		for _, n := range names {
			b.WriteString(indent(cs.props[n].Describe()))
		}
		b.WriteString(")\n")
	}

	if len(cs.constraints) == 0 {
		b.WriteString("<>\n")
		return b.String()
	}
	b.WriteString("<\n")
	for _, c := range cs.constraints {
		b.WriteString(indent(c.String() + "\n"))
	}
	b.WriteString(">\n")
	return b.String()
}

func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(l)
	}
	return b.String()
}

// Assign replaces the constraints on target: a *ConstraintSet (or anything
// exposing one through Set) links to it, a number fixes it.
//
// Only the target is reset. Sets that were linked to the target keep their
// link, so they follow the new value: after linking a to b, assigning 5 to a
// makes b resolve to 5 as well.
func Assign(target *ConstraintSet, value any) error {
	var c Constraint
	switch v := value.(type) {
	case *ConstraintSet:
		c = Linked(v)
	case interface{ Set() *ConstraintSet }:
		c = Linked(v.Set())
	case float64:
		c = Fixed(v)
	case float32:
		c = Fixed(float64(v))
	case int:
		c = Fixed(float64(v))
	case int64:
		c = Fixed(float64(v))
	default:
		return fmt.Errorf("%w: cannot assign %T to %s", ErrInvalidConstraint, value, target.name)
	}
	target.Reset()
	return target.ConstrainWith(c)
}
