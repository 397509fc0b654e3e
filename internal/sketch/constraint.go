package sketch

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidConstraint is returned when a constraint cannot apply to a set.
var ErrInvalidConstraint = errors.New("invalid constraint")

// Constraint restricts the value of a ConstraintSet.
type Constraint interface {
	fmt.Stringer

	// validate rejects sets the constraint makes no sense for.
	validate(cs *ConstraintSet) error
	// cascade applies matching constraints to the properties of cs.
	cascade(cs *ConstraintSet) error
	// reciprocal applies the mirror constraint to the other side, if any.
	reciprocal(cs *ConstraintSet) error
	equal(other Constraint) bool
}

// FixedValue pins a set to a value.
type FixedValue struct {
	Value float64
}

func Fixed(v float64) FixedValue { return FixedValue{Value: v} }

func (c FixedValue) String() string {
	return "FixedValueConstraint<" + strconv.FormatFloat(c.Value, 'g', -1, 64) + ">"
}

func (FixedValue) validate(*ConstraintSet) error   { return nil }
func (FixedValue) cascade(*ConstraintSet) error    { return nil }
func (FixedValue) reciprocal(*ConstraintSet) error { return nil }

func (c FixedValue) equal(other Constraint) bool {
	o, ok := other.(FixedValue)
	return ok && o.Value == c.Value
}

// LinkedValue makes a set take whatever value another set resolves to.
type LinkedValue struct {
	Set *ConstraintSet
}

func Linked(cs *ConstraintSet) LinkedValue { return LinkedValue{Set: cs} }

func (c LinkedValue) String() string {
	if c.Set == nil {
		return "LinkedValueConstraint<nil>"
	}
	return "LinkedValueConstraint<" + c.Set.Name() + ">"
}

func (c LinkedValue) validate(cs *ConstraintSet) error {
	if c.Set == nil {
		return fmt.Errorf("%w: %s cannot link to nil", ErrInvalidConstraint, cs.Name())
	}
	if c.Set == cs {
		return fmt.Errorf("%w: %s cannot link to itself", ErrInvalidConstraint, cs.Name())
	}
	return nil
}

// cascade links every property of cs to the property of the same name on the
// linked set.
func (c LinkedValue) cascade(cs *ConstraintSet) error {
	for _, name := range cs.propertyNames() {
		other, ok := c.Set.props[name]
		if !ok {
			continue
		}
		if err := cs.props[name].ConstrainWith(Linked(other)); err != nil {
			return err
		}
	}
	return nil
}

func (c LinkedValue) reciprocal(cs *ConstraintSet) error {
	return c.Set.ConstrainWith(Linked(cs))
}

func (c LinkedValue) equal(other Constraint) bool {
	o, ok := other.(LinkedValue)
	return ok && o.Set == c.Set
}

// InfluencedValue records that a set is affected by another constraint
// without determining its value.
type InfluencedValue struct {
	By Constraint
}

func Influenced(c Constraint) InfluencedValue { return InfluencedValue{By: c} }

func (c InfluencedValue) String() string {
	if c.By == nil {
		return "InfluencedConstraint<nil>"
	}
	return "InfluencedConstraint<" + c.By.String() + ">"
}

func (c InfluencedValue) validate(cs *ConstraintSet) error {
	if c.By == nil {
		return fmt.Errorf("%w: %s cannot be influenced by nil", ErrInvalidConstraint, cs.Name())
	}
	return nil
}

func (InfluencedValue) cascade(*ConstraintSet) error    { return nil }
func (InfluencedValue) reciprocal(*ConstraintSet) error { return nil }

func (c InfluencedValue) equal(other Constraint) bool {
	o, ok := other.(InfluencedValue)
	return ok && c.By != nil && o.By != nil && c.By.equal(o.By)
}

// CoincidentValue places a point on a line. Built from a line it applies to
// points, built from a point it applies to lines. It marks the coordinates
// it touches as influenced but does not fix them.
type CoincidentValue struct {
	With *ConstraintSet
}

// Coincident accepts a *Point, a *Line or their sets.
func Coincident(shape interface{ Set() *ConstraintSet }) CoincidentValue {
	if shape == nil {
		return CoincidentValue{}
	}
	return CoincidentValue{With: shape.Set()}
}

func (c CoincidentValue) String() string {
	if c.With == nil {
		return "CoincidentConstraint<nil>"
	}
	return "CoincidentConstraint<" + c.With.Name() + ">"
}

func (c CoincidentValue) validate(cs *ConstraintSet) error {
	if c.With == nil {
		return fmt.Errorf("%w: %s cannot be coincident with nil", ErrInvalidConstraint, cs.Name())
	}
	switch c.With.kind {
	case kindLine:
		if cs.kind != kindPoint {
			return fmt.Errorf("%w: coincident with a line applies to a point, not %s %s",
				ErrInvalidConstraint, cs.kind, cs.Name())
		}
	case kindPoint:
		if cs.kind != kindLine {
			return fmt.Errorf("%w: coincident with a point applies to a line, not %s %s",
				ErrInvalidConstraint, cs.kind, cs.Name())
		}
	default:
		return fmt.Errorf("%w: coincident needs a point or a line, got %s %s",
			ErrInvalidConstraint, c.With.kind, c.With.Name())
	}
	return nil
}

// cascade marks x and y of a point, or start and end of a line.
func (c CoincidentValue) cascade(cs *ConstraintSet) error {
	props := []string{"start", "end"}
	if c.With.kind == kindLine {
		props = []string{"x", "y"}
	}
	for _, name := range props {
		if err := cs.props[name].ConstrainWith(Influenced(c)); err != nil {
			return err
		}
	}
	return nil
}

func (CoincidentValue) reciprocal(*ConstraintSet) error { return nil }

func (c CoincidentValue) equal(other Constraint) bool {
	o, ok := other.(CoincidentValue)
	return ok && o.With == c.With
}
