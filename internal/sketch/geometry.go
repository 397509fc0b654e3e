package sketch

import (
	"fmt"
	"math"
)

// Point owns its own x and y sets.
type Point struct {
	set *ConstraintSet
}

// NewPoint returns an unconstrained point.
func NewPoint(name string) *Point {
	p := &Point{set: NewConstraintSet(name)}
	p.set.kind = kindPoint
	p.set.addProperty("x")
	p.set.addProperty("y")
	return p
}

// NewFixedPoint returns a point with both coordinates fixed.
func NewFixedPoint(name string, x, y float64) *Point {
	p := NewPoint(name)
	// Fixed values never fail validation.
	_ = Assign(p.X(), x)
	_ = Assign(p.Y(), y)
	return p
}

func (p *Point) Name() string { return p.set.Name() }

func (p *Point) Set() *ConstraintSet { return p.set }

func (p *Point) X() *ConstraintSet { return p.set.Property("x") }

func (p *Point) Y() *ConstraintSet { return p.set.Property("y") }

func (p *Point) SetX(value any) error { return Assign(p.X(), value) }

func (p *Point) SetY(value any) error { return Assign(p.Y(), value) }

func (p *Point) String() string { return p.set.Name() }

func (p *Point) Describe() string { return p.set.Describe() }

// ConstrainWith adds c to the point itself, for example Coincident(line).
func (p *Point) ConstrainWith(c Constraint) error { return p.set.ConstrainWith(c) }

// Resolve returns both coordinates.
func (p *Point) Resolve() (x, y float64, err error) {
	if x, err = p.X().Resolve(); err != nil {
		return 0, 0, err
	}
	if y, err = p.Y().Resolve(); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// Line owns its own start and end points.
type Line struct {
	set   *ConstraintSet
	start *Point
	end   *Point
}

func NewLine(name string) *Line {
	l := &Line{set: NewConstraintSet(name)}
	l.set.kind = kindLine
	l.start = l.adopt("start")
	l.end = l.adopt("end")
	return l
}

// adopt creates a point stored as a property of the line, so links to the
// line cascade down to the point coordinates.
func (l *Line) adopt(name string) *Point {
	if l.set.props == nil {
		l.set.props = map[string]*ConstraintSet{}
	}
	p := NewPoint(l.set.Name() + "." + name)
	l.set.props[name] = p.set
	return p
}

func (l *Line) Name() string { return l.set.Name() }

func (l *Line) Set() *ConstraintSet { return l.set }

func (l *Line) Start() *Point { return l.start }

func (l *Line) End() *Point { return l.end }

// ConstrainWith adds c to the line itself, for example Coincident(point).
func (l *Line) ConstrainWith(c Constraint) error { return l.set.ConstrainWith(c) }

// SetStart links the start to p, coordinates included. To fix coordinates
// use Start().SetX and Start().SetY.
func (l *Line) SetStart(p *Point) error { return linkPoint(l.start, p) }

func (l *Line) SetEnd(p *Point) error { return linkPoint(l.end, p) }

func linkPoint(dst, src *Point) error {
	if src == nil {
		return fmt.Errorf("%w: cannot link %s to nil point", ErrInvalidConstraint, dst.Name())
	}
	return Assign(dst.set, src.set)
}

// Length resolves both ends and returns the Euclidean distance between them.
func (l *Line) Length() (float64, error) {
	x1, y1, err := l.start.Resolve()
	if err != nil {
		return 0, err
	}
	x2, y2, err := l.end.Resolve()
	if err != nil {
		return 0, err
	}
	return math.Hypot(x2-x1, y2-y1), nil
}

// Describe renders the line with both ends and their coordinates.
func (l *Line) Describe() string { return l.set.Describe() }
