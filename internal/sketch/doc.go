// Package sketch is a small constraint-propagation model for 2D geometry.
//
// A ConstraintSet stands for one unknown. Constraints either fix its value or
// link it to another set; links are always reciprocal and cascade to named
// properties, so linking a line's start to a point also links their x and y.
// Coincident places a point on a line and only marks the coordinates it
// touches as influenced. Resolve walks the links and tolerates cycles.
package sketch
