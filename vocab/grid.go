// Package vocab defines the strongly typed vocabulary of the editable
// circuit core: grid coordinates, lines, rectangles, parts, and the
// dense/stable identifiers used throughout the rest of the module.
package vocab

import "fmt"

// GridMin and GridMax bound the representable integer grid. A 16-bit
// signed range is enough for any real layout; kept as int32 bounds so
// arithmetic (e.g. distances) never overflows before a range check.
const (
	GridMin int32 = -32768
	GridMax int32 = 32767
)

// Grid is a single signed integer grid coordinate.
type Grid int32

// InRange reports whether g lies within [GridMin, GridMax].
func (g Grid) InRange() bool {
	return g >= Grid(GridMin) && g <= Grid(GridMax)
}

func (g Grid) String() string {
	return fmt.Sprintf("%d", int32(g))
}

// Point is a point on the integer grid.
type Point struct {
	X, Y Grid
}

// InRange reports whether both coordinates of p are representable.
func (p Point) InRange() bool {
	return p.X.InRange() && p.Y.InRange()
}

// Less implements the lexicographic order used to normalize lines:
// (x0, y0) < (x1, y1) iff x0 < x1, or x0 == x1 and y0 < y1.
func (p Point) Less(o Point) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", int32(p.X), int32(p.Y))
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy Grid) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// PointFine is a fractional-coordinate point, used only at the UI
// boundary for selection rectangles and hit tests.
type PointFine struct {
	X, Y float64
}

// ToGridFloor rounds toward negative infinity, the deterministic
// fine-to-grid conversion applied at mutation time.
func (p PointFine) ToGridFloor() Point {
	return Point{X: Grid(floorInt(p.X)), Y: Grid(floorInt(p.Y))}
}

func floorInt(f float64) int32 {
	i := int32(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return i
}

// RectFine is a fractional-coordinate axis-aligned rectangle, used for
// selection-rectangle and spatial-query inputs from the UI.
type RectFine struct {
	P0, P1 PointFine
}

// Normalized returns r with P0 <= P1 componentwise.
func (r RectFine) Normalized() RectFine {
	x0, x1 := r.P0.X, r.P1.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := r.P0.Y, r.P1.Y
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return RectFine{P0: PointFine{X: x0, Y: y0}, P1: PointFine{X: x1, Y: y1}}
}
