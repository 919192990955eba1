package vocab

import "fmt"

// Line is any orthogonal (axis-aligned) line between two distinct
// grid points. It does not guarantee endpoint order.
type Line struct {
	P0, P1 Point
}

// IsOrthogonal reports whether the line is horizontal or vertical and
// has distinct endpoints.
func (l Line) IsOrthogonal() bool {
	if l.P0 == l.P1 {
		return false
	}
	return l.P0.X == l.P1.X || l.P0.Y == l.P1.Y
}

// IsHorizontal reports whether the line runs along the X axis.
func (l Line) IsHorizontal() bool {
	return l.P0.Y == l.P1.Y
}

// IsVertical reports whether the line runs along the Y axis.
func (l Line) IsVertical() bool {
	return l.P0.X == l.P1.X
}

// Length returns the Manhattan length of the line (equal to Euclidean
// length for an orthogonal line).
func (l Line) Length() Grid {
	dx := l.P1.X - l.P0.X
	if dx < 0 {
		dx = -dx
	}
	dy := l.P1.Y - l.P0.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func (l Line) String() string {
	return fmt.Sprintf("%s-%s", l.P0, l.P1)
}

// OrderedLine is a Line normalized so that P0 < P1 lexicographically.
type OrderedLine struct {
	P0, P1 Point
}

// NewOrderedLine builds an OrderedLine from two points, swapping them
// if necessary. Panics if the line is not a valid orthogonal line
// (spec: invariants enforced at construction) or the points coincide.
func NewOrderedLine(a, b Point) OrderedLine {
	l := Line{P0: a, P1: b}
	if !l.IsOrthogonal() {
		panic(fmt.Sprintf("vocab: not an orthogonal line: %s-%s", a, b))
	}
	if b.Less(a) {
		a, b = b, a
	}
	return OrderedLine{P0: a, P1: b}
}

// Line returns the unordered view of the line.
func (o OrderedLine) Line() Line {
	return Line{P0: o.P0, P1: o.P1}
}

func (o OrderedLine) IsHorizontal() bool { return o.P0.Y == o.P1.Y }
func (o OrderedLine) IsVertical() bool   { return o.P0.X == o.P1.X }

// Length returns the line's Manhattan length.
func (o OrderedLine) Length() Grid {
	return o.Line().Length()
}

// PointAtOffset returns the grid point at the given offset along the
// ordered line, measuring from P0.
func (o OrderedLine) PointAtOffset(off Offset) Point {
	if o.IsHorizontal() {
		return Point{X: o.P0.X + Grid(off), Y: o.P0.Y}
	}
	return Point{X: o.P0.X, Y: o.P0.Y + Grid(off)}
}

// OffsetOf returns the offset of p along the ordered line. Panics if p
// is not collinear with the line (caller error).
func (o OrderedLine) OffsetOf(p Point) Offset {
	if o.IsHorizontal() {
		if p.Y != o.P0.Y {
			panic("vocab: point not collinear with horizontal line")
		}
		return Offset(p.X - o.P0.X)
	}
	if p.X != o.P0.X {
		panic("vocab: point not collinear with vertical line")
	}
	return Offset(p.Y - o.P0.Y)
}

func (o OrderedLine) String() string {
	return fmt.Sprintf("%s-%s", o.P0, o.P1)
}

// Rect is an axis-aligned rectangle with P0.X<=P1.X and P0.Y<=P1.Y.
type Rect struct {
	P0, P1 Point
}

// NewRect builds a normalized rectangle from two arbitrary corners.
func NewRect(a, b Point) Rect {
	x0, x1 := a.X, b.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{P0: Point{X: x0, Y: y0}, P1: Point{X: x1, Y: y1}}
}

// Contains reports whether p lies within the (closed) rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.P0.X && p.X <= r.P1.X && p.Y >= r.P0.Y && p.Y <= r.P1.Y
}

// Intersects reports whether r and o overlap (closed rectangles).
func (r Rect) Intersects(o Rect) bool {
	return r.P0.X <= o.P1.X && o.P0.X <= r.P1.X &&
		r.P0.Y <= o.P1.Y && o.P0.Y <= r.P1.Y
}

// Expanded returns r grown by margin grid units on every side.
func (r Rect) Expanded(margin Grid) Rect {
	return Rect{
		P0: Point{X: r.P0.X - margin, Y: r.P0.Y - margin},
		P1: Point{X: r.P1.X + margin, Y: r.P1.Y + margin},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%s, %s]", r.P0, r.P1)
}
