// Package geometry implements the orthogonal-line predicates and part
// arithmetic that sit beneath the layout and segment-tree packages.
// It is pure arithmetic over vocab types.
package geometry

import (
	"sort"

	"github.com/sarchlab/logiksim/vocab"
)

// Orientation derives the orientation a logic item must have for one
// of its endpoints to face away from `from` towards `to` along an
// orthogonal line — used to decide handshake compatibility between a
// wire endpoint and a pin. The X difference is tested first, so two
// points that differ on both axes get Right or Left. Panics only if
// the two points coincide (caller error: only ever called on an
// already-validated line).
func Orientation(from, to vocab.Point) vocab.Orientation {
	switch {
	case to.X > from.X:
		return vocab.Right
	case to.X < from.X:
		return vocab.Left
	case to.Y > from.Y:
		return vocab.Down
	case to.Y < from.Y:
		return vocab.Up
	default:
		panic("geometry: orientation undefined for coincident points")
	}
}

// SharedEndpoint returns the point the two lines have in common, if
// any, and whether they share exactly one endpoint pair.
func SharedEndpoint(a, b vocab.OrderedLine) (vocab.Point, bool) {
	switch {
	case a.P1 == b.P0:
		return a.P1, true
	case a.P0 == b.P1:
		return a.P0, true
	case a.P1 == b.P1 && a.P0 != b.P0:
		return a.P1, true
	case a.P0 == b.P0 && a.P1 != b.P1:
		return a.P0, true
	default:
		return vocab.Point{}, false
	}
}

// Collinear reports whether two ordered lines lie on the same
// infinite line (both horizontal at the same Y, or both vertical at
// the same X).
func Collinear(a, b vocab.OrderedLine) bool {
	if a.IsHorizontal() && b.IsHorizontal() {
		return a.P0.Y == b.P0.Y
	}
	if a.IsVertical() && b.IsVertical() {
		return a.P0.X == b.P0.X
	}
	return false
}

// PointOnLine reports whether p lies on the closed segment described
// by the ordered line (endpoints included).
func PointOnLine(l vocab.OrderedLine, p vocab.Point) bool {
	if l.IsHorizontal() {
		return p.Y == l.P0.Y && p.X >= l.P0.X && p.X <= l.P1.X
	}
	return p.X == l.P0.X && p.Y >= l.P0.Y && p.Y <= l.P1.Y
}

// GridPointsOn returns every grid point on the closed line, in order
// from P0 to P1.
func GridPointsOn(l vocab.OrderedLine) []vocab.Point {
	n := int(l.Length())
	pts := make([]vocab.Point, 0, n+1)
	for off := vocab.Offset(0); int(off) <= n; off++ {
		pts = append(pts, l.PointAtOffset(off))
	}
	return pts
}

// SplitPart splits `whole` at `at` (an offset strictly interior to
// `whole`) into two parts. Panics if `at` is not interior: a
// non-interior split is always a caller logic error.
func SplitPart(whole vocab.Part, at vocab.Offset) (left, right vocab.Part) {
	if at <= whole.Begin || at >= whole.End {
		panic("geometry: split position not interior to part")
	}
	return vocab.Part{Begin: whole.Begin, End: at}, vocab.Part{Begin: at, End: whole.End}
}

// TranslatePart shifts a part by delta offset units, used when parts
// are renumbered after a segment's origin point changes (e.g. a merge
// that keeps the lower segment's P0).
func TranslatePart(p vocab.Part, delta vocab.Offset) vocab.Part {
	return vocab.Part{Begin: p.Begin + delta, End: p.End + delta}
}

// SortedParts returns parts sorted by Begin offset.
func SortedParts(parts []vocab.Part) []vocab.Part {
	out := append([]vocab.Part(nil), parts...)
	sort.Slice(out, func(i, j int) bool { return out[i].Begin < out[j].Begin })
	return out
}

// NormalizeParts sorts parts and merges any that overlap or touch,
// maintaining the disjoint-sorted-non-adjacent invariant the segment
// tree's valid-parts lists and selection part lists both require.
func NormalizeParts(parts []vocab.Part) []vocab.Part {
	if len(parts) == 0 {
		return nil
	}
	sorted := SortedParts(parts)
	out := make([]vocab.Part, 0, len(sorted))
	cur := sorted[0]
	for _, p := range sorted[1:] {
		if p.Begin <= cur.End {
			cur = cur.Union(p)
			continue
		}
		out = append(out, cur)
		cur = p
	}
	out = append(out, cur)
	return out
}

// AddPart inserts `add` into a normalized parts list, merging touching
// or overlapping ranges, and returns the new normalized list.
func AddPart(parts []vocab.Part, add vocab.Part) []vocab.Part {
	return NormalizeParts(append(append([]vocab.Part(nil), parts...), add))
}

// RemovePart removes `sub` from a normalized parts list, splitting any
// part that partially overlaps it, and returns the new normalized
// list.
func RemovePart(parts []vocab.Part, sub vocab.Part) []vocab.Part {
	out := make([]vocab.Part, 0, len(parts)+1)
	for _, p := range parts {
		inter, ok := p.Intersection(sub)
		if !ok {
			out = append(out, p)
			continue
		}
		if p.Begin < inter.Begin {
			out = append(out, vocab.Part{Begin: p.Begin, End: inter.Begin})
		}
		if inter.End < p.End {
			out = append(out, vocab.Part{Begin: inter.End, End: p.End})
		}
	}
	return NormalizeParts(out)
}

// IntersectRangeFine computes the sub-part of `line` that falls
// within `rect`, used by visible-selection resolution to turn an area
// query result into a partial segment selection. Returns false if the
// line does not intersect the rect at all.
func IntersectRangeFine(line vocab.OrderedLine, rect vocab.Rect) (vocab.Part, bool) {
	var lo, hi vocab.Grid
	if line.IsHorizontal() {
		if line.P0.Y < rect.P0.Y || line.P0.Y > rect.P1.Y {
			return vocab.Part{}, false
		}
		lo, hi = rect.P0.X, rect.P1.X
		if lo < line.P0.X {
			lo = line.P0.X
		}
		if hi > line.P1.X {
			hi = line.P1.X
		}
		if lo > hi {
			return vocab.Part{}, false
		}
		return vocab.Part{Begin: vocab.Offset(lo - line.P0.X), End: vocab.Offset(hi - line.P0.X + 1)}, true
	}

	if line.P0.X < rect.P0.X || line.P0.X > rect.P1.X {
		return vocab.Part{}, false
	}
	lo, hi = rect.P0.Y, rect.P1.Y
	if lo < line.P0.Y {
		lo = line.P0.Y
	}
	if hi > line.P1.Y {
		hi = line.P1.Y
	}
	if lo > hi {
		return vocab.Part{}, false
	}
	return vocab.Part{Begin: vocab.Offset(lo - line.P0.Y), End: vocab.Offset(hi - line.P0.Y + 1)}, true
}
