package vocab

import "fmt"

// Offset is a 1-D coordinate along a segment's ordered line, measured
// from P0. Offsets are always non-negative and at most the segment's
// length.
type Offset int32

// Part is a half-open-by-convention sub-range [Begin, End) along a
// segment's ordered line, with Begin < End strictly enforced at
// construction.
type Part struct {
	Begin, End Offset
}

// NewPart builds a Part, panicking if begin is not strictly less than
// end (spec: invariant enforced at construction).
func NewPart(begin, end Offset) Part {
	if begin >= end {
		panic(fmt.Sprintf("vocab: invalid part [%d, %d)", begin, end))
	}
	return Part{Begin: begin, End: end}
}

// Length returns End-Begin.
func (p Part) Length() Offset {
	return p.End - p.Begin
}

// Overlaps reports whether p and o share any offset.
func (p Part) Overlaps(o Part) bool {
	return p.Begin < o.End && o.Begin < p.End
}

// Touches reports whether p and o are adjacent (share a boundary but
// do not overlap) — such pairs must be merged in a valid-parts list.
func (p Part) Touches(o Part) bool {
	return p.End == o.Begin || o.End == p.Begin
}

// Contains reports whether o is fully contained in p.
func (p Part) Contains(o Part) bool {
	return p.Begin <= o.Begin && o.End <= p.End
}

// Intersection returns the overlapping sub-range of p and o, and
// whether one exists.
func (p Part) Intersection(o Part) (Part, bool) {
	begin := maxOffset(p.Begin, o.Begin)
	end := minOffset(p.End, o.End)
	if begin >= end {
		return Part{}, false
	}
	return Part{Begin: begin, End: end}, true
}

// Union merges p and o, which must overlap or touch.
func (p Part) Union(o Part) Part {
	return Part{Begin: minOffset(p.Begin, o.Begin), End: maxOffset(p.End, o.End)}
}

func (p Part) String() string {
	return fmt.Sprintf("[%d, %d)", p.Begin, p.End)
}

func minOffset(a, b Offset) Offset {
	if a < b {
		return a
	}
	return b
}

func maxOffset(a, b Offset) Offset {
	if a > b {
		return a
	}
	return b
}
