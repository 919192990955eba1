package vocab

import "fmt"

// NullID is the sentinel value for "no id" across every dense/stable
// id type below.
const NullID = -1

// LogicItemID is a dense, recycled (swap-and-pop) identifier for a
// logic item.
type LogicItemID int32

// Valid reports whether the id refers to a (possibly live) slot, i.e.
// is not the null sentinel.
func (id LogicItemID) Valid() bool { return id != NullID }

func (id LogicItemID) String() string {
	if !id.Valid() {
		return "LogicItem(null)"
	}
	return fmt.Sprintf("LogicItem(%d)", int32(id))
}

// DecorationID is a dense, recycled identifier for a decoration.
type DecorationID int32

func (id DecorationID) Valid() bool { return id != NullID }
func (id DecorationID) String() string {
	if !id.Valid() {
		return "Decoration(null)"
	}
	return fmt.Sprintf("Decoration(%d)", int32(id))
}

// WireID is a dense, recycled identifier for a wire (a segment tree).
type WireID int32

func (id WireID) Valid() bool { return id != NullID }
func (id WireID) String() string {
	if !id.Valid() {
		return "Wire(null)"
	}
	return fmt.Sprintf("Wire(%d)", int32(id))
}

// SegmentIndex is a dense, recycled identifier for a segment within a
// single wire's segment tree.
type SegmentIndex int32

func (id SegmentIndex) Valid() bool { return id != NullID }

// Segment identifies one segment of one wire.
type Segment struct {
	Wire  WireID
	Index SegmentIndex
}

func (s Segment) Valid() bool { return s.Wire.Valid() && s.Index.Valid() }

func (s Segment) String() string {
	return fmt.Sprintf("Segment(%s, %d)", s.Wire, int32(s.Index))
}

// SegmentPart names a sub-range of one segment's ordered line.
type SegmentPart struct {
	Segment Segment
	Part    Part
}

func (sp SegmentPart) String() string {
	return fmt.Sprintf("%s%s", sp.Segment, sp.Part)
}

// LogicItemKey is a monotonically assigned, never-reused identifier
// for a logic item, stable across dense-id reshuffling.
type LogicItemKey int64

func (k LogicItemKey) Valid() bool { return k != NullID }

// DecorationKey is the stable-key analogue for decorations.
type DecorationKey int64

func (k DecorationKey) Valid() bool { return k != NullID }

// SegmentKey is the stable-key analogue for a single segment. Because
// segments split and merge, a SegmentKey alone does not locate
// geometry after an edit; pair it with an absolute OrderedLine when
// persisting across edits (see selection.StableSelection).
type SegmentKey int64

func (k SegmentKey) Valid() bool { return k != NullID }
