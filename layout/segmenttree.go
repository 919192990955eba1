package layout

import (
	"fmt"
	"unsafe"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/geometry"
	"github.com/sarchlab/logiksim/vocab"
)

// segmentEntry is one line of a wire's segment tree, with its
// per-endpoint types and its valid-parts list.
type segmentEntry struct {
	line       vocab.OrderedLine
	p0Type     vocab.PointType
	p1Type     vocab.PointType
	validParts []vocab.Part // sorted, disjoint, non-adjacent
}

// SegmentTree is the per-wire container of line segments. It is a
// pure data structure: it does not know its own wire id and does not
// emit bus messages itself — callers (the editing operations in
// package editablecircuit) own that responsibility, since only they
// know which wire this tree belongs to and whether the wire is
// currently inserted.
type SegmentTree struct {
	segments []segmentEntry
}

// Len returns the number of segments in the tree.
func (t *SegmentTree) Len() int {
	return len(t.segments)
}

// AllocatedSize approximates the tree's backing-slice byte usage,
// the Go analog of the C++ segment_tree's allocated_size().
func (t *SegmentTree) AllocatedSize() int {
	total := len(t.segments) * int(unsafe.Sizeof(segmentEntry{}))
	for _, e := range t.segments {
		total += len(e.validParts) * int(unsafe.Sizeof(vocab.Part{}))
	}
	return total
}

// Indices returns every currently live segment index, in dense order.
func (t *SegmentTree) Indices() []vocab.SegmentIndex {
	out := make([]vocab.SegmentIndex, len(t.segments))
	for i := range t.segments {
		out[i] = vocab.SegmentIndex(i)
	}
	return out
}

func (t *SegmentTree) mustExist(idx vocab.SegmentIndex) {
	if idx < 0 || int(idx) >= len(t.segments) {
		panic(fmt.Sprintf("layout: segment index %d out of range [0, %d)", idx, len(t.segments)))
	}
}

// Info returns the current SegmentInfo for idx.
func (t *SegmentTree) Info(idx vocab.SegmentIndex) bus.SegmentInfo {
	t.mustExist(idx)
	e := t.segments[idx]
	return bus.SegmentInfo{Line: e.line, P0Type: e.p0Type, P1Type: e.p1Type}
}

// Part returns the full [0, length) part of the segment at idx.
func (t *SegmentTree) Part(idx vocab.SegmentIndex) vocab.Part {
	t.mustExist(idx)
	return vocab.Part{Begin: 0, End: vocab.Offset(t.segments[idx].line.Length())}
}

// ValidParts returns the segment's current valid-parts list.
func (t *SegmentTree) ValidParts(idx vocab.SegmentIndex) []vocab.Part {
	t.mustExist(idx)
	return append([]vocab.Part(nil), t.segments[idx].validParts...)
}

// AddSegment appends a new segment with new_unknown endpoint types and
// an empty valid-parts list, and returns its dense index.
func (t *SegmentTree) AddSegment(line vocab.OrderedLine) vocab.SegmentIndex {
	t.segments = append(t.segments, segmentEntry{
		line:   line,
		p0Type: vocab.NewUnknown,
		p1Type: vocab.NewUnknown,
	})
	return vocab.SegmentIndex(len(t.segments) - 1)
}

// RemoveSegment removes the segment at idx via swap-and-pop. It
// returns whether another segment was moved into idx's slot and, if
// so, that segment's prior index — the caller uses this to emit
// SegmentIdUpdated whenever the moved segment is not the last.
func (t *SegmentTree) RemoveSegment(idx vocab.SegmentIndex) (movedFrom vocab.SegmentIndex, moved bool) {
	t.mustExist(idx)
	last := vocab.SegmentIndex(len(t.segments) - 1)
	if idx != last {
		t.segments[idx] = t.segments[last]
		moved = true
		movedFrom = last
	}
	t.segments = t.segments[:last]
	return movedFrom, moved
}

// UpdateEndpointTypes sets the endpoint types of the segment at idx
// and returns the prior SegmentInfo, so the caller can decide whether
// to emit InsertedEndPointsUpdated (only meaningful if the wire is
// inserted).
func (t *SegmentTree) UpdateEndpointTypes(idx vocab.SegmentIndex, p0, p1 vocab.PointType) bus.SegmentInfo {
	t.mustExist(idx)
	old := t.Info(idx)
	t.segments[idx].p0Type = p0
	t.segments[idx].p1Type = p1
	return old
}

// SetLine replaces the geometry of the segment at idx, used by split
// to shrink the retained half and by merge to extend the surviving
// half. Endpoint types for the unaffected endpoint are preserved by
// the caller via UpdateEndpointTypes; valid parts are the caller's
// responsibility too (offset arithmetic depends on which end moved).
func (t *SegmentTree) SetLine(idx vocab.SegmentIndex, line vocab.OrderedLine) {
	t.mustExist(idx)
	t.segments[idx].line = line
}

// SetValidParts overwrites the valid-parts list outright (used after
// recomputing it during a split/merge); callers must pass an already
// normalized (sorted, disjoint, non-adjacent) list.
func (t *SegmentTree) SetValidParts(idx vocab.SegmentIndex, parts []vocab.Part) {
	t.mustExist(idx)
	t.segments[idx].validParts = append([]vocab.Part(nil), parts...)
}

// MarkValid adds part to the segment's valid-parts list, merging with
// any touching or overlapping existing parts.
func (t *SegmentTree) MarkValid(idx vocab.SegmentIndex, part vocab.Part) {
	t.mustExist(idx)
	t.segments[idx].validParts = geometry.AddPart(t.segments[idx].validParts, part)
}

// UnmarkValid removes part from the segment's valid-parts list,
// splitting any part that only partially overlaps it.
func (t *SegmentTree) UnmarkValid(idx vocab.SegmentIndex, part vocab.Part) {
	t.mustExist(idx)
	t.segments[idx].validParts = geometry.RemovePart(t.segments[idx].validParts, part)
}

// Clone returns a deep copy of the tree, used when a snapshot must
// outlive further mutation (e.g. history payloads).
func (t *SegmentTree) Clone() SegmentTree {
	out := SegmentTree{segments: make([]segmentEntry, len(t.segments))}
	for i, e := range t.segments {
		out.segments[i] = segmentEntry{
			line:       e.line,
			p0Type:     e.p0Type,
			p1Type:     e.p1Type,
			validParts: append([]vocab.Part(nil), e.validParts...),
		}
	}
	return out
}
