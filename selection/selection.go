// Package selection implements three selection views: a dense-id-
// valued Selection, a stable-key-valued StableSelection that survives
// arbitrary layout edits, and a VisibleSelection that replays an
// ordered rectangle-operation list against the spatial index with
// memoized resolution.
package selection

import (
	"sort"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/geometry"
	"github.com/sarchlab/logiksim/index/keyindex"
	"github.com/sarchlab/logiksim/index/spatial"
	"github.com/sarchlab/logiksim/vocab"
)

// Selection is a dense-id-valued view of the current layout: a set of
// logic items, a set of decorations, and a per-segment set of parts.
type Selection struct {
	LogicItems  map[vocab.LogicItemID]struct{}
	Decorations map[vocab.DecorationID]struct{}
	Segments    map[vocab.Segment][]vocab.Part
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{
		LogicItems:  make(map[vocab.LogicItemID]struct{}),
		Decorations: make(map[vocab.DecorationID]struct{}),
		Segments:    make(map[vocab.Segment][]vocab.Part),
	}
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	out := NewSelection()
	for id := range s.LogicItems {
		out.LogicItems[id] = struct{}{}
	}
	for id := range s.Decorations {
		out.Decorations[id] = struct{}{}
	}
	for seg, parts := range s.Segments {
		out.Segments[seg] = append([]vocab.Part(nil), parts...)
	}
	return out
}

// AddLogicItem adds id to the selection.
func (s Selection) AddLogicItem(id vocab.LogicItemID) { s.LogicItems[id] = struct{}{} }

// RemoveLogicItem removes id from the selection.
func (s Selection) RemoveLogicItem(id vocab.LogicItemID) { delete(s.LogicItems, id) }

// AddDecoration adds id to the selection.
func (s Selection) AddDecoration(id vocab.DecorationID) { s.Decorations[id] = struct{}{} }

// RemoveDecoration removes id from the selection.
func (s Selection) RemoveDecoration(id vocab.DecorationID) { delete(s.Decorations, id) }

// AddSegmentPart adds part of seg to the selection, merging with any
// touching or overlapping part already present.
func (s Selection) AddSegmentPart(seg vocab.Segment, part vocab.Part) {
	s.Segments[seg] = geometry.AddPart(s.Segments[seg], part)
}

// RemoveSegmentPart removes part of seg from the selection, splitting
// any part that only partially overlaps it. A segment with no parts
// left is dropped from the map entirely.
func (s Selection) RemoveSegmentPart(seg vocab.Segment, part vocab.Part) {
	remaining := geometry.RemovePart(s.Segments[seg], part)
	if len(remaining) == 0 {
		delete(s.Segments, seg)
		return
	}
	s.Segments[seg] = remaining
}

// Empty reports whether the selection contains nothing.
func (s Selection) Empty() bool {
	return len(s.LogicItems) == 0 && len(s.Decorations) == 0 && len(s.Segments) == 0
}

// Submit keeps the selection's segment-keyed entries consistent with
// dense-id churn: a segment id-update relabels the map key, and a
// part-delete/move retracts or relocates the selected sub-range.
// Logic item/decoration id-updates relabel their set membership the
// same way. This lets a Selection outlive a swap-and-pop reshuffle
// that happens to affect one of its members: operations over deleted
// geometry become no-ops after message propagation.
func (s Selection) Submit(m bus.Message) {
	switch m.Kind {
	case bus.KindLogicItemIDUpdated:
		if _, ok := s.LogicItems[m.LogicItemIDUpdated.Old]; ok {
			delete(s.LogicItems, m.LogicItemIDUpdated.Old)
			s.LogicItems[m.LogicItemIDUpdated.New] = struct{}{}
		}
	case bus.KindLogicItemDeleted:
		delete(s.LogicItems, m.LogicItemDeleted.ID)
	case bus.KindDecorationIDUpdated:
		if _, ok := s.Decorations[m.DecorationIDUpdated.Old]; ok {
			delete(s.Decorations, m.DecorationIDUpdated.Old)
			s.Decorations[m.DecorationIDUpdated.New] = struct{}{}
		}
	case bus.KindDecorationDeleted:
		delete(s.Decorations, m.DecorationDeleted.ID)
	case bus.KindSegmentIDUpdated:
		if parts, ok := s.Segments[m.SegmentIDUpdated.Old]; ok {
			delete(s.Segments, m.SegmentIDUpdated.Old)
			s.Segments[m.SegmentIDUpdated.New] = parts
		}
	case bus.KindSegmentPartDeleted:
		s.RemoveSegmentPart(m.SegmentPartDeleted.Part.Segment, m.SegmentPartDeleted.Part.Part)
	case bus.KindSegmentPartMoved:
		mv := m.SegmentPartMoved
		if parts, ok := s.Segments[mv.Source.Segment]; ok {
			if overlap, found := overlapLength(parts, mv.Source.Part); found {
				s.RemoveSegmentPart(mv.Source.Segment, mv.Source.Part)
				s.AddSegmentPart(mv.Destination.Segment, shiftPart(mv.Source.Part, mv.Destination.Part, overlap))
			}
		}
	}
}

// overlapLength reports whether any selected part overlaps src, used
// to decide whether a SegmentPartMoved event touches this selection at
// all (the selection's own part list, not the segment's valid parts).
func overlapLength(parts []vocab.Part, src vocab.Part) (vocab.Part, bool) {
	for _, p := range parts {
		if inter, ok := p.Intersection(src); ok {
			return inter, true
		}
	}
	return vocab.Part{}, false
}

// shiftPart maps an intersection computed against the source part
// onto the destination part's coordinate space; since SegmentPartMoved
// always carries source and destination parts of equal length, a
// simple offset translation suffices.
func shiftPart(src, dst vocab.Part, srcOverlap vocab.Part) vocab.Part {
	delta := dst.Begin - src.Begin
	return vocab.Part{Begin: srcOverlap.Begin + delta, End: srcOverlap.End + delta}
}

// StableSelection is the key-valued analogue of Selection, built to
// survive arbitrary layout edits. Each selected segment sub-range is
// recorded as its stable key *plus* the absolute OrderedLine range it
// covered at capture time (not a DecorationKey), since only the
// absolute line lets to_selection re-derive offsets after the
// segment's underlying geometry has since split or shifted index.
type StableSelection struct {
	LogicItems  []vocab.LogicItemKey
	Decorations []vocab.DecorationKey
	Segments    map[vocab.SegmentKey][]vocab.OrderedLine
}

// ToStableSelection converts a dense Selection into its stable-key
// form via the key index. Only logic items and decorations are
// carried over: segment parts are not recorded, and the returned
// Segments map is always empty.
func ToStableSelection(sel Selection, ki *keyindex.KeyIndex) StableSelection {
	out := StableSelection{Segments: make(map[vocab.SegmentKey][]vocab.OrderedLine)}
	for id := range sel.LogicItems {
		out.LogicItems = append(out.LogicItems, ki.LogicItemKey(id))
	}
	for id := range sel.Decorations {
		out.Decorations = append(out.Decorations, ki.DecorationKey(id))
	}
	sort.Slice(out.LogicItems, func(i, j int) bool { return out.LogicItems[i] < out.LogicItems[j] })
	sort.Slice(out.Decorations, func(i, j int) bool { return out.Decorations[i] < out.Decorations[j] })
	return out
}

// ToSelection converts a StableSelection back into a dense Selection
// via the key index, dropping any key whose entity no longer exists.
// to_selection(to_stable_selection(sel, ki), ki) = sel holds for the
// logic items and decorations of sel, and only for a key index taken
// at the same moment; a later key index legitimately drops retired
// keys.
func ToSelection(ss StableSelection, ki *keyindex.KeyIndex) Selection {
	out := NewSelection()
	for _, key := range ss.LogicItems {
		if id := ki.LogicItemID(key); id.Valid() {
			out.AddLogicItem(id)
		}
	}
	for _, key := range ss.Decorations {
		if id := ki.DecorationID(key); id.Valid() {
			out.AddDecoration(id)
		}
	}
	// Absolute-line -> part_t translation needs the live SegmentTree
	// (to turn each OrderedLine back into an offset range), which is
	// not available here, so only which segments still exist is
	// resolved: each surviving segment is entered with no parts.
	for key := range ss.Segments {
		if seg := ki.Segment(key); seg.Valid() {
			if _, ok := out.Segments[seg]; !ok {
				out.Segments[seg] = nil
			}
		}
	}
	return out
}

// VisibleSelection is the interactively edited selection: an initial
// Selection plus an ordered list of pending rectangle operations,
// resolved lazily and memoized.
type VisibleSelection struct {
	initial    Selection
	operations []operation

	cached      *Selection
	cachedAtGen uint64
	haveCache   bool
}

type operation struct {
	fn   vocab.SelectionFunction
	rect vocab.RectFine
}

// NewVisibleSelection returns a VisibleSelection seeded with initial.
func NewVisibleSelection(initial Selection) *VisibleSelection {
	return &VisibleSelection{initial: initial.Clone()}
}

// Add appends a pending operation.
func (v *VisibleSelection) Add(fn vocab.SelectionFunction, rect vocab.RectFine) {
	v.operations = append(v.operations, operation{fn: fn, rect: rect})
	v.invalidate()
}

// UpdateLast mutates the tail operation's rectangle, used while
// rubber-banding a drag-select.
func (v *VisibleSelection) UpdateLast(rect vocab.RectFine) {
	if len(v.operations) == 0 {
		return
	}
	v.operations[len(v.operations)-1].rect = rect
	v.invalidate()
}

// PopLast removes the tail operation.
func (v *VisibleSelection) PopLast() {
	if len(v.operations) == 0 {
		return
	}
	v.operations = v.operations[:len(v.operations)-1]
	v.invalidate()
}

// ApplyAll folds every pending operation into the initial selection
// and clears the operation list, keeping the resolved result fixed.
func (v *VisibleSelection) ApplyAll(sp *spatial.Index) {
	v.initial = v.resolve(sp)
	v.operations = nil
	v.invalidate()
}

func (v *VisibleSelection) invalidate() {
	v.haveCache = false
	v.cached = nil
}

// Resolve returns the resolved Selection, recomputing only if the
// cache is stale for the given layout generation (a
// generation_index-style invalidation scheme — see DESIGN.md). Passing
// the same generation twice without an intervening
// Add/UpdateLast/PopLast/Submit returns the memoized result without
// requerying the spatial index.
func (v *VisibleSelection) Resolve(sp *spatial.Index, generation uint64) Selection {
	if v.haveCache && v.cachedAtGen == generation {
		return v.cached.Clone()
	}
	resolved := v.resolve(sp)
	v.cached = &resolved
	v.cachedAtGen = generation
	v.haveCache = true
	return resolved.Clone()
}

func (v *VisibleSelection) resolve(sp *spatial.Index) Selection {
	result := v.initial.Clone()
	for _, op := range v.operations {
		rect := vocab.NewRect(
			vocab.Point{X: vocab.Grid(op.rect.P0.X), Y: vocab.Grid(op.rect.P0.Y)},
			vocab.Point{X: vocab.Grid(op.rect.P1.X), Y: vocab.Grid(op.rect.P1.Y)},
		)
		for _, payload := range sp.QuerySelection(rect) {
			switch payload.Kind {
			case spatial.PayloadLogicItem:
				if op.fn == vocab.Add {
					result.AddLogicItem(payload.LogicItem)
				} else {
					result.RemoveLogicItem(payload.LogicItem)
				}
			case spatial.PayloadSegment:
				// Segments are left untouched: a rectangle operation
				// adds or removes logic items only, and no segment part
				// is selected or deselected here.
			}
		}
	}
	return result
}

// Submit forwards structural messages to both the initial selection
// and any memoized resolution, and invalidates the cache on anything
// that could change membership.
func (v *VisibleSelection) Submit(m bus.Message) {
	v.initial.Submit(m)
	if v.cached != nil {
		v.cached.Submit(m)
	}
	switch m.Kind {
	case bus.KindLogicItemInserted, bus.KindLogicItemUninserted,
		bus.KindDecorationInserted, bus.KindDecorationUninserted,
		bus.KindSegmentInserted, bus.KindSegmentUninserted:
		v.invalidate()
	}
}
