// Package collision implements a point-occupancy map: a position
// collides with at most one meaningful combination of logic-item
// body, wire-horizontal, and wire-vertical tags, and the index's job
// is to decide, in O(1), whether a proposed new point is compatible
// with whatever already occupies it.
package collision

import (
	"fmt"
	"unsafe"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/geometry"
	"github.com/sarchlab/logiksim/vocab"
)

// ItemType names the kind of point a caller wants to insert or test,
// using the same enum-plus-name-table idiom as vocab.LogicItemType
// rather than an interface per case.
type ItemType int

const (
	ItemBody ItemType = iota
	ItemLogicItemConnection
	ItemWireConnection
	ItemWireHorizontal
	ItemWireVertical
	ItemWireCorner
	ItemWireCross
	ItemWireNewUnknownPoint
)

// BodyTag is the body slot of a point's collision_data: either empty,
// a logic item, or one of the two wire-point sentinels.
type BodyTag int

const (
	BodyNone BodyTag = iota
	BodyLogicItem
	BodyWireCorner
	BodyWireCross
)

// LineTag is the horizontal/vertical slot of a point's collision_data:
// either empty, a wire, or the CONNECTION sentinel.
type LineTag int

const (
	LineNone LineTag = iota
	LineWire
	LineConnection
)

// data is the record stored per occupied point.
type data struct {
	bodyTag  BodyTag
	bodyItem vocab.LogicItemID

	horizontalTag  LineTag
	horizontalWire vocab.WireID

	verticalTag  LineTag
	verticalWire vocab.WireID
}

func (d data) empty() bool {
	return d.bodyTag == BodyNone && d.horizontalTag == LineNone && d.verticalTag == LineNone
}

// Index is the point -> collision_data map.
type Index struct {
	points map[vocab.Point]data
}

// New returns an empty collision index.
func New() *Index {
	return &Index{points: make(map[vocab.Point]data)}
}

// AllocatedSize approximates the index's backing-map byte usage, the
// Go analog of the C++ collision index's allocated_size()
// (allocated_size.h).
func (idx *Index) AllocatedSize() int {
	return len(idx.points) * int(unsafe.Sizeof(vocab.Point{})+unsafe.Sizeof(data{}))
}

// IsColliding reports whether inserting it at p, given id (meaningful
// for ItemBody/ItemLogicItemConnection/ItemWireConnection, which may
// legitimately coexist with their own prior entry during a query that
// precedes a move), would collide with whatever already occupies p.
func (idx *Index) IsColliding(p vocab.Point, it ItemType) bool {
	d := idx.points[p]
	switch it {
	case ItemBody:
		return !d.empty()
	case ItemLogicItemConnection:
		// Collides unless the existing entry is exactly a compatible
		// wire_connection at the same point (handshake).
		if d.bodyTag == BodyNone && d.horizontalTag == LineWire && d.verticalTag == LineConnection {
			return false
		}
		return !d.empty()
	case ItemWireConnection:
		if d.empty() {
			return false
		}
		// item+wire connection: body already an item, vertical already
		// CONNECTION, no horizontal wire yet.
		if d.bodyTag == BodyLogicItem && d.horizontalTag == LineNone && d.verticalTag == LineConnection {
			return false
		}
		return true
	case ItemWireHorizontal:
		if d.empty() {
			return false
		}
		// Compatible only with a lone vertical wire (becomes a crossing).
		return !(d.bodyTag == BodyNone && d.horizontalTag == LineNone && d.verticalTag == LineWire)
	case ItemWireVertical:
		if d.empty() {
			return false
		}
		return !(d.bodyTag == BodyNone && d.verticalTag == LineNone && d.horizontalTag == LineWire)
	case ItemWireCorner, ItemWireCross:
		return !d.empty()
	case ItemWireNewUnknownPoint:
		if d.bodyTag == BodyLogicItem {
			return true
		}
		if d.bodyTag == BodyNone && d.horizontalTag == LineWire && d.verticalTag == LineWire {
			return true // wire crossing
		}
		if d.bodyTag == BodyLogicItem && d.horizontalTag == LineNone && d.verticalTag == LineConnection {
			return true // item-wire connection
		}
		return false
	default:
		panic(fmt.Sprintf("collision: unknown item type %d", it))
	}
}

// IsWiresCrossing reports whether p holds two independent wires
// (horizontal + vertical, no shared corner/cross tag).
func (idx *Index) IsWiresCrossing(p vocab.Point) bool {
	d := idx.points[p]
	return d.bodyTag == BodyNone && d.horizontalTag == LineWire && d.verticalTag == LineWire
}

// IsWireCrossPoint reports whether p is a single wire's cross point
// (body tag WIRE_CROSS).
func (idx *Index) IsWireCrossPoint(p vocab.Point) bool {
	return idx.points[p].bodyTag == BodyWireCross
}

// GetFirstWire returns any wire id occupying p (horizontal preferred),
// or an invalid WireID if none.
func (idx *Index) GetFirstWire(p vocab.Point) vocab.WireID {
	d := idx.points[p]
	if d.horizontalTag == LineWire {
		return d.horizontalWire
	}
	if d.verticalTag == LineWire {
		return d.verticalWire
	}
	return vocab.WireID(vocab.NullID)
}

// OrthogonalWire returns the wire occupying p along the orientation
// opposite horizontal, if any: the wire a same-point, opposite-
// orientation segment passing through p would be crossing.
func (idx *Index) OrthogonalWire(p vocab.Point, horizontal bool) (vocab.WireID, bool) {
	d := idx.points[p]
	if horizontal {
		if d.verticalTag == LineWire {
			return d.verticalWire, true
		}
		return vocab.WireID(vocab.NullID), false
	}
	if d.horizontalTag == LineWire {
		return d.horizontalWire, true
	}
	return vocab.WireID(vocab.NullID), false
}

// setBody sets or clears the body tag at p, panicking if the observed
// prior value does not match expect. Every maintenance write is a
// set-and-verify, so a divergent index is a fatal internal error
// rather than a silent overwrite.
func (idx *Index) setBody(p vocab.Point, expect, next BodyTag, item vocab.LogicItemID) {
	d := idx.points[p]
	if d.bodyTag != expect {
		panic(fmt.Sprintf("collision: body tag mismatch at %s: have %d, expected %d", p, d.bodyTag, expect))
	}
	d.bodyTag = next
	d.bodyItem = item
	idx.store(p, d)
}

func (idx *Index) setHorizontal(p vocab.Point, expect, next LineTag, wire vocab.WireID) {
	d := idx.points[p]
	if d.horizontalTag != expect {
		panic(fmt.Sprintf("collision: horizontal tag mismatch at %s: have %d, expected %d", p, d.horizontalTag, expect))
	}
	d.horizontalTag = next
	d.horizontalWire = wire
	idx.store(p, d)
}

func (idx *Index) setVertical(p vocab.Point, expect, next LineTag, wire vocab.WireID) {
	d := idx.points[p]
	if d.verticalTag != expect {
		panic(fmt.Sprintf("collision: vertical tag mismatch at %s: have %d, expected %d", p, d.verticalTag, expect))
	}
	d.verticalTag = next
	d.verticalWire = wire
	idx.store(p, d)
}

func (idx *Index) store(p vocab.Point, d data) {
	if d.empty() {
		delete(idx.points, p)
		return
	}
	idx.points[p] = d
}

// InsertLogicItemBody marks every body/connection point of an inserted
// logic item.
func (idx *Index) InsertLogicItemBody(id vocab.LogicItemID, data bus.LayoutData) {
	body := bodyPoints(data)
	for _, p := range body {
		idx.setBody(p, BodyNone, BodyLogicItem, id)
	}
	for _, p := range append(append([]vocab.Point{}, data.InputOffset...), data.OutputOffset...) {
		idx.setVertical(p, LineNone, LineConnection, vocab.WireID(vocab.NullID))
	}
}

// UninsertLogicItemBody reverses InsertLogicItemBody.
func (idx *Index) UninsertLogicItemBody(id vocab.LogicItemID, data bus.LayoutData) {
	for _, p := range append(append([]vocab.Point{}, data.InputOffset...), data.OutputOffset...) {
		idx.setVertical(p, LineConnection, LineNone, vocab.WireID(vocab.NullID))
	}
	for _, p := range bodyPoints(data) {
		idx.setBody(p, BodyLogicItem, BodyNone, vocab.LogicItemID(vocab.NullID))
	}
}

// bodyPoints enumerates the grid points of a logic item's body: the
// column one step right of its position, one cell per row, excluding
// connection points which are tracked separately.
func bodyPoints(d bus.LayoutData) []vocab.Point {
	count := d.InputCount
	if d.OutputCount > count {
		count = d.OutputCount
	}
	if count < 1 {
		count = 1
	}
	pts := make([]vocab.Point, 0, count)
	for i := 0; i < count; i++ {
		pts = append(pts, vocab.Point{X: d.Position.X + 1, Y: d.Position.Y + vocab.Grid(i)})
	}
	return pts
}

// Submit reacts to the subset of LogicItem*/Segment* messages that
// affect collision state.
func (idx *Index) Submit(m bus.Message) {
	switch m.Kind {
	case bus.KindLogicItemInserted:
		idx.InsertLogicItemBody(m.LogicItemInserted.ID, m.LogicItemInserted.Data)
	case bus.KindLogicItemUninserted:
		idx.UninsertLogicItemBody(m.LogicItemUninserted.ID, m.LogicItemUninserted.Data)
	case bus.KindSegmentInserted:
		idx.insertSegment(m.SegmentInserted.Segment, m.SegmentInserted.Info)
	case bus.KindSegmentUninserted:
		idx.uninsertSegment(m.SegmentUninserted.Segment, m.SegmentUninserted.Info)
	case bus.KindInsertedEndPointsUpdated:
		idx.uninsertSegment(m.InsertedEndPointsUpdated.Segment, m.InsertedEndPointsUpdated.OldInfo)
		idx.insertSegment(m.InsertedEndPointsUpdated.Segment, m.InsertedEndPointsUpdated.NewInfo)
	}
}

func (idx *Index) insertSegment(seg vocab.Segment, info bus.SegmentInfo) {
	idx.walkSegment(seg.Wire, info, true)
}

func (idx *Index) uninsertSegment(seg vocab.Segment, info bus.SegmentInfo) {
	idx.walkSegment(seg.Wire, info, false)
}

// walkSegment marks or clears every grid point info.Line covers: the
// two endpoints get applyEndpoint's full PointType treatment (the
// same handshake InsertLogicItemBody gives a logic item's connection
// points), every interior point gets a plain occupancy mark along the
// line's own orientation (the equivalent of InsertLogicItemBody's
// bodyPoints loop). A single-point line (P0 == P1) marks that one
// point as an endpoint only, never twice.
func (idx *Index) walkSegment(wire vocab.WireID, info bus.SegmentInfo, insert bool) {
	pts := geometry.GridPointsOn(info.Line)
	horizontal := info.Line.IsHorizontal()
	last := len(pts) - 1
	for i, p := range pts {
		switch {
		case i == 0:
			idx.applyEndpoint(wire, p, info.P0Type, horizontal, insert)
		case i == last:
			idx.applyEndpoint(wire, p, info.P1Type, horizontal, insert)
		default:
			idx.setLineOccupancy(p, horizontal, wire, insert)
		}
	}
}

// setLineOccupancy sets or clears a plain wire occupancy mark along
// the segment's own orientation, with no endpoint role of its own.
func (idx *Index) setLineOccupancy(p vocab.Point, horizontal bool, wire vocab.WireID, insert bool) {
	if horizontal {
		if insert {
			idx.setHorizontal(p, LineNone, LineWire, wire)
		} else {
			idx.setHorizontal(p, LineWire, LineNone, vocab.WireID(vocab.NullID))
		}
		return
	}
	if insert {
		idx.setVertical(p, LineNone, LineWire, wire)
	} else {
		idx.setVertical(p, LineWire, LineNone, vocab.WireID(vocab.NullID))
	}
}

// applyEndpoint sets or clears one endpoint's tags based on its point
// type, given the segment's own orientation for the Shadow/NewUnknown
// case (a plain straight-through endpoint with no distinguished role).
func (idx *Index) applyEndpoint(wire vocab.WireID, p vocab.Point, pt vocab.PointType, horizontal, insert bool) {
	switch pt {
	case vocab.Input, vocab.Output:
		if insert {
			idx.setVertical(p, LineNone, LineConnection, vocab.WireID(vocab.NullID))
			idx.setHorizontal(p, LineNone, LineWire, wire)
		} else {
			idx.setHorizontal(p, LineWire, LineNone, vocab.WireID(vocab.NullID))
			idx.setVertical(p, LineConnection, LineNone, vocab.WireID(vocab.NullID))
		}
	case vocab.Corner:
		if insert {
			idx.setBody(p, BodyNone, BodyWireCorner, vocab.LogicItemID(vocab.NullID))
			idx.setHorizontal(p, LineNone, LineWire, wire)
			idx.setVertical(p, LineNone, LineWire, wire)
		} else {
			idx.setBody(p, BodyWireCorner, BodyNone, vocab.LogicItemID(vocab.NullID))
			idx.setHorizontal(p, LineWire, LineNone, vocab.WireID(vocab.NullID))
			idx.setVertical(p, LineWire, LineNone, vocab.WireID(vocab.NullID))
		}
	case vocab.Cross:
		if insert {
			idx.setBody(p, BodyNone, BodyWireCross, vocab.LogicItemID(vocab.NullID))
			idx.setHorizontal(p, LineNone, LineWire, wire)
			idx.setVertical(p, LineNone, LineWire, wire)
		} else {
			idx.setBody(p, BodyWireCross, BodyNone, vocab.LogicItemID(vocab.NullID))
			idx.setHorizontal(p, LineWire, LineNone, vocab.WireID(vocab.NullID))
			idx.setVertical(p, LineWire, LineNone, vocab.WireID(vocab.NullID))
		}
	case vocab.Shadow, vocab.NewUnknown:
		idx.setLineOccupancy(p, horizontal, wire, insert)
	}
}
