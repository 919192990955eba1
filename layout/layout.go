// Package layout holds the dense, bus-observable data for logic items,
// decorations, and wires. It owns no indices: the
// collision/connection/spatial/key indices all subscribe to its bus
// messages and keep their own derived state, a one-way message flow
// design.
package layout

import (
	"fmt"
	"unsafe"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/vocab"
)

// Layout is the dense-table store of record for one circuit's
// geometry. All structural mutation (add/remove/insert/uninsert) goes
// through Layout and is announced on its bus; purely cosmetic
// mutation (attribute edits, temporary-state geometry nudges) bumps
// the generation counter but emits nothing, matching the
// generation_index cache-invalidation scheme described in
// SPEC_FULL.md's supplemented-features section.
type Layout struct {
	bus *bus.Bus

	logicItems  []LogicItem
	decorations []Decoration
	wires       []Wire

	generation uint64
}

// New returns an empty Layout that announces structural changes on b.
func New(b *bus.Bus) *Layout {
	return &Layout{bus: b}
}

// Generation returns the current cache-invalidation counter. Every
// call that changes geometry, display state, or dense-id assignment
// bumps it; pure reads never do.
func (l *Layout) Generation() uint64 { return l.generation }

func (l *Layout) bump() { l.generation++ }

// AllocatedSize approximates the store's backing byte usage across
// all three dense tables, the Go analog of the C++ layout's
// allocated_size() (allocated_size.h).
func (l *Layout) AllocatedSize() int {
	total := len(l.logicItems) * int(unsafe.Sizeof(LogicItem{}))
	for _, li := range l.logicItems {
		total += len(li.InputInverters) * int(unsafe.Sizeof(false))
		total += len(li.OutputInverters) * int(unsafe.Sizeof(false))
	}

	total += len(l.decorations) * int(unsafe.Sizeof(Decoration{}))

	total += len(l.wires) * int(unsafe.Sizeof(Wire{}))
	for _, w := range l.wires {
		total += w.Tree.AllocatedSize()
	}

	return total
}

func (l *Layout) submit(m bus.Message) { l.bus.Submit(m) }

// --- logic items ---------------------------------------------------

func (l *Layout) mustLogicItem(id vocab.LogicItemID) {
	if !id.Valid() || int(id) >= len(l.logicItems) {
		panic(fmt.Sprintf("layout: logic item id %s out of range", id))
	}
}

// LogicItem returns a copy of the stored record for id.
func (l *Layout) LogicItem(id vocab.LogicItemID) LogicItem {
	l.mustLogicItem(id)
	return l.logicItems[id]
}

// LogicItemIDs returns every currently live dense id, in slot order.
func (l *Layout) LogicItemIDs() []vocab.LogicItemID {
	out := make([]vocab.LogicItemID, len(l.logicItems))
	for i := range l.logicItems {
		out[i] = vocab.LogicItemID(i)
	}
	return out
}

// AddLogicItem appends item in Temporary state and announces
// LogicItemCreated. Callers insert it into indices separately via
// ChangeMode, a two-phase add-then-insert flow.
func (l *Layout) AddLogicItem(item LogicItem) vocab.LogicItemID {
	item.DisplayState = vocab.Temporary
	l.logicItems = append(l.logicItems, item)
	id := vocab.LogicItemID(len(l.logicItems) - 1)
	l.bump()
	l.submit(bus.NewLogicItemCreated(id))
	return id
}

// RemoveLogicItem deletes a Temporary (never-inserted) logic item via
// swap-and-pop, announcing LogicItemDeleted and, if another item was
// moved into id's now-vacant slot, LogicItemIdUpdated. Removing an
// inserted item is a logic error — callers must uninsert it first
// (EmitLogicItemUninserted, then SetLogicItemState back to Temporary):
// uninsert always precedes delete.
func (l *Layout) RemoveLogicItem(id vocab.LogicItemID) {
	l.mustLogicItem(id)
	if l.logicItems[id].DisplayState != vocab.Temporary {
		panic(fmt.Sprintf("layout: RemoveLogicItem on non-temporary item %s", id))
	}
	last := vocab.LogicItemID(len(l.logicItems) - 1)
	l.submit(bus.NewLogicItemDeleted(id))
	if id != last {
		l.logicItems[id] = l.logicItems[last]
		l.logicItems = l.logicItems[:last]
		l.bump()
		l.submit(bus.NewLogicItemIDUpdated(last, id))
		return
	}
	l.logicItems = l.logicItems[:last]
	l.bump()
}

// logicItemData builds the bus.LayoutData snapshot used by Inserted /
// Uninserted / InsertedLogicItemIdUpdated messages.
func logicItemData(item LogicItem) bus.LayoutData {
	return bus.LayoutData{
		Type:         item.Type,
		Position:     item.Position,
		Orientation:  item.Orientation,
		InputCount:   item.InputCount,
		OutputCount:  item.OutputCount,
		InputOffset:  item.InputPositions(),
		OutputOffset: item.OutputPositions(),
	}
}

// SetLogicItemState overwrites the stored DisplayState directly. It
// does not itself emit Inserted/Uninserted messages: those require a
// LayoutData snapshot and are the caller's (editablecircuit's)
// responsibility once it has decided whether the transition lands on
// Normal or Colliding (see DESIGN.md for the resolved semantics).
func (l *Layout) SetLogicItemState(id vocab.LogicItemID, state vocab.DisplayState) {
	l.mustLogicItem(id)
	l.logicItems[id].DisplayState = state
	l.bump()
}

// EmitLogicItemInserted announces that id has entered the Normal state
// and is now present in the indices, carrying a LayoutData snapshot
// built from the item's current geometry.
func (l *Layout) EmitLogicItemInserted(id vocab.LogicItemID) bus.LayoutData {
	l.mustLogicItem(id)
	data := logicItemData(l.logicItems[id])
	l.submit(bus.NewLogicItemInserted(id, data))
	return data
}

// EmitLogicItemUninserted announces that id is leaving the Normal
// state (back to Temporary or Colliding), carrying the LayoutData
// snapshot that was current at insertion time — it is built from
// the id's present geometry, which by construction has not moved
// while inserted (index-affecting geometry edits require uninsert
// first).
func (l *Layout) EmitLogicItemUninserted(id vocab.LogicItemID) bus.LayoutData {
	l.mustLogicItem(id)
	data := logicItemData(l.logicItems[id])
	l.submit(bus.NewLogicItemUninserted(id, data))
	return data
}

// SetLogicItemGeometry updates position/orientation of a Temporary
// item (geometry may never change while a logic item is inserted;
// callers enforce that invariant). Bumps generation without emitting,
// matching the cheap-nudge path used by drag previews.
func (l *Layout) SetLogicItemGeometry(id vocab.LogicItemID, pos vocab.Point, o vocab.Orientation) {
	l.mustLogicItem(id)
	if l.logicItems[id].DisplayState == vocab.Normal {
		panic(fmt.Sprintf("layout: SetLogicItemGeometry on inserted item %s", id))
	}
	l.logicItems[id].Position = pos
	l.logicItems[id].Orientation = o
	l.bump()
}

// SetPinCounts overwrites a Temporary/Colliding item's pin shape
// (the resize_logicitem operation). Like SetLogicItemGeometry, this
// is only valid before insertion: an inserted item's pin positions
// are exactly what the connection/collision indices already
// reference.
func (l *Layout) SetPinCounts(id vocab.LogicItemID, inputCount, outputCount int, inputInverters, outputInverters []bool) {
	l.mustLogicItem(id)
	if l.logicItems[id].DisplayState == vocab.Normal {
		panic(fmt.Sprintf("layout: SetPinCounts on inserted item %s", id))
	}
	l.logicItems[id].InputCount = inputCount
	l.logicItems[id].OutputCount = outputCount
	l.logicItems[id].InputInverters = append([]bool(nil), inputInverters...)
	l.logicItems[id].OutputInverters = append([]bool(nil), outputInverters...)
	l.bump()
}

// SetLogicItemAttributes updates non-geometric metadata without
// touching display state or indices (the set_attributes operation).
func (l *Layout) SetLogicItemAttributes(id vocab.LogicItemID, attrs LogicItemAttributes) {
	l.mustLogicItem(id)
	l.logicItems[id].Attributes = attrs
	l.bump()
}

// --- decorations -----------------------------------------------------

func (l *Layout) mustDecoration(id vocab.DecorationID) {
	if !id.Valid() || int(id) >= len(l.decorations) {
		panic(fmt.Sprintf("layout: decoration id %s out of range", id))
	}
}

// Decoration returns a copy of the stored record for id.
func (l *Layout) Decoration(id vocab.DecorationID) Decoration {
	l.mustDecoration(id)
	return l.decorations[id]
}

// DecorationIDs returns every currently live dense id, in slot order.
func (l *Layout) DecorationIDs() []vocab.DecorationID {
	out := make([]vocab.DecorationID, len(l.decorations))
	for i := range l.decorations {
		out[i] = vocab.DecorationID(i)
	}
	return out
}

// AddDecoration appends a Temporary decoration and announces
// DecorationCreated.
func (l *Layout) AddDecoration(d Decoration) vocab.DecorationID {
	d.DisplayState = vocab.Temporary
	l.decorations = append(l.decorations, d)
	id := vocab.DecorationID(len(l.decorations) - 1)
	l.bump()
	l.submit(bus.NewDecorationCreated(id))
	return id
}

// RemoveDecoration deletes a Temporary decoration via swap-and-pop.
func (l *Layout) RemoveDecoration(id vocab.DecorationID) {
	l.mustDecoration(id)
	if l.decorations[id].DisplayState != vocab.Temporary {
		panic(fmt.Sprintf("layout: RemoveDecoration on non-temporary decoration %s", id))
	}
	last := vocab.DecorationID(len(l.decorations) - 1)
	l.submit(bus.NewDecorationDeleted(id))
	if id != last {
		l.decorations[id] = l.decorations[last]
		l.decorations = l.decorations[:last]
		l.bump()
		l.submit(bus.NewDecorationIDUpdated(last, id))
		return
	}
	l.decorations = l.decorations[:last]
	l.bump()
}

func decorationData(d Decoration) bus.DecorationData {
	return bus.DecorationData{Position: d.Position, Width: d.Width, Height: d.Height}
}

// SetDecorationState overwrites the stored DisplayState; see
// SetLogicItemState for the division of responsibility with the
// Emit*/editablecircuit layer.
func (l *Layout) SetDecorationState(id vocab.DecorationID, state vocab.DisplayState) {
	l.mustDecoration(id)
	l.decorations[id].DisplayState = state
	l.bump()
}

// EmitDecorationInserted announces id entering the Normal state.
func (l *Layout) EmitDecorationInserted(id vocab.DecorationID) bus.DecorationData {
	l.mustDecoration(id)
	data := decorationData(l.decorations[id])
	l.submit(bus.NewDecorationInserted(id, data))
	return data
}

// EmitDecorationUninserted announces id leaving the Normal state.
func (l *Layout) EmitDecorationUninserted(id vocab.DecorationID) bus.DecorationData {
	l.mustDecoration(id)
	data := decorationData(l.decorations[id])
	l.submit(bus.NewDecorationUninserted(id, data))
	return data
}

// SetDecorationGeometry moves/resizes a Temporary decoration.
func (l *Layout) SetDecorationGeometry(id vocab.DecorationID, pos vocab.Point, w, h vocab.Grid) {
	l.mustDecoration(id)
	if l.decorations[id].DisplayState == vocab.Normal {
		panic(fmt.Sprintf("layout: SetDecorationGeometry on inserted decoration %s", id))
	}
	l.decorations[id].Position = pos
	l.decorations[id].Width = w
	l.decorations[id].Height = h
	l.bump()
}

// SetDecorationAttributes updates the text/font metadata set_attributes
// can change without touching indices.
func (l *Layout) SetDecorationAttributes(id vocab.DecorationID, attrs DecorationAttributes) {
	l.mustDecoration(id)
	l.decorations[id].Attributes = attrs
	l.bump()
}

// --- wires -----------------------------------------------------------

func (l *Layout) mustWire(id vocab.WireID) {
	if !id.Valid() || int(id) >= len(l.wires) {
		panic(fmt.Sprintf("layout: wire id %s out of range", id))
	}
}

// Wire returns a pointer to the live wire record for id, so callers
// can drive its SegmentTree directly (AddSegment, SetValidParts, ...)
// without Layout re-exposing every SegmentTree method itself.
func (l *Layout) Wire(id vocab.WireID) *Wire {
	l.mustWire(id)
	return &l.wires[id]
}

// WireIDs returns every currently live dense id, in slot order.
func (l *Layout) WireIDs() []vocab.WireID {
	out := make([]vocab.WireID, len(l.wires))
	for i := range l.wires {
		out[i] = vocab.WireID(i)
	}
	return out
}

// AddWire appends an empty Temporary wire (its segment tree is built
// up afterwards via Wire(id).Tree). No bus message exists for "wire
// created": a wire becomes observable only once it gains segments,
// which announce themselves as SegmentCreated.
func (l *Layout) AddWire() vocab.WireID {
	l.wires = append(l.wires, Wire{DisplayState: vocab.Temporary})
	l.bump()
	return vocab.WireID(len(l.wires) - 1)
}

// RemoveWire deletes an empty, Temporary wire via swap-and-pop. Wires
// with remaining segments must have them removed first (each
// RemoveSegment already announces SegmentPartDeleted/SegmentIdUpdated
// as needed).
func (l *Layout) RemoveWire(id vocab.WireID) {
	l.mustWire(id)
	if l.wires[id].DisplayState != vocab.Temporary {
		panic(fmt.Sprintf("layout: RemoveWire on non-temporary wire %s", id))
	}
	if l.wires[id].Tree.Len() != 0 {
		panic(fmt.Sprintf("layout: RemoveWire on non-empty wire %s", id))
	}
	last := vocab.WireID(len(l.wires) - 1)
	if id != last {
		l.wires[id] = l.wires[last]
		l.wires = l.wires[:last]
		l.bump()
		return
	}
	l.wires = l.wires[:last]
	l.bump()
}

// AddSegment appends a segment to wire id's tree and announces
// SegmentCreated.
func (l *Layout) AddSegment(wireID vocab.WireID, line vocab.OrderedLine) vocab.SegmentIndex {
	l.mustWire(wireID)
	idx := l.wires[wireID].Tree.AddSegment(line)
	l.bump()
	l.submit(bus.NewSegmentCreated(vocab.Segment{Wire: wireID, Index: idx}, vocab.Offset(line.Length())))
	return idx
}

// RemoveSegment removes a segment from wire id's tree via
// swap-and-pop, announcing SegmentPartDeleted (the whole part) and, if
// another segment was moved into the vacated slot, SegmentIdUpdated.
func (l *Layout) RemoveSegment(wireID vocab.WireID, idx vocab.SegmentIndex) {
	l.mustWire(wireID)
	t := &l.wires[wireID].Tree
	whole := t.Part(idx)
	seg := vocab.Segment{Wire: wireID, Index: idx}
	l.submit(bus.NewSegmentPartDeleted(vocab.SegmentPart{Segment: seg, Part: whole}, true))
	movedFrom, moved := t.RemoveSegment(idx)
	l.bump()
	if moved {
		l.submit(bus.NewSegmentIDUpdated(vocab.Segment{Wire: wireID, Index: movedFrom}, seg))
	}
}

// SetWireState overwrites the DisplayState shared by every segment in
// the wire's tree: a wire's state applies to its whole tree.
func (l *Layout) SetWireState(id vocab.WireID, state vocab.DisplayState) {
	l.mustWire(id)
	l.wires[id].DisplayState = state
	l.bump()
}

// EmitSegmentInserted announces that the segment at idx has entered
// the Normal state.
func (l *Layout) EmitSegmentInserted(wireID vocab.WireID, idx vocab.SegmentIndex) bus.SegmentInfo {
	l.mustWire(wireID)
	info := l.wires[wireID].Tree.Info(idx)
	l.submit(bus.NewSegmentInserted(vocab.Segment{Wire: wireID, Index: idx}, info))
	return info
}

// EmitSegmentUninserted announces that the segment at idx is leaving
// the Normal state.
func (l *Layout) EmitSegmentUninserted(wireID vocab.WireID, idx vocab.SegmentIndex) bus.SegmentInfo {
	l.mustWire(wireID)
	info := l.wires[wireID].Tree.Info(idx)
	l.submit(bus.NewSegmentUninserted(vocab.Segment{Wire: wireID, Index: idx}, info))
	return info
}

// SetSegmentEndpointTypes updates endpoint types and, if the wire is
// currently Normal, announces InsertedEndPointsUpdated with the prior
// info so connection-index listeners can retract the old handshake
// before applying the new one.
func (l *Layout) SetSegmentEndpointTypes(wireID vocab.WireID, idx vocab.SegmentIndex, p0, p1 vocab.PointType) {
	l.mustWire(wireID)
	w := &l.wires[wireID]
	old := w.Tree.UpdateEndpointTypes(idx, p0, p1)
	l.bump()
	if w.DisplayState == vocab.Normal {
		seg := vocab.Segment{Wire: wireID, Index: idx}
		l.submit(bus.NewInsertedEndPointsUpdated(seg, w.Tree.Info(idx), old))
	}
}
