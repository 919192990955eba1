package editablecircuit

import (
	"fmt"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/history"
	"github.com/sarchlab/logiksim/layout"
	"github.com/sarchlab/logiksim/vocab"
)

// Undo reverts the most recent undoable mutation and moves it onto the
// redo stack. Reports whether there was anything to undo. Wires have
// no move/attribute entries of their own (a wire's geometry only ever
// changes through AddWireSegment/DeleteWire plus the split/merge
// helpers in wireedit.go, never a single-segment drag), but creation
// and deletion both push WireCreateTemporary/WireDeleteTemporary like
// every other element kind.
func (c *Circuit) Undo() bool {
	kind, ok := c.undo.TopEntry()
	if !ok {
		return false
	}
	switch kind {
	case history.LogicItemCreateTemporary:
		key, placed := c.undo.PopLogicItemCreateTemporary()
		c.undoCreateLogicItem(key)
		c.redo.PushLogicItemCreateTemporary(key, placed)

	case history.LogicItemDeleteTemporary:
		key, removed := c.undo.PopLogicItemDeleteTemporary()
		c.undoDeleteLogicItem(removed)
		c.redo.PushLogicItemDeleteTemporary(key, removed)

	case history.LogicItemMoveTemporary:
		key, delta := c.undo.PopLogicItemMoveTemporary()
		c.applyLogicItemDelta(key, history.MoveDelta{DX: -delta.DX, DY: -delta.DY})
		c.redo.PushLogicItemMoveTemporary(key, delta)

	case history.LogicItemChangeAttributes:
		key, oldAttrs := c.undo.PopLogicItemChangeAttributes()
		id := c.keys.LogicItemID(key)
		cur := c.layout.LogicItem(id).Attributes
		c.layout.SetLogicItemAttributes(id, oldAttrs)
		c.redo.PushLogicItemChangeAttributes(key, cur)

	case history.DecorationCreateTemporary:
		key, placed := c.undo.PopDecorationCreateTemporary()
		c.undoCreateDecoration(key)
		c.redo.PushDecorationCreateTemporary(key, placed)

	case history.DecorationDeleteTemporary:
		key, removed := c.undo.PopDecorationDeleteTemporary()
		c.undoDeleteDecoration(removed)
		c.redo.PushDecorationDeleteTemporary(key, removed)

	case history.DecorationMoveTemporary:
		key, delta := c.undo.PopDecorationMoveTemporary()
		c.applyDecorationDelta(key, history.MoveDelta{DX: -delta.DX, DY: -delta.DY})
		c.redo.PushDecorationMoveTemporary(key, delta)

	case history.DecorationChangeAttributes:
		key, oldAttrs := c.undo.PopDecorationChangeAttributes()
		id := c.keys.DecorationID(key)
		cur := c.layout.Decoration(id).Attributes
		c.layout.SetDecorationAttributes(id, oldAttrs)
		c.redo.PushDecorationChangeAttributes(key, cur)

	case history.WireCreateTemporary:
		key, segments := c.undo.PopWireCreateTemporary()
		c.undoCreateWire(key)
		c.redo.PushWireCreateTemporary(key, segments)

	case history.WireDeleteTemporary:
		key, segments := c.undo.PopWireDeleteTemporary()
		c.undoDeleteWire(segments)
		c.redo.PushWireDeleteTemporary(key, segments)

	default:
		// NewGroup and the ToMode*/VisibleSelection* kinds are never
		// pushed by this facade; nothing to do.
		return false
	}
	return true
}

// Redo re-applies the most recently undone mutation. Reports whether
// there was anything to redo.
func (c *Circuit) Redo() bool {
	kind, ok := c.redo.TopEntry()
	if !ok {
		return false
	}
	switch kind {
	case history.LogicItemCreateTemporary:
		key, placed := c.redo.PopLogicItemCreateTemporary()
		c.redoCreateLogicItem(placed)
		c.undo.PushLogicItemCreateTemporary(key, placed)

	case history.LogicItemDeleteTemporary:
		key, removed := c.redo.PopLogicItemDeleteTemporary()
		c.redoDeleteLogicItem(key)
		c.undo.PushLogicItemDeleteTemporary(key, removed)

	case history.LogicItemMoveTemporary:
		key, delta := c.redo.PopLogicItemMoveTemporary()
		c.applyLogicItemDelta(key, delta)
		c.undo.PushLogicItemMoveTemporary(key, delta)

	case history.LogicItemChangeAttributes:
		key, newAttrs := c.redo.PopLogicItemChangeAttributes()
		id := c.keys.LogicItemID(key)
		cur := c.layout.LogicItem(id).Attributes
		c.layout.SetLogicItemAttributes(id, newAttrs)
		c.undo.PushLogicItemChangeAttributes(key, cur)

	case history.DecorationCreateTemporary:
		key, placed := c.redo.PopDecorationCreateTemporary()
		c.redoCreateDecoration(placed)
		c.undo.PushDecorationCreateTemporary(key, placed)

	case history.DecorationDeleteTemporary:
		key, removed := c.redo.PopDecorationDeleteTemporary()
		c.redoDeleteDecoration(key)
		c.undo.PushDecorationDeleteTemporary(key, removed)

	case history.DecorationMoveTemporary:
		key, delta := c.redo.PopDecorationMoveTemporary()
		c.applyDecorationDelta(key, delta)
		c.undo.PushDecorationMoveTemporary(key, delta)

	case history.DecorationChangeAttributes:
		key, newAttrs := c.redo.PopDecorationChangeAttributes()
		id := c.keys.DecorationID(key)
		cur := c.layout.Decoration(id).Attributes
		c.layout.SetDecorationAttributes(id, newAttrs)
		c.undo.PushDecorationChangeAttributes(key, cur)

	case history.WireCreateTemporary:
		key, segments := c.redo.PopWireCreateTemporary()
		c.redoCreateWire(segments)
		c.undo.PushWireCreateTemporary(key, segments)

	case history.WireDeleteTemporary:
		key, segments := c.redo.PopWireDeleteTemporary()
		c.redoDeleteWire(key)
		c.undo.PushWireDeleteTemporary(key, segments)

	default:
		return false
	}
	return true
}

// dropLogicItemToTemporary uninserts id first if it settled at Normal
// or Colliding, mirroring what DeleteLogicItem already does before
// removal: undo/redo must be able to touch geometry regardless of
// where insert_or_discard last left the item.
func (c *Circuit) dropLogicItemToTemporary(id vocab.LogicItemID) {
	if c.layout.LogicItem(id).DisplayState != vocab.Temporary {
		_ = c.ChangeLogicItemMode(id, vocab.ModeTemporary)
	}
}

func (c *Circuit) dropDecorationToTemporary(id vocab.DecorationID) {
	if c.layout.Decoration(id).DisplayState != vocab.Temporary {
		_ = c.ChangeDecorationMode(id, vocab.ModeTemporary)
	}
}

func (c *Circuit) undoCreateLogicItem(key vocab.LogicItemKey) {
	id := c.keys.LogicItemID(key)
	c.dropLogicItemToTemporary(id)
	c.layout.RemoveLogicItem(id)
}

func (c *Circuit) redoCreateLogicItem(placed layout.LogicItem) {
	c.layout.AddLogicItem(placed)
}

func (c *Circuit) undoDeleteLogicItem(removed layout.LogicItem) {
	c.layout.AddLogicItem(removed)
}

func (c *Circuit) redoDeleteLogicItem(key vocab.LogicItemKey) {
	id := c.keys.LogicItemID(key)
	c.dropLogicItemToTemporary(id)
	c.layout.RemoveLogicItem(id)
}

func (c *Circuit) applyLogicItemDelta(key vocab.LogicItemKey, delta history.MoveDelta) {
	id := c.keys.LogicItemID(key)
	c.dropLogicItemToTemporary(id)
	item := c.layout.LogicItem(id)
	c.layout.SetLogicItemGeometry(id, item.Position.Add(delta.DX, delta.DY), item.Orientation)
}

func (c *Circuit) undoCreateDecoration(key vocab.DecorationKey) {
	id := c.keys.DecorationID(key)
	c.dropDecorationToTemporary(id)
	c.layout.RemoveDecoration(id)
}

func (c *Circuit) redoCreateDecoration(placed layout.Decoration) {
	c.layout.AddDecoration(placed)
}

func (c *Circuit) undoDeleteDecoration(removed layout.Decoration) {
	c.layout.AddDecoration(removed)
}

func (c *Circuit) redoDeleteDecoration(key vocab.DecorationKey) {
	id := c.keys.DecorationID(key)
	c.dropDecorationToTemporary(id)
	c.layout.RemoveDecoration(id)
}

func (c *Circuit) applyDecorationDelta(key vocab.DecorationKey, delta history.MoveDelta) {
	id := c.keys.DecorationID(key)
	c.dropDecorationToTemporary(id)
	d := c.layout.Decoration(id)
	c.layout.SetDecorationGeometry(id, d.Position.Add(delta.DX, delta.DY), d.Width, d.Height)
}

// dropWireToTemporary uninserts wireID first if it settled at Normal
// or Colliding, the wire analogue of dropLogicItemToTemporary.
func (c *Circuit) dropWireToTemporary(wireID vocab.WireID) {
	if c.layout.Wire(wireID).DisplayState != vocab.Temporary {
		if _, err := c.ChangeWireMode(wireID, vocab.ModeTemporary); err != nil {
			panic(fmt.Sprintf("editablecircuit: dropWireToTemporary could not uninsert wire %s: %v", wireID, err))
		}
	}
}

// removeWireAndSegments tears a wire down to nothing, segments first
// in descending index order (RemoveSegment is a swap-and-pop) and
// then the now-empty wire itself, the same order DeleteWire uses.
func (c *Circuit) removeWireAndSegments(wireID vocab.WireID) {
	indices := c.layout.Wire(wireID).Tree.Indices()
	for i := len(indices) - 1; i >= 0; i-- {
		c.layout.RemoveSegment(wireID, indices[i])
	}
	c.layout.RemoveWire(wireID)
}

// undoCreateWire has no WireID of its own to go on: a wire's stable
// key lives in the key index, not the wire itself (KeyIndex.Segment
// resolves a SegmentKey back to whichever wire holds it now, which is
// all undoCreateWire needs to find it again regardless of whether it
// coalesced with another wire in the meantime).
func (c *Circuit) undoCreateWire(key vocab.SegmentKey) {
	wireID := c.keys.Segment(key).Wire
	c.dropWireToTemporary(wireID)
	c.removeWireAndSegments(wireID)
}

// redoCreateWire replays AddWireSegment's creation half only: the
// segments are recreated Temporary, exactly as PushWireCreateTemporary
// captured them, with no attempt to replay whatever insertion mode the
// original call eventually settled at (mirroring redoCreateLogicItem).
func (c *Circuit) redoCreateWire(segments []bus.SegmentInfo) {
	wireID := c.layout.AddWire()
	for _, info := range segments {
		idx := c.layout.AddSegment(wireID, info.Line)
		c.layout.Wire(wireID).Tree.UpdateEndpointTypes(idx, info.P0Type, info.P1Type)
	}
}

// undoDeleteWire rebuilds the wire DeleteWire tore down, from the
// segment list it recorded just before removal.
func (c *Circuit) undoDeleteWire(segments []bus.SegmentInfo) {
	wireID := c.layout.AddWire()
	for _, info := range segments {
		idx := c.layout.AddSegment(wireID, info.Line)
		c.layout.Wire(wireID).Tree.UpdateEndpointTypes(idx, info.P0Type, info.P1Type)
	}
}

// redoDeleteWire re-deletes the wire currently holding key, the wire
// analogue of redoDeleteLogicItem.
func (c *Circuit) redoDeleteWire(key vocab.SegmentKey) {
	wireID := c.keys.Segment(key).Wire
	c.dropWireToTemporary(wireID)
	c.removeWireAndSegments(wireID)
}
