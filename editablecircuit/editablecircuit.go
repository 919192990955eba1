// Package editablecircuit implements the editing facade: the
// single entry point through which a caller adds, moves, deletes, and
// retypes logic items, decorations, and wires, keeping the layout and
// every derived index (collision, connection, spatial, key, selection)
// consistent and recording undo/redo history for the creation,
// deletion, moves and attribute changes of logic items and
// decorations and for the creation and deletion of wires. Mode
// changes, resizes and segment splits or merges are not recorded.
//
// Every public mutator here follows the same two-phase shape the
// layout package itself documents: first a Temporary record is
// created or already exists, then ChangeMode decides — via a single
// atomic collision check — whether it lands on Normal (inserted into
// every index) or Colliding (left out of all of them). There is no
// third outcome: the mode lattice is temporary < colliding < normal,
// and Normal/Colliding both mean "decided", just one of them means
// "decided against".
package editablecircuit

import (
	"fmt"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/history"
	"github.com/sarchlab/logiksim/index/collision"
	"github.com/sarchlab/logiksim/index/connection"
	"github.com/sarchlab/logiksim/index/keyindex"
	"github.com/sarchlab/logiksim/index/spatial"
	"github.com/sarchlab/logiksim/layout"
	"github.com/sarchlab/logiksim/selection"
	"github.com/sarchlab/logiksim/vocab"

	"github.com/rs/xid"
)

// Circuit bundles the layout with every index that derives from it,
// registered on one shared bus in a fixed order: key index first (so
// every later listener can resolve stable keys for whatever it is
// reacting to), then collision, connection, spatial, and finally the
// visible selection. Registration order is load-bearing only in that
// every listener sees every message; none of them depend on one
// another's state mid-delivery.
type Circuit struct {
	bus        *bus.Bus
	layout     *layout.Layout
	keys       *keyindex.KeyIndex
	collision  *collision.Index
	connection *connection.Index
	spatial    *spatial.Index
	visible    *selection.VisibleSelection

	undo *history.Stack
	redo *history.Stack

	// DocumentID is a session-scoped opaque identifier, stable for the
	// lifetime of the in-memory Circuit value. It has nothing to do
	// with the per-item stable keys the key index owns; circuitio uses
	// it to name an autosave/envelope file, not to identify geometry.
	DocumentID xid.ID
}

// New returns an empty Circuit with a freshly wired bus and index set.
func New() *Circuit {
	b := bus.New()
	c := &Circuit{
		bus:        b,
		layout:     layout.New(b),
		keys:       keyindex.New(),
		collision:  collision.New(),
		connection: connection.New(),
		spatial:    spatial.New(),
		undo:       history.New(),
		redo:       history.New(),
		DocumentID: xid.New(),
	}
	c.visible = selection.NewVisibleSelection(selection.NewSelection())
	b.Register(c.keys)
	b.Register(c.collision)
	b.Register(c.connection)
	b.Register(c.spatial)
	b.Register(bus.ListenerFunc(c.visible.Submit))
	return c
}

// Layout exposes the underlying store for read-only queries (rendering,
// persistence) that don't belong on this facade.
func (c *Circuit) Layout() *layout.Layout { return c.layout }

// KeyIndex exposes the stable-key index for callers that need to save
// a StableSelection across a session boundary.
func (c *Circuit) KeyIndex() *keyindex.KeyIndex { return c.keys }

// Connection exposes the live connection index for callers that
// derive a schematic.Schematic from this circuit (schematic.Generate
// needs a connection.Index reflecting the same layout generation it
// reads).
func (c *Circuit) Connection() *connection.Index { return c.connection }

// VisibleSelection exposes the interactive selection view.
func (c *Circuit) VisibleSelection() *selection.VisibleSelection { return c.visible }

// Stats is an approximate memory-usage breakdown of one Circuit,
// the Go analog of the C++ editable_circuit's allocated_size()
// rollup (allocated_size.h) over its owned stores.
type Stats struct {
	LayoutBytes     int
	CollisionBytes  int
	ConnectionBytes int
	SpatialBytes    int
	KeyIndexBytes   int
	UndoBytes       int
	RedoBytes       int
}

// Total returns the sum of every component's AllocatedSize.
func (s Stats) Total() int {
	return s.LayoutBytes + s.CollisionBytes + s.ConnectionBytes +
		s.SpatialBytes + s.KeyIndexBytes + s.UndoBytes + s.RedoBytes
}

// Stats reports an approximate memory-usage breakdown across the
// layout store, every derived index, and both history stacks.
func (c *Circuit) Stats() Stats {
	return Stats{
		LayoutBytes:     c.layout.AllocatedSize(),
		CollisionBytes:  c.collision.AllocatedSize(),
		ConnectionBytes: c.connection.AllocatedSize(),
		SpatialBytes:    c.spatial.AllocatedSize(),
		KeyIndexBytes:   c.keys.AllocatedSize(),
		UndoBytes:       c.undo.AllocatedSize(),
		RedoBytes:       c.redo.AllocatedSize(),
	}
}

// HasElement reports whether any inserted element occupies p. This is
// where click interpretation starts.
func (c *Circuit) HasElement(p vocab.Point) bool { return c.spatial.HasElement(p) }

// err constructors. editablecircuit distinguishes two failure classes:
// an out-of-range coordinate is reported as a no-op
// (ErrOutOfRange, never a panic), while mutating a dead id or finding
// an inconsistent index is always a programmer error (panic), since
// both indicate the caller violated the two-phase add-then-insert
// protocol rather than supplied untrusted input.
var ErrOutOfRange = fmt.Errorf("editablecircuit: position out of representable grid range")

// --- logic items -----------------------------------------------------

// AddLogicItem creates item in Temporary state, then immediately asks
// ChangeMode to try to settle it at mode. Returns the live id even if
// the item ended up Colliding (mode is advisory, not a guarantee: a
// colliding-to-normal transition always returns Colliding, never an
// error).
func (c *Circuit) AddLogicItem(item layout.LogicItem, mode vocab.InsertionMode) (vocab.LogicItemID, error) {
	if !logicItemInRange(item) {
		return vocab.LogicItemID(vocab.NullID), ErrOutOfRange
	}
	id := c.layout.AddLogicItem(item)
	c.undo.PushLogicItemCreateTemporary(c.keys.LogicItemKey(id), item.Clone())
	trace("add logic item", "id", id, "type", item.Type, "mode", mode)
	if err := c.ChangeLogicItemMode(id, mode); err != nil {
		return id, err
	}
	return id, nil
}

func logicItemInRange(item layout.LogicItem) bool {
	if !item.Position.InRange() {
		return false
	}
	box := item.BoundingBox()
	return box.P0.InRange() && box.P1.InRange()
}

// ChangeLogicItemMode performs the one-step mode transition spec
// §4.8.1 describes. Transitions that downgrade (normal->colliding,
// normal->temporary, colliding->temporary) always succeed; the only
// transition that can land somewhere other than requested is
// temporary/colliding -> insert_or_discard, which resolves to either
// normal or colliding depending on the collision check.
func (c *Circuit) ChangeLogicItemMode(id vocab.LogicItemID, target vocab.InsertionMode) error {
	item := c.layout.LogicItem(id)
	cur := item.DisplayState

	switch target {
	case vocab.ModeTemporary:
		// The state changes before the uninsert message goes out, so
		// listeners (the validator among them) see the new state.
		c.layout.SetLogicItemState(id, vocab.Temporary)
		if cur == vocab.Normal {
			c.uninsertLogicItem(id, item)
		}
		return nil

	case vocab.ModeColliding:
		// Capped at Colliding even if the position does not actually
		// collide: an explicitly requested preview mode is never
		// promoted to Normal implicitly.
		c.layout.SetLogicItemState(id, vocab.Colliding)
		if cur == vocab.Normal {
			c.uninsertLogicItem(id, item)
		}
		return nil

	case vocab.ModeInsertOrDiscard:
		if cur == vocab.Normal {
			return nil
		}
		if c.logicItemCollides(item) {
			c.layout.SetLogicItemState(id, vocab.Colliding)
			return nil
		}
		c.layout.SetLogicItemState(id, vocab.Normal)
		c.layout.EmitLogicItemInserted(id)
		c.connectLogicItemToWires(id)
		return nil
	}
	panic(fmt.Sprintf("editablecircuit: unknown insertion mode %d", target))
}

func (c *Circuit) logicItemCollides(item layout.LogicItem) bool {
	for _, p := range bodyPointsOf(item) {
		if c.collision.IsColliding(p, collision.ItemBody) {
			return true
		}
	}
	for _, p := range item.InputPositions() {
		if c.collision.IsColliding(p, collision.ItemLogicItemConnection) {
			return true
		}
		if !c.connection.IsOrientationCompatible(p, item.InputOrientation()) {
			return true
		}
	}
	for _, p := range item.OutputPositions() {
		if c.collision.IsColliding(p, collision.ItemLogicItemConnection) {
			return true
		}
		if !c.connection.IsOrientationCompatible(p, item.OutputOrientation()) {
			return true
		}
	}
	return false
}

// bodyPointsOf mirrors collision.bodyPoints without importing its
// unexported helper: both enumerate the interior column of an item's
// bounding box.
func bodyPointsOf(item layout.LogicItem) []vocab.Point {
	box := item.BoundingBox()
	var pts []vocab.Point
	for y := box.P0.Y; y <= box.P1.Y; y++ {
		pts = append(pts, vocab.Point{X: box.P0.X + 1, Y: y})
	}
	return pts
}

func (c *Circuit) uninsertLogicItem(id vocab.LogicItemID, item layout.LogicItem) {
	c.layout.EmitLogicItemUninserted(id)
}

// DeleteLogicItem uninserts (if needed) and removes id, recording a
// DeleteTemporary history entry so Undo can restore it with the same
// geometry it had just before deletion.
func (c *Circuit) DeleteLogicItem(id vocab.LogicItemID) error {
	item := c.layout.LogicItem(id)
	if item.DisplayState != vocab.Temporary {
		if err := c.ChangeLogicItemMode(id, vocab.ModeTemporary); err != nil {
			return err
		}
	}
	item = c.layout.LogicItem(id)
	c.undo.PushLogicItemDeleteTemporary(c.keys.LogicItemKey(id), item)
	c.layout.RemoveLogicItem(id)
	return nil
}

// MoveLogicItem translates a Temporary item by (dx, dy). Per spec
// §4.8.1, geometry may only change while an item is not inserted;
// callers drop an item to ModeTemporary first if it is Normal or
// Colliding and they want to drag it.
func (c *Circuit) MoveLogicItem(id vocab.LogicItemID, dx, dy vocab.Grid) error {
	item := c.layout.LogicItem(id)
	pos := item.Position.Add(dx, dy)
	if !pos.InRange() {
		return ErrOutOfRange
	}
	c.undo.PushLogicItemMoveTemporary(c.keys.LogicItemKey(id), history.MoveDelta{DX: dx, DY: dy})
	c.layout.SetLogicItemGeometry(id, pos, item.Orientation)
	return nil
}

// SetLogicItemAttributes updates non-geometric metadata regardless of
// display state (set_attributes never touches indices).
func (c *Circuit) SetLogicItemAttributes(id vocab.LogicItemID, attrs layout.LogicItemAttributes) {
	old := c.layout.LogicItem(id).Attributes
	c.undo.PushLogicItemChangeAttributes(c.keys.LogicItemKey(id), old)
	c.layout.SetLogicItemAttributes(id, attrs)
}

// ResizeLogicItem changes a Temporary item's input/output pin counts.
// Only meaningful before insertion: an inserted item's pin geometry is
// exactly what the connection/collision indices already reference, so
// resizing it live would desync them the same way moving one does.
func (c *Circuit) ResizeLogicItem(id vocab.LogicItemID, inputCount, outputCount int) error {
	item := c.layout.LogicItem(id)
	if item.DisplayState == vocab.Normal {
		panic(fmt.Sprintf("editablecircuit: ResizeLogicItem on inserted item %s", id))
	}
	item.InputCount = inputCount
	item.OutputCount = outputCount
	item.InputInverters = resizeBoolSlice(item.InputInverters, inputCount)
	item.OutputInverters = resizeBoolSlice(item.OutputInverters, outputCount)
	if !logicItemInRange(item) {
		return ErrOutOfRange
	}
	c.layout.SetPinCounts(id, inputCount, outputCount, item.InputInverters, item.OutputInverters)
	return nil
}

func resizeBoolSlice(s []bool, n int) []bool {
	out := make([]bool, n)
	copy(out, s)
	return out
}

// --- decorations -------------------------------------------------------

// AddDecoration creates d in Temporary state and tries to settle it at
// mode.
func (c *Circuit) AddDecoration(d layout.Decoration, mode vocab.InsertionMode) (vocab.DecorationID, error) {
	if !decorationInRange(d) {
		return vocab.DecorationID(vocab.NullID), ErrOutOfRange
	}
	id := c.layout.AddDecoration(d)
	c.undo.PushDecorationCreateTemporary(c.keys.DecorationKey(id), d.Clone())
	if err := c.ChangeDecorationMode(id, mode); err != nil {
		return id, err
	}
	return id, nil
}

func decorationInRange(d layout.Decoration) bool {
	box := d.BoundingBox()
	return box.P0.InRange() && box.P1.InRange()
}

// ChangeDecorationMode is the decoration analogue of
// ChangeLogicItemMode. Decorations never participate in the
// connection index (purely visual), so the only collision check is
// against the spatial footprint via the collision index's body tag.
func (c *Circuit) ChangeDecorationMode(id vocab.DecorationID, target vocab.InsertionMode) error {
	d := c.layout.Decoration(id)
	cur := d.DisplayState

	switch target {
	case vocab.ModeTemporary:
		if cur == vocab.Normal {
			c.layout.EmitDecorationUninserted(id)
		}
		c.layout.SetDecorationState(id, vocab.Temporary)
		return nil
	case vocab.ModeColliding:
		if cur == vocab.Normal {
			c.layout.EmitDecorationUninserted(id)
		}
		c.layout.SetDecorationState(id, vocab.Colliding)
		return nil
	case vocab.ModeInsertOrDiscard:
		if cur == vocab.Normal {
			return nil
		}
		// Decorations carry no body points in the collision index
		// (only logic items and wires register BodyLogicItem/
		// BodyWireCorner/BodyWireCross); they are purely visual
		// overlays, so nothing can ever collide with one.
		c.layout.SetDecorationState(id, vocab.Normal)
		c.layout.EmitDecorationInserted(id)
		return nil
	}
	panic(fmt.Sprintf("editablecircuit: unknown insertion mode %d", target))
}

// DeleteDecoration uninserts (if needed) and removes id.
func (c *Circuit) DeleteDecoration(id vocab.DecorationID) error {
	d := c.layout.Decoration(id)
	if d.DisplayState != vocab.Temporary {
		if err := c.ChangeDecorationMode(id, vocab.ModeTemporary); err != nil {
			return err
		}
	}
	d = c.layout.Decoration(id)
	c.undo.PushDecorationDeleteTemporary(c.keys.DecorationKey(id), d)
	c.layout.RemoveDecoration(id)
	return nil
}

// MoveDecoration translates a Temporary decoration by (dx, dy).
func (c *Circuit) MoveDecoration(id vocab.DecorationID, dx, dy vocab.Grid) error {
	d := c.layout.Decoration(id)
	pos := d.Position.Add(dx, dy)
	moved := layout.Decoration{Position: pos, Width: d.Width, Height: d.Height}
	if !decorationInRange(moved) {
		return ErrOutOfRange
	}
	c.undo.PushDecorationMoveTemporary(c.keys.DecorationKey(id), history.MoveDelta{DX: dx, DY: dy})
	c.layout.SetDecorationGeometry(id, pos, d.Width, d.Height)
	return nil
}

// SetDecorationAttributes updates text/font metadata.
func (c *Circuit) SetDecorationAttributes(id vocab.DecorationID, attrs layout.DecorationAttributes) {
	old := c.layout.Decoration(id).Attributes
	c.undo.PushDecorationChangeAttributes(c.keys.DecorationKey(id), old)
	c.layout.SetDecorationAttributes(id, attrs)
}

// --- geometry helpers shared with wire editing -------------------------

// geometryInRange is used by the wire-editing operations in
// wireedit.go to apply the same out-of-range-is-a-no-op rule logic
// items and decorations follow.
func geometryInRange(line vocab.OrderedLine) bool {
	return line.P0.InRange() && line.P1.InRange()
}
