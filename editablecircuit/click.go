package editablecircuit

import (
	"github.com/sarchlab/logiksim/index/spatial"
	"github.com/sarchlab/logiksim/selection"
	"github.com/sarchlab/logiksim/vocab"
)

// ClickModifier distinguishes the two click behaviors the reference
// editing_logic_manager.cpp dispatches on: a plain click replaces the
// whole selection, a modified (ctrl-held) click toggles just the
// clicked element.
type ClickModifier int

const (
	ClickReplace ClickModifier = iota
	ClickToggle
)

// ClickTarget names what a click landed on, so a caller can decide
// what else to offer (e.g. a context menu only makes sense on Element).
type ClickTarget int

const (
	ClickNothing ClickTarget = iota
	ClickElement
	ClickDecoration
)

// ClickPlan is the pure result of interpreting a click: which
// selection-rectangle operation to apply, and what the click actually
// hit. Nothing here touches the layout or the visible selection —
// that decision belongs to whatever GUI glue calls InterpretClick,
// since the interactive surface itself lives outside this package.
type ClickPlan struct {
	Target       ClickTarget
	DecorationID vocab.DecorationID
	Function     vocab.SelectionFunction
	Rect         vocab.RectFine
}

// InterpretClick decides what a single click at p should do to the
// visible selection. A plain click yields an Add of the cell at p
// (with Target ClickNothing when nothing is there); the plan carries
// no instruction to clear the existing selection. A modified click adds
// the clicked element if it wasn't already selected, else subtracts
// it — the toggle behavior of the reference mouse logic.
func (c *Circuit) InterpretClick(p vocab.Point, mod ClickModifier, sel selection.Selection) ClickPlan {
	rect := pointRectFine(p)

	if id, ok := c.decorationAt(p); ok {
		fn := vocab.Add
		if mod == ClickToggle {
			if _, already := sel.Decorations[id]; already {
				fn = vocab.Subtract
			}
		}
		return ClickPlan{Target: ClickDecoration, DecorationID: id, Function: fn, Rect: rect}
	}

	if c.spatial.HasElement(p) {
		fn := vocab.Add
		if mod == ClickToggle && hitAlreadySelected(c, p, sel) {
			fn = vocab.Subtract
		}
		return ClickPlan{Target: ClickElement, Function: fn, Rect: rect}
	}

	return ClickPlan{Target: ClickNothing, Function: vocab.Add, Rect: rect}
}

// hitAlreadySelected reports whether a logic item at p is already a
// member of sel, used to decide a toggle click's direction. Only logic
// items are checked; InterpretClick handles decorations itself.
func hitAlreadySelected(c *Circuit, p vocab.Point, sel selection.Selection) bool {
	for _, payload := range c.spatial.QuerySelection(vocab.NewRect(p, p)) {
		if payload.Kind == spatial.PayloadLogicItem {
			if _, ok := sel.LogicItems[payload.LogicItem]; ok {
				return true
			}
		}
	}
	return false
}

func pointRectFine(p vocab.Point) vocab.RectFine {
	return vocab.RectFine{
		P0: vocab.PointFine{X: float64(p.X), Y: float64(p.Y)},
		P1: vocab.PointFine{X: float64(p.X) + 1, Y: float64(p.Y) + 1},
	}
}

// decorationAt linearly scans decorations for one whose bounding box
// contains p. Decorations carry no spatial-index entry (pure visual
// overlay, never collides), so there is no faster structure to
// consult.
func (c *Circuit) decorationAt(p vocab.Point) (vocab.DecorationID, bool) {
	for _, id := range c.layout.DecorationIDs() {
		d := c.layout.Decoration(id)
		if d.DisplayState == vocab.Normal && d.BoundingBox().Contains(p) {
			return id, true
		}
	}
	return vocab.DecorationID(vocab.NullID), false
}

// InterpretDrag turns a rubber-band drag from p0 to p1 into the
// rectangle operation a GUI should feed to VisibleSelection.Add (on
// drag start) or UpdateLast (while dragging).
func (c *Circuit) InterpretDrag(p0, p1 vocab.PointFine, mod ClickModifier) ClickPlan {
	fn := vocab.Add
	if mod == ClickToggle {
		fn = vocab.Subtract
	}
	return ClickPlan{Target: ClickNothing, Function: fn, Rect: vocab.RectFine{P0: p0, P1: p1}.Normalized()}
}

// Handle is one draggable resize grip of a decoration, in the corner
// convention of the reference drag_handle.h: one handle per bounding
// box corner.
type Handle struct {
	Corner   int // 0=top-left, 1=top-right, 2=bottom-right, 3=bottom-left
	Position vocab.Point
}

// DecorationHandles returns the four corner resize handles for d's
// current bounding box, pure geometry over the live layout with no
// side effects — the same seam InterpretClick uses to let a GUI
// collaborator decide what a drag on one of these points means,
// without this package depending on any GUI/rendering library.
func (c *Circuit) DecorationHandles(id vocab.DecorationID) []Handle {
	d := c.layout.Decoration(id)
	box := d.BoundingBox()
	return []Handle{
		{Corner: 0, Position: vocab.Point{X: box.P0.X, Y: box.P0.Y}},
		{Corner: 1, Position: vocab.Point{X: box.P1.X, Y: box.P0.Y}},
		{Corner: 2, Position: vocab.Point{X: box.P1.X, Y: box.P1.Y}},
		{Corner: 3, Position: vocab.Point{X: box.P0.X, Y: box.P1.Y}},
	}
}
