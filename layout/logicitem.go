package layout

import "github.com/sarchlab/logiksim/vocab"

// LogicItem is the persistent record for one logic item: its type,
// geometry, pin counts/inversions, and current display state. Dense
// id is implicit (its slot index in Layout.logicItems); the stable key
// is owned by the key index, not stored here.
type LogicItem struct {
	Type            vocab.LogicItemType
	Position        vocab.Point
	Orientation     vocab.Orientation
	InputCount      int
	OutputCount     int
	InputInverters  []bool
	OutputInverters []bool
	DisplayState    vocab.DisplayState
	Attributes      LogicItemAttributes
}

// LogicItemAttributes holds the non-geometric metadata set_attributes
// can update without touching indices.
type LogicItemAttributes struct {
	ClockPeriodNS uint64 // clock-generator period, nanoseconds
}

// Clone returns a deep copy, used when a message needs to carry a
// point-in-time snapshot of the item: messages carry layout-data
// copies, not references, so listeners never race a concurrent
// mutation during delivery.
func (li LogicItem) Clone() LogicItem {
	out := li
	out.InputInverters = append([]bool(nil), li.InputInverters...)
	out.OutputInverters = append([]bool(nil), li.OutputInverters...)
	return out
}

// pinOffsets returns the relative pin layout, the same for every type (before
// orientation/position are applied): inputs along the "back" side,
// outputs along the "front" side, one per row, matching the classic
// gate silhouette.
func pinOffsets(count int) []vocab.Point {
	offs := make([]vocab.Point, count)
	for i := range offs {
		offs[i] = vocab.Point{X: 0, Y: vocab.Grid(i)}
	}
	return offs
}

// InputPositions returns the absolute grid position of every input
// pin. In orientation Right the inputs sit on the left edge (x=0,
// y=0..n-1) and the output(s) sit on the right edge (x=width): a
// 2-input AND at (5,0) facing right has inputs at (5,0),(5,1) and its
// output at (7,0).
func (li LogicItem) InputPositions() []vocab.Point {
	return li.pinPositions(pinOffsets(li.InputCount), true)
}

// OutputPositions returns the absolute grid position of every output
// pin.
func (li LogicItem) OutputPositions() []vocab.Point {
	width := vocab.Grid(2)
	base := pinOffsets(li.OutputCount)
	offs := make([]vocab.Point, len(base))
	for i, o := range base {
		offs[i] = vocab.Point{X: o.X + width, Y: o.Y}
	}
	return li.pinPositions(offs, false)
}

func (li LogicItem) pinPositions(offs []vocab.Point, _ bool) []vocab.Point {
	out := make([]vocab.Point, len(offs))
	for i, o := range offs {
		out[i] = li.rotate(o)
	}
	return out
}

// rotate applies the item's orientation and position to a
// Right-relative offset.
func (li LogicItem) rotate(o vocab.Point) vocab.Point {
	var rx, ry vocab.Grid
	switch li.Orientation {
	case vocab.Right, vocab.Undirected:
		rx, ry = o.X, o.Y
	case vocab.Left:
		rx, ry = -o.X, -o.Y
	case vocab.Up:
		rx, ry = o.Y, -o.X
	case vocab.Down:
		rx, ry = -o.Y, o.X
	}
	return li.Position.Add(rx, ry)
}

// InputOrientation returns the orientation an incoming wire endpoint
// must have to handshake with input pin i (the pin faces the opposite
// way of the item's own orientation, since the wire point *towards*
// the pin).
func (li LogicItem) InputOrientation() vocab.Orientation {
	return li.Orientation.Opposite()
}

// OutputOrientation returns the orientation the item's own output pins
// face.
func (li LogicItem) OutputOrientation() vocab.Orientation {
	return li.Orientation
}

// BoundingBox returns the logic item's footprint rectangle, used by
// the collision and spatial indices.
func (li LogicItem) BoundingBox() vocab.Rect {
	width := vocab.Grid(2)
	height := vocab.Grid(1)
	if n := li.InputCount; n > int(height) {
		height = vocab.Grid(n)
	}
	if n := li.OutputCount; n > int(height) {
		height = vocab.Grid(n)
	}
	corner1 := li.rotate(vocab.Point{X: 0, Y: 0})
	corner2 := li.rotate(vocab.Point{X: width, Y: height - 1})
	return vocab.NewRect(corner1, corner2)
}
