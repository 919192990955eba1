// Package connection implements the four point-keyed handshake maps:
// logic-item inputs, logic-item outputs, wire inputs, and wire
// outputs. Two pins at the same point are only compatible when they
// face opposite directions.
package connection

import (
	"fmt"
	"unsafe"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/vocab"
)

// LogicItemEndpoint identifies one pin of one logic item.
type LogicItemEndpoint struct {
	ID           vocab.LogicItemID
	ConnectionID int
	Orientation  vocab.Orientation
}

// WireEndpoint identifies one endpoint of one wire segment.
type WireEndpoint struct {
	Segment     vocab.Segment
	Orientation vocab.Orientation
}

// Index holds the four maps. Logic-item orientation for an input pin
// is the item's InputOrientation (the opposite of its own facing);
// output pins use OutputOrientation. Wire endpoint orientation is
// derived by the caller from the segment's line direction.
type Index struct {
	logicItemInputs  map[vocab.Point]LogicItemEndpoint
	logicItemOutputs map[vocab.Point]LogicItemEndpoint
	wireInputs       map[vocab.Point]WireEndpoint
	wireOutputs      map[vocab.Point]WireEndpoint
}

// New returns an empty connection index.
func New() *Index {
	return &Index{
		logicItemInputs:  make(map[vocab.Point]LogicItemEndpoint),
		logicItemOutputs: make(map[vocab.Point]LogicItemEndpoint),
		wireInputs:       make(map[vocab.Point]WireEndpoint),
		wireOutputs:      make(map[vocab.Point]WireEndpoint),
	}
}

// AllocatedSize approximates the index's four backing-map byte usage,
// the Go analog of the C++ connection indices' allocated_size()
// (allocated_size.h).
func (idx *Index) AllocatedSize() int {
	pointEntry := int(unsafe.Sizeof(vocab.Point{}) + unsafe.Sizeof(LogicItemEndpoint{}))
	wireEntry := int(unsafe.Sizeof(vocab.Point{}) + unsafe.Sizeof(WireEndpoint{}))
	total := len(idx.logicItemInputs) * pointEntry
	total += len(idx.logicItemOutputs) * pointEntry
	total += len(idx.wireInputs) * wireEntry
	total += len(idx.wireOutputs) * wireEntry
	return total
}

// LogicItemInput returns the logic-item input pin registered at p, if
// any.
func (idx *Index) LogicItemInput(p vocab.Point) (LogicItemEndpoint, bool) {
	e, ok := idx.logicItemInputs[p]
	return e, ok
}

// LogicItemOutput returns the logic-item output pin registered at p.
func (idx *Index) LogicItemOutput(p vocab.Point) (LogicItemEndpoint, bool) {
	e, ok := idx.logicItemOutputs[p]
	return e, ok
}

// WireInput returns the wire input endpoint registered at p.
func (idx *Index) WireInput(p vocab.Point) (WireEndpoint, bool) {
	e, ok := idx.wireInputs[p]
	return e, ok
}

// WireOutput returns the wire output endpoint registered at p.
func (idx *Index) WireOutput(p vocab.Point) (WireEndpoint, bool) {
	e, ok := idx.wireOutputs[p]
	return e, ok
}

// IsOrientationCompatible reports whether a new pin at p facing want
// may handshake with whatever is already registered there: the two
// opposite-facing conventions used throughout the index (a logic
// item's input faces the opposite way of a wire's output, and vice
// versa) mean compatibility always reduces to "existing faces the
// opposite direction of want, or nothing is there yet".
func (idx *Index) IsOrientationCompatible(p vocab.Point, want vocab.Orientation) bool {
	if e, ok := idx.logicItemInputs[p]; ok {
		return e.Orientation == want.Opposite()
	}
	if e, ok := idx.logicItemOutputs[p]; ok {
		return e.Orientation == want.Opposite()
	}
	if e, ok := idx.wireInputs[p]; ok {
		return e.Orientation == want.Opposite()
	}
	if e, ok := idx.wireOutputs[p]; ok {
		return e.Orientation == want.Opposite()
	}
	return true
}

func (idx *Index) insertLogicItemInput(p vocab.Point, e LogicItemEndpoint) {
	if _, dup := idx.logicItemInputs[p]; dup {
		panic(fmt.Sprintf("connection: duplicate logic item input at %s", p))
	}
	idx.logicItemInputs[p] = e
}

func (idx *Index) insertLogicItemOutput(p vocab.Point, e LogicItemEndpoint) {
	if _, dup := idx.logicItemOutputs[p]; dup {
		panic(fmt.Sprintf("connection: duplicate logic item output at %s", p))
	}
	idx.logicItemOutputs[p] = e
}

// Submit reacts to LogicItemInserted/Uninserted and
// SegmentInserted/Uninserted/InsertedEndPointsUpdated messages,
// registering or retracting handshake pins.
func (idx *Index) Submit(m bus.Message) {
	switch m.Kind {
	case bus.KindLogicItemInserted:
		idx.insertLogicItem(m.LogicItemInserted.ID, m.LogicItemInserted.Data)
	case bus.KindLogicItemUninserted:
		idx.removeLogicItem(m.LogicItemUninserted.Data)
	case bus.KindSegmentInserted:
		idx.insertSegment(m.SegmentInserted.Segment, m.SegmentInserted.Info)
	case bus.KindSegmentUninserted:
		idx.removeSegment(m.SegmentUninserted.Info)
	case bus.KindInsertedEndPointsUpdated:
		idx.removeSegment(m.InsertedEndPointsUpdated.OldInfo)
		idx.insertSegment(m.InsertedEndPointsUpdated.Segment, m.InsertedEndPointsUpdated.NewInfo)
	}
}

func (idx *Index) insertLogicItem(id vocab.LogicItemID, data bus.LayoutData) {
	inputOrientation := data.Orientation.Opposite()
	for i, p := range data.InputOffset {
		idx.insertLogicItemInput(p, LogicItemEndpoint{ID: id, ConnectionID: i, Orientation: inputOrientation})
	}
	for i, p := range data.OutputOffset {
		idx.insertLogicItemOutput(p, LogicItemEndpoint{ID: id, ConnectionID: i, Orientation: data.Orientation})
	}
}

func (idx *Index) removeLogicItem(data bus.LayoutData) {
	for _, p := range data.InputOffset {
		delete(idx.logicItemInputs, p)
	}
	for _, p := range data.OutputOffset {
		delete(idx.logicItemOutputs, p)
	}
}

func lineOrientation(line vocab.OrderedLine, atP0 bool) vocab.Orientation {
	if line.IsHorizontal() {
		if atP0 {
			return vocab.Left
		}
		return vocab.Right
	}
	if atP0 {
		return vocab.Up
	}
	return vocab.Down
}

func (idx *Index) insertSegment(seg vocab.Segment, info bus.SegmentInfo) {
	if info.P0Type == vocab.Input {
		if _, dup := idx.wireInputs[info.Line.P0]; dup {
			panic(fmt.Sprintf("connection: duplicate wire input at %s", info.Line.P0))
		}
		idx.wireInputs[info.Line.P0] = WireEndpoint{Segment: seg, Orientation: lineOrientation(info.Line, true)}
	}
	if info.P0Type == vocab.Output {
		if _, dup := idx.wireOutputs[info.Line.P0]; dup {
			panic(fmt.Sprintf("connection: duplicate wire output at %s", info.Line.P0))
		}
		idx.wireOutputs[info.Line.P0] = WireEndpoint{Segment: seg, Orientation: lineOrientation(info.Line, true)}
	}
	if info.P1Type == vocab.Input {
		if _, dup := idx.wireInputs[info.Line.P1]; dup {
			panic(fmt.Sprintf("connection: duplicate wire input at %s", info.Line.P1))
		}
		idx.wireInputs[info.Line.P1] = WireEndpoint{Segment: seg, Orientation: lineOrientation(info.Line, false)}
	}
	if info.P1Type == vocab.Output {
		if _, dup := idx.wireOutputs[info.Line.P1]; dup {
			panic(fmt.Sprintf("connection: duplicate wire output at %s", info.Line.P1))
		}
		idx.wireOutputs[info.Line.P1] = WireEndpoint{Segment: seg, Orientation: lineOrientation(info.Line, false)}
	}
}

func (idx *Index) removeSegment(info bus.SegmentInfo) {
	if info.P0Type == vocab.Input {
		delete(idx.wireInputs, info.Line.P0)
	}
	if info.P0Type == vocab.Output {
		delete(idx.wireOutputs, info.Line.P0)
	}
	if info.P1Type == vocab.Input {
		delete(idx.wireInputs, info.Line.P1)
	}
	if info.P1Type == vocab.Output {
		delete(idx.wireOutputs, info.Line.P1)
	}
}
