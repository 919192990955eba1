// Package spatial implements a grid-bucketed spatial index in place
// of a true R-tree: it buckets payloads by their selection
// rectangle's overlapping grid cells, which keeps query_selection and
// has_element close to O(1) per cell without pulling in a third-party
// spatial-index library (see DESIGN.md for why none is used).
package spatial

import (
	"unsafe"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/vocab"
)

// PayloadKind discriminates the tagged union stored per entry.
type PayloadKind int

const (
	PayloadLogicItem PayloadKind = iota
	PayloadSegment
)

// Payload is the tagged union of what the spatial index can return:
// a logic item or a wire segment.
type Payload struct {
	Kind      PayloadKind
	LogicItem vocab.LogicItemID
	Segment   vocab.Segment
}

// cellSize is the grid-bucket edge length; entries are filed under
// every cell their rectangle overlaps.
const cellSize = vocab.Grid(16)

type cell struct{ x, y vocab.Grid }

func cellsOf(r vocab.Rect) []cell {
	x0, y0 := r.P0.X/cellSize, r.P0.Y/cellSize
	x1, y1 := r.P1.X/cellSize, r.P1.Y/cellSize
	var out []cell
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			out = append(out, cell{x, y})
		}
	}
	return out
}

type entry struct {
	rect    vocab.Rect
	payload Payload
}

// Index is the grid-bucketed rectangle store.
type Index struct {
	buckets map[cell][]int
	entries map[int]entry
	nextID  int
}

// New returns an empty spatial index.
func New() *Index {
	return &Index{buckets: make(map[cell][]int), entries: make(map[int]entry)}
}

// AllocatedSize approximates the index's bucket-map and entry-map
// byte usage, the Go analog of the C++ spatial index's
// allocated_size() (allocated_size.h). Bucket membership is
// approximated by counting int slots rather than walking every bucket
// slice, matching the header's own "approximate" framing.
func (idx *Index) AllocatedSize() int {
	total := len(idx.entries) * int(unsafe.Sizeof(0)+unsafe.Sizeof(entry{}))
	for _, ids := range idx.buckets {
		total += int(unsafe.Sizeof(cell{})) + len(ids)*int(unsafe.Sizeof(0))
	}
	return total
}

// Insert files payload under rect, across every cell it overlaps.
func (idx *Index) Insert(rect vocab.Rect, payload Payload) {
	id := idx.nextID
	idx.nextID++
	idx.entries[id] = entry{rect: rect, payload: payload}
	for _, c := range cellsOf(rect) {
		idx.buckets[c] = append(idx.buckets[c], id)
	}
}

// Remove retracts the first entry whose rect and payload match
// exactly. The remove-then-insert-with-the-same-rectangle update
// convention means callers always know the old rectangle.
func (idx *Index) Remove(rect vocab.Rect, payload Payload) {
	for id, e := range idx.entries {
		if e.rect == rect && e.payload == payload {
			delete(idx.entries, id)
			for _, c := range cellsOf(rect) {
				idx.buckets[c] = removeID(idx.buckets[c], id)
			}
			return
		}
	}
}

func removeID(ids []int, target int) []int {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// QuerySelection returns every payload whose rectangle intersects
// rect.
func (idx *Index) QuerySelection(rect vocab.Rect) []Payload {
	seen := make(map[int]bool)
	var out []Payload
	for _, c := range cellsOf(rect) {
		for _, id := range idx.buckets[c] {
			if seen[id] {
				continue
			}
			seen[id] = true
			if e, ok := idx.entries[id]; ok && e.rect.Intersects(rect) {
				out = append(out, e.payload)
			}
		}
	}
	return out
}

// HasElement reports whether any entry intersects the zero-area point
// p.
func (idx *Index) HasElement(p vocab.Point) bool {
	rect := vocab.Rect{P0: p, P1: p}
	return len(idx.QuerySelection(rect)) > 0
}

// QueryLineSegments returns up to four segments whose rectangle
// touches the grid point p, used to disambiguate a click on a wire
// vertex.
func (idx *Index) QueryLineSegments(p vocab.Point) []vocab.Segment {
	var out []vocab.Segment
	for _, payload := range idx.QuerySelection(vocab.Rect{P0: p, P1: p}) {
		if payload.Kind == PayloadSegment {
			out = append(out, payload.Segment)
			if len(out) == 4 {
				break
			}
		}
	}
	return out
}

// logicItemRect returns the selection rectangle for a logic item:
// its bounding box expanded by a small margin.
func logicItemRect(data bus.LayoutData) vocab.Rect {
	width := vocab.Grid(2)
	height := vocab.Grid(1)
	if n := vocab.Grid(data.InputCount); n > height {
		height = n
	}
	if n := vocab.Grid(data.OutputCount); n > height {
		height = n
	}
	return vocab.NewRect(data.Position, vocab.Point{X: data.Position.X + width, Y: data.Position.Y + height - 1}).Expanded(1)
}

// segmentRect returns the thin oriented selection box for a segment's
// line.
func segmentRect(line vocab.OrderedLine) vocab.Rect {
	return vocab.NewRect(line.P0, line.P1)
}

// Submit reacts to the Inserted/Uninserted messages that add or
// retract entries from the index, keeping it containing exactly the
// currently inserted items.
func (idx *Index) Submit(m bus.Message) {
	switch m.Kind {
	case bus.KindLogicItemInserted:
		idx.Insert(logicItemRect(m.LogicItemInserted.Data), Payload{Kind: PayloadLogicItem, LogicItem: m.LogicItemInserted.ID})
	case bus.KindLogicItemUninserted:
		idx.Remove(logicItemRect(m.LogicItemUninserted.Data), Payload{Kind: PayloadLogicItem, LogicItem: m.LogicItemUninserted.ID})
	case bus.KindInsertedLogicItemIDUpdated:
		u := m.InsertedLogicItemIDUpdated
		idx.Remove(logicItemRect(u.Data), Payload{Kind: PayloadLogicItem, LogicItem: u.Old})
		idx.Insert(logicItemRect(u.Data), Payload{Kind: PayloadLogicItem, LogicItem: u.New})
	case bus.KindSegmentInserted:
		idx.Insert(segmentRect(m.SegmentInserted.Info.Line), Payload{Kind: PayloadSegment, Segment: m.SegmentInserted.Segment})
	case bus.KindSegmentUninserted:
		idx.Remove(segmentRect(m.SegmentUninserted.Info.Line), Payload{Kind: PayloadSegment, Segment: m.SegmentUninserted.Segment})
	case bus.KindInsertedSegmentIDUpdated:
		u := m.InsertedSegmentIDUpdated
		idx.Remove(segmentRect(u.Info.Line), Payload{Kind: PayloadSegment, Segment: u.Old})
		idx.Insert(segmentRect(u.Info.Line), Payload{Kind: PayloadSegment, Segment: u.New})
	case bus.KindInsertedEndPointsUpdated:
		u := m.InsertedEndPointsUpdated
		idx.Remove(segmentRect(u.OldInfo.Line), Payload{Kind: PayloadSegment, Segment: u.Segment})
		idx.Insert(segmentRect(u.NewInfo.Line), Payload{Kind: PayloadSegment, Segment: u.Segment})
	}
}
