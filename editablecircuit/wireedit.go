package editablecircuit

import (
	"fmt"
	"sort"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/geometry"
	"github.com/sarchlab/logiksim/index/collision"
	"github.com/sarchlab/logiksim/vocab"
)

// AddWireSegment creates a new single-segment wire in Temporary state
// and tries to settle it at mode, mirroring AddLogicItem's two-phase
// shape. Merging a new segment into an existing wire tree (rather than
// always starting a fresh one) is FixAndMergeSegments' job, called
// separately once the caller knows the segment's final position.
func (c *Circuit) AddWireSegment(line vocab.OrderedLine, mode vocab.InsertionMode) (vocab.Segment, error) {
	if !geometryInRange(line) {
		return vocab.Segment{}, ErrOutOfRange
	}
	wireID := c.layout.AddWire()
	idx := c.layout.AddSegment(wireID, line)
	seg := vocab.Segment{Wire: wireID, Index: idx}
	info := c.layout.Wire(wireID).Tree.Info(idx)
	c.undo.PushWireCreateTemporary(c.keys.SegmentKey(seg), []bus.SegmentInfo{info})

	finalWireID, err := c.ChangeWireMode(wireID, mode)
	if err != nil {
		return seg, err
	}
	if finalWireID == wireID {
		return vocab.Segment{Wire: finalWireID, Index: idx}, nil
	}
	// ChangeWireMode folded wireID into an already-inserted wire it
	// crossed (coalesceCrossingWires): the original segment no longer
	// exists as such, so report whichever survivor segment still
	// starts at the line's own P0.
	return vocab.Segment{Wire: finalWireID, Index: c.segmentAt(finalWireID, line.P0)}, nil
}

// ChangeWireMode is the wire analogue of ChangeLogicItemMode. A wire's
// display state applies to its whole segment tree, so the
// collision check and the Inserted/Uninserted announcements cover
// every segment at once. Before the collision check, every segment's
// endpoint types are recomputed against the live indices: this is
// where the input/output/cross/corner/shadow endpoint classification
// happens, one endpoint at a time, against whatever already occupies
// that point. The returned WireID is normally just wireID echoed back;
// it differs only when settling at Normal discovers wireID crosses an
// already-inserted wire, in which case the two segment trees coalesce
// into one (Boundary Scenario S1) and the surviving id is returned.
func (c *Circuit) ChangeWireMode(wireID vocab.WireID, target vocab.InsertionMode) (vocab.WireID, error) {
	w := c.layout.Wire(wireID)
	cur := w.DisplayState

	switch target {
	case vocab.ModeTemporary:
		if cur == vocab.Normal {
			c.uninsertWire(wireID)
		}
		c.layout.SetWireState(wireID, vocab.Temporary)
		return wireID, nil

	case vocab.ModeColliding:
		if cur == vocab.Normal {
			c.uninsertWire(wireID)
		}
		c.layout.SetWireState(wireID, vocab.Colliding)
		return wireID, nil

	case vocab.ModeInsertOrDiscard:
		if cur == vocab.Normal {
			return wireID, nil
		}
		c.recomputeEndpointTypes(wireID)
		if c.wireCollides(wireID) {
			c.layout.SetWireState(wireID, vocab.Colliding)
			return wireID, nil
		}
		if p, other, ok := c.crossingPoint(wireID); ok {
			wireID = c.coalesceCrossingWires(wireID, other, p)
		}
		c.layout.SetWireState(wireID, vocab.Normal)
		for _, idx := range c.layout.Wire(wireID).Tree.Indices() {
			c.layout.EmitSegmentInserted(wireID, idx)
		}
		c.connectWireToItems(wireID)
		return wireID, nil
	}
	panic(fmt.Sprintf("editablecircuit: unknown insertion mode %d", target))
}

// crossingPoint looks for an interior point of wireID's (not yet
// inserted) segment tree that already lands on another wire's own
// interior occupancy, the configuration Boundary Scenario S1 expects
// to coalesce into a single tree rather than settle as two
// independently-crossing wires. Only a segment's true interior
// qualifies: an endpoint landing on another wire is a corner/cross
// handshake recomputeEndpointTypes already classifies, not a
// same-point overlap that needs splitting.
func (c *Circuit) crossingPoint(wireID vocab.WireID) (vocab.Point, vocab.WireID, bool) {
	w := c.layout.Wire(wireID)
	for _, idx := range w.Tree.Indices() {
		info := w.Tree.Info(idx)
		pts := geometry.GridPointsOn(info.Line)
		horizontal := info.Line.IsHorizontal()
		for i := 1; i < len(pts)-1; i++ {
			if other, ok := c.collision.OrthogonalWire(pts[i], horizontal); ok {
				return pts[i], other, true
			}
		}
	}
	return vocab.Point{}, 0, false
}

// segmentContainingInterior returns the segment of wireID whose line
// has p strictly in its interior (neither endpoint), if any.
func (c *Circuit) segmentContainingInterior(wireID vocab.WireID, p vocab.Point) (vocab.SegmentIndex, bool) {
	w := c.layout.Wire(wireID)
	for _, idx := range w.Tree.Indices() {
		info := w.Tree.Info(idx)
		if info.Line.P0 == p || info.Line.P1 == p {
			continue
		}
		if geometry.PointOnLine(info.Line, p) {
			return idx, true
		}
	}
	return 0, false
}

// segmentAt returns the index of any segment of wireID with p as one
// of its endpoints, or 0 if none match (best-effort lookup for a
// caller that only needs a representative segment, e.g. after a
// coalesce changed which segments exist).
func (c *Circuit) segmentAt(wireID vocab.WireID, p vocab.Point) vocab.SegmentIndex {
	w := c.layout.Wire(wireID)
	for _, idx := range w.Tree.Indices() {
		info := w.Tree.Info(idx)
		if info.Line.P0 == p || info.Line.P1 == p {
			return idx
		}
	}
	return 0
}

// coalesceCrossingWires is the inverse of SplitBrokenTree: two
// independently-settled trees that turn out to cross at p become one.
// Both wireID and other are split at p (so p becomes a shared segment
// endpoint rather than buried in an uncut line), every segment of
// wireID is moved onto other, wireID is retired, and all four
// segments now meeting at p are marked as a genuine wire cross. other
// must not be wireID itself and is dropped to Temporary for the
// duration of the splice; wireID must not yet be inserted.
func (c *Circuit) coalesceCrossingWires(wireID, other vocab.WireID, p vocab.Point) vocab.WireID {
	if c.layout.Wire(other).DisplayState == vocab.Normal {
		if _, err := c.ChangeWireMode(other, vocab.ModeTemporary); err != nil {
			panic(fmt.Sprintf("editablecircuit: coalesce could not uninsert wire %s: %v", other, err))
		}
	}
	if idx, ok := c.segmentContainingInterior(other, p); ok {
		c.SplitLineSegment(other, idx, p)
	}
	if idx, ok := c.segmentContainingInterior(wireID, p); ok {
		c.SplitLineSegment(wireID, idx, p)
	}

	for _, idx := range c.layout.Wire(wireID).Tree.Indices() {
		info := c.layout.Wire(wireID).Tree.Info(idx)
		newIdx := c.layout.AddSegment(other, info.Line)
		c.layout.Wire(other).Tree.UpdateEndpointTypes(newIdx, info.P0Type, info.P1Type)
	}
	indices := c.layout.Wire(wireID).Tree.Indices()
	for i := len(indices) - 1; i >= 0; i-- {
		c.layout.RemoveSegment(wireID, indices[i])
	}
	c.layout.RemoveWire(wireID)

	for _, idx := range c.layout.Wire(other).Tree.Indices() {
		info := c.layout.Wire(other).Tree.Info(idx)
		p0, p1 := info.P0Type, info.P1Type
		if info.Line.P0 == p {
			p0 = vocab.Cross
		}
		if info.Line.P1 == p {
			p1 = vocab.Cross
		}
		if p0 != info.P0Type || p1 != info.P1Type {
			c.layout.Wire(other).Tree.UpdateEndpointTypes(idx, p0, p1)
		}
	}
	return other
}

func (c *Circuit) uninsertWire(wireID vocab.WireID) {
	for _, idx := range c.layout.Wire(wireID).Tree.Indices() {
		c.layout.EmitSegmentUninserted(wireID, idx)
	}
}

// recomputeEndpointTypes assigns every segment's two endpoints a fresh
// PointType from the live connection/collision state, ahead of a
// colliding/normal decision.
func (c *Circuit) recomputeEndpointTypes(wireID vocab.WireID) {
	w := c.layout.Wire(wireID)
	for _, idx := range w.Tree.Indices() {
		info := w.Tree.Info(idx)
		p0 := c.computeEndpointType(info.Line.P0)
		p1 := c.computeEndpointType(info.Line.P1)
		c.layout.SetSegmentEndpointTypes(wireID, idx, p0, p1)
	}
}

// computeEndpointType classifies a single point: a handshake with a
// logic item pin wins first (the wire
// endpoint's type always mirrors the pin it sits on), then an existing
// wire's own cross/corner tag, then plain continuation of an existing
// wire (also a corner, since two segments meeting at a point without a
// pin is a bend or a crossing), and shadow as the fallback for a point
// touching nothing at all.
func (c *Circuit) computeEndpointType(p vocab.Point) vocab.PointType {
	if _, ok := c.connection.LogicItemInput(p); ok {
		return vocab.Input
	}
	if _, ok := c.connection.LogicItemOutput(p); ok {
		return vocab.Output
	}
	if c.collision.IsWireCrossPoint(p) || c.collision.IsWiresCrossing(p) {
		return vocab.Cross
	}
	if c.collision.GetFirstWire(p).Valid() {
		return vocab.Corner
	}
	return vocab.Shadow
}

func (c *Circuit) wireCollides(wireID vocab.WireID) bool {
	w := c.layout.Wire(wireID)
	for _, idx := range w.Tree.Indices() {
		if c.segmentCollides(w.Tree.Info(idx)) {
			return true
		}
	}
	return false
}

func (c *Circuit) segmentCollides(info bus.SegmentInfo) bool {
	pts := geometry.GridPointsOn(info.Line)
	for i, p := range pts {
		var it collision.ItemType
		switch {
		case i == 0:
			it = collisionItemTypeFor(info.P0Type, info.Line.IsHorizontal())
		case i == len(pts)-1:
			it = collisionItemTypeFor(info.P1Type, info.Line.IsHorizontal())
		default:
			if info.Line.IsHorizontal() {
				it = collision.ItemWireHorizontal
			} else {
				it = collision.ItemWireVertical
			}
		}
		if c.collision.IsColliding(p, it) {
			return true
		}
	}
	return false
}

func collisionItemTypeFor(pt vocab.PointType, horizontal bool) collision.ItemType {
	switch pt {
	case vocab.Input, vocab.Output:
		return collision.ItemWireConnection
	case vocab.Corner:
		return collision.ItemWireCorner
	case vocab.Cross:
		return collision.ItemWireCross
	default:
		if horizontal {
			return collision.ItemWireHorizontal
		}
		return collision.ItemWireVertical
	}
}

// connectWireToItems is the wire-side half of the post-insertion
// endpoint fixup: once a wire is inserted, any logic item output pin
// it now touches should drive
// it, so the shared endpoint's type is forced to input (the item-side
// half, connectLogicItemToWires, runs the symmetric fixup when a logic
// item is inserted next to an existing wire).
func (c *Circuit) connectWireToItems(wireID vocab.WireID) {
	c.SetWireInputsAtLogicItemOutputs(wireID)
}

// connectLogicItemToWires looks at every inserted logic item's output
// pin and, for any wire already occupying that point, re-derives its
// endpoint types so the now-adjacent output pin is reflected as the
// wire's input.
func (c *Circuit) connectLogicItemToWires(id vocab.LogicItemID) {
	item := c.layout.LogicItem(id)
	seen := make(map[vocab.WireID]struct{})
	for _, p := range item.OutputPositions() {
		if wireID := c.collision.GetFirstWire(p); wireID.Valid() {
			if _, ok := seen[wireID]; !ok {
				seen[wireID] = struct{}{}
				c.SetWireInputsAtLogicItemOutputs(wireID)
			}
		}
	}
}

// SetWireInputsAtLogicItemOutputs forces every segment endpoint of
// wireID that coincides with a logic item's output pin to PointType
// Input: a wire touching an output pin is always that pin's input,
// applied directly rather than waiting for a full endpoint recompute
// (which would also reclassify untouched endpoints if the wire
// happens to be re-evaluated for other reasons).
func (c *Circuit) SetWireInputsAtLogicItemOutputs(wireID vocab.WireID) {
	w := c.layout.Wire(wireID)
	for _, idx := range w.Tree.Indices() {
		info := w.Tree.Info(idx)
		p0, p1 := info.P0Type, info.P1Type
		if _, ok := c.connection.LogicItemOutput(info.Line.P0); ok {
			p0 = vocab.Input
		}
		if _, ok := c.connection.LogicItemOutput(info.Line.P1); ok {
			p1 = vocab.Input
		}
		if p0 != info.P0Type || p1 != info.P1Type {
			c.layout.SetSegmentEndpointTypes(wireID, idx, p0, p1)
		}
	}
}

// DeleteWire uninserts (if needed) and removes every segment of
// wireID, then the now-empty wire itself. Segments are removed in
// descending index order: layout.RemoveSegment is a swap-and-pop, so
// removing from the back first means every index captured up front
// still names the segment it named at capture time, the same
// batch-fixup rule reused in MergeAllLineSegments/SplitBrokenTree
// below.
func (c *Circuit) DeleteWire(wireID vocab.WireID) error {
	w := c.layout.Wire(wireID)
	if w.DisplayState != vocab.Temporary {
		if _, err := c.ChangeWireMode(wireID, vocab.ModeTemporary); err != nil {
			return err
		}
	}
	indices := c.layout.Wire(wireID).Tree.Indices()
	if len(indices) == 0 {
		c.layout.RemoveWire(wireID)
		return nil
	}
	segs := make([]bus.SegmentInfo, len(indices))
	for i, idx := range indices {
		segs[i] = c.layout.Wire(wireID).Tree.Info(idx)
	}
	key := c.keys.SegmentKey(vocab.Segment{Wire: wireID, Index: indices[0]})
	c.undo.PushWireDeleteTemporary(key, segs)

	for i := len(indices) - 1; i >= 0; i-- {
		c.layout.RemoveSegment(wireID, indices[i])
	}
	c.layout.RemoveWire(wireID)
	return nil
}

// SplitLineSegment splits the segment at idx into two at the interior
// grid point at, shrinking the original to [P0, at] and appending a
// new segment [at, P1]. Only valid on a Temporary/Colliding wire: a
// split changes per-endpoint geometry the connection/collision indices
// would otherwise have to re-key live, exactly the invariant
// SetLogicItemGeometry enforces for logic items.
func (c *Circuit) SplitLineSegment(wireID vocab.WireID, idx vocab.SegmentIndex, at vocab.Point) vocab.SegmentIndex {
	w := c.layout.Wire(wireID)
	if w.DisplayState == vocab.Normal {
		panic(fmt.Sprintf("editablecircuit: SplitLineSegment on inserted wire %s", wireID))
	}
	info := w.Tree.Info(idx)
	if !geometry.PointOnLine(info.Line, at) || at == info.Line.P0 || at == info.Line.P1 {
		panic("editablecircuit: split point not interior to segment")
	}
	w.Tree.SetLine(idx, vocab.NewOrderedLine(info.Line.P0, at))
	w.Tree.UpdateEndpointTypes(idx, info.P0Type, vocab.Shadow)
	c.layout.SetWireState(wireID, w.DisplayState) // bump generation after direct tree edit
	newIdx := c.layout.AddSegment(wireID, vocab.NewOrderedLine(at, info.Line.P1))
	c.layout.Wire(wireID).Tree.UpdateEndpointTypes(newIdx, vocab.Shadow, info.P1Type)
	return newIdx
}

// MergeLineSegments merges two collinear segments of the same wire
// that share exactly one endpoint into one, always keeping the
// lower-indexed segment's slot and removing the other (so a caller
// merging many pairs in one pass can still rely on the lower index
// remaining valid). Returns an error if the segments do not qualify.
func (c *Circuit) MergeLineSegments(wireID vocab.WireID, a, b vocab.SegmentIndex) (vocab.SegmentIndex, error) {
	w := c.layout.Wire(wireID)
	if w.DisplayState == vocab.Normal {
		panic(fmt.Sprintf("editablecircuit: MergeLineSegments on inserted wire %s", wireID))
	}
	infoA := w.Tree.Info(a)
	infoB := w.Tree.Info(b)
	if !geometry.Collinear(infoA.Line, infoB.Line) {
		return 0, fmt.Errorf("editablecircuit: segments %d and %d are not collinear", a, b)
	}
	shared, ok := geometry.SharedEndpoint(infoA.Line, infoB.Line)
	if !ok {
		return 0, fmt.Errorf("editablecircuit: segments %d and %d do not share an endpoint", a, b)
	}

	farA, typeFarA := farEndpoint(infoA, shared)
	farB, typeFarB := farEndpoint(infoB, shared)
	mergedLine := vocab.NewOrderedLine(farA, farB)
	p0Type, p1Type := typeFarA, typeFarB
	if mergedLine.P0 != farA {
		p0Type, p1Type = typeFarB, typeFarA
	}

	keep, drop := a, b
	if b < a {
		keep, drop = b, a
	}
	w.Tree.SetLine(keep, mergedLine)
	w.Tree.UpdateEndpointTypes(keep, p0Type, p1Type)
	c.layout.SetWireState(wireID, w.DisplayState)
	c.layout.RemoveSegment(wireID, drop)
	return keep, nil
}

func farEndpoint(info bus.SegmentInfo, shared vocab.Point) (vocab.Point, vocab.PointType) {
	if info.Line.P0 == shared {
		return info.Line.P1, info.P1Type
	}
	return info.Line.P0, info.P0Type
}

// MergeAllLineSegments repeatedly merges any two collinear,
// endpoint-sharing segments of wireID until no more pairs qualify,
// collapsing a wire that has accumulated redundant splits (e.g. after
// several drag-and-drop edits) back to its minimal representation.
func (c *Circuit) MergeAllLineSegments(wireID vocab.WireID) {
	w := c.layout.Wire(wireID)
	if w.DisplayState == vocab.Normal {
		panic(fmt.Sprintf("editablecircuit: MergeAllLineSegments on inserted wire %s", wireID))
	}
	for {
		merged := false
		indices := c.layout.Wire(wireID).Tree.Indices()
		for i := 0; i < len(indices) && !merged; i++ {
			for j := i + 1; j < len(indices); j++ {
				a, b := indices[i], indices[j]
				tree := &c.layout.Wire(wireID).Tree
				infoA, infoB := tree.Info(a), tree.Info(b)
				if !geometry.Collinear(infoA.Line, infoB.Line) {
					continue
				}
				if _, ok := geometry.SharedEndpoint(infoA.Line, infoB.Line); !ok {
					continue
				}
				if _, err := c.MergeLineSegments(wireID, a, b); err == nil {
					merged = true
				}
				break
			}
		}
		if !merged {
			return
		}
	}
}

// SplitBrokenTree partitions wireID's segments into connected
// components (by shared endpoints) and, if there is more than one,
// moves every component after the first into its own new wire,
// leaving the first component on wireID. Returns the newly created
// wire ids, in component order. This is what a segment deletion in the
// middle of a wire needs: removing the bridging segment leaves two
// geometrically disjoint trees sharing one dense id, which is not a
// valid wire.
func (c *Circuit) SplitBrokenTree(wireID vocab.WireID) []vocab.WireID {
	w := c.layout.Wire(wireID)
	if w.DisplayState == vocab.Normal {
		panic(fmt.Sprintf("editablecircuit: SplitBrokenTree on inserted wire %s", wireID))
	}
	indices := w.Tree.Indices()
	n := len(indices)
	infos := make([]bus.SegmentInfo, n)
	for i, idx := range indices {
		infos[i] = w.Tree.Info(idx)
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if _, ok := geometry.SharedEndpoint(infos[i].Line, infos[j].Line); ok {
				ri, rj := find(i), find(j)
				if ri != rj {
					parent[ri] = rj
				}
			}
		}
	}

	groups := make(map[int][]int)
	for i := range indices {
		r := find(i)
		groups[r] = append(groups[r], i)
	}
	if len(groups) <= 1 {
		return nil
	}

	var roots []int
	for r := range groups {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	var newWires []vocab.WireID
	var toRemove []int
	for gi := 1; gi < len(roots); gi++ {
		members := groups[roots[gi]]
		newWireID := c.layout.AddWire()
		for _, m := range members {
			info := infos[m]
			newIdx := c.layout.AddSegment(newWireID, info.Line)
			c.layout.Wire(newWireID).Tree.UpdateEndpointTypes(newIdx, info.P0Type, info.P1Type)
			toRemove = append(toRemove, m)
		}
		newWires = append(newWires, newWireID)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(toRemove)))
	for _, m := range toRemove {
		c.layout.RemoveSegment(wireID, indices[m])
	}
	return newWires
}

// FixAndMergeSegments recomputes every endpoint type of a
// Temporary/Colliding wire and then merges any segments that are now
// collinear and touching, the composite operation a drag or a
// geometry edit runs afterwards to restore the tree's minimal,
// correctly classified form before a ChangeWireMode insert attempt.
func (c *Circuit) FixAndMergeSegments(wireID vocab.WireID) {
	c.recomputeEndpointTypes(wireID)
	c.MergeAllLineSegments(wireID)
}
