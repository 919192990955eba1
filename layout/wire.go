package layout

import "github.com/sarchlab/logiksim/vocab"

// Wire owns one segment tree. A wire's DisplayState applies to the
// whole tree: all of a wire's segments are inserted, colliding, or
// temporary together.
type Wire struct {
	DisplayState vocab.DisplayState
	Tree         SegmentTree
}

// Clone returns a deep copy, for history payloads and message
// snapshots.
func (w Wire) Clone() Wire {
	return Wire{DisplayState: w.DisplayState, Tree: w.Tree.Clone()}
}
