// Package history implements the undo/redo stack: a flat vector of
// entry tags plus one parallel payload vector per concrete action
// kind, grouped by new_group sentinels so a single user gesture (e.g.
// a drag that both moves and re-checks collisions) undoes as one
// step.
package history

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/layout"
	"github.com/sarchlab/logiksim/selection"
	"github.com/sarchlab/logiksim/vocab"
)

// EntryKind tags one action recorded on the stack, covering both
// decorations and logic items rather than decorations alone.
type EntryKind int

const (
	NewGroup EntryKind = iota

	DecorationCreateTemporary
	DecorationDeleteTemporary
	DecorationMoveTemporary
	DecorationToModeTemporary
	DecorationToModeColliding
	DecorationToModeInsert
	DecorationChangeAttributes
	DecorationAddVisibleSelection
	DecorationRemoveVisibleSelection

	LogicItemCreateTemporary
	LogicItemDeleteTemporary
	LogicItemMoveTemporary
	LogicItemToModeTemporary
	LogicItemToModeColliding
	LogicItemToModeInsert
	LogicItemChangeAttributes
	LogicItemAddVisibleSelection
	LogicItemRemoveVisibleSelection

	WireCreateTemporary
	WireDeleteTemporary

	VisibleSelectionClear
	VisibleSelectionSet
	VisibleSelectionAddOperation
	VisibleSelectionUpdateLast
	VisibleSelectionPopLast
)

var entryNames = [...]string{
	"new_group",
	"decoration_create_temporary", "decoration_delete_temporary", "decoration_move_temporary",
	"decoration_to_mode_temporary", "decoration_to_mode_colliding", "decoration_to_mode_insert",
	"decoration_change_attributes", "decoration_add_visible_selection", "decoration_remove_visible_selection",
	"logicitem_create_temporary", "logicitem_delete_temporary", "logicitem_move_temporary",
	"logicitem_to_mode_temporary", "logicitem_to_mode_colliding", "logicitem_to_mode_insert",
	"logicitem_change_attributes", "logicitem_add_visible_selection", "logicitem_remove_visible_selection",
	"wire_create_temporary", "wire_delete_temporary",
	"visible_selection_clear", "visible_selection_set", "visible_selection_add_operation",
	"visible_selection_update_last", "visible_selection_pop_last",
}

func (k EntryKind) String() string {
	if int(k) < 0 || int(k) >= len(entryNames) {
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
	return entryNames[k]
}

// MoveDelta is a relative grid translation recorded for an undoable
// move.
type MoveDelta struct{ DX, DY vocab.Grid }

// SelectionOp is one pending VisibleSelection operation, recorded so
// add/update_last/pop_last can be undone individually.
type SelectionOp struct {
	Function vocab.SelectionFunction
	Rect     vocab.RectFine
}

// Stack is the undo/redo history: one tag vector plus one payload
// vector per action kind that carries a payload (new_group and the
// mode-transition entries carry only a key and need no separate
// vector beyond decorationKeys/logicItemKeys).
type Stack struct {
	entries []EntryKind

	decorationKeys    []vocab.DecorationKey
	placedDecorations []layout.Decoration
	decorationMoves   []MoveDelta
	decorationAttrs   []layout.DecorationAttributes

	logicItemKeys    []vocab.LogicItemKey
	placedLogicItems []layout.LogicItem
	logicItemMoves   []MoveDelta
	logicItemAttrs   []layout.LogicItemAttributes

	wireKeys     []vocab.SegmentKey
	wireSegments [][]bus.SegmentInfo

	selections         []selection.StableSelection
	selectionRects     []vocab.RectFine
	selectionFunctions []vocab.SelectionFunction
	selectionOps       []SelectionOp
}

// New returns an empty history stack.
func New() *Stack { return &Stack{} }

// Empty reports whether the stack has no entries.
func (s *Stack) Empty() bool { return len(s.entries) == 0 }

// Size returns the number of entries, groups included.
func (s *Stack) Size() int { return len(s.entries) }

// Clear discards every entry and payload.
func (s *Stack) Clear() { *s = Stack{} }

// String renders the entry tag sequence one per line, mirroring the
// C++ stack's format() debug dump.
func (s *Stack) String() string {
	var b strings.Builder
	for i, e := range s.entries {
		fmt.Fprintf(&b, "%d: %s\n", i, e)
	}
	return b.String()
}

// AllocatedSize approximates the stack's backing-slice byte usage,
// the Go analog of the C++ class's allocated_size().
func (s *Stack) AllocatedSize() int {
	total := len(s.entries) * int(unsafe.Sizeof(EntryKind(0)))
	total += len(s.decorationKeys) * int(unsafe.Sizeof(vocab.DecorationKey(0)))
	total += len(s.placedDecorations) * int(unsafe.Sizeof(layout.Decoration{}))
	total += len(s.decorationMoves) * int(unsafe.Sizeof(MoveDelta{}))
	total += len(s.decorationAttrs) * int(unsafe.Sizeof(layout.DecorationAttributes{}))
	total += len(s.logicItemKeys) * int(unsafe.Sizeof(vocab.LogicItemKey(0)))
	total += len(s.placedLogicItems) * int(unsafe.Sizeof(layout.LogicItem{}))
	total += len(s.logicItemMoves) * int(unsafe.Sizeof(MoveDelta{}))
	total += len(s.logicItemAttrs) * int(unsafe.Sizeof(layout.LogicItemAttributes{}))
	total += len(s.wireKeys) * int(unsafe.Sizeof(vocab.SegmentKey(0)))
	for _, segs := range s.wireSegments {
		total += len(segs) * int(unsafe.Sizeof(bus.SegmentInfo{}))
	}
	total += len(s.selections) * int(unsafe.Sizeof(selection.StableSelection{}))
	total += len(s.selectionRects) * int(unsafe.Sizeof(vocab.RectFine{}))
	total += len(s.selectionFunctions) * int(unsafe.Sizeof(vocab.SelectionFunction(0)))
	total += len(s.selectionOps) * int(unsafe.Sizeof(SelectionOp{}))
	return total
}

// TopEntry returns the tag of the most recent entry, if any.
func (s *Stack) TopEntry() (EntryKind, bool) {
	if len(s.entries) == 0 {
		return 0, false
	}
	return s.entries[len(s.entries)-1], true
}

// Entries returns a copy of the entry tag sequence, oldest first.
func (s *Stack) Entries() []EntryKind {
	out := make([]EntryKind, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Stack) mustPop(expect EntryKind) {
	top, ok := s.TopEntry()
	if !ok || top != expect {
		panic(fmt.Sprintf("history: expected top entry %s, have %v (ok=%v)", expect, top, ok))
	}
	s.entries = s.entries[:len(s.entries)-1]
}

// --- groups ----------------------------------------------------------

// PushNewGroup appends a group boundary unless the stack is empty or
// already ends in one (spec: avoid empty groups that would undo to a
// no-op). Reports whether it actually pushed.
func (s *Stack) PushNewGroup() bool {
	if top, ok := s.TopEntry(); ok && top == NewGroup {
		return false
	}
	if len(s.entries) == 0 {
		return false
	}
	s.entries = append(s.entries, NewGroup)
	return true
}

// PopNewGroup removes a trailing group boundary, if present.
func (s *Stack) PopNewGroup() {
	if top, ok := s.TopEntry(); ok && top == NewGroup {
		s.entries = s.entries[:len(s.entries)-1]
	}
}

// --- decoration --------------------------------------------------------

func (s *Stack) PushDecorationCreateTemporary(key vocab.DecorationKey, placed layout.Decoration) {
	s.entries = append(s.entries, DecorationCreateTemporary)
	s.decorationKeys = append(s.decorationKeys, key)
	s.placedDecorations = append(s.placedDecorations, placed)
}

func (s *Stack) PopDecorationCreateTemporary() (vocab.DecorationKey, layout.Decoration) {
	s.mustPop(DecorationCreateTemporary)
	key := popDecorationKey(s)
	placed := s.placedDecorations[len(s.placedDecorations)-1]
	s.placedDecorations = s.placedDecorations[:len(s.placedDecorations)-1]
	return key, placed
}

func (s *Stack) PushDecorationDeleteTemporary(key vocab.DecorationKey, removed layout.Decoration) {
	s.entries = append(s.entries, DecorationDeleteTemporary)
	s.decorationKeys = append(s.decorationKeys, key)
	s.placedDecorations = append(s.placedDecorations, removed)
}

func (s *Stack) PopDecorationDeleteTemporary() (vocab.DecorationKey, layout.Decoration) {
	s.mustPop(DecorationDeleteTemporary)
	key := popDecorationKey(s)
	removed := s.placedDecorations[len(s.placedDecorations)-1]
	s.placedDecorations = s.placedDecorations[:len(s.placedDecorations)-1]
	return key, removed
}

func (s *Stack) pushDecorationMode(kind EntryKind, key vocab.DecorationKey) {
	s.entries = append(s.entries, kind)
	s.decorationKeys = append(s.decorationKeys, key)
}

func (s *Stack) PushDecorationToModeTemporary(key vocab.DecorationKey) {
	s.pushDecorationMode(DecorationToModeTemporary, key)
}
func (s *Stack) PushDecorationToModeColliding(key vocab.DecorationKey) {
	s.pushDecorationMode(DecorationToModeColliding, key)
}
func (s *Stack) PushDecorationToModeInsert(key vocab.DecorationKey) {
	s.pushDecorationMode(DecorationToModeInsert, key)
}

func (s *Stack) popDecorationMode(kind EntryKind) vocab.DecorationKey {
	s.mustPop(kind)
	return popDecorationKey(s)
}

func (s *Stack) PopDecorationToModeTemporary() vocab.DecorationKey {
	return s.popDecorationMode(DecorationToModeTemporary)
}
func (s *Stack) PopDecorationToModeColliding() vocab.DecorationKey {
	return s.popDecorationMode(DecorationToModeColliding)
}
func (s *Stack) PopDecorationToModeInsert() vocab.DecorationKey {
	return s.popDecorationMode(DecorationToModeInsert)
}

func (s *Stack) PushDecorationMoveTemporary(key vocab.DecorationKey, delta MoveDelta) {
	s.entries = append(s.entries, DecorationMoveTemporary)
	s.decorationKeys = append(s.decorationKeys, key)
	s.decorationMoves = append(s.decorationMoves, delta)
}

func (s *Stack) PopDecorationMoveTemporary() (vocab.DecorationKey, MoveDelta) {
	s.mustPop(DecorationMoveTemporary)
	key := popDecorationKey(s)
	delta := s.decorationMoves[len(s.decorationMoves)-1]
	s.decorationMoves = s.decorationMoves[:len(s.decorationMoves)-1]
	return key, delta
}

func (s *Stack) PushDecorationChangeAttributes(key vocab.DecorationKey, attrs layout.DecorationAttributes) {
	s.entries = append(s.entries, DecorationChangeAttributes)
	s.decorationKeys = append(s.decorationKeys, key)
	s.decorationAttrs = append(s.decorationAttrs, attrs)
}

func (s *Stack) PopDecorationChangeAttributes() (vocab.DecorationKey, layout.DecorationAttributes) {
	s.mustPop(DecorationChangeAttributes)
	key := popDecorationKey(s)
	attrs := s.decorationAttrs[len(s.decorationAttrs)-1]
	s.decorationAttrs = s.decorationAttrs[:len(s.decorationAttrs)-1]
	return key, attrs
}

func (s *Stack) PushDecorationAddVisibleSelection(key vocab.DecorationKey) {
	s.entries = append(s.entries, DecorationAddVisibleSelection)
	s.decorationKeys = append(s.decorationKeys, key)
}

func (s *Stack) PopDecorationAddVisibleSelection() vocab.DecorationKey {
	s.mustPop(DecorationAddVisibleSelection)
	return popDecorationKey(s)
}

func (s *Stack) PushDecorationRemoveVisibleSelection(key vocab.DecorationKey) {
	s.entries = append(s.entries, DecorationRemoveVisibleSelection)
	s.decorationKeys = append(s.decorationKeys, key)
}

func (s *Stack) PopDecorationRemoveVisibleSelection() vocab.DecorationKey {
	s.mustPop(DecorationRemoveVisibleSelection)
	return popDecorationKey(s)
}

func popDecorationKey(s *Stack) vocab.DecorationKey {
	key := s.decorationKeys[len(s.decorationKeys)-1]
	s.decorationKeys = s.decorationKeys[:len(s.decorationKeys)-1]
	return key
}

// --- logic item ----------------------------------------------------

func (s *Stack) PushLogicItemCreateTemporary(key vocab.LogicItemKey, placed layout.LogicItem) {
	s.entries = append(s.entries, LogicItemCreateTemporary)
	s.logicItemKeys = append(s.logicItemKeys, key)
	s.placedLogicItems = append(s.placedLogicItems, placed)
}

func (s *Stack) PopLogicItemCreateTemporary() (vocab.LogicItemKey, layout.LogicItem) {
	s.mustPop(LogicItemCreateTemporary)
	key := popLogicItemKey(s)
	placed := s.placedLogicItems[len(s.placedLogicItems)-1]
	s.placedLogicItems = s.placedLogicItems[:len(s.placedLogicItems)-1]
	return key, placed
}

func (s *Stack) PushLogicItemDeleteTemporary(key vocab.LogicItemKey, removed layout.LogicItem) {
	s.entries = append(s.entries, LogicItemDeleteTemporary)
	s.logicItemKeys = append(s.logicItemKeys, key)
	s.placedLogicItems = append(s.placedLogicItems, removed)
}

func (s *Stack) PopLogicItemDeleteTemporary() (vocab.LogicItemKey, layout.LogicItem) {
	s.mustPop(LogicItemDeleteTemporary)
	key := popLogicItemKey(s)
	removed := s.placedLogicItems[len(s.placedLogicItems)-1]
	s.placedLogicItems = s.placedLogicItems[:len(s.placedLogicItems)-1]
	return key, removed
}

func (s *Stack) pushLogicItemMode(kind EntryKind, key vocab.LogicItemKey) {
	s.entries = append(s.entries, kind)
	s.logicItemKeys = append(s.logicItemKeys, key)
}

func (s *Stack) PushLogicItemToModeTemporary(key vocab.LogicItemKey) {
	s.pushLogicItemMode(LogicItemToModeTemporary, key)
}
func (s *Stack) PushLogicItemToModeColliding(key vocab.LogicItemKey) {
	s.pushLogicItemMode(LogicItemToModeColliding, key)
}
func (s *Stack) PushLogicItemToModeInsert(key vocab.LogicItemKey) {
	s.pushLogicItemMode(LogicItemToModeInsert, key)
}

func (s *Stack) popLogicItemMode(kind EntryKind) vocab.LogicItemKey {
	s.mustPop(kind)
	return popLogicItemKey(s)
}

func (s *Stack) PopLogicItemToModeTemporary() vocab.LogicItemKey {
	return s.popLogicItemMode(LogicItemToModeTemporary)
}
func (s *Stack) PopLogicItemToModeColliding() vocab.LogicItemKey {
	return s.popLogicItemMode(LogicItemToModeColliding)
}
func (s *Stack) PopLogicItemToModeInsert() vocab.LogicItemKey {
	return s.popLogicItemMode(LogicItemToModeInsert)
}

func (s *Stack) PushLogicItemMoveTemporary(key vocab.LogicItemKey, delta MoveDelta) {
	s.entries = append(s.entries, LogicItemMoveTemporary)
	s.logicItemKeys = append(s.logicItemKeys, key)
	s.logicItemMoves = append(s.logicItemMoves, delta)
}

func (s *Stack) PopLogicItemMoveTemporary() (vocab.LogicItemKey, MoveDelta) {
	s.mustPop(LogicItemMoveTemporary)
	key := popLogicItemKey(s)
	delta := s.logicItemMoves[len(s.logicItemMoves)-1]
	s.logicItemMoves = s.logicItemMoves[:len(s.logicItemMoves)-1]
	return key, delta
}

func (s *Stack) PushLogicItemChangeAttributes(key vocab.LogicItemKey, attrs layout.LogicItemAttributes) {
	s.entries = append(s.entries, LogicItemChangeAttributes)
	s.logicItemKeys = append(s.logicItemKeys, key)
	s.logicItemAttrs = append(s.logicItemAttrs, attrs)
}

func (s *Stack) PopLogicItemChangeAttributes() (vocab.LogicItemKey, layout.LogicItemAttributes) {
	s.mustPop(LogicItemChangeAttributes)
	key := popLogicItemKey(s)
	attrs := s.logicItemAttrs[len(s.logicItemAttrs)-1]
	s.logicItemAttrs = s.logicItemAttrs[:len(s.logicItemAttrs)-1]
	return key, attrs
}

func popLogicItemKey(s *Stack) vocab.LogicItemKey {
	key := s.logicItemKeys[len(s.logicItemKeys)-1]
	s.logicItemKeys = s.logicItemKeys[:len(s.logicItemKeys)-1]
	return key
}

// --- wire --------------------------------------------------------------

// PushWireCreateTemporary records a freshly created wire's full
// segment list, keyed by the stable key of one of its own segments (a
// WireID itself is never key-indexed; segments are). key must resolve
// back to the wire via keyindex.Segment(key).Wire.
func (s *Stack) PushWireCreateTemporary(key vocab.SegmentKey, segments []bus.SegmentInfo) {
	s.entries = append(s.entries, WireCreateTemporary)
	s.wireKeys = append(s.wireKeys, key)
	s.wireSegments = append(s.wireSegments, segments)
}

func (s *Stack) PopWireCreateTemporary() (vocab.SegmentKey, []bus.SegmentInfo) {
	s.mustPop(WireCreateTemporary)
	return popWireEntry(s)
}

func (s *Stack) PushWireDeleteTemporary(key vocab.SegmentKey, segments []bus.SegmentInfo) {
	s.entries = append(s.entries, WireDeleteTemporary)
	s.wireKeys = append(s.wireKeys, key)
	s.wireSegments = append(s.wireSegments, segments)
}

func (s *Stack) PopWireDeleteTemporary() (vocab.SegmentKey, []bus.SegmentInfo) {
	s.mustPop(WireDeleteTemporary)
	return popWireEntry(s)
}

func popWireEntry(s *Stack) (vocab.SegmentKey, []bus.SegmentInfo) {
	key := s.wireKeys[len(s.wireKeys)-1]
	s.wireKeys = s.wireKeys[:len(s.wireKeys)-1]
	segments := s.wireSegments[len(s.wireSegments)-1]
	s.wireSegments = s.wireSegments[:len(s.wireSegments)-1]
	return key, segments
}

// --- visible selection -----------------------------------------------

func (s *Stack) PushVisibleSelectionClear() {
	s.entries = append(s.entries, VisibleSelectionClear)
}

func (s *Stack) PopVisibleSelectionClear() {
	s.mustPop(VisibleSelectionClear)
}

func (s *Stack) PushVisibleSelectionSet(sel selection.StableSelection) {
	s.entries = append(s.entries, VisibleSelectionSet)
	s.selections = append(s.selections, sel)
}

func (s *Stack) PopVisibleSelectionSet() selection.StableSelection {
	s.mustPop(VisibleSelectionSet)
	sel := s.selections[len(s.selections)-1]
	s.selections = s.selections[:len(s.selections)-1]
	return sel
}

func (s *Stack) PushVisibleSelectionAddOperation(op SelectionOp) {
	s.entries = append(s.entries, VisibleSelectionAddOperation)
	s.selectionOps = append(s.selectionOps, op)
}

func (s *Stack) PopVisibleSelectionAddOperation() SelectionOp {
	s.mustPop(VisibleSelectionAddOperation)
	op := s.selectionOps[len(s.selectionOps)-1]
	s.selectionOps = s.selectionOps[:len(s.selectionOps)-1]
	return op
}

func (s *Stack) PushVisibleSelectionUpdateLast(rect vocab.RectFine) {
	s.entries = append(s.entries, VisibleSelectionUpdateLast)
	s.selectionRects = append(s.selectionRects, rect)
}

func (s *Stack) PopVisibleSelectionUpdateLast() vocab.RectFine {
	s.mustPop(VisibleSelectionUpdateLast)
	rect := s.selectionRects[len(s.selectionRects)-1]
	s.selectionRects = s.selectionRects[:len(s.selectionRects)-1]
	return rect
}

func (s *Stack) PushVisibleSelectionPopLast() {
	s.entries = append(s.entries, VisibleSelectionPopLast)
}

func (s *Stack) PopVisibleSelectionPopLast() {
	s.mustPop(VisibleSelectionPopLast)
}

// --- free functions ----------------------------------------------------

// GetEntryBeforeSkip scans from the top, skipping entries equal to
// skip, and returns the next entry under them, if any.
func GetEntryBeforeSkip(entries []EntryKind, skip EntryKind) (EntryKind, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i] != skip {
			return entries[i], true
		}
	}
	return 0, false
}

// LastNonGroupEntry returns the most recent entry that is not a group
// boundary.
func LastNonGroupEntry(entries []EntryKind) (EntryKind, bool) {
	return GetEntryBeforeSkip(entries, NewGroup)
}

// HasUngroupedEntries reports whether the stack's top entry is an
// action (not itself a group boundary), meaning a group has not yet
// been closed over it.
func HasUngroupedEntries(s *Stack) bool {
	top, ok := s.TopEntry()
	return ok && top != NewGroup
}

// ReopenGroup removes a trailing group boundary so the next pushed
// action joins the previous group instead of starting a new one.
func ReopenGroup(s *Stack) {
	s.PopNewGroup()
}
