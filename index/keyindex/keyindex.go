// Package keyindex maintains the stable keys that survive dense-id
// reshuffling. It is a pure bus.Listener: every mapping it holds is
// derived entirely from the Created / IdUpdated / Deleted messages
// layout.Layout emits, never from direct inspection of the layout.
package keyindex

import (
	"fmt"
	"unsafe"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/vocab"
)

// KeyIndex binds dense ids to stable keys for logic items,
// decorations, and segments. Class invariant: every used key is
// smaller than the index's next counter, and the two directions of
// each map are always consistent.
type KeyIndex struct {
	logicItemKeys map[vocab.LogicItemID]vocab.LogicItemKey
	logicItemIDs  map[vocab.LogicItemKey]vocab.LogicItemID
	nextLogicItem vocab.LogicItemKey

	decorationKeys map[vocab.DecorationID]vocab.DecorationKey
	decorationIDs  map[vocab.DecorationKey]vocab.DecorationID
	nextDecoration vocab.DecorationKey

	segmentKeys map[vocab.Segment]vocab.SegmentKey
	segmentIDs  map[vocab.SegmentKey]vocab.Segment
	nextSegment vocab.SegmentKey
}

// New returns an empty KeyIndex.
func New() *KeyIndex {
	return &KeyIndex{
		logicItemKeys:  make(map[vocab.LogicItemID]vocab.LogicItemKey),
		logicItemIDs:   make(map[vocab.LogicItemKey]vocab.LogicItemID),
		decorationKeys: make(map[vocab.DecorationID]vocab.DecorationKey),
		decorationIDs:  make(map[vocab.DecorationKey]vocab.DecorationID),
		segmentKeys:    make(map[vocab.Segment]vocab.SegmentKey),
		segmentIDs:     make(map[vocab.SegmentKey]vocab.Segment),
	}
}

// AllocatedSize approximates the index's six backing-map byte usage,
// the Go analog of the C++ key index's allocated_size()
// (allocated_size.h).
func (k *KeyIndex) AllocatedSize() int {
	idEntry := int(unsafe.Sizeof(vocab.LogicItemID(0)) + unsafe.Sizeof(vocab.LogicItemKey(0)))
	decEntry := int(unsafe.Sizeof(vocab.DecorationID(0)) + unsafe.Sizeof(vocab.DecorationKey(0)))
	segEntry := int(unsafe.Sizeof(vocab.Segment{}) + unsafe.Sizeof(vocab.SegmentKey(0)))

	total := len(k.logicItemKeys) * idEntry
	total += len(k.logicItemIDs) * idEntry
	total += len(k.decorationKeys) * decEntry
	total += len(k.decorationIDs) * decEntry
	total += len(k.segmentKeys) * segEntry
	total += len(k.segmentIDs) * segEntry
	return total
}

// LogicItemKey returns the stable key bound to id, or NullID if none.
func (k *KeyIndex) LogicItemKey(id vocab.LogicItemID) vocab.LogicItemKey {
	if key, ok := k.logicItemKeys[id]; ok {
		return key
	}
	return vocab.LogicItemKey(vocab.NullID)
}

// LogicItemID returns the dense id currently bound to key, or NullID.
func (k *KeyIndex) LogicItemID(key vocab.LogicItemKey) vocab.LogicItemID {
	if id, ok := k.logicItemIDs[key]; ok {
		return id
	}
	return vocab.LogicItemID(vocab.NullID)
}

// DecorationKey returns the stable key bound to id, or NullID if none.
func (k *KeyIndex) DecorationKey(id vocab.DecorationID) vocab.DecorationKey {
	if key, ok := k.decorationKeys[id]; ok {
		return key
	}
	return vocab.DecorationKey(vocab.NullID)
}

// DecorationID returns the dense id currently bound to key, or NullID.
func (k *KeyIndex) DecorationID(key vocab.DecorationKey) vocab.DecorationID {
	if id, ok := k.decorationIDs[key]; ok {
		return id
	}
	return vocab.DecorationID(vocab.NullID)
}

// SegmentKey returns the stable key bound to seg, or NullID if none.
func (k *KeyIndex) SegmentKey(seg vocab.Segment) vocab.SegmentKey {
	if key, ok := k.segmentKeys[seg]; ok {
		return key
	}
	return vocab.SegmentKey(vocab.NullID)
}

// Segment returns the segment currently bound to key, whether or not
// it is still valid.
func (k *KeyIndex) Segment(key vocab.SegmentKey) vocab.Segment {
	return k.segmentIDs[key]
}

// Submit updates the index from one bus message. Implements
// bus.Listener, so it is registered directly on the shared bus rather
// than polled.
func (k *KeyIndex) Submit(m bus.Message) {
	switch m.Kind {
	case bus.KindLogicItemCreated:
		k.bindLogicItem(m.LogicItemCreated.ID, k.nextLogicItem)
		k.nextLogicItem++
	case bus.KindLogicItemIDUpdated:
		k.rebindLogicItem(m.LogicItemIDUpdated.Old, m.LogicItemIDUpdated.New)
	case bus.KindLogicItemDeleted:
		k.unbindLogicItem(m.LogicItemDeleted.ID)

	case bus.KindDecorationCreated:
		k.bindDecoration(m.DecorationCreated.ID, k.nextDecoration)
		k.nextDecoration++
	case bus.KindDecorationIDUpdated:
		k.rebindDecoration(m.DecorationIDUpdated.Old, m.DecorationIDUpdated.New)
	case bus.KindDecorationDeleted:
		k.unbindDecoration(m.DecorationDeleted.ID)

	case bus.KindSegmentCreated:
		k.bindSegment(m.SegmentCreated.Segment, k.nextSegment)
		k.nextSegment++
	case bus.KindSegmentIDUpdated:
		k.rebindSegment(m.SegmentIDUpdated.Old, m.SegmentIDUpdated.New)
	case bus.KindSegmentPartDeleted:
		if m.SegmentPartDeleted.DeleteSegment {
			k.unbindSegment(m.SegmentPartDeleted.Part.Segment)
		}
	case bus.KindSegmentPartMoved:
		mv := m.SegmentPartMoved
		if mv.DeleteSource && mv.CreateDestination {
			k.rebindSegment(mv.Source.Segment, mv.Destination.Segment)
		} else if mv.CreateDestination {
			k.bindSegment(mv.Destination.Segment, k.nextSegment)
			k.nextSegment++
		} else if mv.DeleteSource {
			k.unbindSegment(mv.Source.Segment)
		}
	}
}

func (k *KeyIndex) bindLogicItem(id vocab.LogicItemID, key vocab.LogicItemKey) {
	k.logicItemKeys[id] = key
	k.logicItemIDs[key] = id
}

func (k *KeyIndex) rebindLogicItem(old, new vocab.LogicItemID) {
	key, ok := k.logicItemKeys[old]
	if !ok {
		panic(fmt.Sprintf("keyindex: LogicItemIdUpdated for unbound id %s", old))
	}
	delete(k.logicItemKeys, old)
	k.logicItemKeys[new] = key
	k.logicItemIDs[key] = new
}

func (k *KeyIndex) unbindLogicItem(id vocab.LogicItemID) {
	key, ok := k.logicItemKeys[id]
	if !ok {
		return
	}
	delete(k.logicItemKeys, id)
	delete(k.logicItemIDs, key)
}

func (k *KeyIndex) bindDecoration(id vocab.DecorationID, key vocab.DecorationKey) {
	k.decorationKeys[id] = key
	k.decorationIDs[key] = id
}

func (k *KeyIndex) rebindDecoration(old, new vocab.DecorationID) {
	key, ok := k.decorationKeys[old]
	if !ok {
		panic(fmt.Sprintf("keyindex: DecorationIdUpdated for unbound id %s", old))
	}
	delete(k.decorationKeys, old)
	k.decorationKeys[new] = key
	k.decorationIDs[key] = new
}

func (k *KeyIndex) unbindDecoration(id vocab.DecorationID) {
	key, ok := k.decorationKeys[id]
	if !ok {
		return
	}
	delete(k.decorationKeys, id)
	delete(k.decorationIDs, key)
}

func (k *KeyIndex) bindSegment(seg vocab.Segment, key vocab.SegmentKey) {
	k.segmentKeys[seg] = key
	k.segmentIDs[key] = seg
}

func (k *KeyIndex) rebindSegment(old, new vocab.Segment) {
	key, ok := k.segmentKeys[old]
	if !ok {
		panic(fmt.Sprintf("keyindex: segment rebind for unbound segment %s", old))
	}
	delete(k.segmentKeys, old)
	k.segmentKeys[new] = key
	k.segmentIDs[key] = new
}

func (k *KeyIndex) unbindSegment(seg vocab.Segment) {
	key, ok := k.segmentKeys[seg]
	if !ok {
		return
	}
	delete(k.segmentKeys, seg)
	delete(k.segmentIDs, key)
}
