package keyindex_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/index/keyindex"
	"github.com/sarchlab/logiksim/vocab"
)

var _ = Describe("KeyIndex logic items", func() {
	var k *keyindex.KeyIndex

	BeforeEach(func() {
		k = keyindex.New()
	})

	It("assigns monotonic keys on create and never reuses them", func() {
		k.Submit(bus.NewLogicItemCreated(0))
		k.Submit(bus.NewLogicItemCreated(1))
		firstKey := k.LogicItemKey(0)
		secondKey := k.LogicItemKey(1)
		Expect(firstKey).NotTo(Equal(secondKey))

		k.Submit(bus.NewLogicItemDeleted(0))
		k.Submit(bus.NewLogicItemCreated(0)) // new item recycles dense id 0
		Expect(k.LogicItemKey(0)).NotTo(Equal(firstKey))
	})

	It("follows a dense id through swap-and-pop renumbering", func() {
		k.Submit(bus.NewLogicItemCreated(0))
		k.Submit(bus.NewLogicItemCreated(1))
		key1 := k.LogicItemKey(1)

		k.Submit(bus.NewLogicItemDeleted(0))
		k.Submit(bus.NewLogicItemIDUpdated(1, 0))

		Expect(k.LogicItemKey(0)).To(Equal(key1))
		Expect(k.LogicItemID(key1)).To(Equal(vocab.LogicItemID(0)))
	})

	It("returns NullID for unknown ids and keys", func() {
		Expect(k.LogicItemKey(99).Valid()).To(BeFalse())
		Expect(k.LogicItemID(99).Valid()).To(BeFalse())
	})
})

var _ = Describe("KeyIndex segments", func() {
	var k *keyindex.KeyIndex

	BeforeEach(func() {
		k = keyindex.New()
	})

	It("rebinds a segment key across a move that both creates and deletes", func() {
		seg := vocab.Segment{Wire: 0, Index: 0}
		k.Submit(bus.NewSegmentCreated(seg, 4))
		key := k.SegmentKey(seg)
		Expect(key.Valid()).To(BeTrue())

		moved := vocab.Segment{Wire: 0, Index: 1}
		k.Submit(bus.NewSegmentPartMoved(
			vocab.SegmentPart{Segment: moved, Part: vocab.NewPart(0, 4)},
			vocab.SegmentPart{Segment: seg, Part: vocab.NewPart(0, 4)},
			true, true,
		))

		Expect(k.SegmentKey(seg).Valid()).To(BeFalse())
		Expect(k.SegmentKey(moved)).To(Equal(key))
	})

	It("drops the key when a segment part delete removes the whole segment", func() {
		seg := vocab.Segment{Wire: 0, Index: 0}
		k.Submit(bus.NewSegmentCreated(seg, 4))
		k.Submit(bus.NewSegmentPartDeleted(vocab.SegmentPart{Segment: seg, Part: vocab.NewPart(0, 4)}, true))
		Expect(k.SegmentKey(seg).Valid()).To(BeFalse())
	})
})

var _ = Describe("KeyIndex.AllocatedSize", func() {
	It("reports a non-zero size once a key is bound", func() {
		k := keyindex.New()
		Expect(k.AllocatedSize()).To(Equal(0))
		k.Submit(bus.NewLogicItemCreated(0))
		Expect(k.AllocatedSize()).To(BeNumerically(">", 0))
	})
})
