package collision_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/index/collision"
	"github.com/sarchlab/logiksim/vocab"
)

var _ = Describe("Collision index", func() {
	var idx *collision.Index

	BeforeEach(func() {
		idx = collision.New()
	})

	It("reports no collision on an empty point", func() {
		Expect(idx.IsColliding(vocab.Point{X: 1, Y: 1}, collision.ItemBody)).To(BeFalse())
	})

	It("marks a logic item's body occupied and rejects a second body there", func() {
		data := bus.LayoutData{
			Position:     vocab.Point{X: 0, Y: 0},
			InputCount:   2,
			OutputCount:  1,
			InputOffset:  []vocab.Point{{X: 0, Y: 0}, {X: 0, Y: 1}},
			OutputOffset: []vocab.Point{{X: 2, Y: 0}},
		}
		idx.InsertLogicItemBody(0, data)

		Expect(idx.IsColliding(vocab.Point{X: 1, Y: 0}, collision.ItemBody)).To(BeTrue())
		Expect(idx.IsColliding(vocab.Point{X: 1, Y: 1}, collision.ItemBody)).To(BeTrue())

		idx.UninsertLogicItemBody(0, data)
		Expect(idx.IsColliding(vocab.Point{X: 1, Y: 0}, collision.ItemBody)).To(BeFalse())
	})

	It("flags the interior point where two independent wires cross", func() {
		p := vocab.Point{X: 2, Y: 2}
		h := vocab.Segment{Wire: 1, Index: 0}
		v := vocab.Segment{Wire: 2, Index: 0}

		idx.Submit(bus.NewSegmentInserted(h, bus.SegmentInfo{
			Line:   vocab.NewOrderedLine(vocab.Point{X: 0, Y: 2}, vocab.Point{X: 4, Y: 2}),
			P0Type: vocab.Shadow,
			P1Type: vocab.Shadow,
		}))

		Expect(idx.IsColliding(p, collision.ItemWireVertical)).To(BeFalse())
		Expect(idx.GetFirstWire(p)).To(Equal(vocab.WireID(1)))

		idx.Submit(bus.NewSegmentInserted(v, bus.SegmentInfo{
			Line:   vocab.NewOrderedLine(vocab.Point{X: 2, Y: 0}, vocab.Point{X: 2, Y: 4}),
			P0Type: vocab.Shadow,
			P1Type: vocab.Shadow,
		}))

		Expect(idx.IsWiresCrossing(p)).To(BeTrue())
	})

	It("treats a shared corner endpoint as one joined bend, not a crossing", func() {
		p := vocab.Point{X: 5, Y: 5}
		h := vocab.Segment{Wire: 1, Index: 0}
		v := vocab.Segment{Wire: 2, Index: 0}

		idx.Submit(bus.NewSegmentInserted(h, bus.SegmentInfo{
			Line:   vocab.NewOrderedLine(vocab.Point{X: 0, Y: 5}, p),
			P0Type: vocab.Output,
			P1Type: vocab.Corner,
		}))

		idx.Submit(bus.NewSegmentInserted(v, bus.SegmentInfo{
			Line:   vocab.NewOrderedLine(p, vocab.Point{X: 5, Y: 10}),
			P0Type: vocab.Corner,
			P1Type: vocab.Output,
		}))

		Expect(idx.IsWiresCrossing(p)).To(BeFalse()) // corner tag, not a plain crossing
	})

	It("panics on an inconsistent set-and-verify write", func() {
		p := vocab.Point{X: 0, Y: 0}
		data := bus.LayoutData{
			Position:    p,
			InputCount:  1,
			OutputCount: 0,
			InputOffset: []vocab.Point{p},
		}
		idx.InsertLogicItemBody(0, data)
		Expect(func() { idx.InsertLogicItemBody(1, data) }).To(Panic())
	})

	It("reports a non-zero AllocatedSize once a point is occupied", func() {
		Expect(idx.AllocatedSize()).To(Equal(0))
		idx.InsertLogicItemBody(0, bus.LayoutData{Position: vocab.Point{X: 0, Y: 0}})
		Expect(idx.AllocatedSize()).To(BeNumerically(">", 0))
	})
})
