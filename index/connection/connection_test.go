package connection_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/index/connection"
	"github.com/sarchlab/logiksim/vocab"
)

var _ = Describe("Connection index", func() {
	var idx *connection.Index

	BeforeEach(func() {
		idx = connection.New()
	})

	It("registers a logic item's inputs and outputs at opposite orientations", func() {
		data := bus.LayoutData{
			Orientation:  vocab.Right,
			InputOffset:  []vocab.Point{{X: 0, Y: 0}},
			OutputOffset: []vocab.Point{{X: 2, Y: 0}},
		}
		idx.Submit(bus.NewLogicItemInserted(1, data))

		in, ok := idx.LogicItemInput(vocab.Point{X: 0, Y: 0})
		Expect(ok).To(BeTrue())
		Expect(in.Orientation).To(Equal(vocab.Left))

		out, ok := idx.LogicItemOutput(vocab.Point{X: 2, Y: 0})
		Expect(ok).To(BeTrue())
		Expect(out.Orientation).To(Equal(vocab.Right))

		idx.Submit(bus.NewLogicItemUninserted(1, data))
		_, ok = idx.LogicItemInput(vocab.Point{X: 0, Y: 0})
		Expect(ok).To(BeFalse())
	})

	It("panics on a duplicate registration at the same point", func() {
		data := bus.LayoutData{InputOffset: []vocab.Point{{X: 0, Y: 0}}}
		idx.Submit(bus.NewLogicItemInserted(1, data))
		Expect(func() { idx.Submit(bus.NewLogicItemInserted(2, data)) }).To(Panic())
	})

	It("registers wire endpoints keyed by point type, not segment end", func() {
		seg := vocab.Segment{Wire: 0, Index: 0}
		info := bus.SegmentInfo{
			Line:   vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 4, Y: 0}),
			P0Type: vocab.Input,
			P1Type: vocab.Output,
		}
		idx.Submit(bus.NewSegmentInserted(seg, info))

		_, ok := idx.WireInput(vocab.Point{X: 0, Y: 0})
		Expect(ok).To(BeTrue())
		_, ok = idx.WireOutput(vocab.Point{X: 4, Y: 0})
		Expect(ok).To(BeTrue())

		idx.Submit(bus.NewSegmentUninserted(seg, info))
		_, ok = idx.WireInput(vocab.Point{X: 0, Y: 0})
		Expect(ok).To(BeFalse())
	})

	It("reports orientation-compatible when nothing occupies the point", func() {
		Expect(idx.IsOrientationCompatible(vocab.Point{X: 9, Y: 9}, vocab.Right)).To(BeTrue())
	})

	It("reports a non-zero AllocatedSize once a pin is registered", func() {
		Expect(idx.AllocatedSize()).To(Equal(0))
		idx.Submit(bus.NewLogicItemInserted(1, bus.LayoutData{
			Orientation: vocab.Right, InputOffset: []vocab.Point{{X: 0, Y: 0}},
		}))
		Expect(idx.AllocatedSize()).To(BeNumerically(">", 0))
	})
})
