package spatial_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/index/spatial"
	"github.com/sarchlab/logiksim/vocab"
)

var _ = Describe("Spatial index", func() {
	var idx *spatial.Index

	BeforeEach(func() {
		idx = spatial.New()
	})

	It("finds a logic item inserted message via query_selection", func() {
		data := bus.LayoutData{Position: vocab.Point{X: 10, Y: 10}, InputCount: 1, OutputCount: 1}
		idx.Submit(bus.NewLogicItemInserted(3, data))

		results := idx.QuerySelection(vocab.Rect{P0: vocab.Point{X: 9, Y: 9}, P1: vocab.Point{X: 13, Y: 11}})
		Expect(results).To(ContainElement(spatial.Payload{Kind: spatial.PayloadLogicItem, LogicItem: 3}))
	})

	It("removes on uninsert so later queries miss it", func() {
		data := bus.LayoutData{Position: vocab.Point{X: 0, Y: 0}, InputCount: 1}
		idx.Submit(bus.NewLogicItemInserted(1, data))
		idx.Submit(bus.NewLogicItemUninserted(1, data))

		results := idx.QuerySelection(vocab.Rect{P0: vocab.Point{X: 0, Y: 0}, P1: vocab.Point{X: 5, Y: 5}})
		Expect(results).To(BeEmpty())
	})

	It("spans a bucket boundary without losing the entry", func() {
		data := bus.LayoutData{Position: vocab.Point{X: 15, Y: 0}, InputCount: 1}
		idx.Submit(bus.NewLogicItemInserted(7, data))

		results := idx.QuerySelection(vocab.Rect{P0: vocab.Point{X: 16, Y: 0}, P1: vocab.Point{X: 20, Y: 0}})
		Expect(results).To(ContainElement(spatial.Payload{Kind: spatial.PayloadLogicItem, LogicItem: 7}))
	})

	It("returns up to four segments touching a grid point", func() {
		p := vocab.Point{X: 2, Y: 2}
		for i, d := range []vocab.Point{{X: 0, Y: 2}, {X: 4, Y: 2}, {X: 2, Y: 0}, {X: 2, Y: 4}} {
			seg := vocab.Segment{Wire: vocab.WireID(i), Index: 0}
			idx.Insert(vocab.NewRect(p, d), spatial.Payload{Kind: spatial.PayloadSegment, Segment: seg})
		}
		touching := idx.QueryLineSegments(p)
		Expect(touching).To(HaveLen(4))
	})

	It("reports a non-zero AllocatedSize once an entry is inserted", func() {
		Expect(idx.AllocatedSize()).To(Equal(0))
		idx.Submit(bus.NewLogicItemInserted(1, bus.LayoutData{Position: vocab.Point{X: 0, Y: 0}}))
		Expect(idx.AllocatedSize()).To(BeNumerically(">", 0))
	})
})
