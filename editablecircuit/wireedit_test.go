package editablecircuit_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/editablecircuit"
	"github.com/sarchlab/logiksim/vocab"
)

var _ = Describe("Wire editing", func() {
	var c *editablecircuit.Circuit

	BeforeEach(func() {
		c = editablecircuit.New()
	})

	It("inserts a single segment at Normal when nothing else occupies its points", func() {
		line := vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 4, Y: 0})
		seg, err := c.AddWireSegment(line, vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().Wire(seg.Wire).DisplayState).To(Equal(vocab.Normal))
	})

	It("lands an overlapping segment at Colliding instead of erroring", func() {
		line := vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 4, Y: 0})
		_, err := c.AddWireSegment(line, vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())

		seg2, err := c.AddWireSegment(line, vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().Wire(seg2.Wire).DisplayState).To(Equal(vocab.Colliding))
	})

	It("connects a wire's endpoint to a logic item's output as an input", func() {
		item := andGate(vocab.Point{X: 0, Y: 0})
		id, err := c.AddLogicItem(item, vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())
		outputs := c.Layout().LogicItem(id).OutputPositions()
		Expect(outputs).NotTo(BeEmpty())

		line := vocab.NewOrderedLine(outputs[0], vocab.Point{X: outputs[0].X + 3, Y: outputs[0].Y})
		seg, err := c.AddWireSegment(line, vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().Wire(seg.Wire).DisplayState).To(Equal(vocab.Normal))

		info := c.Layout().Wire(seg.Wire).Tree.Info(seg.Index)
		Expect(info.P0Type).To(Equal(vocab.Input))
	})

	It("splits a segment at an interior point into two segments", func() {
		line := vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 4, Y: 0})
		seg, _ := c.AddWireSegment(line, vocab.ModeTemporary)
		newIdx := c.SplitLineSegment(seg.Wire, seg.Index, vocab.Point{X: 2, Y: 0})
		Expect(c.Layout().Wire(seg.Wire).Tree.Indices()).To(ContainElement(newIdx))
		Expect(c.Layout().Wire(seg.Wire).Tree.Indices()).To(HaveLen(2))
	})

	It("merges two collinear endpoint-sharing segments back into one", func() {
		line := vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 4, Y: 0})
		seg, _ := c.AddWireSegment(line, vocab.ModeTemporary)
		newIdx := c.SplitLineSegment(seg.Wire, seg.Index, vocab.Point{X: 2, Y: 0})

		keep, err := c.MergeLineSegments(seg.Wire, seg.Index, newIdx)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().Wire(seg.Wire).Tree.Indices()).To(HaveLen(1))
		mergedLine := c.Layout().Wire(seg.Wire).Tree.Info(keep).Line
		Expect(mergedLine).To(Equal(line))
	})

	It("collapses a wire with redundant splits back to its minimal form via MergeAllLineSegments", func() {
		line := vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 6, Y: 0})
		seg, _ := c.AddWireSegment(line, vocab.ModeTemporary)
		i1 := c.SplitLineSegment(seg.Wire, seg.Index, vocab.Point{X: 2, Y: 0})
		c.SplitLineSegment(seg.Wire, i1, vocab.Point{X: 4, Y: 0})

		c.MergeAllLineSegments(seg.Wire)
		Expect(c.Layout().Wire(seg.Wire).Tree.Indices()).To(HaveLen(1))
	})

	It("splits a broken tree into separate wires once the bridging segment is removed", func() {
		// One wire holding two segments that share no endpoint,
		// (0,0)-(4,0) and (8,0)-(8,4): the shape a wire is left in once
		// the segment bridging them is gone.
		segA, _ := c.AddWireSegment(vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 4, Y: 0}), vocab.ModeTemporary)
		idxB := c.Layout().AddSegment(segA.Wire, vocab.NewOrderedLine(vocab.Point{X: 8, Y: 0}, vocab.Point{X: 8, Y: 4}))

		newWires := c.SplitBrokenTree(segA.Wire)
		Expect(newWires).To(HaveLen(1))
		Expect(c.Layout().Wire(segA.Wire).Tree.Indices()).To(HaveLen(1))
		Expect(c.Layout().Wire(newWires[0]).Tree.Indices()).To(HaveLen(1))
		_ = idxB
	})

	It("deletes a wire and every one of its segments", func() {
		seg, _ := c.AddWireSegment(vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 4, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(c.DeleteWire(seg.Wire)).To(Succeed())
		Expect(c.HasElement(vocab.Point{X: 2, Y: 0})).To(BeFalse())
	})

	It("rejects an out-of-range segment as a no-op error", func() {
		huge := vocab.Point{X: vocab.Grid(vocab.GridMax) + 50, Y: 0}
		line := vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, huge)
		_, err := c.AddWireSegment(line, vocab.ModeTemporary)
		Expect(err).To(Equal(editablecircuit.ErrOutOfRange))
	})
})
