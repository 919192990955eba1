package layout_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/layout"
	"github.com/sarchlab/logiksim/vocab"
)

func andGate() layout.LogicItem {
	return layout.LogicItem{
		Type:        vocab.And,
		Position:    vocab.Point{X: 5, Y: 0},
		Orientation: vocab.Right,
		InputCount:  2,
		OutputCount: 1,
	}
}

var _ = Describe("Layout logic items", func() {
	var (
		b        *bus.Bus
		l        *layout.Layout
		received []bus.Message
	)

	BeforeEach(func() {
		b = bus.New()
		received = nil
		b.Register(bus.ListenerFunc(func(m bus.Message) {
			received = append(received, m)
		}))
		l = layout.New(b)
	})

	It("announces LogicItemCreated and starts Temporary", func() {
		id := l.AddLogicItem(andGate())
		Expect(l.LogicItem(id).DisplayState).To(Equal(vocab.Temporary))
		Expect(received).To(HaveLen(1))
		Expect(received[0].Kind).To(Equal(bus.KindLogicItemCreated))
		Expect(received[0].LogicItemCreated.ID).To(Equal(id))
	})

	It("bumps generation on every structural change", func() {
		g0 := l.Generation()
		l.AddLogicItem(andGate())
		Expect(l.Generation()).To(BeNumerically(">", g0))
	})

	It("emits LogicItemIdUpdated only when a non-last item is removed", func() {
		first := l.AddLogicItem(andGate())
		second := l.AddLogicItem(andGate())
		received = nil

		l.RemoveLogicItem(first)

		Expect(received).To(HaveLen(2))
		Expect(received[0].Kind).To(Equal(bus.KindLogicItemDeleted))
		Expect(received[1].Kind).To(Equal(bus.KindLogicItemIDUpdated))
		Expect(received[1].LogicItemIDUpdated.Old).To(Equal(second))
		Expect(received[1].LogicItemIDUpdated.New).To(Equal(first))
		Expect(l.LogicItem(first).Type).To(Equal(vocab.And))
	})

	It("emits only Deleted when the last item is removed", func() {
		only := l.AddLogicItem(andGate())
		received = nil

		l.RemoveLogicItem(only)

		Expect(received).To(HaveLen(1))
		Expect(received[0].Kind).To(Equal(bus.KindLogicItemDeleted))
	})

	It("panics removing an inserted logic item", func() {
		id := l.AddLogicItem(andGate())
		l.SetLogicItemState(id, vocab.Normal)
		Expect(func() { l.RemoveLogicItem(id) }).To(Panic())
	})

	It("round-trips a LayoutData snapshot on insert/uninsert", func() {
		id := l.AddLogicItem(andGate())
		data := l.EmitLogicItemInserted(id)
		Expect(data.Type).To(Equal(vocab.And))
		Expect(data.InputOffset).To(HaveLen(2))
		Expect(data.OutputOffset).To(HaveLen(1))

		data2 := l.EmitLogicItemUninserted(id)
		Expect(data2).To(Equal(data))
	})

	It("panics moving geometry of an inserted item", func() {
		id := l.AddLogicItem(andGate())
		l.SetLogicItemState(id, vocab.Normal)
		Expect(func() {
			l.SetLogicItemGeometry(id, vocab.Point{X: 0, Y: 0}, vocab.Right)
		}).To(Panic())
	})
})

var _ = Describe("Layout wires", func() {
	var (
		b        *bus.Bus
		l        *layout.Layout
		received []bus.Message
	)

	BeforeEach(func() {
		b = bus.New()
		received = nil
		b.Register(bus.ListenerFunc(func(m bus.Message) {
			received = append(received, m)
		}))
		l = layout.New(b)
	})

	It("announces SegmentCreated with the segment's length", func() {
		wireID := l.AddWire()
		received = nil
		line := vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 4, Y: 0})
		idx := l.AddSegment(wireID, line)

		Expect(received).To(HaveLen(1))
		Expect(received[0].Kind).To(Equal(bus.KindSegmentCreated))
		Expect(received[0].SegmentCreated.Segment.Index).To(Equal(idx))
		Expect(received[0].SegmentCreated.Size).To(Equal(vocab.Offset(4)))
	})

	It("refuses to remove a non-empty temporary wire", func() {
		wireID := l.AddWire()
		l.AddSegment(wireID, vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 1, Y: 0}))
		Expect(func() { l.RemoveWire(wireID) }).To(Panic())
	})

	It("announces InsertedEndPointsUpdated only while Normal", func() {
		wireID := l.AddWire()
		idx := l.AddSegment(wireID, vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 1, Y: 0}))

		received = nil
		l.SetSegmentEndpointTypes(wireID, idx, vocab.Input, vocab.Corner)
		Expect(received).To(BeEmpty())

		l.SetWireState(wireID, vocab.Normal)
		received = nil
		l.SetSegmentEndpointTypes(wireID, idx, vocab.Input, vocab.Output)
		Expect(received).To(HaveLen(1))
		Expect(received[0].Kind).To(Equal(bus.KindInsertedEndPointsUpdated))
	})
})

var _ = Describe("Layout.AllocatedSize", func() {
	It("grows as logic items, decorations, and wires are added", func() {
		l := layout.New(bus.New())
		Expect(l.AllocatedSize()).To(Equal(0))

		l.AddLogicItem(andGate())
		afterLogicItem := l.AllocatedSize()
		Expect(afterLogicItem).To(BeNumerically(">", 0))

		wireID := l.AddWire()
		l.AddSegment(wireID, vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 1, Y: 0}))
		Expect(l.AllocatedSize()).To(BeNumerically(">", afterLogicItem))
	})
})
