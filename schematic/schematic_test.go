package schematic_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/index/connection"
	"github.com/sarchlab/logiksim/layout"
	"github.com/sarchlab/logiksim/schematic"
	"github.com/sarchlab/logiksim/vocab"
)

var _ = Describe("Generate", func() {
	It("derives a logic item element and a driving wire element, connected", func() {
		l := layout.New(bus.New())
		conn := connection.New()

		item := l.AddLogicItem(layout.LogicItem{
			Type: vocab.And, Position: vocab.Point{X: 2, Y: 0}, Orientation: vocab.Right,
			InputCount: 1, OutputCount: 1,
			InputInverters: []bool{false}, OutputInverters: []bool{false},
		})
		l.SetLogicItemState(item, vocab.Normal)
		data := l.EmitLogicItemInserted(item)
		conn.Submit(bus.NewLogicItemInserted(item, data))

		wireID := l.AddWire()
		idx := l.AddSegment(wireID, vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 2, Y: 0}))
		l.SetSegmentEndpointTypes(wireID, idx, vocab.Output, vocab.Input)
		l.SetWireState(wireID, vocab.Normal)
		info := l.EmitSegmentInserted(wireID, idx)
		conn.Submit(bus.NewSegmentInserted(vocab.Segment{Wire: wireID, Index: idx}, info))

		sch := schematic.Generate(l, conn)
		Expect(sch.Elements).To(HaveLen(2))

		var logicElem, wireElem *schematic.Element
		for i := range sch.Elements {
			e := &sch.Elements[i]
			if e.Kind == schematic.LogicItemElement {
				logicElem = e
			} else {
				wireElem = e
			}
		}
		Expect(logicElem).NotTo(BeNil())
		Expect(wireElem).NotTo(BeNil())

		Expect(len(wireElem.Inputs)).To(Equal(1))
		Expect(len(wireElem.Outputs)).To(Equal(2)) // 1 real output endpoint + virtual placeholder
		Expect(wireElem.DelayNS).To(Equal(2 * schematic.WireDelayPerDistance))

		Expect(logicElem.Inputs[0].Element).NotTo(Equal(schematic.NullElement))
	})

	It("resolves a wire with no input endpoints to input_count=0 and all endpoints as outputs", func() {
		l := layout.New(bus.New())
		conn := connection.New()

		wireID := l.AddWire()
		idx := l.AddSegment(wireID, vocab.NewOrderedLine(vocab.Point{X: 0, Y: 0}, vocab.Point{X: 1, Y: 0}))
		l.SetSegmentEndpointTypes(wireID, idx, vocab.Output, vocab.Output)
		l.SetWireState(wireID, vocab.Normal)
		info := l.EmitSegmentInserted(wireID, idx)
		conn.Submit(bus.NewSegmentInserted(vocab.Segment{Wire: wireID, Index: idx}, info))

		sch := schematic.Generate(l, conn)
		Expect(sch.Elements).To(HaveLen(1))
		Expect(sch.Elements[0].Inputs).To(BeEmpty())
		Expect(sch.Elements[0].Outputs).To(HaveLen(2))
	})

	It("gives a clock generator element its configured period as delay", func() {
		l := layout.New(bus.New())
		conn := connection.New()

		item := l.AddLogicItem(layout.LogicItem{
			Type: vocab.ClockGenerator, Position: vocab.Point{X: 0, Y: 0}, Orientation: vocab.Right,
			InputCount: 0, OutputCount: 1,
			Attributes: layout.LogicItemAttributes{ClockPeriodNS: 1000},
		})
		l.SetLogicItemState(item, vocab.Normal)
		data := l.EmitLogicItemInserted(item)
		conn.Submit(bus.NewLogicItemInserted(item, data))

		sch := schematic.Generate(l, conn)
		Expect(sch.Elements).To(HaveLen(1))
		Expect(sch.Elements[0].DelayNS).To(Equal(uint64(1000)))
	})
})

var _ = Describe("Dump", func() {
	It("renders every element's kind and type", func() {
		l := layout.New(bus.New())
		conn := connection.New()

		item := l.AddLogicItem(layout.LogicItem{
			Type: vocab.ClockGenerator, Position: vocab.Point{X: 0, Y: 0}, Orientation: vocab.Right,
			InputCount: 0, OutputCount: 1,
		})
		l.SetLogicItemState(item, vocab.Normal)
		data := l.EmitLogicItemInserted(item)
		conn.Submit(bus.NewLogicItemInserted(item, data))

		sch := schematic.Generate(l, conn)
		out := schematic.Dump(sch)
		Expect(out).To(ContainSubstring("clock_generator"))
		Expect(out).To(ContainSubstring("logic_item"))
	})
})
