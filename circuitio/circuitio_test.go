package circuitio_test

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/circuitio"
	"github.com/sarchlab/logiksim/config"
	"github.com/sarchlab/logiksim/editablecircuit"
	"github.com/sarchlab/logiksim/layout"
	"github.com/sarchlab/logiksim/vocab"
)

func andGate(pos vocab.Point) layout.LogicItem {
	return layout.LogicItem{
		Type:        vocab.And,
		Position:    pos,
		Orientation: vocab.Right,
		InputCount:  2,
		OutputCount: 1,
		Attributes:  layout.LogicItemAttributes{ClockPeriodNS: 100},
	}
}

var _ = Describe("Save and Load", func() {
	It("round-trips logic items, decorations and wires through a gzip+JSON envelope", func() {
		c := editablecircuit.New()
		_, err := c.AddLogicItem(andGate(vocab.Point{X: 0, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())

		_, err = c.AddDecoration(layout.Decoration{
			Position: vocab.Point{X: 10, Y: 10}, Width: 3, Height: 1,
			Attributes: layout.DecorationAttributes{Content: "hello"},
		}, vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())

		line := vocab.NewOrderedLine(vocab.Point{X: 4, Y: 0}, vocab.Point{X: 4, Y: 4})
		_, err = c.AddWireSegment(line, vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())

		view := circuitio.ViewPoint{X: 1, Y: 2, Zoom: 1.5}
		sim := circuitio.FromSessionConfig(config.Default())

		var buf bytes.Buffer
		Expect(circuitio.Save(&buf, circuitio.Capture(c, view, sim))).To(Succeed())

		loaded, env, err := circuitio.Load(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.ViewPoint).To(Equal(view))
		Expect(env.SimulationConfig).To(Equal(sim))

		Expect(loaded.Layout().LogicItemIDs()).To(HaveLen(1))
		restored := loaded.Layout().LogicItem(loaded.Layout().LogicItemIDs()[0])
		Expect(restored.DisplayState).To(Equal(vocab.Normal))
		Expect(restored.Attributes.ClockPeriodNS).To(Equal(uint64(100)))

		Expect(loaded.Layout().DecorationIDs()).To(HaveLen(1))
		Expect(loaded.Layout().WireIDs()).To(HaveLen(1))
		wire := loaded.Layout().Wire(loaded.Layout().WireIDs()[0])
		Expect(wire.DisplayState).To(Equal(vocab.Normal))
	})

	It("skips uninserted elements when capturing", func() {
		c := editablecircuit.New()
		_, err := c.AddLogicItem(andGate(vocab.Point{X: 0, Y: 0}), vocab.ModeTemporary)
		Expect(err).NotTo(HaveOccurred())

		env := circuitio.Capture(c, circuitio.ViewPoint{}, circuitio.SimulationConfig{})
		Expect(env.Layout.LogicItems).To(BeEmpty())
	})

	It("rejects an envelope with an unknown version", func() {
		var buf bytes.Buffer
		env := circuitio.Envelope{Version: 99}
		Expect(circuitio.Save(&buf, env)).To(Succeed())

		_, _, err := circuitio.Load(&buf)
		Expect(errors.Is(err, circuitio.ErrVersionUnknown)).To(BeTrue())
	})

	It("rejects a stream that isn't gzip at all", func() {
		_, _, err := circuitio.Load(strings.NewReader("not gzip"))
		Expect(errors.Is(err, circuitio.ErrMalformed)).To(BeTrue())
	})
})

var _ = Describe("ImportYAMLFixture", func() {
	It("builds a circuit from a flat logic-item and wire fixture", func() {
		doc := `
logic_items:
  - type: and
    x: 0
    y: 0
    input_count: 2
    output_count: 1
  - type: led
    x: 6
    y: 0
    input_count: 1
    output_count: 0
wires:
  - points:
      - [4, 0]
      - [4, 2]
      - [6, 2]
`
		c, err := circuitio.ImportYAMLFixture(strings.NewReader(doc))
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().LogicItemIDs()).To(HaveLen(2))
		Expect(c.Layout().WireIDs()).To(HaveLen(1))
	})

	It("rejects an unknown logic item type", func() {
		doc := "logic_items:\n  - type: not_a_real_gate\n    x: 0\n    y: 0\n"
		_, err := circuitio.ImportYAMLFixture(strings.NewReader(doc))
		Expect(errors.Is(err, circuitio.ErrMalformed)).To(BeTrue())
	})

	It("rejects malformed YAML", func() {
		_, err := circuitio.ImportYAMLFixture(strings.NewReader("logic_items: [not, a, map"))
		Expect(errors.Is(err, circuitio.ErrMalformed)).To(BeTrue())
	})
})
