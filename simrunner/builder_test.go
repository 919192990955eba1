package simrunner_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/logiksim/schematic"
	"github.com/sarchlab/logiksim/simrunner"
	"github.com/sarchlab/logiksim/vocab"
)

var _ = Describe("RunnerBuilder", func() {
	It("rejects Build with no engine set", func() {
		_, err := simrunner.NewRunnerBuilder().Build(schematic.Schematic{})
		Expect(err).To(HaveOccurred())
	})

	It("creates one component per element and wires connected pins", func() {
		engine := sim.NewSerialEngine()
		s := schematic.Schematic{
			Elements: []schematic.Element{
				{
					Kind:          schematic.LogicItemElement,
					LogicItemType: vocab.Button,
					Outputs:       []schematic.Connection{{Element: 1, Index: 0}},
				},
				{
					Kind:          schematic.LogicItemElement,
					LogicItemType: vocab.LED,
					Inputs:        []schematic.Connection{{Element: 0, Index: 0}},
				},
			},
		}

		r, err := simrunner.NewRunnerBuilder().WithEngine(engine).WithFreq(1 * sim.GHz).Build(s)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.ComponentCount()).To(Equal(2))
		Expect(r.OutputWired(0, 0)).To(BeTrue())
	})

	It("propagates a forced button state to a connected LED after running", func() {
		engine := sim.NewSerialEngine()
		s := schematic.Schematic{
			Elements: []schematic.Element{
				{
					Kind:          schematic.LogicItemElement,
					LogicItemType: vocab.Button,
					Outputs:       []schematic.Connection{{Element: 1, Index: 0}},
				},
				{
					Kind:          schematic.LogicItemElement,
					LogicItemType: vocab.LED,
					Inputs:        []schematic.Connection{{Element: 0, Index: 0}},
				},
			},
		}

		r, err := simrunner.NewRunnerBuilder().WithEngine(engine).WithFreq(1 * sim.GHz).Build(s)
		Expect(err).NotTo(HaveOccurred())

		r.SetButton(0, true)
		Expect(r.Run()).To(Succeed())

		Expect(r.Value(1)).To(Equal([]bool{true}))
	})

	It("wires a display-number element to shared memory when requested", func() {
		engine := sim.NewSerialEngine()
		s := schematic.Schematic{
			Elements: []schematic.Element{
				{Kind: schematic.LogicItemElement, LogicItemType: vocab.DisplayNumber},
			},
		}

		_, err := simrunner.NewRunnerBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithSimulatedMemory(1).
			Build(s)
		Expect(err).NotTo(HaveOccurred())
	})
})
