package selection_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/index/keyindex"
	"github.com/sarchlab/logiksim/index/spatial"
	"github.com/sarchlab/logiksim/selection"
	"github.com/sarchlab/logiksim/vocab"
)

var _ = Describe("Selection", func() {
	It("relabels a logic item on id update and drops it on delete", func() {
		s := selection.NewSelection()
		s.AddLogicItem(3)

		s.Submit(bus.NewLogicItemIDUpdated(3, 1))
		Expect(s.LogicItems).To(HaveKey(vocab.LogicItemID(1)))
		Expect(s.LogicItems).NotTo(HaveKey(vocab.LogicItemID(3)))

		s.Submit(bus.NewLogicItemDeleted(1))
		Expect(s.Empty()).To(BeTrue())
	})

	It("stable-selection round-trips logic items through a key index", func() {
		ki := keyindex.New()
		ki.Submit(bus.NewLogicItemCreated(0))
		ki.Submit(bus.NewLogicItemCreated(1))

		s := selection.NewSelection()
		s.AddLogicItem(0)
		s.AddLogicItem(1)

		stable := selection.ToStableSelection(s, ki)
		Expect(stable.LogicItems).To(HaveLen(2))

		back := selection.ToSelection(stable, ki)
		Expect(back.LogicItems).To(HaveKey(vocab.LogicItemID(0)))
		Expect(back.LogicItems).To(HaveKey(vocab.LogicItemID(1)))
	})

	It("drops a stable key whose entity has since been deleted", func() {
		ki := keyindex.New()
		ki.Submit(bus.NewLogicItemCreated(0))
		s := selection.NewSelection()
		s.AddLogicItem(0)
		stable := selection.ToStableSelection(s, ki)

		ki.Submit(bus.NewLogicItemDeleted(0))
		back := selection.ToSelection(stable, ki)
		Expect(back.Empty()).To(BeTrue())
	})
})

var _ = Describe("VisibleSelection", func() {
	It("resolves an add operation against the spatial index and memoizes it", func() {
		sp := spatial.New()
		sp.Submit(bus.NewLogicItemInserted(5, bus.LayoutData{Position: vocab.Point{X: 0, Y: 0}, InputCount: 1}))

		v := selection.NewVisibleSelection(selection.NewSelection())
		v.Add(vocab.Add, vocab.RectFine{P0: vocab.PointFine{X: -1, Y: -1}, P1: vocab.PointFine{X: 5, Y: 5}})

		resolved := v.Resolve(sp, 1)
		Expect(resolved.LogicItems).To(HaveKey(vocab.LogicItemID(5)))

		// Same generation: memoized, still reflects the same result.
		again := v.Resolve(sp, 1)
		Expect(again.LogicItems).To(HaveKey(vocab.LogicItemID(5)))
	})

	It("invalidates the cache when the tail rect changes", func() {
		sp := spatial.New()
		sp.Submit(bus.NewLogicItemInserted(5, bus.LayoutData{Position: vocab.Point{X: 0, Y: 0}, InputCount: 1}))
		sp.Submit(bus.NewLogicItemInserted(9, bus.LayoutData{Position: vocab.Point{X: 50, Y: 50}, InputCount: 1}))

		v := selection.NewVisibleSelection(selection.NewSelection())
		v.Add(vocab.Add, vocab.RectFine{P0: vocab.PointFine{X: -1, Y: -1}, P1: vocab.PointFine{X: 5, Y: 5}})
		first := v.Resolve(sp, 1)
		Expect(first.LogicItems).To(HaveKey(vocab.LogicItemID(5)))
		Expect(first.LogicItems).NotTo(HaveKey(vocab.LogicItemID(9)))

		v.UpdateLast(vocab.RectFine{P0: vocab.PointFine{X: 45, Y: 45}, P1: vocab.PointFine{X: 55, Y: 55}})
		second := v.Resolve(sp, 1)
		Expect(second.LogicItems).To(HaveKey(vocab.LogicItemID(9)))
		Expect(second.LogicItems).NotTo(HaveKey(vocab.LogicItemID(5)))
	})
})
