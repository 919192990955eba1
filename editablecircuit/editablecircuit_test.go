package editablecircuit_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/editablecircuit"
	"github.com/sarchlab/logiksim/layout"
	"github.com/sarchlab/logiksim/selection"
	"github.com/sarchlab/logiksim/vocab"
)

func andGate(pos vocab.Point) layout.LogicItem {
	return layout.LogicItem{
		Type:        vocab.And,
		Position:    pos,
		Orientation: vocab.Right,
		InputCount:  2,
		OutputCount: 1,
	}
}

func textDecoration(pos vocab.Point) layout.Decoration {
	return layout.Decoration{
		Position: pos,
		Width:    3,
		Height:   1,
		Attributes: layout.DecorationAttributes{
			Content: "hello",
		},
	}
}

var _ = Describe("Circuit logic items", func() {
	var c *editablecircuit.Circuit

	BeforeEach(func() {
		c = editablecircuit.New()
	})

	It("lands a non-colliding item at Normal when inserted", func() {
		id, err := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().LogicItem(id).DisplayState).To(Equal(vocab.Normal))
	})

	It("leaves a colliding item at Colliding rather than erroring", func() {
		_, err := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())

		id2, err := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().LogicItem(id2).DisplayState).To(Equal(vocab.Colliding))
	})

	It("caps an explicit ModeColliding request at Colliding even without an actual collision", func() {
		id, err := c.AddLogicItem(andGate(vocab.Point{X: 9, Y: 9}), vocab.ModeColliding)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().LogicItem(id).DisplayState).To(Equal(vocab.Colliding))
	})

	It("rejects an out-of-range position as a no-op error, not a panic", func() {
		huge := vocab.Point{X: vocab.Grid(vocab.GridMax) + 100, Y: 0}
		_, err := c.AddLogicItem(andGate(huge), vocab.ModeTemporary)
		Expect(err).To(Equal(editablecircuit.ErrOutOfRange))
	})

	It("uninserts a Normal item back to Temporary", func() {
		id, _ := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(c.Layout().LogicItem(id).DisplayState).To(Equal(vocab.Normal))

		Expect(c.ChangeLogicItemMode(id, vocab.ModeTemporary)).To(Succeed())
		Expect(c.Layout().LogicItem(id).DisplayState).To(Equal(vocab.Temporary))
		Expect(c.HasElement(vocab.Point{X: 5, Y: 0})).To(BeFalse())
	})

	It("moves a Temporary item and rejects a move that would leave range", func() {
		id, _ := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeTemporary)
		Expect(c.MoveLogicItem(id, 1, 1)).To(Succeed())
		Expect(c.Layout().LogicItem(id).Position).To(Equal(vocab.Point{X: 6, Y: 1}))

		err := c.MoveLogicItem(id, vocab.Grid(vocab.GridMax)*2, 0)
		Expect(err).To(Equal(editablecircuit.ErrOutOfRange))
	})

	It("deletes an inserted item, freeing its collision footprint", func() {
		id, _ := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(c.DeleteLogicItem(id)).To(Succeed())
		Expect(c.HasElement(vocab.Point{X: 5, Y: 0})).To(BeFalse())
	})

	It("updates attributes regardless of display state", func() {
		id, _ := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeInsertOrDiscard)
		c.SetLogicItemAttributes(id, layout.LogicItemAttributes{ClockPeriodNS: 42})
		Expect(c.Layout().LogicItem(id).Attributes.ClockPeriodNS).To(Equal(uint64(42)))
	})

	It("resizes a Temporary item's pin counts but refuses to resize an inserted one", func() {
		id, _ := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeTemporary)
		Expect(c.ResizeLogicItem(id, 3, 1)).To(Succeed())
		Expect(c.Layout().LogicItem(id).InputCount).To(Equal(3))

		inserted, _ := c.AddLogicItem(andGate(vocab.Point{X: 20, Y: 20}), vocab.ModeInsertOrDiscard)
		Expect(func() { _ = c.ResizeLogicItem(inserted, 4, 1) }).To(Panic())
	})
})

var _ = Describe("Circuit decorations", func() {
	var c *editablecircuit.Circuit

	BeforeEach(func() {
		c = editablecircuit.New()
	})

	It("inserts a decoration with no collision check at all", func() {
		id, err := c.AddDecoration(textDecoration(vocab.Point{X: 1, Y: 1}), vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().Decoration(id).DisplayState).To(Equal(vocab.Normal))
	})

	It("allows two overlapping decorations to both land at Normal", func() {
		id1, err := c.AddDecoration(textDecoration(vocab.Point{X: 1, Y: 1}), vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())
		id2, err := c.AddDecoration(textDecoration(vocab.Point{X: 1, Y: 1}), vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().Decoration(id1).DisplayState).To(Equal(vocab.Normal))
		Expect(c.Layout().Decoration(id2).DisplayState).To(Equal(vocab.Normal))
	})

	It("moves and deletes a decoration", func() {
		id, _ := c.AddDecoration(textDecoration(vocab.Point{X: 1, Y: 1}), vocab.ModeTemporary)
		Expect(c.MoveDecoration(id, 2, 0)).To(Succeed())
		Expect(c.Layout().Decoration(id).Position).To(Equal(vocab.Point{X: 3, Y: 1}))
		Expect(c.DeleteDecoration(id)).To(Succeed())
	})

	It("updates text/font attributes", func() {
		id, _ := c.AddDecoration(textDecoration(vocab.Point{X: 1, Y: 1}), vocab.ModeTemporary)
		c.SetDecorationAttributes(id, layout.DecorationAttributes{Content: "bye", FontSize: 12})
		Expect(c.Layout().Decoration(id).Attributes.Content).To(Equal("bye"))
	})
})

var _ = Describe("Circuit undo/redo", func() {
	var c *editablecircuit.Circuit

	BeforeEach(func() {
		c = editablecircuit.New()
	})

	It("reports nothing to undo on a fresh circuit", func() {
		Expect(c.Undo()).To(BeFalse())
	})

	It("undoes and redoes a logic item creation", func() {
		id, _ := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(c.HasElement(vocab.Point{X: 5, Y: 0})).To(BeTrue())

		Expect(c.Undo()).To(BeTrue())
		Expect(c.HasElement(vocab.Point{X: 5, Y: 0})).To(BeFalse())

		Expect(c.Redo()).To(BeTrue())
		Expect(c.HasElement(vocab.Point{X: 5, Y: 0})).To(BeTrue())
		_ = id
	})

	It("undoes and redoes a logic item deletion, restoring its geometry", func() {
		id, _ := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(c.DeleteLogicItem(id)).To(Succeed())
		Expect(c.HasElement(vocab.Point{X: 5, Y: 0})).To(BeFalse())

		Expect(c.Undo()).To(BeTrue())
		Expect(c.HasElement(vocab.Point{X: 5, Y: 0})).To(BeTrue())

		Expect(c.Redo()).To(BeTrue())
		Expect(c.HasElement(vocab.Point{X: 5, Y: 0})).To(BeFalse())
	})

	It("undoes and redoes a move by the same delta in opposite directions", func() {
		id, _ := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeTemporary)
		Expect(c.MoveLogicItem(id, 3, 4)).To(Succeed())
		Expect(c.Layout().LogicItem(id).Position).To(Equal(vocab.Point{X: 8, Y: 4}))

		Expect(c.Undo()).To(BeTrue())
		Expect(c.Layout().LogicItem(id).Position).To(Equal(vocab.Point{X: 5, Y: 0}))

		Expect(c.Redo()).To(BeTrue())
		Expect(c.Layout().LogicItem(id).Position).To(Equal(vocab.Point{X: 8, Y: 4}))
	})

	It("undoes and redoes an attribute change by swapping the value each time", func() {
		id, _ := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeTemporary)
		c.SetLogicItemAttributes(id, layout.LogicItemAttributes{ClockPeriodNS: 10})
		c.SetLogicItemAttributes(id, layout.LogicItemAttributes{ClockPeriodNS: 20})

		Expect(c.Undo()).To(BeTrue())
		Expect(c.Layout().LogicItem(id).Attributes.ClockPeriodNS).To(Equal(uint64(10)))

		Expect(c.Undo()).To(BeTrue())
		Expect(c.Layout().LogicItem(id).Attributes.ClockPeriodNS).To(Equal(uint64(0)))

		Expect(c.Redo()).To(BeTrue())
		Expect(c.Layout().LogicItem(id).Attributes.ClockPeriodNS).To(Equal(uint64(10)))

		Expect(c.Redo()).To(BeTrue())
		Expect(c.Layout().LogicItem(id).Attributes.ClockPeriodNS).To(Equal(uint64(20)))
	})

	It("undoes and redoes decoration creation, deletion, and move the same way", func() {
		id, _ := c.AddDecoration(textDecoration(vocab.Point{X: 1, Y: 1}), vocab.ModeInsertOrDiscard)
		Expect(c.Undo()).To(BeTrue())
		_, ok := lookupDecoration(c, id)
		Expect(ok).To(BeFalse())
		Expect(c.Redo()).To(BeTrue())
		_, ok = lookupDecoration(c, id)
		Expect(ok).To(BeTrue())

		Expect(c.MoveDecoration(id, 1, 1)).To(Succeed())
		pos := c.Layout().Decoration(id).Position
		Expect(c.Undo()).To(BeTrue())
		Expect(c.Layout().Decoration(id).Position).NotTo(Equal(pos))
	})

	It("lets undo run again after a redo followed by a new action", func() {
		c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeTemporary)
		Expect(c.Undo()).To(BeTrue())
		Expect(c.Redo()).To(BeTrue())
		// A brand new action after this redo is a normal undo push; undo
		// should work again immediately.
		id2, _ := c.AddLogicItem(andGate(vocab.Point{X: 20, Y: 20}), vocab.ModeTemporary)
		Expect(c.Undo()).To(BeTrue())
		_ = id2
	})
})

func lookupDecoration(c *editablecircuit.Circuit, id vocab.DecorationID) (layout.Decoration, bool) {
	for _, existing := range c.Layout().DecorationIDs() {
		if existing == id {
			return c.Layout().Decoration(id), true
		}
	}
	return layout.Decoration{}, false
}

var _ = Describe("Builder", func() {
	It("builds an unvalidated circuit that behaves like New()", func() {
		c := editablecircuit.NewBuilder().Build()
		id, err := c.AddLogicItem(andGate(vocab.Point{X: 0, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout().LogicItem(id).DisplayState).To(Equal(vocab.Normal))
	})

	It("does not panic with validation on for an ordinary sequence of operations", func() {
		c := editablecircuit.NewBuilder().WithValidation().Build()
		Expect(func() {
			id, err := c.AddLogicItem(andGate(vocab.Point{X: 0, Y: 0}), vocab.ModeInsertOrDiscard)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ChangeLogicItemMode(id, vocab.ModeTemporary)).To(Succeed())
			Expect(c.MoveLogicItem(id, 1, 1)).NotTo(HaveOccurred())
			Expect(c.ChangeLogicItemMode(id, vocab.ModeInsertOrDiscard)).To(Succeed())
			Expect(c.DeleteLogicItem(id)).To(Succeed())
		}).NotTo(Panic())
	})
})

var _ = Describe("DeadlineGuard batch operations", func() {
	var c *editablecircuit.Circuit

	BeforeEach(func() {
		c = editablecircuit.New()
	})

	It("moves and deletes every member of a selection", func() {
		id1, _ := c.AddLogicItem(andGate(vocab.Point{X: 0, Y: 0}), vocab.ModeInsertOrDiscard)
		id2, _ := c.AddLogicItem(andGate(vocab.Point{X: 10, Y: 10}), vocab.ModeInsertOrDiscard)
		sel := selection.NewSelection()
		sel.AddLogicItem(id1)
		sel.AddLogicItem(id2)

		n, err := c.MoveSelection(sel, 1, 0, editablecircuit.NewDeadlineGuard(nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))

		n, err = c.DeleteSelection(sel, editablecircuit.NewDeadlineGuard(nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
	})

	It("stops early once the deadline has already passed", func() {
		id1, _ := c.AddLogicItem(andGate(vocab.Point{X: 0, Y: 0}), vocab.ModeInsertOrDiscard)
		sel := selection.NewSelection()
		sel.AddLogicItem(id1)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		n, err := c.MoveSelection(sel, 1, 0, editablecircuit.NewDeadlineGuard(ctx))
		Expect(err).To(HaveOccurred())
		Expect(n).To(Equal(0))
	})
})

var _ = Describe("Click interpretation", func() {
	var c *editablecircuit.Circuit

	BeforeEach(func() {
		c = editablecircuit.New()
	})

	It("targets an element under a plain click and offers Add", func() {
		c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeInsertOrDiscard)
		plan := c.InterpretClick(vocab.Point{X: 5, Y: 0}, editablecircuit.ClickReplace, selection.NewSelection())
		Expect(plan.Target).To(Equal(editablecircuit.ClickElement))
		Expect(plan.Function).To(Equal(vocab.Add))
	})

	It("toggles to Subtract on a modified click of an already-selected element", func() {
		id, _ := c.AddLogicItem(andGate(vocab.Point{X: 5, Y: 0}), vocab.ModeInsertOrDiscard)
		sel := selection.NewSelection()
		sel.AddLogicItem(id)
		plan := c.InterpretClick(vocab.Point{X: 5, Y: 0}, editablecircuit.ClickToggle, sel)
		Expect(plan.Function).To(Equal(vocab.Subtract))
	})

	It("targets a decoration preferentially over an empty point", func() {
		id, _ := c.AddDecoration(textDecoration(vocab.Point{X: 1, Y: 1}), vocab.ModeInsertOrDiscard)
		plan := c.InterpretClick(vocab.Point{X: 1, Y: 1}, editablecircuit.ClickReplace, selection.NewSelection())
		Expect(plan.Target).To(Equal(editablecircuit.ClickDecoration))
		Expect(plan.DecorationID).To(Equal(id))
	})

	It("reports ClickNothing for an empty point", func() {
		plan := c.InterpretClick(vocab.Point{X: 100, Y: 100}, editablecircuit.ClickReplace, selection.NewSelection())
		Expect(plan.Target).To(Equal(editablecircuit.ClickNothing))
	})

	It("returns four corner handles for a decoration", func() {
		id, _ := c.AddDecoration(textDecoration(vocab.Point{X: 1, Y: 1}), vocab.ModeTemporary)
		handles := c.DecorationHandles(id)
		Expect(handles).To(HaveLen(4))
	})

	It("normalizes a drag rectangle regardless of corner order", func() {
		plan := c.InterpretDrag(
			vocab.PointFine{X: 5, Y: 5},
			vocab.PointFine{X: 1, Y: 1},
			editablecircuit.ClickReplace,
		)
		Expect(plan.Rect.P0).To(Equal(vocab.PointFine{X: 1, Y: 1}))
		Expect(plan.Rect.P1).To(Equal(vocab.PointFine{X: 5, Y: 5}))
	})
})

var _ = Describe("Circuit.Stats and DumpLayout", func() {
	It("reports a non-zero total once an item is inserted, and renders it in the dump", func() {
		c := editablecircuit.New()
		_, err := c.AddLogicItem(andGate(vocab.Point{X: 0, Y: 0}), vocab.ModeInsertOrDiscard)
		Expect(err).NotTo(HaveOccurred())

		stats := c.Stats()
		Expect(stats.Total()).To(BeNumerically(">", 0))
		Expect(stats.Total()).To(Equal(
			stats.LayoutBytes + stats.CollisionBytes + stats.ConnectionBytes +
				stats.SpatialBytes + stats.KeyIndexBytes + stats.UndoBytes + stats.RedoBytes,
		))

		dump := editablecircuit.DumpLayout(c)
		Expect(dump).To(ContainSubstring("and"))
	})
})
