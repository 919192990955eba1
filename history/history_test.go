package history_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/logiksim/history"
	"github.com/sarchlab/logiksim/layout"
	"github.com/sarchlab/logiksim/selection"
	"github.com/sarchlab/logiksim/vocab"
)

var _ = Describe("Stack", func() {
	It("starts empty", func() {
		s := history.New()
		Expect(s.Empty()).To(BeTrue())
		Expect(s.Size()).To(Equal(0))
	})

	It("pushes and pops a decoration create entry LIFO", func() {
		s := history.New()
		s.PushDecorationCreateTemporary(7, layout.Decoration{})
		Expect(s.Empty()).To(BeFalse())

		key, _ := s.PopDecorationCreateTemporary()
		Expect(key).To(Equal(vocab.DecorationKey(7)))
		Expect(s.Empty()).To(BeTrue())
	})

	It("panics popping the wrong entry kind", func() {
		s := history.New()
		s.PushDecorationCreateTemporary(1, layout.Decoration{})
		Expect(func() { s.PopDecorationDeleteTemporary() }).To(Panic())
	})

	It("round-trips a logic item move delta", func() {
		s := history.New()
		s.PushLogicItemMoveTemporary(4, history.MoveDelta{DX: 2, DY: -3})
		key, delta := s.PopLogicItemMoveTemporary()
		Expect(key).To(Equal(vocab.LogicItemKey(4)))
		Expect(delta.DX).To(Equal(vocab.Grid(2)))
		Expect(delta.DY).To(Equal(vocab.Grid(-3)))
	})

	It("round-trips a visible selection set entry", func() {
		s := history.New()
		sel := selection.StableSelection{LogicItems: []vocab.LogicItemKey{1, 2}}
		s.PushVisibleSelectionSet(sel)
		got := s.PopVisibleSelectionSet()
		Expect(got.LogicItems).To(Equal([]vocab.LogicItemKey{1, 2}))
	})

	It("does not push consecutive or leading group boundaries", func() {
		s := history.New()
		Expect(s.PushNewGroup()).To(BeFalse(), "empty stack has nothing to group")

		s.PushDecorationDeleteTemporary(1, layout.Decoration{})
		Expect(s.PushNewGroup()).To(BeTrue())
		Expect(s.PushNewGroup()).To(BeFalse(), "already at a group boundary")
	})

	It("reopens a group so the next push joins it", func() {
		s := history.New()
		s.PushDecorationDeleteTemporary(1, layout.Decoration{})
		s.PushNewGroup()
		Expect(history.HasUngroupedEntries(s)).To(BeFalse())

		history.ReopenGroup(s)
		Expect(history.HasUngroupedEntries(s)).To(BeTrue())
	})

	Describe("GetEntryBeforeSkip / LastNonGroupEntry", func() {
		It("skips trailing group markers", func() {
			s := history.New()
			s.PushDecorationDeleteTemporary(1, layout.Decoration{})
			s.PushNewGroup()

			entry, ok := history.LastNonGroupEntry(s.Entries())
			Expect(ok).To(BeTrue())
			Expect(entry).To(Equal(history.DecorationDeleteTemporary))
		})

		It("reports false on an all-skip or empty stack", func() {
			_, ok := history.GetEntryBeforeSkip(nil, history.NewGroup)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("diagnostics", func() {
		It("reports zero allocated size and an empty string for an empty stack", func() {
			s := history.New()
			Expect(s.AllocatedSize()).To(Equal(0))
			Expect(s.String()).To(Equal(""))
		})

		It("grows allocated size and lists entries as they're pushed", func() {
			s := history.New()
			s.PushDecorationDeleteTemporary(1, layout.Decoration{})
			s.PushNewGroup()

			Expect(s.AllocatedSize()).To(BeNumerically(">", 0))
			Expect(s.String()).To(ContainSubstring("decoration_delete_temporary"))
			Expect(s.String()).To(ContainSubstring("new_group"))
		})
	})
})
