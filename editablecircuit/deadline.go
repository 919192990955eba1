package editablecircuit

import (
	"context"
	"fmt"
	"sort"

	"github.com/sarchlab/logiksim/selection"
	"github.com/sarchlab/logiksim/vocab"
)

// DeadlineGuard lets a batch operation (MoveSelection, DeleteSelection)
// bail out of a pathological input instead of running unbounded. It
// replaces the reference implementation's polled wall-clock timer
// (timeout_timer.h) with context.Context, the idiomatic Go way to
// carry a deadline through a call chain.
type DeadlineGuard struct {
	ctx context.Context
}

// NewDeadlineGuard wraps ctx. A nil ctx never expires.
func NewDeadlineGuard(ctx context.Context) DeadlineGuard {
	if ctx == nil {
		ctx = context.Background()
	}
	return DeadlineGuard{ctx: ctx}
}

// Check returns ctx.Err() if the deadline has passed, nil otherwise.
// Call it once per item in a batch loop.
func (g DeadlineGuard) Check() error {
	select {
	case <-g.ctx.Done():
		return fmt.Errorf("editablecircuit: batch operation aborted: %w", g.ctx.Err())
	default:
		return nil
	}
}

// MoveSelection translates every logic item and decoration in sel by
// (dx, dy), stopping early if guard's deadline passes. Returns the
// count actually moved and the first error encountered, if any — a
// partially applied move is a legitimate outcome of a deadline trip,
// not a rollback target: each individual MoveLogicItem/MoveDecoration
// call already committed before the guard is checked again.
//
// MoveLogicItem/MoveDecoration only edit geometry on an uninserted
// record (layout.SetLogicItemGeometry panics on a Normal one), so a
// Normal or Colliding member is dropped to Temporary first and, once
// moved, given one insert-or-discard attempt.
func (c *Circuit) MoveSelection(sel selection.Selection, dx, dy vocab.Grid, guard DeadlineGuard) (int, error) {
	moved := 0
	for id := range sel.LogicItems {
		if err := guard.Check(); err != nil {
			return moved, err
		}
		wasTemporary := c.layout.LogicItem(id).DisplayState == vocab.Temporary
		if !wasTemporary {
			if err := c.ChangeLogicItemMode(id, vocab.ModeTemporary); err != nil {
				return moved, err
			}
		}
		if err := c.MoveLogicItem(id, dx, dy); err != nil {
			return moved, err
		}
		if !wasTemporary {
			if err := c.ChangeLogicItemMode(id, vocab.ModeInsertOrDiscard); err != nil {
				return moved, err
			}
		}
		moved++
	}
	for id := range sel.Decorations {
		if err := guard.Check(); err != nil {
			return moved, err
		}
		wasTemporary := c.layout.Decoration(id).DisplayState == vocab.Temporary
		if !wasTemporary {
			if err := c.ChangeDecorationMode(id, vocab.ModeTemporary); err != nil {
				return moved, err
			}
		}
		if err := c.MoveDecoration(id, dx, dy); err != nil {
			return moved, err
		}
		if !wasTemporary {
			if err := c.ChangeDecorationMode(id, vocab.ModeInsertOrDiscard); err != nil {
				return moved, err
			}
		}
		moved++
	}
	return moved, nil
}

// DeleteSelection removes every logic item and decoration in sel,
// stopping early if guard's deadline passes. Members are deleted
// highest id first, so the swap-and-pop renumbering of one deletion
// never moves a member that is still to be deleted.
func (c *Circuit) DeleteSelection(sel selection.Selection, guard DeadlineGuard) (int, error) {
	deleted := 0
	itemIDs := make([]vocab.LogicItemID, 0, len(sel.LogicItems))
	for id := range sel.LogicItems {
		itemIDs = append(itemIDs, id)
	}
	sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] > itemIDs[j] })
	for _, id := range itemIDs {
		if err := guard.Check(); err != nil {
			return deleted, err
		}
		if err := c.DeleteLogicItem(id); err != nil {
			return deleted, err
		}
		deleted++
	}
	decoIDs := make([]vocab.DecorationID, 0, len(sel.Decorations))
	for id := range sel.Decorations {
		decoIDs = append(decoIDs, id)
	}
	sort.Slice(decoIDs, func(i, j int) bool { return decoIDs[i] > decoIDs[j] })
	for _, id := range decoIDs {
		if err := guard.Check(); err != nil {
			return deleted, err
		}
		if err := c.DeleteDecoration(id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
