package editablecircuit

import (
	"fmt"

	"github.com/sarchlab/logiksim/bus"
	"github.com/sarchlab/logiksim/geometry"
	"github.com/sarchlab/logiksim/index/collision"
	"github.com/sarchlab/logiksim/vocab"
)

// Builder constructs a Circuit, following the fluent value-receiver
// builder idiom used throughout the example pack (core.Builder,
// api.DriverBuilder): each With* method returns a modified copy, and
// Build produces the final value.
type Builder struct {
	validate bool
}

// NewBuilder returns a Builder with validation off.
func NewBuilder() Builder { return Builder{} }

// WithValidation installs a bus.Validator as the last registered
// listener. After every message it checks that each Normal logic item
// is present in the collision and spatial indices and each Normal
// wire in the collision index, and panics on divergence. Meant for
// development and tests, not
// production use: every check below walks the whole layout, so it
// turns every mutation from O(1)/O(log n) into O(n).
func (b Builder) WithValidation() Builder {
	b.validate = true
	return b
}

// Build constructs the Circuit.
func (b Builder) Build() *Circuit {
	c := New()
	if b.validate {
		c.bus.Register(bus.NewValidator(
			func() error { return checkLogicItemsInserted(c) },
			func() error { return checkWiresInserted(c) },
		))
	}
	return c
}

// checkLogicItemsInserted re-derives, for every Normal logic item,
// that the collision and spatial indices agree it is present, and that
// no Temporary/Colliding item's body leaks into either index.
func checkLogicItemsInserted(c *Circuit) error {
	for _, id := range c.layout.LogicItemIDs() {
		item := c.layout.LogicItem(id)
		normal := item.DisplayState == vocab.Normal
		inSpatial := c.spatial.HasElement(item.Position)
		if normal && !inSpatial {
			return fmt.Errorf("logic item %s is Normal but absent from the spatial index", id)
		}
		for _, p := range bodyPointsOf(item) {
			colliding := c.collision.IsColliding(p, collision.ItemBody)
			if normal && !colliding {
				return fmt.Errorf("logic item %s is Normal but body point %s is not in the collision index", id, p)
			}
			if !normal && colliding {
				return fmt.Errorf("logic item %s is %s but body point %s is still in the collision index", id, item.DisplayState, p)
			}
		}
	}
	return nil
}

// checkWiresInserted re-derives that every Normal wire's segments are
// all present in the collision index at every grid point they cover,
// and that no Temporary/Colliding wire leaks an entry.
func checkWiresInserted(c *Circuit) error {
	for _, id := range c.layout.WireIDs() {
		w := c.layout.Wire(id)
		normal := w.DisplayState == vocab.Normal
		for _, idx := range w.Tree.Indices() {
			info := w.Tree.Info(idx)
			for _, p := range geometry.GridPointsOn(info.Line) {
				found := c.collision.GetFirstWire(p)
				if normal && found != id {
					return fmt.Errorf("wire %s segment %d point %s is Normal but not reflected by the collision index", id, idx, p)
				}
				if !normal && found == id {
					return fmt.Errorf("wire %s segment %d point %s is %s but still present in the collision index", id, idx, p, w.DisplayState)
				}
			}
		}
	}
	return nil
}
