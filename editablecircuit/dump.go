package editablecircuit

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// DumpLayout renders the circuit's logic items, decorations, and
// wires as human-readable tables, grounded on core.PrintState's use
// of go-pretty for debug dumps of simulator state.
func DumpLayout(c *Circuit) string {
	out := dumpLogicItems(c) + "\n" + dumpDecorations(c) + "\n" + dumpWires(c)
	return out
}

func dumpLogicItems(c *Circuit) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Type", "Position", "State", "Inputs", "Outputs"})
	for _, id := range c.layout.LogicItemIDs() {
		item := c.layout.LogicItem(id)
		t.AppendRow(table.Row{id, item.Type, item.Position, item.DisplayState, item.InputCount, item.OutputCount})
	}
	return t.Render()
}

func dumpDecorations(c *Circuit) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Position", "State", "Content"})
	for _, id := range c.layout.DecorationIDs() {
		d := c.layout.Decoration(id)
		t.AppendRow(table.Row{id, d.Position, d.DisplayState, d.Attributes.Content})
	}
	return t.Render()
}

func dumpWires(c *Circuit) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "State", "Segments"})
	for _, id := range c.layout.WireIDs() {
		w := c.layout.Wire(id)
		t.AppendRow(table.Row{id, w.DisplayState, w.Tree.Len()})
	}
	return t.Render()
}
