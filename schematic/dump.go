package schematic

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Dump renders s as a human-readable table, grounded on
// core.PrintState's use of go-pretty for debug dumps of simulator
// state.
func Dump(s Schematic) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Element", "Kind", "Type", "Inputs", "Outputs", "DelayNS"})

	for i, e := range s.Elements {
		kind := "logic_item"
		typ := e.LogicItemType.String()
		if e.Kind == WireElement {
			kind = "wire"
			typ = "-"
		}
		t.AppendRow(table.Row{i, kind, typ, formatConnections(e.Inputs), formatConnections(e.Outputs), e.DelayNS})
	}

	return t.Render()
}

func formatConnections(conns []Connection) string {
	if len(conns) == 0 {
		return "-"
	}
	out := ""
	for i, c := range conns {
		if i > 0 {
			out += ", "
		}
		if c.Element == NullElement {
			out += "none"
			continue
		}
		out += fmt.Sprintf("%d.%d", c.Element, c.Index)
	}
	return out
}
