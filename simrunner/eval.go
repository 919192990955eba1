package simrunner

import "github.com/sarchlab/logiksim/vocab"

// evalState is the part of a component's memory that survives between
// Tick calls: the previous clock level (for edge detection) and any
// register bits a stateful element needs.
type evalState struct {
	prevClock bool
	registers []bool
	button    bool
}

// evaluate computes the next output vector for one schematic element
// given its current input vector and persistent state. It mirrors, in
// miniature, the per-gate evaluation a synthesized netlist simulator
// performs; simrunner only needs enough of each gate's truth table to
// exercise the akita wiring, not a full HDL-grade simulation core.
func evaluate(kind elementKind, t vocab.LogicItemType, in []bool, inInv, outInv []bool, st *evalState) []bool {
	applyIn := func(i int, v bool) bool {
		if i < len(inInv) && inInv[i] {
			return !v
		}
		return v
	}
	applyOut := func(i int, v bool) bool {
		if i < len(outInv) && outInv[i] {
			return !v
		}
		return v
	}

	if kind == wireElementKind {
		driven := false
		for i := range in {
			if applyIn(i, in[i]) {
				driven = true
				break
			}
		}
		out := make([]bool, len(in))
		for i := range out {
			out[i] = driven
		}
		return out
	}

	switch t {
	case vocab.And:
		v := len(in) > 0
		for i := range in {
			v = v && applyIn(i, in[i])
		}
		return []bool{applyOut(0, v)}

	case vocab.Or:
		v := false
		for i := range in {
			v = v || applyIn(i, in[i])
		}
		return []bool{applyOut(0, v)}

	case vocab.Xor:
		v := false
		for i := range in {
			v = v != applyIn(i, in[i])
		}
		return []bool{applyOut(0, v)}

	case vocab.Buffer:
		v := false
		if len(in) > 0 {
			v = applyIn(0, in[0])
		}
		return []bool{applyOut(0, v)}

	case vocab.Button:
		return []bool{applyOut(0, st.button)}

	case vocab.LED:
		if len(in) > 0 {
			st.registers = []bool{applyIn(0, in[0])}
		}
		return nil

	case vocab.ClockGenerator:
		st.prevClock = !st.prevClock
		return []bool{applyOut(0, st.prevClock)}

	case vocab.LatchD:
		d, en := false, false
		if len(in) > 0 {
			d = applyIn(0, in[0])
		}
		if len(in) > 1 {
			en = applyIn(1, in[1])
		}
		if len(st.registers) == 0 {
			st.registers = []bool{false}
		}
		if en {
			st.registers[0] = d
		}
		return []bool{applyOut(0, st.registers[0])}

	case vocab.FlipFlopD, vocab.FlipFlopMSD:
		d, clk := false, false
		if len(in) > 0 {
			d = applyIn(0, in[0])
		}
		if len(in) > 1 {
			clk = applyIn(1, in[1])
		}
		if len(st.registers) == 0 {
			st.registers = []bool{false}
		}
		if clk && !st.prevClock {
			st.registers[0] = d
		}
		st.prevClock = clk
		return []bool{applyOut(0, st.registers[0])}

	case vocab.FlipFlopJK:
		j, k, clk := false, false, false
		if len(in) > 0 {
			j = applyIn(0, in[0])
		}
		if len(in) > 1 {
			k = applyIn(1, in[1])
		}
		if len(in) > 2 {
			clk = applyIn(2, in[2])
		}
		if len(st.registers) == 0 {
			st.registers = []bool{false}
		}
		if clk && !st.prevClock {
			switch {
			case j && k:
				st.registers[0] = !st.registers[0]
			case j:
				st.registers[0] = true
			case k:
				st.registers[0] = false
			}
		}
		st.prevClock = clk
		return []bool{applyOut(0, st.registers[0])}

	case vocab.ShiftRegister:
		d, clk := false, false
		if len(in) > 0 {
			d = applyIn(0, in[0])
		}
		if len(in) > 1 {
			clk = applyIn(1, in[1])
		}
		width := len(outInv)
		if width == 0 {
			width = 1
		}
		if len(st.registers) != width {
			st.registers = make([]bool, width)
		}
		if clk && !st.prevClock {
			copy(st.registers[1:], st.registers[:width-1])
			st.registers[0] = d
		}
		st.prevClock = clk
		out := make([]bool, width)
		for i := range out {
			out[i] = applyOut(i, st.registers[i])
		}
		return out

	case vocab.DisplayNumber, vocab.DisplayASCII:
		st.registers = append([]bool(nil), in...)
		return nil

	case vocab.SubCircuit:
		out := make([]bool, len(outInv))
		for i := range out {
			if i < len(in) {
				out[i] = applyOut(i, applyIn(i, in[i]))
			}
		}
		return out

	case vocab.TextElement:
		return nil
	}

	return make([]bool, len(outInv))
}
