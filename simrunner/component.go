package simrunner

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/logiksim/vocab"
)

type elementKind int

const (
	logicElementKind elementKind = iota
	wireElementKind
)

// HookPosSignalChanged marks the moment a component's output vector
// changes, letting an external observer watch simulated signal
// transitions without coupling to the component itself, the same role
// core/port.go's HookPosPortMsgSend plays for message traffic.
var HookPosSignalChanged = &sim.HookPos{Name: "Signal Changed"}

// component is the akita TickingComponent backing one schematic
// element. It owns one sim.Port per input/output pin; an output with
// no wired partner keeps a nil outRemote entry and is never sent on.
type component struct {
	*sim.TickingComponent

	kind      elementKind
	itemType  vocab.LogicItemType
	inInv     []bool
	outInv    []bool
	inPorts   []sim.Port
	outPorts  []sim.Port
	outRemote []sim.Port // partner port for each output, nil if unconnected

	inValues  []bool
	outValues []bool
	eval      evalState

	// Set only when the runner was built WithSimulatedMemory and this
	// component is a display element; nil otherwise.
	memPort sim.Port
	memDst  sim.Port
	memAddr uint64
}

// Tick reads any pending input signals, re-evaluates the element, and
// sends a Signal on every output pin whose level changed. It never
// blocks: an output port that can't currently accept a send silently
// drops that edge, the same "best effort, no backpressure modeling"
// simplification schematic wire delay already makes.
func (c *component) Tick(now sim.VTimeInSec) (madeProgress bool) {
	for i, p := range c.inPorts {
		if p == nil {
			continue
		}
		msg := p.Peek()
		if msg == nil {
			continue
		}
		sig, ok := msg.(*Signal)
		if !ok {
			continue
		}
		p.Retrieve(now)
		c.inValues[i] = sig.Value
		madeProgress = true
	}

	prevRegisters := append([]bool(nil), c.eval.registers...)
	next := evaluate(c.kind, c.itemType, c.inValues, c.inInv, c.outInv, &c.eval)

	if c.memPort != nil && !equalBools(prevRegisters, c.eval.registers) {
		writeDisplayValue(c, now, c.eval.registers)
		madeProgress = true
	}

	for i, v := range next {
		if i >= len(c.outValues) || v == c.outValues[i] {
			continue
		}
		c.outValues[i] = v
		madeProgress = true

		hookCtx := sim.HookCtx{Domain: c, Pos: HookPosSignalChanged, Item: v}
		c.InvokeHook(hookCtx)

		port := c.outPorts[i]
		dst := c.outRemote[i]
		if port == nil || dst == nil || !port.CanSend() {
			continue
		}
		msg := signalBuilder{}.
			WithSrc(port).
			WithDst(dst).
			WithSendTime(now).
			WithValue(v).
			Build()
		_ = port.Send(msg)
	}

	return madeProgress
}

// SetButton forces a Button element's output regardless of Tick
// timing; a click handler calls this, not Tick itself.
func (c *component) SetButton(pressed bool) {
	c.eval.button = pressed
}

func equalBools(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Value returns the last value a LED/DisplayNumber/DisplayASCII
// element observed at its input(s); meaningless for any other
// element kind.
func (c *component) Value() []bool {
	return c.eval.registers
}
