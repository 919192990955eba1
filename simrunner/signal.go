package simrunner

import "github.com/sarchlab/akita/v4/sim"

// Signal is the message exchanged between two simrunner components: a
// single boolean logic level on the wire or pin the sending port
// represents, mirroring cgra.MoveMsg's shape (embedded sim.MsgMeta
// plus one payload field) but carrying a bit instead of a 32-bit word.
type Signal struct {
	sim.MsgMeta

	Value bool
}

// Meta returns the message's akita bookkeeping fields.
func (s *Signal) Meta() *sim.MsgMeta {
	return &s.MsgMeta
}

// signalBuilder is the fluent constructor for Signal, following
// cgra.MoveMsgBuilder's With*/Build shape.
type signalBuilder struct {
	src, dst sim.Port
	sendTime sim.VTimeInSec
	value    bool
}

func (b signalBuilder) WithSrc(src sim.Port) signalBuilder {
	b.src = src
	return b
}

func (b signalBuilder) WithDst(dst sim.Port) signalBuilder {
	b.dst = dst
	return b
}

func (b signalBuilder) WithSendTime(t sim.VTimeInSec) signalBuilder {
	b.sendTime = t
	return b
}

func (b signalBuilder) WithValue(v bool) signalBuilder {
	b.value = v
	return b
}

func (b signalBuilder) Build() *Signal {
	return &Signal{
		MsgMeta: sim.MsgMeta{
			ID:       sim.GetIDGenerator().Generate(),
			Src:      b.src,
			Dst:      b.dst,
			SendTime: b.sendTime,
		},
		Value: b.value,
	}
}
