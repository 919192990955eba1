package simrunner

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/akita/v4/mem/idealmemcontroller"
	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"

	"github.com/sarchlab/logiksim/vocab"
)

// sharedMemory gives every display-number/display-ascii element a slot
// in one idealmemcontroller.Comp, written alongside its in-process
// register, the same "shared" memory mode config.DeviceBuilder
// offers a CGRA tile: one controller, one direct connection per
// client, addresses handed out by slot instead of by tile coordinate.
type sharedMemory struct {
	controller *idealmemcontroller.Comp
	bus        *directconnection.Comp
	addrOf     map[*component]uint64
}

const displaySlotBytes = 8

// newSharedMemory builds one controller and one bus connection, then
// plugs every display element's own dedicated port into that same
// bus — config.DeviceBuilder's "shared" mode plugs every tile in a
// memory group into the same pre-existing connection rather than
// minting a connection per tile, and this does the same.
func newSharedMemory(
	engine sim.Engine,
	freq sim.Freq,
	storageGB int,
	components []*component,
	monitor *monitoring.Monitor,
) (*sharedMemory, error) {
	if storageGB <= 0 {
		storageGB = 1
	}

	controller := idealmemcontroller.MakeBuilder().
		WithEngine(engine).
		WithNewStorage(uint64(storageGB) * mem.GB).
		WithLatency(5).
		Build("DisplayMemory")
	bus := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		Build("DisplayMemory.Bus")
	bus.PlugIn(controller.GetPortByName("Top"))

	sm := &sharedMemory{controller: controller, bus: bus, addrOf: make(map[*component]uint64)}

	addr := uint64(0)
	for i, c := range components {
		if c.itemType != vocab.DisplayNumber && c.itemType != vocab.DisplayASCII {
			continue
		}

		portName := fmt.Sprintf("Element%d.Mem", i)
		port := sim.NewLimitNumMsgPort(c, 1, portName)
		c.AddPort("Mem", port)
		bus.PlugIn(port)

		sm.addrOf[c] = addr
		c.memPort = port
		c.memDst = controller.GetPortByName("Top")
		c.memAddr = addr
		addr += displaySlotBytes
	}

	return sm, nil
}

// writeDisplayValue packs the first 64 bits into one little-endian
// uint64 (bits[i] is bit i of the word) and issues a write request through the
// component's memory port. Called from Tick, never blocks on a reply:
// display elements are write-only observers of their own state.
func writeDisplayValue(c *component, now sim.VTimeInSec, bits []bool) {
	if c.memPort == nil {
		return
	}
	data := make([]byte, displaySlotBytes)
	var packed uint64
	for i, b := range bits {
		if i >= 64 {
			break
		}
		if b {
			packed |= 1 << uint(i)
		}
	}
	binary.LittleEndian.PutUint64(data, packed)

	req := mem.WriteReqBuilder{}.
		WithAddress(c.memAddr).
		WithData(data).
		WithSrc(c.memPort).
		WithDst(c.memDst).
		WithPID(0).
		WithSendTime(now).
		Build()
	_ = c.memPort.Send(req)
}
