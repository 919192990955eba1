package simrunner

import (
	"fmt"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"

	"github.com/sarchlab/logiksim/schematic"
)

// Runner drives one schematic.Schematic as a running akita simulation:
// every element becomes a TickingComponent, every schematic connection
// becomes a Port pair joined by a directconnection.Comp, the same
// shape config.DeviceBuilder.Build uses for a CGRA mesh of cores.
type Runner struct {
	engine     sim.Engine
	freq       sim.Freq
	monitor    *monitoring.Monitor
	components []*component
	memory     *sharedMemory
}

// RunnerBuilder assembles a Runner, following the fluent
// value-receiver shape of config.DeviceBuilder/core.Builder.
type RunnerBuilder struct {
	engine       sim.Engine
	freq         sim.Freq
	monitor      *monitoring.Monitor
	withMemory   bool
	memStorageGB int
}

// NewRunnerBuilder starts from a 1GHz default frequency, matching
// core.NewCore's default tick rate.
func NewRunnerBuilder() RunnerBuilder {
	return RunnerBuilder{freq: 1 * sim.GHz, memStorageGB: 1}
}

// WithEngine sets the engine that drives the simulation.
func (b RunnerBuilder) WithEngine(engine sim.Engine) RunnerBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the tick frequency every element component runs at.
func (b RunnerBuilder) WithFreq(freq sim.Freq) RunnerBuilder {
	b.freq = freq
	return b
}

// WithMonitor attaches a monitoring.Monitor; every component and
// connection this builder creates registers with it.
func (b RunnerBuilder) WithMonitor(monitor *monitoring.Monitor) RunnerBuilder {
	b.monitor = monitor
	return b
}

// WithSimulatedMemory also writes every display-number/display-ascii
// element's register into a shared idealmemcontroller.Comp; the
// in-process register stays and Value still reads it. Grounded on
// config.DeviceBuilder.createSharedMemory's
// "shared" memory mode.
func (b RunnerBuilder) WithSimulatedMemory(storageGB int) RunnerBuilder {
	b.withMemory = true
	b.memStorageGB = storageGB
	return b
}

// Build derives a Runner from s: one component per element, one
// directconnection per schematic connection.
func (b RunnerBuilder) Build(s schematic.Schematic) (*Runner, error) {
	if b.engine == nil {
		return nil, fmt.Errorf("simrunner: no engine set")
	}

	r := &Runner{engine: b.engine, freq: b.freq, monitor: b.monitor}
	r.components = make([]*component, len(s.Elements))

	for i, el := range s.Elements {
		kind := logicElementKind
		if el.Kind == schematic.WireElement {
			kind = wireElementKind
		}

		c := &component{
			kind:      kind,
			itemType:  el.LogicItemType,
			inInv:     el.InputInverters,
			outInv:    el.OutputInverters,
			inPorts:   make([]sim.Port, len(el.Inputs)),
			outPorts:  make([]sim.Port, len(el.Outputs)),
			outRemote: make([]sim.Port, len(el.Outputs)),
			inValues:  make([]bool, len(el.Inputs)),
			outValues: make([]bool, len(el.Outputs)),
		}
		name := fmt.Sprintf("Element%d", i)
		c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

		for j := range c.inPorts {
			portName := fmt.Sprintf("%s.In%d", name, j)
			c.inPorts[j] = sim.NewLimitNumMsgPort(c, 1, portName)
			c.AddPort(fmt.Sprintf("In%d", j), c.inPorts[j])
		}
		for j := range c.outPorts {
			portName := fmt.Sprintf("%s.Out%d", name, j)
			c.outPorts[j] = sim.NewLimitNumMsgPort(c, 1, portName)
			c.AddPort(fmt.Sprintf("Out%d", j), c.outPorts[j])
		}

		if b.monitor != nil {
			b.monitor.RegisterComponent(c)
		}

		r.components[i] = c
	}

	for i, el := range s.Elements {
		src := r.components[i]
		for j, conn := range el.Outputs {
			if conn.Element == schematic.NullElement {
				continue
			}
			dst := r.components[conn.Element]
			if conn.Index < 0 || conn.Index >= len(dst.inPorts) {
				continue
			}

			connName := fmt.Sprintf("Element%d.Out%d-Element%d.In%d", i, j, conn.Element, conn.Index)
			wire := directconnection.MakeBuilder().
				WithEngine(b.engine).
				WithFreq(b.freq).
				Build(connName)
			wire.PlugIn(src.outPorts[j])
			wire.PlugIn(dst.inPorts[conn.Index])

			src.outRemote[j] = dst.inPorts[conn.Index]
		}
	}

	if b.withMemory {
		mem, err := newSharedMemory(b.engine, b.freq, b.memStorageGB, r.components, b.monitor)
		if err != nil {
			return nil, err
		}
		r.memory = mem
	}

	return r, nil
}

// Run drains every scheduled event on the engine, advancing every
// component's ticks until the simulation goes quiescent.
func (r *Runner) Run() error {
	return r.engine.Run()
}

// SetButton forces the Button element at idx to the given level.
// idx must be a schematic.ElementID for a Button logic item.
func (r *Runner) SetButton(idx int, pressed bool) {
	r.components[idx].SetButton(pressed)
}

// Value returns the last signal vector a LED/DisplayNumber/
// DisplayASCII element observed.
func (r *Runner) Value(idx int) []bool {
	return r.components[idx].Value()
}

// ComponentCount reports how many elements this runner is driving,
// for tests and diagnostics.
func (r *Runner) ComponentCount() int {
	return len(r.components)
}

// OutputWired reports whether the given element's output pin was
// successfully joined to a directconnection during Build.
func (r *Runner) OutputWired(elementIdx, outputIdx int) bool {
	c := r.components[elementIdx]
	return outputIdx >= 0 && outputIdx < len(c.outRemote) && c.outRemote[outputIdx] != nil
}
