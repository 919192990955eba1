// Package circuitio implements the serialization boundary: a versioned
// record of (view point, simulation config, layout), written as a
// gzip-compressed JSON envelope. It also offers a legacy YAML
// fixture-import path for hand-authored test circuits.
package circuitio

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/logiksim/config"
	"github.com/sarchlab/logiksim/editablecircuit"
	"github.com/sarchlab/logiksim/layout"
	"github.com/sarchlab/logiksim/vocab"
)

// CurrentVersion is the envelope format this package writes. Load
// accepts CurrentVersion and nothing else, reporting any other value
// as ErrVersionUnknown.
const CurrentVersion = 1

// ErrFileLoad is the sentinel family for the serialization boundary;
// Is() matches any of the wrapped reasons below via errors.Is.
var ErrFileLoad = fmt.Errorf("circuitio: file load error")

// ErrVersionUnknown reports an envelope whose Version field this
// package does not understand.
var ErrVersionUnknown = fmt.Errorf("%w: version_unknown", ErrFileLoad)

// ErrMalformed reports an envelope that fails to decompress or decode.
var ErrMalformed = fmt.Errorf("%w: malformed", ErrFileLoad)

// ViewPoint is the persisted camera/viewport state, opaque to the
// core: neither the layout nor any index references it.
type ViewPoint struct {
	X, Y float64
	Zoom float64
}

// SimulationConfig is the persisted subset of config.SessionConfig
// that affects how a loaded circuit simulates, round-tripped
// independently of the config package's own YAML shape (a session
// config file and a saved circuit's embedded settings are different
// documents that happen to share these two fields).
type SimulationConfig struct {
	WireDelayPerDistanceNS int64
	AutosaveIntervalS      int64
}

// FromSessionConfig captures the two circuit-relevant fields of a
// config.SessionConfig for embedding in a saved envelope.
func FromSessionConfig(c config.SessionConfig) SimulationConfig {
	return SimulationConfig{
		WireDelayPerDistanceNS: c.WireDelayPerDistance.Nanoseconds(),
		AutosaveIntervalS:      int64(c.AutosaveInterval.Seconds()),
	}
}

// LogicItemRecord is one persisted logic item. Key is advisory only:
// stable keys may or may not be persisted, and when absent new
// monotonic keys are assigned at load. Load never tries to force a
// dense id or key to match a recorded value, since the key index's
// monotonic counter (index/keyindex) has no mechanism to replay a
// specific key.
type LogicItemRecord struct {
	Key             vocab.LogicItemKey `json:"key,omitempty"`
	Type            vocab.LogicItemType
	Position        vocab.Point
	Orientation     vocab.Orientation
	InputCount      int
	OutputCount     int
	InputInverters  []bool
	OutputInverters []bool
	Attributes      layout.LogicItemAttributes
}

// DecorationRecord is one persisted decoration.
type DecorationRecord struct {
	Key        vocab.DecorationKey `json:"key,omitempty"`
	Position   vocab.Point
	Width      vocab.Grid
	Height     vocab.Grid
	Attributes layout.DecorationAttributes
}

// WireRecord is one persisted wire: the full list of ordered-line
// segments it covers. Endpoint types and valid parts are not
// persisted; they are recomputed on load, so Load rebuilds them via
// the normal add-wire-segment / insert-or-discard path.
type WireRecord struct {
	Segments []vocab.OrderedLine
}

// LayoutPayload is the persisted circuit body.
type LayoutPayload struct {
	LogicItems  []LogicItemRecord
	Decorations []DecorationRecord
	Wires       []WireRecord
}

// Envelope is the top-level persisted document.
type Envelope struct {
	Version          int
	ViewPoint        ViewPoint
	SimulationConfig SimulationConfig
	Layout           LayoutPayload
}

// Capture builds an Envelope from the live state of c.
func Capture(c *editablecircuit.Circuit, view ViewPoint, sim SimulationConfig) Envelope {
	l := c.Layout()
	env := Envelope{Version: CurrentVersion, ViewPoint: view, SimulationConfig: sim}

	for _, id := range l.LogicItemIDs() {
		item := l.LogicItem(id)
		if item.DisplayState != vocab.Normal {
			continue
		}
		env.Layout.LogicItems = append(env.Layout.LogicItems, LogicItemRecord{
			Key:             c.KeyIndex().LogicItemKey(id),
			Type:            item.Type,
			Position:        item.Position,
			Orientation:     item.Orientation,
			InputCount:      item.InputCount,
			OutputCount:     item.OutputCount,
			InputInverters:  append([]bool(nil), item.InputInverters...),
			OutputInverters: append([]bool(nil), item.OutputInverters...),
			Attributes:      item.Attributes,
		})
	}

	for _, id := range l.DecorationIDs() {
		d := l.Decoration(id)
		if d.DisplayState != vocab.Normal {
			continue
		}
		env.Layout.Decorations = append(env.Layout.Decorations, DecorationRecord{
			Key:        c.KeyIndex().DecorationKey(id),
			Position:   d.Position,
			Width:      d.Width,
			Height:     d.Height,
			Attributes: d.Attributes,
		})
	}

	for _, id := range l.WireIDs() {
		w := l.Wire(id)
		if w.DisplayState != vocab.Normal {
			continue
		}
		rec := WireRecord{}
		for _, idx := range w.Tree.Indices() {
			rec.Segments = append(rec.Segments, w.Tree.Info(idx).Line)
		}
		env.Layout.Wires = append(env.Layout.Wires, rec)
	}

	return env
}

// Save writes env to w as a gzip-compressed JSON stream.
func Save(w io.Writer, env Envelope) error {
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return gz.Close()
}

// SaveFile captures c and writes it to path, truncating any existing
// file. This is the convenience wrapper a CLI/UI host actually calls.
func SaveFile(path string, c *editablecircuit.Circuit, view ViewPoint, sim SimulationConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("circuitio: %w", err)
	}
	defer f.Close()
	return Save(f, Capture(c, view, sim))
}

// Load decodes a gzip-compressed JSON envelope and rebuilds a Circuit
// from it, via the normal two-phase add-then-insert facade so every
// derived index ends up exactly as consistent as if the elements had
// been added interactively. An unreadable file leaves the prior
// circuit intact: callers get an error and simply don't replace
// whatever Circuit they already had.
func Load(r io.Reader) (*editablecircuit.Circuit, Envelope, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer gz.Close()

	var env Envelope
	if err := json.NewDecoder(gz).Decode(&env); err != nil {
		return nil, Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Version != CurrentVersion {
		return nil, Envelope{}, fmt.Errorf("%w: got %d, want %d", ErrVersionUnknown, env.Version, CurrentVersion)
	}

	c, err := rebuild(env.Layout)
	if err != nil {
		return nil, Envelope{}, err
	}
	return c, env, nil
}

// LoadFile reads and decodes path.
func LoadFile(path string) (*editablecircuit.Circuit, Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Envelope{}, fmt.Errorf("circuitio: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func rebuild(payload LayoutPayload) (*editablecircuit.Circuit, error) {
	c := editablecircuit.New()

	for _, rec := range payload.LogicItems {
		item := layout.LogicItem{
			Type:            rec.Type,
			Position:        rec.Position,
			Orientation:     rec.Orientation,
			InputCount:      rec.InputCount,
			OutputCount:     rec.OutputCount,
			InputInverters:  rec.InputInverters,
			OutputInverters: rec.OutputInverters,
			Attributes:      rec.Attributes,
		}
		if _, err := c.AddLogicItem(item, vocab.ModeInsertOrDiscard); err != nil {
			return nil, fmt.Errorf("%w: logic item at %s: %v", ErrMalformed, rec.Position, err)
		}
	}

	for _, rec := range payload.Decorations {
		d := layout.Decoration{
			Position:   rec.Position,
			Width:      rec.Width,
			Height:     rec.Height,
			Attributes: rec.Attributes,
		}
		if _, err := c.AddDecoration(d, vocab.ModeInsertOrDiscard); err != nil {
			return nil, fmt.Errorf("%w: decoration at %s: %v", ErrMalformed, rec.Position, err)
		}
	}

	for _, rec := range payload.Wires {
		if len(rec.Segments) == 0 {
			continue
		}
		seg, err := c.AddWireSegment(rec.Segments[0], vocab.ModeTemporary)
		if err != nil {
			return nil, fmt.Errorf("%w: wire segment: %v", ErrMalformed, err)
		}
		wireID := seg.Wire
		for _, line := range rec.Segments[1:] {
			c.Layout().AddSegment(wireID, line)
		}
		c.FixAndMergeSegments(wireID)
		if _, err := c.ChangeWireMode(wireID, vocab.ModeInsertOrDiscard); err != nil {
			return nil, fmt.Errorf("%w: wire insert: %v", ErrMalformed, err)
		}
	}

	return c, nil
}

// yamlFixture is the legacy hand-authored test-circuit format: a flat
// list of logic items and wires in grid coordinates, no view point or
// simulation config.
type yamlFixture struct {
	LogicItems []struct {
		Type        string `yaml:"type"`
		X           int32  `yaml:"x"`
		Y           int32  `yaml:"y"`
		Orientation string `yaml:"orientation"`
		InputCount  int    `yaml:"input_count"`
		OutputCount int    `yaml:"output_count"`
	} `yaml:"logic_items"`
	Wires []struct {
		Points [][2]int32 `yaml:"points"`
	} `yaml:"wires"`
}

var logicItemTypeByName = map[string]vocab.LogicItemType{
	"and": vocab.And, "or": vocab.Or, "xor": vocab.Xor, "buffer": vocab.Buffer,
	"button": vocab.Button, "led": vocab.LED,
	"display_number": vocab.DisplayNumber, "display_ascii": vocab.DisplayASCII,
	"clock_generator": vocab.ClockGenerator,
	"flipflop_jk":     vocab.FlipFlopJK, "flipflop_d": vocab.FlipFlopD,
	"flipflop_ms_d": vocab.FlipFlopMSD, "latch_d": vocab.LatchD,
	"shift_register": vocab.ShiftRegister, "sub_circuit": vocab.SubCircuit,
	"text_element": vocab.TextElement,
}

var orientationByName = map[string]vocab.Orientation{
	"right": vocab.Right, "left": vocab.Left, "up": vocab.Up, "down": vocab.Down,
	"undirected": vocab.Undirected,
}

// ImportYAMLFixture parses a legacy hand-authored YAML fixture and
// builds a Circuit from it, the same "read file, yaml.Unmarshal, build
// in-memory structures" shape as core.LoadProgramFileFromYAML.
func ImportYAMLFixture(r io.Reader) (*editablecircuit.Circuit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var fx yamlFixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	c := editablecircuit.New()
	for _, li := range fx.LogicItems {
		t, ok := logicItemTypeByName[li.Type]
		if !ok {
			return nil, fmt.Errorf("%w: unknown logic item type %q", ErrMalformed, li.Type)
		}
		o := vocab.Right
		if li.Orientation != "" {
			var ok bool
			o, ok = orientationByName[li.Orientation]
			if !ok {
				return nil, fmt.Errorf("%w: unknown orientation %q", ErrMalformed, li.Orientation)
			}
		}
		item := layout.LogicItem{
			Type:        t,
			Position:    vocab.Point{X: vocab.Grid(li.X), Y: vocab.Grid(li.Y)},
			Orientation: o,
			InputCount:  li.InputCount,
			OutputCount: li.OutputCount,
		}
		if _, err := c.AddLogicItem(item, vocab.ModeInsertOrDiscard); err != nil {
			return nil, fmt.Errorf("%w: logic item %q at (%d,%d): %v", ErrMalformed, li.Type, li.X, li.Y, err)
		}
	}

	for _, w := range fx.Wires {
		if err := importYAMLWire(c, w.Points); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func importYAMLWire(c *editablecircuit.Circuit, points [][2]int32) error {
	if len(points) < 2 {
		return nil
	}
	var wireID vocab.WireID
	for i := 0; i < len(points)-1; i++ {
		a := vocab.Point{X: vocab.Grid(points[i][0]), Y: vocab.Grid(points[i][1])}
		b := vocab.Point{X: vocab.Grid(points[i+1][0]), Y: vocab.Grid(points[i+1][1])}
		line := vocab.NewOrderedLine(a, b)
		if i == 0 {
			seg, err := c.AddWireSegment(line, vocab.ModeTemporary)
			if err != nil {
				return fmt.Errorf("%w: wire segment %s: %v", ErrMalformed, line, err)
			}
			wireID = seg.Wire
			continue
		}
		c.Layout().AddSegment(wireID, line)
	}
	c.FixAndMergeSegments(wireID)
	if _, err := c.ChangeWireMode(wireID, vocab.ModeInsertOrDiscard); err != nil {
		return fmt.Errorf("%w: wire insert: %v", ErrMalformed, err)
	}
	return nil
}
