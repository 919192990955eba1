// Command logikcli loads a circuit file, prints a layout/stats report,
// and autosaves the (possibly YAML-imported) circuit back out to a
// session-scoped envelope on exit.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/logiksim/circuitio"
	"github.com/sarchlab/logiksim/editablecircuit"
	"github.com/sarchlab/logiksim/schematic"
)

func main() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: editablecircuit.LevelTrace})
	slog.SetDefault(slog.New(handler))

	path := flag.String("circuit", "", "path to a circuitio envelope (.logik) or YAML fixture (.yaml)")
	autosaveDir := flag.String("autosave-dir", ".", "directory the autosave-on-exit envelope is written to")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "logikcli: -circuit is required")
		atexit.Exit(2)
		return
	}

	circuit, view, simConfig, err := load(*path)
	if err != nil {
		slog.Error("failed to load circuit", "path", *path, "error", err)
		atexit.Exit(1)
		return
	}

	atexit.Register(func() {
		autosavePath := fmt.Sprintf("%s/%s.logik", strings.TrimRight(*autosaveDir, "/"), circuit.DocumentID.String())
		if err := circuitio.SaveFile(autosavePath, circuit, view, simConfig); err != nil {
			slog.Error("autosave failed", "path", autosavePath, "error", err)
			return
		}
		slog.Info("autosaved circuit", "path", autosavePath)
	})

	fmt.Println(editablecircuit.DumpLayout(circuit))

	s := schematic.Generate(circuit.Layout(), circuit.Connection())
	fmt.Println(schematic.Dump(s))

	stats := circuit.Stats()
	fmt.Printf("allocated: layout=%d collision=%d connection=%d spatial=%d keyindex=%d undo=%d redo=%d total=%d\n",
		stats.LayoutBytes, stats.CollisionBytes, stats.ConnectionBytes, stats.SpatialBytes,
		stats.KeyIndexBytes, stats.UndoBytes, stats.RedoBytes, stats.Total())

	atexit.Exit(0)
}

func load(path string) (*editablecircuit.Circuit, circuitio.ViewPoint, circuitio.SimulationConfig, error) {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		f, err := os.Open(path)
		if err != nil {
			return nil, circuitio.ViewPoint{}, circuitio.SimulationConfig{}, err
		}
		defer f.Close()

		circuit, err := circuitio.ImportYAMLFixture(f)
		if err != nil {
			return nil, circuitio.ViewPoint{}, circuitio.SimulationConfig{}, err
		}
		return circuit, circuitio.ViewPoint{Zoom: 1}, circuitio.SimulationConfig{}, nil
	}

	circuit, env, err := circuitio.LoadFile(path)
	if err != nil {
		return nil, circuitio.ViewPoint{}, circuitio.SimulationConfig{}, err
	}
	return circuit, env.ViewPoint, env.SimulationConfig, nil
}
