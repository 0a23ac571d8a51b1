// Command agvsimvis provides a GUI playback of a warehouse run: Space
// steps one tick, Esc resets, F1 toggles the heatmap, F2 the
// trajectory overlay.
package main

import (
	"flag"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/scenario"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/sched"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/vis"
)

func main() {
	var (
		mapPath  = flag.String("map", "", "map CSV (default: embedded scenario)")
		taskPath = flag.String("tasks", "", "task CSV (default: embedded scenario)")
		trajPath = flag.String("trajectory", "", "replay a recorded trajectory CSV instead of simulating")
	)
	flag.Parse()

	elements, rows, err := prepare(*mapPath, *taskPath, *trajPath)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("AGV Fleet Playback"),
			app.Size(unit.Dp(900), unit.Dp(900)),
		)

		application := vis.NewApp(elements, rows)
		if err := application.Run(window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

// prepare loads the map and either replays a recorded trajectory or
// simulates the scenario to completion.
func prepare(mapPath, taskPath, trajPath string) ([]core.MapElement, []trace.Row, error) {
	var elements []core.MapElement
	var records []core.TaskRecord
	var err error
	if mapPath != "" && taskPath != "" {
		elements, records, err = scenario.LoadFiles(mapPath, taskPath)
	} else {
		elements, records, err = scenario.LoadEmbedded()
	}
	if err != nil {
		return nil, nil, err
	}

	if trajPath != "" {
		f, err := os.Open(trajPath)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		rows, err := trace.ReadCSV(f)
		return elements, rows, err
	}

	ctx, err := core.NewContext(elements, records)
	if err != nil {
		return nil, nil, err
	}
	rec := trace.NewRecorder(ctx)
	s := sched.New(ctx, rec, nil)
	if err := s.ProcessToComplete(); err != nil {
		// Show what was recorded even when the run timed out.
		log.Printf("simulation aborted: %v", err)
	}
	return elements, rec.Rows(), nil
}
