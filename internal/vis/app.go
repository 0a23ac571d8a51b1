// Package vis implements the Gio-based trajectory viewer: grid, fleet
// glyphs, visit heatmap (F1) and trajectory overlay (F2), stepped one
// tick per Space press.
package vis

import (
	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/vis/draw"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/vis/interact"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/vis/state"
)

// App is the trajectory viewer application.
type App struct {
	state  *state.State
	camera *interact.Camera
	colors map[string]int
}

// NewApp creates a viewer over a recorded run.
func NewApp(elements []core.MapElement, rows []trace.Row) *App {
	st := state.NewState(elements, rows)

	colors := make(map[string]int, len(st.Names()))
	for i, name := range st.Names() {
		colors[name] = i
	}

	return &App{
		state:  st,
		camera: interact.NewCamera(st.Bounds.Height()),
		colors: colors,
	}
}

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops

	tag := new(int)

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag, Optional: key.ModCtrl | key.ModShift})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(ke)
				}
			}
			event.Op(gtx.Ops, tag)

			a.layout(gtx)
			e.Frame(gtx.Ops)

			if a.state.Playback.Playing {
				a.state.Playback.Advance()
				w.Invalidate()
			}
		}
	}
}

func (a *App) handleKeyEvent(e key.Event) {
	switch e.Name {
	case key.NameSpace:
		a.state.Playback.StepForward()
	case key.NameEscape:
		a.state.Playback.Reset()
	case "F1":
		a.state.ShowHeatmap = !a.state.ShowHeatmap
	case "F2":
		a.state.ShowOverlay = !a.state.ShowOverlay
	case key.NameLeftArrow:
		a.state.Playback.StepBack()
	case key.NameRightArrow:
		a.state.Playback.StepForward()
	case "P":
		a.state.Playback.TogglePlay()
	case "+":
		a.camera.Zoom(1.25)
	case "-":
		a.camera.Zoom(0.8)
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, draw.ColorBackground)

	draw.Grid(gtx, a.state.Bounds, a.state.Elements, a.camera)

	if a.state.ShowHeatmap {
		draw.Heatmap(gtx, a.state.Visits(), a.state.MaxVisits(), a.camera)
	}

	if a.state.ShowOverlay {
		for _, name := range a.state.Names() {
			draw.Trail(gtx, a.state.Trail(name), draw.ColorFromIndex(a.colors[name]), a.camera)
		}
	}

	for _, row := range a.state.CurrentRows() {
		draw.AGV(gtx, row, draw.ColorFromIndex(a.colors[row.Name]), a.camera)
	}

	return layout.Dimensions{Size: gtx.Constraints.Max}
}
