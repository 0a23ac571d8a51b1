package state

import (
	"sort"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
)

// State holds everything the viewer renders: the static map, the
// recorded trajectory grouped by tick, and the display toggles.
type State struct {
	Elements []core.MapElement
	Bounds   geom.Rect
	Playback *Playback

	ShowHeatmap bool
	ShowOverlay bool

	byTick map[int][]trace.Row
	visits map[geom.Point]int
	trails map[string][]geom.Point
	names  []string
}

// NewState indexes a recorded trajectory for playback.
func NewState(elements []core.MapElement, rows []trace.Row) *State {
	s := &State{
		Elements: elements,
		Bounds:   core.ElementBounds(elements),
		byTick:   make(map[int][]trace.Row),
		visits:   make(map[geom.Point]int),
		trails:   make(map[string][]geom.Point),
	}

	maxTick := 0
	seen := make(map[string]bool)
	for _, row := range rows {
		s.byTick[row.Timestamp] = append(s.byTick[row.Timestamp], row)
		if row.Timestamp > maxTick {
			maxTick = row.Timestamp
		}
		s.visits[geom.Point{X: row.X, Y: row.Y}]++
		if !seen[row.Name] {
			seen[row.Name] = true
			s.names = append(s.names, row.Name)
		}
	}
	sort.Strings(s.names)

	// Trails need rows in time order per vehicle.
	ticks := make([]int, 0, len(s.byTick))
	for t := range s.byTick {
		ticks = append(ticks, t)
	}
	sort.Ints(ticks)
	for _, t := range ticks {
		for _, row := range s.byTick[t] {
			s.trails[row.Name] = append(s.trails[row.Name], geom.Point{X: row.X, Y: row.Y})
		}
	}

	s.Playback = NewPlayback(maxTick)
	return s
}

// Names lists the AGVs in stable order.
func (s *State) Names() []string {
	return s.names
}

// CurrentRows returns the fleet rows at the playback tick.
func (s *State) CurrentRows() []trace.Row {
	return s.byTick[s.Playback.Tick]
}

// Trail returns an AGV's full visited-cell sequence.
func (s *State) Trail(name string) []geom.Point {
	return s.trails[name]
}

// Visits returns how often each cell was occupied over the whole run;
// the heatmap renders this directly.
func (s *State) Visits() map[geom.Point]int {
	return s.visits
}

// MaxVisits returns the hottest cell's count, minimum 1.
func (s *State) MaxVisits() int {
	max := 1
	for _, v := range s.visits {
		if v > max {
			max = v
		}
	}
	return max
}
