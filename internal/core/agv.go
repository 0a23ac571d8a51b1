package core

import (
	"fmt"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/algo"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

// AGV is a single-cell vehicle on the grid. TaskIdx indexes the
// Context's task slice (-1 when empty). Path, when non-empty, starts at
// the current position and every consecutive pair is adjacent.
type AGV struct {
	Index   int
	Name    string
	Pos     geom.Point
	Heading geom.Direction
	Loaded  bool
	TaskIdx int
	Path    []algo.PathTimePoint
}

// NewAGV creates an idle AGV at the given pose.
func NewAGV(index int, name string, pos geom.Point, heading geom.Direction) *AGV {
	return &AGV{
		Index:   index,
		Name:    name,
		Pos:     pos,
		Heading: heading,
		TaskIdx: -1,
	}
}

// NextHeading returns the heading toward the second waypoint. Only
// valid when the path has at least two points.
func (a *AGV) NextHeading() geom.Direction {
	return a.Pos.MustHeadingTo(a.Path[1].Position)
}

// ShouldMove reports whether the AGV is already facing its next step.
func (a *AGV) ShouldMove() bool {
	return len(a.Path) > 1 && a.NextHeading() == a.Heading
}

// ShouldTurn reports whether the AGV must rotate before its next step.
func (a *AGV) ShouldTurn() bool {
	return len(a.Path) > 1 && a.NextHeading() != a.Heading
}

// CanUnload reports whether the carried task's drop cell is reachable:
// the AGV stands adjacent to the task's end point.
func (a *AGV) CanUnload(task *Task) bool {
	return a.Loaded && task != nil && a.Pos.IsNeighbour(task.EndPos)
}

// Turn rotates toward the next waypoint and charges the spent second
// against every remaining waypoint's arrival time.
func (a *AGV) Turn() {
	if len(a.Path) > 1 {
		a.Heading = a.NextHeading()
		for i := 1; i < len(a.Path); i++ {
			a.Path[i].TimeCost--
		}
	}
}

// TurnTo rotates to a specific heading, leaving the path untouched.
// Used by the scheduler's cross-lock avoidance.
func (a *AGV) TurnTo(d geom.Direction) {
	a.Heading = d
}

// Move advances one cell along the path, charging the spent second and
// dropping the consumed head waypoint.
func (a *AGV) Move() {
	if len(a.Path) > 1 {
		a.Pos = a.Path[1].Position
		for i := range a.Path {
			a.Path[i].TimeCost--
		}
		a.Path = a.Path[1:]
	}
}

// Load picks up a task at the current cell.
func (a *AGV) Load(task *Task, ts int) {
	a.Loaded = true
	a.TaskIdx = task.Index
	task.LoadBy(a.Index, ts)
}

// Unload delivers the carried task and clears the plan.
func (a *AGV) Unload(task *Task, ts int) {
	a.Path = nil
	a.Loaded = false
	if task != nil {
		task.Unload(ts)
	}
	a.TaskIdx = -1
}

func (a *AGV) String() string {
	return fmt.Sprintf("[AGV] %s %v %v", a.Name, a.Pos, a.Heading)
}
