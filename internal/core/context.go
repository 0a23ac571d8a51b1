package core

import (
	"errors"
	"fmt"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

// ErrElementNotFound is returned when a task references a start or end
// point that is missing from the map.
var ErrElementNotFound = errors.New("core: map element not found")

// Context owns all mutable state of one simulation run. Contexts do not
// share state; tests and parallel runs construct a fresh one each.
type Context struct {
	Elements []MapElement
	Records  []TaskRecord

	AGVs  []*AGV
	Tasks []*Task

	// FixedObstacles holds every start and end point cell plus a
	// one-cell ring just outside the map bounds, so the planner can
	// never escape the warehouse.
	FixedObstacles map[geom.Point]bool
	Bounds         geom.Rect
}

// NewContext builds the run state from parsed map elements and task
// records.
func NewContext(elements []MapElement, records []TaskRecord) (*Context, error) {
	ctx := &Context{
		Elements:       elements,
		Records:        records,
		FixedObstacles: make(map[geom.Point]bool),
		Bounds:         ElementBounds(elements),
	}

	for i, rec := range records {
		startPos, err := ctx.positionOf(KindStartPoint, rec.StartPoint)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", rec.ID, err)
		}
		endPos, err := ctx.positionOf(KindEndPoint, rec.EndPoint)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", rec.ID, err)
		}
		ctx.Tasks = append(ctx.Tasks, NewTask(i, rec, startPos, endPos))
	}

	for _, e := range elements {
		switch e.Kind {
		case KindAGV:
			ctx.AGVs = append(ctx.AGVs, NewAGV(len(ctx.AGVs), e.Name, e.Pos, e.Pitch))
		case KindStartPoint, KindEndPoint:
			ctx.FixedObstacles[e.Pos] = true
		}
	}

	// Boundary ring one cell outside the map bounds.
	b := ctx.Bounds
	for x := b.Left - 1; x <= b.Right+1; x++ {
		ctx.FixedObstacles[geom.Point{X: x, Y: b.Bottom - 1}] = true
		ctx.FixedObstacles[geom.Point{X: x, Y: b.Top + 1}] = true
	}
	for y := b.Bottom - 1; y <= b.Top+1; y++ {
		ctx.FixedObstacles[geom.Point{X: b.Left - 1, Y: y}] = true
		ctx.FixedObstacles[geom.Point{X: b.Right + 1, Y: y}] = true
	}

	return ctx, nil
}

func (c *Context) positionOf(kind ElementKind, name string) (geom.Point, error) {
	for _, e := range c.Elements {
		if e.Kind == kind && e.Name == name {
			return e.Pos, nil
		}
	}
	return geom.Point{}, fmt.Errorf("%w: %v %s", ErrElementNotFound, kind, name)
}

// TaskOf resolves the task an AGV is carrying, nil when empty.
func (c *Context) TaskOf(a *AGV) *Task {
	if a.TaskIdx < 0 {
		return nil
	}
	return c.Tasks[a.TaskIdx]
}

// CompletedTasks returns all delivered tasks.
func (c *Context) CompletedTasks() []*Task {
	var done []*Task
	for _, t := range c.Tasks {
		if t.Completed() {
			done = append(done, t)
		}
	}
	return done
}

// AllTasksCompleted reports whether the run is finished.
func (c *Context) AllTasksCompleted() bool {
	for _, t := range c.Tasks {
		if !t.Completed() {
			return false
		}
	}
	return true
}
