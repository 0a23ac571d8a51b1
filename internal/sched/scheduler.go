// Package sched implements the per-tick fleet scheduler. One Process
// call advances simulated time by exactly one second, working through
// the unload, load, movement, assignment and parking phases in a fixed
// order that encodes the priority policy.
package sched

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/algo"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
)

// MaxTimestamp caps a run at 400 simulated seconds; exceeding it is
// treated as a deadlock.
const MaxTimestamp = 400

// ErrTimeout is returned when the fleet fails to complete all tasks
// within MaxTimestamp seconds.
var ErrTimeout = errors.New("sched: timed out before completing all tasks")

// Scheduler orchestrates one Context tick by tick.
type Scheduler struct {
	ctx *core.Context
	rec *trace.Recorder
	log *slog.Logger

	grid      algo.Grid
	Timestamp int
}

// New creates a scheduler over the given context and recorder.
func New(ctx *core.Context, rec *trace.Recorder, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		ctx:  ctx,
		rec:  rec,
		log:  logger.With(slog.String("component", "scheduler")),
		grid: algo.DefaultGrid,
	}
}

// Context returns the scheduler's run state.
func (s *Scheduler) Context() *core.Context { return s.ctx }

// Recorder returns the trajectory recorder.
func (s *Scheduler) Recorder() *trace.Recorder { return s.rec }

// ProcessToComplete ticks until every task is delivered.
func (s *Scheduler) ProcessToComplete() error {
	for !s.ctx.AllTasksCompleted() {
		if err := s.Process(); err != nil {
			return err
		}
	}
	return nil
}

// Process advances the simulation by one second. It is a no-op once all
// tasks are completed and fails with ErrTimeout past MaxTimestamp.
func (s *Scheduler) Process() error {
	if s.ctx.AllTasksCompleted() {
		return nil
	}
	if s.Timestamp > MaxTimestamp {
		return fmt.Errorf("%w: %d tasks open after %ds", ErrTimeout,
			len(s.ctx.Tasks)-len(s.ctx.CompletedTasks()), MaxTimestamp)
	}
	s.Timestamp++

	agvs := s.ctx.AGVs
	handled := make(map[*core.AGV]bool)

	// Phase 1: unload next to the drop cell.
	for _, a := range agvs {
		if handled[a] {
			continue
		}
		if task := s.ctx.TaskOf(a); a.CanUnload(task) {
			a.Unload(task, s.Timestamp)
			handled[a] = true
		}
	}

	// Phase 2: load AGVs standing on a pickup cell.
	pendingLoad := s.ctx.SortedPendingTasks()
	for _, a := range agvs {
		if handled[a] || a.Loaded {
			continue
		}
		for _, task := range pendingLoad {
			if task.PickupPos == a.Pos {
				a.Load(task, s.Timestamp)
				handled[a] = true
				break
			}
		}
	}

	// Phase 3: move loaded AGVs as a batch.
	var loadedAGVs []*core.AGV
	for _, a := range agvs {
		if a.Loaded {
			loadedAGVs = append(loadedAGVs, a)
		}
	}
	s.batchMove(loadedAGVs, handled, true, nil)

	// Phase 4: loaded AGVs that could not move rotate toward their path.
	for _, a := range agvs {
		if handled[a] || !a.Loaded {
			continue
		}
		if a.ShouldTurn() {
			a.Turn()
			handled[a] = true
		}
	}

	// Phase 5: tentative task assignment for idle AGVs.
	tentative := make(map[*core.AGV]*core.Task)
	var assigned []*core.AGV
	pending := s.ctx.SortedPendingTasks()
	var idle []*core.AGV
	for _, a := range agvs {
		if !handled[a] && !a.Loaded {
			idle = append(idle, a)
		}
	}

	for _, task := range pending {
		if len(idle) == 0 {
			break
		}

		var best *core.AGV
		var bestPath []algo.PathTimePoint
		bestCost := math.MaxInt
		for _, a := range idle {
			path := s.planToPickup(a, task)
			timed := algo.ComputeTiming(path, a.Heading)
			cost := math.MaxInt
			if len(timed) > 0 {
				cost = timed[len(timed)-1].TimeCost
			}
			if best == nil || cost < bestCost {
				best, bestPath, bestCost = a, timed, cost
			}
		}

		for i, a := range idle {
			if a == best {
				idle = append(idle[:i], idle[i+1:]...)
				break
			}
		}
		best.Path = bestPath
		tentative[best] = task
		assigned = append(assigned, best)
	}

	// Phase 6: tentatively assigned AGVs turn or move.
	var moveGroup []*core.AGV
	for _, a := range assigned {
		if a.ShouldTurn() {
			a.Turn()
		} else if a.ShouldMove() {
			moveGroup = append(moveGroup, a)
		}
	}
	s.batchMove(moveGroup, handled, false, tentative)

	// Phase 7: with no pending work left, park idle AGVs at the edges
	// so they cannot box in the last deliveries.
	if len(pending) == 0 {
		s.parkIdle(handled)
	}

	s.log.Debug("tick",
		slog.Int("ts", s.Timestamp),
		slog.Int("completed", len(s.ctx.CompletedTasks())))

	// Phase 8: record the tick.
	s.rec.Add(s.Timestamp)
	return nil
}

// parkIdle steps every unhandled AGV toward the nearest map edge. A
// cardinal direction is only a candidate when no loaded AGV sits in
// that half-plane along the same row or column.
func (s *Scheduler) parkIdle(handled map[*core.AGV]bool) {
	var loaded []*core.AGV
	for _, a := range s.ctx.AGVs {
		if a.Loaded {
			loaded = append(loaded, a)
		}
	}
	anyLoaded := func(match func(*core.AGV) bool) bool {
		for _, b := range loaded {
			if match(b) {
				return true
			}
		}
		return false
	}

	b := s.ctx.Bounds
	for _, a := range s.ctx.AGVs {
		if handled[a] {
			continue
		}

		obstacles := s.buildObstacles(s.dynamicObstacles(a))
		x, y := a.Pos.X, a.Pos.Y

		var candidates []geom.Point
		if !anyLoaded(func(o *core.AGV) bool { return o.Pos.X == x && o.Pos.Y > y }) {
			candidates = append(candidates, geom.Point{X: x, Y: b.Top})
		}
		if !anyLoaded(func(o *core.AGV) bool { return o.Pos.X == x && o.Pos.Y < y }) {
			candidates = append(candidates, geom.Point{X: x, Y: b.Bottom})
		}
		if !anyLoaded(func(o *core.AGV) bool { return o.Pos.X > x && o.Pos.Y == y }) {
			candidates = append(candidates, geom.Point{X: b.Right, Y: y})
		}
		if !anyLoaded(func(o *core.AGV) bool { return o.Pos.X < x && o.Pos.Y == y }) {
			candidates = append(candidates, geom.Point{X: b.Left, Y: y})
		}
		if len(candidates) == 0 {
			continue
		}

		goal := candidates[0]
		for _, c := range candidates[1:] {
			if geom.Manhattan(c, a.Pos) < geom.Manhattan(goal, a.Pos) {
				goal = c
			}
		}

		path := algo.PlanPathOnGrid(a.Pos, goal, a.Heading, obstacles, s.grid)
		a.Path = algo.ComputeTiming(path, a.Heading)
		if a.ShouldMove() {
			a.Move()
		} else if a.ShouldTurn() {
			a.Turn()
		}
	}
}
