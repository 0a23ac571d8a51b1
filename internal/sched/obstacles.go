package sched

import (
	"github.com/elektrokombinacija/agv-fleet-sim/internal/algo"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

// dynamicObstacles computes the per-tick obstacle cells around one AGV:
// neighbour cells occupied by other vehicles, plus the single free
// neighbour of any vehicle that is otherwise boxed in. Stepping onto
// that last free cell would complete a four-way cross-lock, so it is
// pre-emptively blocked.
func (s *Scheduler) dynamicObstacles(a *core.AGV) []geom.Point {
	occupied := make(map[geom.Point]bool, len(s.ctx.AGVs))
	for _, o := range s.ctx.AGVs {
		occupied[o.Pos] = true
	}

	var obstacles []geom.Point
	for _, n := range a.Pos.Neighbours() {
		if occupied[n] {
			obstacles = append(obstacles, n)
		}
	}

	for _, b := range s.ctx.AGVs {
		if b == a {
			continue
		}

		var free []geom.Point
		for _, n := range b.Pos.Neighbours() {
			if !s.ctx.FixedObstacles[n] {
				free = append(free, n)
			}
		}
		for _, c := range s.ctx.AGVs {
			if c == b || !c.Pos.IsNeighbour(b.Pos) {
				continue
			}
			for i, n := range free {
				if n == c.Pos {
					free = append(free[:i], free[i+1:]...)
					break
				}
			}
		}

		if len(free) == 1 && free[0].IsNeighbour(a.Pos) {
			obstacles = append(obstacles, free[0])
		}
	}

	return obstacles
}

// buildObstacles merges the fixed map obstacles with per-tick extras.
func (s *Scheduler) buildObstacles(additional []geom.Point) map[geom.Point]bool {
	obstacles := make(map[geom.Point]bool, len(s.ctx.FixedObstacles)+len(additional))
	for p := range s.ctx.FixedObstacles {
		obstacles[p] = true
	}
	for _, p := range additional {
		obstacles[p] = true
	}
	return obstacles
}

// planToPickup plans from the AGV to the task's pickup cell.
func (s *Scheduler) planToPickup(a *core.AGV, task *core.Task) []geom.Point {
	obstacles := s.buildObstacles(s.dynamicObstacles(a))
	return algo.PlanPathOnGrid(a.Pos, task.PickupPos, a.Heading, obstacles, s.grid)
}

// planToEnd plans from the AGV to the task's end point. The end point
// itself is statically blocked, so it is carved out of the obstacle set
// for this plan only.
func (s *Scheduler) planToEnd(a *core.AGV, task *core.Task) []geom.Point {
	obstacles := s.buildObstacles(s.dynamicObstacles(a))
	delete(obstacles, task.EndPos)
	return algo.PlanPathOnGrid(a.Pos, task.EndPos, a.Heading, obstacles, s.grid)
}
