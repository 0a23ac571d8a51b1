package sched

import (
	"github.com/elektrokombinacija/agv-fleet-sim/internal/algo"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

// prevMove records one AGV movement accumulated during a batch pass:
// the vehicle, the cell it vacated, and the task it is serving.
type prevMove struct {
	agv  *core.AGV
	pos  geom.Point
	task *core.Task
}

// batchMove moves a group of same-load-state AGVs, re-planning each one
// against the current obstacle picture. Passes repeat until no AGV can
// make progress, so a vehicle blocked early can move once the blocker
// has vacated its cell. An AGV on a collision course with an already
// moved vehicle is forcibly turned aside instead of moving.
func (s *Scheduler) batchMove(candidates []*core.AGV, handled map[*core.AGV]bool, loaded bool, tentative map[*core.AGV]*core.Task) {
	var prevMoves []prevMove

	for {
		progressed := false

		for _, a := range candidates {
			if handled[a] || a.Loaded != loaded {
				continue
			}

			var task *core.Task
			if loaded {
				task = s.ctx.TaskOf(a)
			} else {
				task = tentative[a]
			}
			if task == nil {
				continue
			}

			var path []geom.Point
			if loaded {
				path = s.planToEnd(a, task)
			} else {
				path = s.planToPickup(a, task)
			}
			a.Path = algo.ComputeTiming(path, a.Heading)

			if len(a.Path) < 2 {
				continue
			}
			if a.NextHeading() != a.Heading {
				continue // the turning phase picks this one up
			}

			if dir, locked := crossLock(a, task, prevMoves); locked {
				handled[a] = true
				a.TurnTo(dir)
				a.Path = nil
				progressed = true
				continue
			}

			prevMoves = append(prevMoves, prevMove{agv: a, pos: a.Pos, task: task})
			handled[a] = true
			a.Move()
			progressed = true
		}

		if !progressed {
			break
		}
	}
}

// crossLock detects the four orthogonal cross patterns where a vehicle
// that just slid past would meet this one head-on at the next corner.
// Returns the heading the AGV must be forced to.
func crossLock(a *core.AGV, task *core.Task, prevMoves []prevMove) (geom.Direction, bool) {
	horizontal := a.Heading == geom.Left || a.Heading == geom.Right
	vertical := a.Heading == geom.Up || a.Heading == geom.Down

	for _, m := range prevMoves {
		if m.agv.Heading != a.Heading {
			continue
		}

		if horizontal && m.pos.X == a.Pos.X && m.pos.Y == a.Pos.Y+1 &&
			task.EndPos.Y > a.Pos.Y && m.task.EndPos.Y <= m.pos.Y {
			return geom.Up, true
		}
		if horizontal && m.pos.X == a.Pos.X && m.pos.Y == a.Pos.Y-1 &&
			task.EndPos.Y < a.Pos.Y && m.task.EndPos.Y >= m.pos.Y {
			return geom.Down, true
		}
		if vertical && m.pos.Y == a.Pos.Y && m.pos.X == a.Pos.X-1 &&
			task.EndPos.X < a.Pos.X && m.task.EndPos.X >= m.pos.X {
			return geom.Left, true
		}
		if vertical && m.pos.Y == a.Pos.Y && m.pos.X == a.Pos.X+1 &&
			task.EndPos.X > a.Pos.X && m.task.EndPos.X <= m.pos.X {
			return geom.Right, true
		}
	}

	return 0, false
}
