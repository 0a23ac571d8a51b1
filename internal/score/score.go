// Package score computes the run score from the task arena.
package score

import "github.com/elektrokombinacija/agv-fleet-sim/internal/core"

// Of scores a finished (or partial) run: one point per delivered task,
// and for high-priority tasks ten extra points when delivered by the
// deadline or five penalty points when late. A high task with no
// deadline counts as on time.
func Of(tasks []*core.Task) int {
	total := 0
	for _, t := range tasks {
		if !t.Completed() {
			continue
		}
		total++
		if t.Priority != core.High {
			continue
		}
		if !t.HasDeadline() || t.CompleteTS <= t.Deadline {
			total += 10
		} else {
			total -= 5
		}
	}
	return total
}
