package sched

import (
	"encoding/json"
	"os"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
)

// RunSummary aggregates the outcome of a completed (or aborted) run.
type RunSummary struct {
	Ticks          int     `json:"ticks"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	HighTasks      int     `json:"high_tasks"`
	DeadlinesMet   int     `json:"deadlines_met"`
	MinTaskSeconds int     `json:"min_task_seconds"`
	MaxTaskSeconds int     `json:"max_task_seconds"`
	AvgTaskSeconds float64 `json:"avg_task_seconds"`
	TrajectoryRows int     `json:"trajectory_rows"`
}

// Summary computes run statistics from the scheduler's current state.
func (s *Scheduler) Summary() RunSummary {
	sum := RunSummary{
		Ticks:          s.Timestamp,
		TotalTasks:     len(s.ctx.Tasks),
		TrajectoryRows: s.rec.Len(),
	}

	total := 0
	for _, t := range s.ctx.Tasks {
		if t.Priority == core.High {
			sum.HighTasks++
		}
		if !t.Completed() {
			continue
		}
		sum.CompletedTasks++
		d := t.CompleteTS - t.StartTS
		total += d
		if sum.MinTaskSeconds == 0 || d < sum.MinTaskSeconds {
			sum.MinTaskSeconds = d
		}
		if d > sum.MaxTaskSeconds {
			sum.MaxTaskSeconds = d
		}
		if t.HasDeadline() && t.CompleteTS <= t.Deadline {
			sum.DeadlinesMet++
		}
	}
	if sum.CompletedTasks > 0 {
		sum.AvgTaskSeconds = float64(total) / float64(sum.CompletedTasks)
	}

	return sum
}

// Export writes the summary to a JSON file.
func (sum RunSummary) Export(path string) error {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
