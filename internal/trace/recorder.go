// Package trace records per-tick AGV trajectories and converts them to
// and from the trajectory CSV format consumed by the validator and the
// playback UIs.
package trace

import (
	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
)

// Row is one AGV observation at one timestamp.
type Row struct {
	Timestamp   int
	Name        string
	X, Y        int
	Pitch       int // heading degrees
	Loaded      bool
	Destination string // end point name while carrying, else empty
	Emergency   bool   // carried task is high priority
	TaskID      string
}

// Recorder appends one row per AGV per tick, in insertion order.
type Recorder struct {
	ctx  *core.Context
	rows []Row
}

// NewRecorder snapshots the fleet at timestamp 0.
func NewRecorder(ctx *core.Context) *Recorder {
	r := &Recorder{ctx: ctx}
	r.Add(0)
	return r
}

// Add appends the current state of every AGV at the given timestamp.
func (r *Recorder) Add(ts int) {
	for _, a := range r.ctx.AGVs {
		row := Row{
			Timestamp: ts,
			Name:      a.Name,
			X:         a.Pos.X,
			Y:         a.Pos.Y,
			Pitch:     a.Heading.Degrees(),
			Loaded:    a.Loaded,
		}
		if task := r.ctx.TaskOf(a); task != nil {
			row.Destination = task.EndPoint
			row.Emergency = task.Priority == core.High
			row.TaskID = task.ID
		}
		r.rows = append(r.rows, row)
	}
}

// Rows returns the recorded log in insertion order.
func (r *Recorder) Rows() []Row {
	return r.rows
}

// Len returns the number of recorded rows.
func (r *Recorder) Len() int {
	return len(r.rows)
}
