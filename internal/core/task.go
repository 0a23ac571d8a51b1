package core

import (
	"fmt"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

// Priority is the task emergency flag. It affects assignment ordering
// and scoring, never motion rules.
type Priority int

const (
	Normal Priority = iota
	High
)

func (p Priority) String() string {
	if p == High {
		return "High"
	}
	return "Normal"
}

// TaskStatus tracks a task through its lifecycle. It never regresses.
type TaskStatus int

const (
	Pending TaskStatus = iota
	Running
	Completed
)

func (s TaskStatus) String() string {
	return [...]string{"Pending", "Running", "Completed"}[s]
}

// TaskRecord is the immutable description of one transport order as it
// appears in the task file. Deadline is in simulated seconds; 0 means
// no deadline.
type TaskRecord struct {
	ID         string
	StartPoint string
	EndPoint   string
	Priority   Priority
	Deadline   int
}

// Task is a TaskRecord bound to map positions plus its runtime state.
// Back references use arena indices: AssignedAGV indexes the Context's
// AGV slice (-1 when unassigned).
type Task struct {
	TaskRecord

	Index     int
	StartPos  geom.Point
	EndPos    geom.Point
	PickupPos geom.Point

	Status      TaskStatus
	AssignedAGV int
	StartTS     int
	CompleteTS  int
}

// NewTask binds a record to its map positions. The pickup cell sits on
// the inward side of the start point: left neighbour when the start
// point's column is beyond the map middle, right neighbour otherwise.
func NewTask(index int, rec TaskRecord, startPos, endPos geom.Point) *Task {
	pickup := startPos.RightOf()
	if startPos.X > 10 {
		pickup = startPos.LeftOf()
	}
	return &Task{
		TaskRecord:  rec,
		Index:       index,
		StartPos:    startPos,
		EndPos:      endPos,
		PickupPos:   pickup,
		Status:      Pending,
		AssignedAGV: -1,
	}
}

// Pending reports whether the task still waits for an AGV.
func (t *Task) Pending() bool { return t.Status == Pending }

// Running reports whether the task is currently carried.
func (t *Task) Running() bool { return t.Status == Running }

// Completed reports whether the task has been delivered.
func (t *Task) Completed() bool { return t.Status == Completed }

// HasDeadline reports whether a per-task deadline was set.
func (t *Task) HasDeadline() bool { return t.Deadline > 0 }

// LoadBy marks the task picked up by the AGV at the given index.
func (t *Task) LoadBy(agvIndex, ts int) {
	t.AssignedAGV = agvIndex
	t.StartTS = ts
	t.Status = Running
}

// Unload marks the task delivered.
func (t *Task) Unload(ts int) {
	t.CompleteTS = ts
	t.Status = Completed
}

func (t *Task) String() string {
	return fmt.Sprintf("%s -> %s %v", t.StartPoint, t.EndPoint, t.Priority)
}
