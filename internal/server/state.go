package server

import (
	"log/slog"
	"sync"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/sched"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/validate"
)

// AGVState is the wire representation of one vehicle.
type AGVState struct {
	Name        string `json:"name"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Pitch       int    `json:"pitch"`
	Loaded      bool   `json:"loaded"`
	Destination string `json:"destination,omitempty"`
	Emergency   bool   `json:"emergency"`
	TaskID      string `json:"task_id,omitempty"`
}

// FleetState is the payload broadcast after every step.
type FleetState struct {
	Timestamp int        `json:"timestamp"`
	Completed int        `json:"completed"`
	Total     int        `json:"total"`
	Done      bool       `json:"done"`
	Heatmap   bool       `json:"heatmap"`
	Overlay   bool       `json:"overlay"`
	AGVs      []AGVState `json:"agvs"`
}

// Simulation owns one schedulable run and rebuilds it on reset. All
// methods are safe for concurrent use; the scheduler itself is
// single-threaded under the mutex.
type Simulation struct {
	mu       sync.Mutex
	log      *slog.Logger
	elements []core.MapElement
	records  []core.TaskRecord

	scheduler *sched.Scheduler

	heatmap bool
	overlay bool
}

// NewSimulation builds a run over the given scenario.
func NewSimulation(elements []core.MapElement, records []core.TaskRecord, logger *slog.Logger) (*Simulation, error) {
	s := &Simulation{log: logger, elements: elements, records: records}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) rebuild() error {
	ctx, err := core.NewContext(s.elements, s.records)
	if err != nil {
		return err
	}
	s.scheduler = sched.New(ctx, trace.NewRecorder(ctx), s.log)
	return nil
}

// Step advances one tick and returns the new state.
func (s *Simulation) Step() (FleetState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.scheduler.Process(); err != nil {
		return s.stateLocked(), err
	}
	return s.stateLocked(), nil
}

// Reset rebuilds the run from the original scenario.
func (s *Simulation) Reset() (FleetState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rebuild(); err != nil {
		return FleetState{}, err
	}
	return s.stateLocked(), nil
}

// Reload swaps in a new scenario and rebuilds.
func (s *Simulation) Reload(elements []core.MapElement, records []core.TaskRecord) (FleetState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = elements
	s.records = records
	if err := s.rebuild(); err != nil {
		return FleetState{}, err
	}
	return s.stateLocked(), nil
}

// ToggleHeatmap flips the heatmap flag and returns the state.
func (s *Simulation) ToggleHeatmap() FleetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heatmap = !s.heatmap
	return s.stateLocked()
}

// ToggleOverlay flips the trajectory overlay flag.
func (s *Simulation) ToggleOverlay() FleetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = !s.overlay
	return s.stateLocked()
}

// State returns the current fleet state.
func (s *Simulation) State() FleetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Validate runs the oracle over everything recorded so far.
func (s *Simulation) Validate() []validate.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return validate.Check(s.elements, s.records, s.scheduler.Recorder().Rows())
}

// Rows returns a copy of the recorded trajectory.
func (s *Simulation) Rows() []trace.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.scheduler.Recorder().Rows()
	out := make([]trace.Row, len(rows))
	copy(out, rows)
	return out
}

func (s *Simulation) stateLocked() FleetState {
	ctx := s.scheduler.Context()
	state := FleetState{
		Timestamp: s.scheduler.Timestamp,
		Completed: len(ctx.CompletedTasks()),
		Total:     len(ctx.Tasks),
		Done:      ctx.AllTasksCompleted(),
		Heatmap:   s.heatmap,
		Overlay:   s.overlay,
	}
	for _, a := range ctx.AGVs {
		as := AGVState{
			Name:   a.Name,
			X:      a.Pos.X,
			Y:      a.Pos.Y,
			Pitch:  a.Heading.Degrees(),
			Loaded: a.Loaded,
		}
		if task := ctx.TaskOf(a); task != nil {
			as.Destination = task.EndPoint
			as.Emergency = task.Priority == core.High
			as.TaskID = task.ID
		}
		state.AGVs = append(state.AGVs, as)
	}
	return state
}
