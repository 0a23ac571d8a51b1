package sched

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/validate"
)

// newRun builds a context, recorder and scheduler over the given map
// and tasks.
func newRun(t *testing.T, elements []core.MapElement, records []core.TaskRecord) *Scheduler {
	t.Helper()
	ctx, err := core.NewContext(elements, records)
	if err != nil {
		t.Fatal(err)
	}
	return New(ctx, trace.NewRecorder(ctx), slog.Default())
}

// corner markers stretch the bounds to the full 1..20 grid.
func corners() []core.MapElement {
	return []core.MapElement{
		{Kind: core.KindEndPoint, Name: "EPC1", Pos: geom.Point{X: 1, Y: 1}},
		{Kind: core.KindEndPoint, Name: "EPC2", Pos: geom.Point{X: 20, Y: 20}},
	}
}

func TestSingleTaskFullCycle(t *testing.T) {
	elements := append(corners(),
		core.MapElement{Kind: core.KindStartPoint, Name: "SP01", Pos: geom.Point{X: 1, Y: 5}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EP01", Pos: geom.Point{X: 8, Y: 3}},
		core.MapElement{Kind: core.KindAGV, Name: "A01", Pos: geom.Point{X: 2, Y: 5}, Pitch: geom.Right},
	)
	records := []core.TaskRecord{{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"}}

	s := newRun(t, elements, records)
	if err := s.ProcessToComplete(); err != nil {
		t.Fatalf("ProcessToComplete: %v", err)
	}

	task := s.Context().Tasks[0]
	if !task.Completed() {
		t.Fatal("task should be completed")
	}
	// The AGV starts on the pickup cell, so it loads at tick 1.
	if task.StartTS != 1 {
		t.Errorf("StartTS = %d, want 1", task.StartTS)
	}
	duration := task.CompleteTS - task.StartTS
	if duration < 5 || duration > 30 {
		t.Errorf("duration = %d, want a short delivery", duration)
	}
	if s.Timestamp >= 50 {
		t.Errorf("timestamp = %d, want < 50", s.Timestamp)
	}

	// The AGV must stop beside the end point, never on it.
	agv := s.Context().AGVs[0]
	if !agv.Pos.IsNeighbour(geom.Point{X: 8, Y: 3}) {
		t.Errorf("AGV finished at %v, want adjacent to the end point", agv.Pos)
	}
	if agv.Loaded || agv.TaskIdx != -1 {
		t.Error("AGV should be empty after delivery")
	}

	if results := validate.Check(elements, records, s.Recorder().Rows()); !validate.Clean(results) {
		t.Errorf("validator found %d violations: %+v", len(results), results[0])
	}
}

func TestProcessNoOpWhenComplete(t *testing.T) {
	elements := append(corners(),
		core.MapElement{Kind: core.KindStartPoint, Name: "SP01", Pos: geom.Point{X: 1, Y: 5}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EP01", Pos: geom.Point{X: 8, Y: 3}},
		core.MapElement{Kind: core.KindAGV, Name: "A01", Pos: geom.Point{X: 2, Y: 5}, Pitch: geom.Right},
	)
	records := []core.TaskRecord{{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"}}

	s := newRun(t, elements, records)
	if err := s.ProcessToComplete(); err != nil {
		t.Fatal(err)
	}

	ts := s.Timestamp
	rows := s.Recorder().Len()
	if err := s.Process(); err != nil {
		t.Fatalf("Process after completion: %v", err)
	}
	if s.Timestamp != ts || s.Recorder().Len() != rows {
		t.Error("Process must be a no-op once all tasks are completed")
	}
}

func TestTimeoutOnUnreachablePickup(t *testing.T) {
	// The pickup cell (2,5) is walled in by end points; the task can
	// never be loaded and the run must hit the cap.
	elements := append(corners(),
		core.MapElement{Kind: core.KindStartPoint, Name: "SP01", Pos: geom.Point{X: 1, Y: 5}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EP01", Pos: geom.Point{X: 8, Y: 3}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EPW1", Pos: geom.Point{X: 2, Y: 4}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EPW2", Pos: geom.Point{X: 2, Y: 6}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EPW3", Pos: geom.Point{X: 3, Y: 5}},
		core.MapElement{Kind: core.KindAGV, Name: "A01", Pos: geom.Point{X: 10, Y: 10}, Pitch: geom.Right},
	)
	records := []core.TaskRecord{{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"}}

	s := newRun(t, elements, records)
	err := s.ProcessToComplete()
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if s.Context().Tasks[0].Completed() {
		t.Error("walled-in task cannot complete")
	}
	// The trajectory up to the failure is still available.
	if s.Recorder().Len() == 0 {
		t.Error("trajectory should be recorded up to the timeout")
	}
}

func TestIdleParkingMovesToEdge(t *testing.T) {
	// One task for two AGVs: the losing vehicle must drift to a map
	// edge once no pending work remains.
	elements := append(corners(),
		core.MapElement{Kind: core.KindStartPoint, Name: "SP01", Pos: geom.Point{X: 1, Y: 5}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EP01", Pos: geom.Point{X: 8, Y: 3}},
		core.MapElement{Kind: core.KindAGV, Name: "A01", Pos: geom.Point{X: 2, Y: 5}, Pitch: geom.Right},
		core.MapElement{Kind: core.KindAGV, Name: "A02", Pos: geom.Point{X: 10, Y: 10}, Pitch: geom.Right},
	)
	records := []core.TaskRecord{{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"}}

	s := newRun(t, elements, records)
	if err := s.ProcessToComplete(); err != nil {
		t.Fatal(err)
	}

	idle := s.Context().AGVs[1]
	b := s.Context().Bounds
	onEdge := idle.Pos.X == b.Left || idle.Pos.X == b.Right ||
		idle.Pos.Y == b.Bottom || idle.Pos.Y == b.Top
	if !onEdge {
		t.Errorf("idle AGV parked at %v, want a map edge", idle.Pos)
	}

	if results := validate.Check(elements, records, s.Recorder().Rows()); !validate.Clean(results) {
		t.Errorf("validator found violations: %+v", results)
	}
}

func TestTwoAGVsTwoTasks(t *testing.T) {
	elements := append(corners(),
		core.MapElement{Kind: core.KindStartPoint, Name: "SP01", Pos: geom.Point{X: 1, Y: 5}},
		core.MapElement{Kind: core.KindStartPoint, Name: "SP04", Pos: geom.Point{X: 20, Y: 15}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EP01", Pos: geom.Point{X: 8, Y: 3}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EP02", Pos: geom.Point{X: 13, Y: 19}},
		core.MapElement{Kind: core.KindAGV, Name: "A01", Pos: geom.Point{X: 4, Y: 5}, Pitch: geom.Left},
		core.MapElement{Kind: core.KindAGV, Name: "A02", Pos: geom.Point{X: 16, Y: 15}, Pitch: geom.Right},
	)
	records := []core.TaskRecord{
		{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"},
		{ID: "T2", StartPoint: "SP04", EndPoint: "EP02"},
	}

	s := newRun(t, elements, records)
	if err := s.ProcessToComplete(); err != nil {
		t.Fatal(err)
	}

	for _, task := range s.Context().Tasks {
		if !task.Completed() {
			t.Errorf("task %s not completed", task.ID)
		}
	}
	if results := validate.Check(elements, records, s.Recorder().Rows()); !validate.Clean(results) {
		t.Errorf("validator found violations: %+v", results)
	}
}

func TestCrossLockForcesTurn(t *testing.T) {
	// A moved vehicle slid past just above; moving on would meet it at
	// the corner, so the follower is forced to turn upward instead.
	a := core.NewAGV(0, "A01", geom.Point{X: 5, Y: 5}, geom.Right)
	task := core.NewTask(0, core.TaskRecord{ID: "T1"}, geom.Point{X: 1, Y: 5}, geom.Point{X: 8, Y: 9})

	mover := core.NewAGV(1, "A02", geom.Point{X: 6, Y: 6}, geom.Right)
	moverTask := core.NewTask(1, core.TaskRecord{ID: "T2"}, geom.Point{X: 1, Y: 10}, geom.Point{X: 13, Y: 3})
	moves := []prevMove{{agv: mover, pos: geom.Point{X: 5, Y: 6}, task: moverTask}}

	dir, locked := crossLock(a, task, moves)
	if !locked || dir != geom.Up {
		t.Errorf("crossLock = %v, %v, want Up, true", dir, locked)
	}

	// Headings differ: no cross risk.
	mover.Heading = geom.Down
	if _, locked := crossLock(a, task, moves); locked {
		t.Error("crossLock must require matching headings")
	}
}

func TestDynamicObstaclesNeighbourOccupancy(t *testing.T) {
	elements := append(corners(),
		core.MapElement{Kind: core.KindStartPoint, Name: "SP01", Pos: geom.Point{X: 1, Y: 5}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EP01", Pos: geom.Point{X: 8, Y: 3}},
		core.MapElement{Kind: core.KindAGV, Name: "A01", Pos: geom.Point{X: 10, Y: 10}, Pitch: geom.Right},
		core.MapElement{Kind: core.KindAGV, Name: "A02", Pos: geom.Point{X: 11, Y: 10}, Pitch: geom.Left},
		core.MapElement{Kind: core.KindAGV, Name: "A03", Pos: geom.Point{X: 15, Y: 15}, Pitch: geom.Left},
	)
	s := newRun(t, elements, []core.TaskRecord{{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"}})

	obstacles := s.dynamicObstacles(s.Context().AGVs[0])
	found := false
	for _, p := range obstacles {
		if p == (geom.Point{X: 11, Y: 10}) {
			found = true
		}
		if p == (geom.Point{X: 15, Y: 15}) {
			t.Error("distant AGV must not appear as a neighbour obstacle")
		}
	}
	if !found {
		t.Error("adjacent AGV cell should be an obstacle")
	}
}

func TestDynamicObstaclesCrossLockPreempt(t *testing.T) {
	// A02 has exactly one free neighbour left; A01 must treat that
	// cell as blocked to avoid completing the box.
	elements := append(corners(),
		core.MapElement{Kind: core.KindStartPoint, Name: "SP01", Pos: geom.Point{X: 1, Y: 5}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EP01", Pos: geom.Point{X: 8, Y: 3}},
		// Box (10,10) on three sides: end points at (9,10) and (10,11),
		// another AGV below.
		core.MapElement{Kind: core.KindEndPoint, Name: "EPB1", Pos: geom.Point{X: 9, Y: 10}},
		core.MapElement{Kind: core.KindEndPoint, Name: "EPB2", Pos: geom.Point{X: 10, Y: 11}},
		core.MapElement{Kind: core.KindAGV, Name: "A02", Pos: geom.Point{X: 10, Y: 10}, Pitch: geom.Right},
		core.MapElement{Kind: core.KindAGV, Name: "A03", Pos: geom.Point{X: 10, Y: 9}, Pitch: geom.Up},
		// A01 sits next to A02's single remaining free cell (11,10).
		core.MapElement{Kind: core.KindAGV, Name: "A01", Pos: geom.Point{X: 12, Y: 10}, Pitch: geom.Left},
	)
	s := newRun(t, elements, []core.TaskRecord{{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"}})

	var a01 *core.AGV
	for _, a := range s.Context().AGVs {
		if a.Name == "A01" {
			a01 = a
		}
	}

	obstacles := s.dynamicObstacles(a01)
	found := false
	for _, p := range obstacles {
		if p == (geom.Point{X: 11, Y: 10}) {
			found = true
		}
	}
	if !found {
		t.Errorf("obstacles = %v, want the boxed AGV's last free cell (11,10)", obstacles)
	}
}
