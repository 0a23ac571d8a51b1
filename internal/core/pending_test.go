package core

import (
	"testing"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

func pendingFixture(t *testing.T, records []TaskRecord) *Context {
	t.Helper()
	elements := []MapElement{
		{Kind: KindStartPoint, Name: "SP01", Pos: geom.Point{X: 1, Y: 5}},
		{Kind: KindStartPoint, Name: "SP02", Pos: geom.Point{X: 1, Y: 10}},
		{Kind: KindStartPoint, Name: "SP03", Pos: geom.Point{X: 1, Y: 15}},
		{Kind: KindEndPoint, Name: "EP01", Pos: geom.Point{X: 8, Y: 3}},
		{Kind: KindAGV, Name: "A01", Pos: geom.Point{X: 5, Y: 2}, Pitch: geom.Right},
	}
	ctx, err := NewContext(elements, records)
	if err != nil {
		t.Fatal(err)
	}
	return ctx
}

func ids(tasks []*Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestPendingFIFOWithinGroup(t *testing.T) {
	ctx := pendingFixture(t, []TaskRecord{
		{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"},
		{ID: "T2", StartPoint: "SP01", EndPoint: "EP01", Priority: High},
	})

	got := ids(ctx.SortedPendingTasks())
	// Queue position beats priority: the pickup queue is physical.
	if got[0] != "T1" || got[1] != "T2" {
		t.Errorf("order = %v, want [T1 T2]", got)
	}
}

func TestPendingHighPriorityGroupFirst(t *testing.T) {
	ctx := pendingFixture(t, []TaskRecord{
		{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"},
		{ID: "T2", StartPoint: "SP02", EndPoint: "EP01", Priority: High},
	})

	got := ids(ctx.SortedPendingTasks())
	if got[0] != "T2" {
		t.Errorf("order = %v, want T2 (High) first", got)
	}
}

func TestPendingLongerQueueFirst(t *testing.T) {
	ctx := pendingFixture(t, []TaskRecord{
		{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"},
		{ID: "T2", StartPoint: "SP03", EndPoint: "EP01"},
		{ID: "T3", StartPoint: "SP03", EndPoint: "EP01"},
	})

	got := ids(ctx.SortedPendingTasks())
	// SP03 has the longer queue, so its head task leads.
	if got[0] != "T2" {
		t.Errorf("order = %v, want T2 first", got)
	}
}

func TestPendingOffMiddleRowFirst(t *testing.T) {
	ctx := pendingFixture(t, []TaskRecord{
		{ID: "T1", StartPoint: "SP02", EndPoint: "EP01"}, // pickup at y=10
		{ID: "T2", StartPoint: "SP01", EndPoint: "EP01"}, // pickup at y=5
	})

	got := ids(ctx.SortedPendingTasks())
	if got[0] != "T2" {
		t.Errorf("order = %v, want off-middle pickup first", got)
	}
}

func TestPendingExcludesNonPending(t *testing.T) {
	ctx := pendingFixture(t, []TaskRecord{
		{ID: "T1", StartPoint: "SP01", EndPoint: "EP01"},
		{ID: "T2", StartPoint: "SP01", EndPoint: "EP01"},
	})

	ctx.Tasks[0].LoadBy(0, 5)
	got := ids(ctx.SortedPendingTasks())
	if len(got) != 1 || got[0] != "T2" {
		t.Errorf("pending = %v, want [T2]", got)
	}
}
