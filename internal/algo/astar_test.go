package algo

import (
	"testing"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

func obstacleSet(points ...geom.Point) map[geom.Point]bool {
	set := make(map[geom.Point]bool, len(points))
	for _, p := range points {
		set[p] = true
	}
	return set
}

// pathCost replays a path through the cost model.
func pathCost(path []geom.Point, heading geom.Direction) int {
	timed := ComputeTiming(path, heading)
	if len(timed) == 0 {
		return 0
	}
	return timed[len(timed)-1].TimeCost
}

func TestPlanPathStraightLine(t *testing.T) {
	path := PlanPath(geom.Point{X: 1, Y: 1}, geom.Point{X: 5, Y: 1}, geom.Right, nil)
	if len(path) != 5 {
		t.Fatalf("path length = %d, want 5", len(path))
	}
	if got := pathCost(path, geom.Right); got != 4 {
		t.Errorf("cost = %d, want 4 (no turns)", got)
	}
}

func TestPlanPathTurnCost(t *testing.T) {
	// From (1,1) heading Right to (1,3): two moves up plus one turn.
	path := PlanPath(geom.Point{X: 1, Y: 1}, geom.Point{X: 1, Y: 3}, geom.Right, nil)
	if len(path) != 3 {
		t.Fatalf("path length = %d, want 3", len(path))
	}
	if got := pathCost(path, geom.Right); got != 3 {
		t.Errorf("cost = %d, want 3 (two moves + one turn)", got)
	}
}

func TestPlanPathEndpointsAndAdjacency(t *testing.T) {
	start := geom.Point{X: 2, Y: 2}
	goal := geom.Point{X: 9, Y: 14}
	obstacles := obstacleSet(geom.Point{X: 5, Y: 8}, geom.Point{X: 6, Y: 8})

	path := PlanPath(start, goal, geom.Up, obstacles)
	if len(path) == 0 {
		t.Fatal("expected a path")
	}
	if path[0] != start {
		t.Errorf("path[0] = %v, want %v", path[0], start)
	}
	if path[len(path)-1] != goal {
		t.Errorf("path end = %v, want %v", path[len(path)-1], goal)
	}
	for i := 1; i < len(path); i++ {
		if !path[i-1].IsNeighbour(path[i]) {
			t.Errorf("non-adjacent step %v -> %v", path[i-1], path[i])
		}
		if obstacles[path[i]] {
			t.Errorf("path enters obstacle %v", path[i])
		}
	}
}

func TestPlanPathUnreachable(t *testing.T) {
	// Box the goal in completely.
	goal := geom.Point{X: 10, Y: 10}
	obstacles := obstacleSet(goal.Neighbours()[0], goal.Neighbours()[1], goal.Neighbours()[2], goal.Neighbours()[3])

	path := PlanPath(geom.Point{X: 1, Y: 1}, goal, geom.Right, obstacles)
	if len(path) != 0 {
		t.Errorf("expected empty path, got %d points", len(path))
	}
}

func TestPlanPathGoalEqualsStart(t *testing.T) {
	p := geom.Point{X: 4, Y: 4}
	path := PlanPath(p, p, geom.Left, nil)
	if len(path) != 1 || path[0] != p {
		t.Errorf("path = %v, want single point %v", path, p)
	}
}

func TestPlanPathCostStableAcrossRuns(t *testing.T) {
	start := geom.Point{X: 1, Y: 1}
	goal := geom.Point{X: 17, Y: 12}
	obstacles := obstacleSet(
		geom.Point{X: 8, Y: 5}, geom.Point{X: 8, Y: 6}, geom.Point{X: 8, Y: 7},
		geom.Point{X: 12, Y: 9}, geom.Point{X: 13, Y: 9},
	)

	first := pathCost(PlanPath(start, goal, geom.Down, obstacles), geom.Down)
	for i := 0; i < 5; i++ {
		got := pathCost(PlanPath(start, goal, geom.Down, obstacles), geom.Down)
		if got != first {
			t.Fatalf("run %d cost = %d, want %d", i, got, first)
		}
	}
}

func TestPlanPathRespectsGridBounds(t *testing.T) {
	grid := Grid{Width: 5, Height: 5}
	path := PlanPathOnGrid(geom.Point{X: 1, Y: 1}, geom.Point{X: 5, Y: 5}, geom.Right, nil, grid)
	for _, p := range path {
		if p.X < 1 || p.X > 5 || p.Y < 1 || p.Y > 5 {
			t.Errorf("path leaves grid at %v", p)
		}
	}
}

func TestComputeTiming(t *testing.T) {
	// Right, right, then up: one turn before the third move.
	path := []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 2}}
	timed := ComputeTiming(path, geom.Right)

	wantCosts := []int{0, 1, 2, 4}
	if len(timed) != len(wantCosts) {
		t.Fatalf("timed length = %d, want %d", len(timed), len(wantCosts))
	}
	for i, want := range wantCosts {
		if timed[i].TimeCost != want {
			t.Errorf("timed[%d].TimeCost = %d, want %d", i, timed[i].TimeCost, want)
		}
		if timed[i].Position != path[i] {
			t.Errorf("timed[%d].Position = %v, want %v", i, timed[i].Position, path[i])
		}
	}
}

func TestComputeTimingInitialTurn(t *testing.T) {
	// Facing Down but first step goes Right: turn charged before first move.
	path := []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 1}}
	timed := ComputeTiming(path, geom.Down)
	if timed[1].TimeCost != 2 {
		t.Errorf("TimeCost = %d, want 2", timed[1].TimeCost)
	}
}

func TestComputeTimingLaw(t *testing.T) {
	// Final cumulative cost equals moves + turns for any planned path.
	start := geom.Point{X: 3, Y: 3}
	goal := geom.Point{X: 14, Y: 11}
	path := PlanPath(start, goal, geom.Up, nil)
	if len(path) == 0 {
		t.Fatal("expected a path")
	}

	moves := len(path) - 1
	turns := 0
	heading := geom.Up
	for i := 1; i < len(path); i++ {
		d := path[i-1].MustHeadingTo(path[i])
		if d != heading {
			turns++
			heading = d
		}
	}

	timed := ComputeTiming(path, geom.Up)
	if got := timed[len(timed)-1].TimeCost; got != moves+turns {
		t.Errorf("final TimeCost = %d, want moves %d + turns %d", got, moves, turns)
	}
}

func TestComputeTimingEmpty(t *testing.T) {
	if got := ComputeTiming(nil, geom.Right); got != nil {
		t.Errorf("ComputeTiming(nil) = %v, want nil", got)
	}
}
