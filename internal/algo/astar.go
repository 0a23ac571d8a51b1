// Package algo implements the oriented A* path planner used by the AGV
// scheduler. Planning state is (cell, heading): every heading change on
// the way to a cell costs one extra second, so the planner minimises
// travel time rather than distance.
package algo

import (
	"container/heap"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

// Cost model constants, in simulated seconds.
const (
	MoveCost       = 1
	TurnCost       = 1
	LoadUnloadTime = 1
)

// Grid bounds the planner's search space. Usable coordinates are
// 1..Width x 1..Height; the surrounding ring is left to the caller's
// obstacle set.
type Grid struct {
	Width, Height int
}

// DefaultGrid is the production warehouse grid.
var DefaultGrid = Grid{Width: 21, Height: 21}

// orientedState is an A* search state.
type orientedState struct {
	pos     geom.Point
	heading geom.Direction
}

// astarNode for the priority queue.
type astarNode struct {
	state  orientedState
	g      int // cost so far
	f      int // g + h
	seq    int // insertion order, breaks f ties deterministically
	parent *astarNode
	index  int // heap index
}

// astarHeap implements heap.Interface.
type astarHeap []*astarNode

func (h astarHeap) Len() int { return len(h) }
func (h astarHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// PlanPath finds a shortest-time path on the default grid.
func PlanPath(start, goal geom.Point, heading geom.Direction, obstacles map[geom.Point]bool) []geom.Point {
	return PlanPathOnGrid(start, goal, heading, obstacles, DefaultGrid)
}

// PlanPathOnGrid finds a shortest-time path from start to goal given the
// initial heading. Step cost is MoveCost plus TurnCost whenever the step
// changes heading. Returns nil when the goal is unreachable.
func PlanPathOnGrid(start, goal geom.Point, heading geom.Direction, obstacles map[geom.Point]bool, grid Grid) []geom.Point {
	open := &astarHeap{}
	heap.Init(open)

	seq := 0
	startNode := &astarNode{
		state: orientedState{pos: start, heading: heading},
		g:     0,
		f:     geom.Manhattan(start, goal),
	}
	heap.Push(open, startNode)
	seq++

	closed := make(map[orientedState]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*astarNode)

		if current.state.pos == goal {
			return reconstructPath(current)
		}

		if closed[current.state] {
			continue
		}
		closed[current.state] = true

		for _, dir := range geom.Directions() {
			next := current.state.pos.Neighbour(dir)
			if next.X < 1 || next.X > grid.Width || next.Y < 1 || next.Y > grid.Height {
				continue
			}
			if obstacles[next] {
				continue
			}

			stepCost := MoveCost
			if dir != current.state.heading {
				stepCost += TurnCost
			}

			nextState := orientedState{pos: next, heading: dir}
			if closed[nextState] {
				continue
			}

			g := current.g + stepCost
			node := &astarNode{
				state:  nextState,
				g:      g,
				f:      g + geom.Manhattan(next, goal),
				seq:    seq,
				parent: current,
			}
			seq++
			heap.Push(open, node)
		}
	}

	return nil // unreachable
}

func reconstructPath(node *astarNode) []geom.Point {
	var rev []geom.Point
	for n := node; n != nil; n = n.parent {
		rev = append(rev, n.state.pos)
	}
	path := make([]geom.Point, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}
