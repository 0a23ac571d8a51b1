package geom

import (
	"errors"
	"fmt"
)

// ErrNotAdjacent is returned when a heading is requested between two
// points that are not 4-neighbours.
var ErrNotAdjacent = errors.New("geom: points are not adjacent")

// Point is a cell on the warehouse grid.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// LeftOf returns the cell one step in -X.
func (p Point) LeftOf() Point { return Point{p.X - 1, p.Y} }

// RightOf returns the cell one step in +X.
func (p Point) RightOf() Point { return Point{p.X + 1, p.Y} }

// Above returns the cell one step in +Y.
func (p Point) Above() Point { return Point{p.X, p.Y + 1} }

// Below returns the cell one step in -Y.
func (p Point) Below() Point { return Point{p.X, p.Y - 1} }

// Neighbours returns the four 4-connected cells.
func (p Point) Neighbours() [4]Point {
	return [4]Point{p.LeftOf(), p.RightOf(), p.Above(), p.Below()}
}

// Neighbour returns the adjacent cell in the given heading.
func (p Point) Neighbour(d Direction) Point {
	dx, dy := d.Delta()
	return Point{p.X + dx, p.Y + dy}
}

// IsNeighbour reports whether q is a 4-neighbour of p.
func (p Point) IsNeighbour(q Point) bool {
	return (p.X == q.X && (p.Y == q.Y+1 || p.Y == q.Y-1)) ||
		(p.Y == q.Y && (p.X == q.X+1 || p.X == q.X-1))
}

// HeadingTo derives the heading from p to an adjacent point q.
// Non-adjacent pairs are a programmer error.
func (p Point) HeadingTo(q Point) (Direction, error) {
	dx := q.X - p.X
	dy := q.Y - p.Y

	switch {
	case dy == 0 && dx == 1:
		return Right, nil
	case dy == 0 && dx == -1:
		return Left, nil
	case dx == 0 && dy == 1:
		return Up, nil
	case dx == 0 && dy == -1:
		return Down, nil
	}
	return Right, fmt.Errorf("%w: %v -> %v", ErrNotAdjacent, p, q)
}

// MustHeadingTo is HeadingTo for callers that have already established
// adjacency; it panics on non-adjacent input.
func (p Point) MustHeadingTo(q Point) Direction {
	d, err := p.HeadingTo(q)
	if err != nil {
		panic(err)
	}
	return d
}

// Manhattan returns the L1 distance between two points.
func Manhattan(p, q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
