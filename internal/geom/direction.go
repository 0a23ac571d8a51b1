// Package geom defines grid geometry primitives for the AGV warehouse:
// points, cardinal headings, and rectangular bounds.
package geom

import "fmt"

// Direction is a cardinal heading, encoded as degrees.
// Up increases Y; the renderer is responsible for flipping the axis.
type Direction int

const (
	Right Direction = 0
	Up    Direction = 90
	Left  Direction = 180
	Down  Direction = 270
)

// Degrees returns the heading as integer degrees.
func (d Direction) Degrees() int {
	return int(d)
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "Right"
	case Up:
		return "Up"
	case Left:
		return "Left"
	case Down:
		return "Down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four cardinal headings.
func (d Direction) Valid() bool {
	switch d {
	case Right, Up, Left, Down:
		return true
	}
	return false
}

// DirectionFromDegrees parses integer degrees into a Direction.
func DirectionFromDegrees(deg int) (Direction, error) {
	d := Direction(deg)
	if !d.Valid() {
		return Right, fmt.Errorf("geom: invalid heading %d degrees", deg)
	}
	return d, nil
}

// Delta returns the unit step for the heading.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Right:
		return 1, 0
	case Up:
		return 0, 1
	case Left:
		return -1, 0
	case Down:
		return 0, -1
	default:
		return 0, 0
	}
}

// Directions lists the four headings in expansion order: Right, Left, Up, Down.
func Directions() [4]Direction {
	return [4]Direction{Right, Left, Up, Down}
}
