// Package interact handles view transformation for the trajectory
// viewer.
package interact

// Camera maps warehouse cells to screen pixels. The warehouse y axis
// points up, the screen's points down, so the projection flips it.
type Camera struct {
	OffsetX  float32
	OffsetY  float32
	CellSize float32
	FlipY    int // map height in cells, for axis inversion
}

// NewCamera creates a camera for a grid with the given cell count.
func NewCamera(heightCells int) *Camera {
	return &Camera{
		OffsetX:  40,
		OffsetY:  40,
		CellSize: 32,
		FlipY:    heightCells,
	}
}

// CellToScreen returns the screen centre of a warehouse cell.
func (c *Camera) CellToScreen(x, y int) (float32, float32) {
	sx := c.OffsetX + (float32(x)-0.5)*c.CellSize
	sy := c.OffsetY + (float32(c.FlipY-y)+0.5)*c.CellSize
	return sx, sy
}

// Zoom scales the cell size, clamped to a sane range.
func (c *Camera) Zoom(factor float32) {
	c.CellSize *= factor
	if c.CellSize < 8 {
		c.CellSize = 8
	}
	if c.CellSize > 96 {
		c.CellSize = 96
	}
}
