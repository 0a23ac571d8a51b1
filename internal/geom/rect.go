package geom

// Rect is an inclusive rectangular region with Top >= Bottom and
// Right >= Left.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Bottom && p.Y <= r.Top
}

// Width returns the number of columns covered.
func (r Rect) Width() int { return r.Right - r.Left + 1 }

// Height returns the number of rows covered.
func (r Rect) Height() int { return r.Top - r.Bottom + 1 }

// BoundsOf computes the min/max bounds over a set of points.
func BoundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Left: points[0].X, Right: points[0].X, Top: points[0].Y, Bottom: points[0].Y}
	for _, p := range points[1:] {
		if p.X < r.Left {
			r.Left = p.X
		}
		if p.X > r.Right {
			r.Right = p.X
		}
		if p.Y > r.Top {
			r.Top = p.Y
		}
		if p.Y < r.Bottom {
			r.Bottom = p.Y
		}
	}
	return r
}
