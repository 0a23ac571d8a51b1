package draw

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/vis/interact"
)

// Grid renders the warehouse cells and the start/end point markers.
func Grid(gtx layout.Context, bounds geom.Rect, elements []core.MapElement, camera *interact.Camera) {
	// Grid lines.
	for x := bounds.Left; x <= bounds.Right+1; x++ {
		x0, y0 := camera.CellToScreen(x, bounds.Top)
		_, y1 := camera.CellToScreen(x, bounds.Bottom)
		line(gtx, x0-camera.CellSize/2, y0-camera.CellSize/2, x0-camera.CellSize/2, y1+camera.CellSize/2, 1, ColorGridLine)
	}
	for y := bounds.Bottom; y <= bounds.Top+1; y++ {
		x0, y0 := camera.CellToScreen(bounds.Left, y)
		x1, _ := camera.CellToScreen(bounds.Right, y)
		line(gtx, x0-camera.CellSize/2, y0+camera.CellSize/2, x1+camera.CellSize/2, y0+camera.CellSize/2, 1, ColorGridLine)
	}

	// Start and end points as filled cells.
	for _, e := range elements {
		switch e.Kind {
		case core.KindStartPoint:
			cell(gtx, e.Pos, camera, ColorStartPoint)
		case core.KindEndPoint:
			cell(gtx, e.Pos, camera, ColorEndPoint)
		}
	}
}

// Heatmap shades every visited cell by its visit count.
func Heatmap(gtx layout.Context, visits map[geom.Point]int, max int, camera *interact.Camera) {
	for p, count := range visits {
		col := ColorHeat
		col.A = HeatAlpha(count, max)
		cell(gtx, p, camera, col)
	}
}

// cell fills one warehouse cell.
func cell(gtx layout.Context, p geom.Point, camera *interact.Camera, col color.NRGBA) {
	cx, cy := camera.CellToScreen(p.X, p.Y)
	half := camera.CellSize/2 - 1

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(cx-half, cy-half))
	path.LineTo(f32.Pt(cx+half, cy-half))
	path.LineTo(f32.Pt(cx+half, cy+half))
	path.LineTo(f32.Pt(cx-half, cy+half))
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func line(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}

	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}
