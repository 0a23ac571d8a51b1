package draw

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/vis/interact"
)

// AGV draws one vehicle: a square body, a heading notch, and a ring
// when it carries an emergency task.
func AGV(gtx layout.Context, row trace.Row, col color.NRGBA, camera *interact.Camera) {
	cx, cy := camera.CellToScreen(row.X, row.Y)
	size := camera.CellSize * 0.7

	body := col
	if !row.Loaded {
		body.A = 170
	}
	square(gtx, cx, cy, size, body)

	// Heading notch. Screen y grows downward, warehouse y upward.
	rad := float64(row.Pitch) * math.Pi / 180
	nx := cx + float32(math.Cos(rad))*size*0.55
	ny := cy - float32(math.Sin(rad))*size*0.55
	dot(gtx, nx, ny, size*0.14, color.NRGBA{R: 240, G: 240, B: 240, A: 255})

	if row.Emergency {
		square(gtx, cx, cy, size+6, color.NRGBA{R: ColorEmergency.R, G: ColorEmergency.G, B: ColorEmergency.B, A: 90})
	}
}

// Trail draws the visited-cell polyline of one vehicle.
func Trail(gtx layout.Context, points []geom.Point, col color.NRGBA, camera *interact.Camera) {
	faded := col
	faded.A = 130
	for i := 1; i < len(points); i++ {
		if points[i] == points[i-1] {
			continue
		}
		x1, y1 := camera.CellToScreen(points[i-1].X, points[i-1].Y)
		x2, y2 := camera.CellToScreen(points[i].X, points[i].Y)
		line(gtx, x1, y1, x2, y2, 2, faded)
	}
}

func square(gtx layout.Context, cx, cy, size float32, col color.NRGBA) {
	half := size / 2
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(cx-half, cy-half))
	path.LineTo(f32.Pt(cx+half, cy-half))
	path.LineTo(f32.Pt(cx+half, cy+half))
	path.LineTo(f32.Pt(cx-half, cy+half))
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func dot(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.Move(f32.Pt(cx+radius, cy))

	segments := 12
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		x := cx + radius*float32(math.Cos(angle))
		y := cy + radius*float32(math.Sin(angle))
		path.Line(f32.Pt(x-path.Pos().X, y-path.Pos().Y))
	}
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}
