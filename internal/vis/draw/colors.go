// Package draw renders the warehouse, the fleet and the overlays.
package draw

import (
	"image/color"
	"math"
)

// Element colors.
var (
	ColorBackground = color.NRGBA{R: 30, G: 30, B: 35, A: 255}
	ColorGridLine   = color.NRGBA{R: 55, G: 58, B: 64, A: 255}
	ColorStartPoint = color.NRGBA{R: 80, G: 180, B: 100, A: 255}
	ColorEndPoint   = color.NRGBA{R: 220, G: 120, B: 80, A: 255}
	ColorEmergency  = color.NRGBA{R: 255, G: 80, B: 80, A: 255}
	ColorHeat       = color.NRGBA{R: 255, G: 120, B: 40, A: 255}
)

// ColorFromIndex derives a stable, well-spread color for the i-th AGV
// by walking the hue circle with the golden ratio.
func ColorFromIndex(i int) color.NRGBA {
	const goldenRatio = 0.618033988749895
	hue := math.Mod(float64(i)*goldenRatio, 1.0)
	r, g, b := hsvToRGB(hue, 0.65, 0.95)
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}

// HeatAlpha maps a visit count to an overlay alpha.
func HeatAlpha(visits, max int) uint8 {
	if max <= 0 || visits <= 0 {
		return 0
	}
	frac := float64(visits) / float64(max)
	return uint8(40 + frac*180)
}
