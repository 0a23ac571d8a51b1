// Package core defines the domain model for the AGV warehouse: map
// elements, transport tasks, the vehicles themselves, and the Context
// that owns all mutable state for one simulation run.
package core

import (
	"fmt"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

// ElementKind classifies map elements.
type ElementKind int

const (
	KindStartPoint ElementKind = iota
	KindEndPoint
	KindAGV
)

func (k ElementKind) String() string {
	return [...]string{"StartPoint", "EndPoint", "Agv"}[k]
}

// MapElement is one entry of the static warehouse map. Pitch is only
// meaningful for AGV elements.
type MapElement struct {
	Kind  ElementKind
	Name  string
	Pos   geom.Point
	Pitch geom.Direction
}

func (e MapElement) String() string {
	return fmt.Sprintf("%v %s %v", e.Kind, e.Name, e.Pos)
}

// ElementBounds computes the min/max rectangle covering all elements.
func ElementBounds(elements []MapElement) geom.Rect {
	points := make([]geom.Point, len(elements))
	for i, e := range elements {
		points[i] = e.Pos
	}
	return geom.BoundsOf(points)
}
