package algo

import "github.com/elektrokombinacija/agv-fleet-sim/internal/geom"

// PathTimePoint is a waypoint annotated with the cumulative seconds
// needed to reach it from the path origin, turn time included.
type PathTimePoint struct {
	Position geom.Point
	TimeCost int
}

// ComputeTiming walks a path and annotates each waypoint with its
// cumulative arrival time. A turn before a step adds TurnCost; every
// step adds MoveCost. Empty input yields empty output.
func ComputeTiming(path []geom.Point, initialHeading geom.Direction) []PathTimePoint {
	if len(path) == 0 {
		return nil
	}

	result := make([]PathTimePoint, 0, len(path))
	elapsed := 0
	heading := initialHeading

	result = append(result, PathTimePoint{Position: path[0], TimeCost: 0})

	for i := 1; i < len(path); i++ {
		next := path[i-1].MustHeadingTo(path[i])
		if next != heading {
			elapsed += TurnCost
			heading = next
		}
		elapsed += MoveCost
		result = append(result, PathTimePoint{Position: path[i], TimeCost: elapsed})
	}

	return result
}
