// Package validate is an independent oracle over recorded trajectories.
// It re-checks a run for physical and procedural legality using only
// the map, the task list and the trajectory log, sharing no state with
// the scheduler that produced them.
package validate

import (
	"fmt"
	"sort"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
)

// Result is one validator finding.
type Result struct {
	Valid     bool
	Message   string
	Timestamp int
	AGVName   string
}

func violation(ts int, agv, format string, args ...any) Result {
	return Result{Valid: false, Message: fmt.Sprintf(format, args...), Timestamp: ts, AGVName: agv}
}

// Clean reports whether a check produced no violations.
func Clean(results []Result) bool {
	return len(results) == 0
}

// Check validates a trajectory against the map and task list and
// returns every violation found. A clean run yields an empty slice.
func Check(elements []core.MapElement, records []core.TaskRecord, rows []trace.Row) []Result {
	v := &checker{
		bounds:     core.ElementBounds(elements),
		endPoints:  make(map[string]geom.Point),
		pickupCell: make(map[geom.Point]string),
	}

	for _, e := range elements {
		switch e.Kind {
		case core.KindEndPoint:
			v.endPoints[e.Name] = e.Pos
		case core.KindStartPoint:
			v.pickupCell[pickupOf(e)] = e.Name
		}
	}

	byAGV := make(map[string][]trace.Row)
	var names []string
	for _, row := range rows {
		if _, seen := byAGV[row.Name]; !seen {
			names = append(names, row.Name)
		}
		byAGV[row.Name] = append(byAGV[row.Name], row)
	}
	sort.Strings(names)
	for _, name := range names {
		seq := byAGV[name]
		sort.SliceStable(seq, func(i, j int) bool { return seq[i].Timestamp < seq[j].Timestamp })
		v.checkAGV(name, seq)
	}

	v.checkCollisions(byAGV, names)
	v.checkTaskSequences(records, byAGV, names)

	return v.results
}

// pickupOf derives a start point's pickup cell: SP01..SP03 load on the
// right side, every other start point on the left.
func pickupOf(e core.MapElement) geom.Point {
	switch e.Name {
	case "SP01", "SP02", "SP03":
		return e.Pos.RightOf()
	default:
		return e.Pos.LeftOf()
	}
}

type checker struct {
	bounds     geom.Rect
	endPoints  map[string]geom.Point
	pickupCell map[geom.Point]string
	results    []Result
}

// checkAGV runs the per-vehicle sequential checks.
func (v *checker) checkAGV(name string, seq []trace.Row) {
	for i, row := range seq {
		pos := geom.Point{X: row.X, Y: row.Y}
		if !v.bounds.Contains(pos) {
			v.results = append(v.results, violation(row.Timestamp, name,
				"position %v outside map bounds", pos))
		}

		if i == 0 {
			continue
		}
		prev := seq[i-1]
		prevPos := geom.Point{X: prev.X, Y: prev.Y}
		dt := row.Timestamp - prev.Timestamp
		dx := row.X - prev.X
		dy := row.Y - prev.Y

		if absInt(dx)+absInt(dy) > dt {
			v.results = append(v.results, violation(row.Timestamp, name,
				"moved %d cells in %d seconds", absInt(dx)+absInt(dy), dt))
		}
		if dx != 0 && dy != 0 {
			v.results = append(v.results, violation(row.Timestamp, name,
				"diagonal movement %v -> %v", prevPos, pos))
		}

		moved := pos != prevPos
		if moved && prevPos.IsNeighbour(pos) {
			heading := prevPos.MustHeadingTo(pos)
			if heading.Degrees() != prev.Pitch {
				v.results = append(v.results, violation(row.Timestamp, name,
					"moved %v while facing %d degrees", heading, prev.Pitch))
			}
		}

		if row.Pitch != prev.Pitch {
			diff := absInt(row.Pitch - prev.Pitch)
			if diff != 90 && diff != 180 && diff != 270 {
				v.results = append(v.results, violation(row.Timestamp, name,
					"illegal rotation %d -> %d degrees", prev.Pitch, row.Pitch))
			}
			if row.Loaded != prev.Loaded {
				v.results = append(v.results, violation(row.Timestamp, name,
					"turning while (un)loading"))
			}
		}

		if !prev.Loaded && row.Loaded {
			if _, ok := v.pickupCell[pos]; !ok {
				v.results = append(v.results, violation(row.Timestamp, name,
					"picked up at %v which is not a pickup cell", pos))
			}
		}
		if prev.Loaded && !row.Loaded {
			end, ok := v.endPoints[prev.Destination]
			if !ok {
				v.results = append(v.results, violation(row.Timestamp, name,
					"dropped with unknown destination %q", prev.Destination))
			} else if !pos.IsNeighbour(end) || !v.bounds.Contains(pos) {
				v.results = append(v.results, violation(row.Timestamp, name,
					"dropped at %v which is not adjacent to %s %v", pos, prev.Destination, end))
			}
		}
	}
}

// checkCollisions flags shared cells and swapped cells across the fleet.
func (v *checker) checkCollisions(byAGV map[string][]trace.Row, names []string) {
	// Index rows by timestamp per AGV; trajectories are dense so a map
	// per vehicle is enough.
	at := make(map[string]map[int]trace.Row, len(names))
	timestamps := make(map[int]bool)
	for _, name := range names {
		at[name] = make(map[int]trace.Row, len(byAGV[name]))
		for _, row := range byAGV[name] {
			at[name][row.Timestamp] = row
			timestamps[row.Timestamp] = true
		}
	}

	var ordered []int
	for ts := range timestamps {
		ordered = append(ordered, ts)
	}
	sort.Ints(ordered)

	for _, ts := range ordered {
		occupied := make(map[geom.Point]string)
		for _, name := range names {
			row, ok := at[name][ts]
			if !ok {
				continue
			}
			pos := geom.Point{X: row.X, Y: row.Y}
			if other, clash := occupied[pos]; clash {
				v.results = append(v.results, violation(ts, name,
					"collision with %s at %v", other, pos))
				continue
			}
			occupied[pos] = name
		}
	}

	for i, prev := range ordered {
		if i+1 >= len(ordered) {
			break
		}
		curr := ordered[i+1]
		for ai := 0; ai < len(names); ai++ {
			for bi := ai + 1; bi < len(names); bi++ {
				a0, okA0 := at[names[ai]][prev]
				a1, okA1 := at[names[ai]][curr]
				b0, okB0 := at[names[bi]][prev]
				b1, okB1 := at[names[bi]][curr]
				if !okA0 || !okA1 || !okB0 || !okB1 {
					continue
				}
				if a0.X == b1.X && a0.Y == b1.Y && b0.X == a1.X && b0.Y == a1.Y &&
					(a0.X != a1.X || a0.Y != a1.Y) {
					v.results = append(v.results, violation(curr, names[ai],
						"swapped cells with %s", names[bi]))
				}
			}
		}
	}
}

// checkTaskSequences verifies that each start point's pickups happen in
// task-list order and that no unexpected start point produced pickups.
func (v *checker) checkTaskSequences(records []core.TaskRecord, byAGV map[string][]trace.Row, names []string) {
	type pickup struct {
		ts          int
		startPoint  string
		destination string
	}

	var pickups []pickup
	for _, name := range names {
		seq := byAGV[name]
		for i := 1; i < len(seq); i++ {
			if seq[i-1].Loaded || !seq[i].Loaded {
				continue
			}
			pos := geom.Point{X: seq[i].X, Y: seq[i].Y}
			sp, ok := v.pickupCell[pos]
			if !ok {
				continue // already reported as an illegal pickup
			}
			pickups = append(pickups, pickup{ts: seq[i].Timestamp, startPoint: sp, destination: seq[i].Destination})
		}
	}
	sort.SliceStable(pickups, func(i, j int) bool { return pickups[i].ts < pickups[j].ts })

	observed := make(map[string][]string)
	for _, p := range pickups {
		observed[p.startPoint] = append(observed[p.startPoint], p.destination)
	}
	expected := make(map[string][]string)
	for _, rec := range records {
		expected[rec.StartPoint] = append(expected[rec.StartPoint], rec.EndPoint)
	}

	if len(observed) > len(expected) {
		v.results = append(v.results, violation(0, "",
			"pickups observed at %d start points, task list uses %d", len(observed), len(expected)))
	}

	var points []string
	for sp := range observed {
		points = append(points, sp)
	}
	sort.Strings(points)
	for _, sp := range points {
		got := observed[sp]
		want := expected[sp]
		if len(got) != len(want) {
			v.results = append(v.results, violation(0, "",
				"start point %s served %d tasks, task list has %d", sp, len(got), len(want)))
			continue
		}
		for i := range got {
			if got[i] != want[i] {
				v.results = append(v.results, violation(0, "",
					"start point %s task %d went to %s, expected %s", sp, i, got[i], want[i]))
			}
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
