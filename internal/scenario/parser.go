// Package scenario loads warehouse maps and task lists from CSV and
// embeds the production scenario.
package scenario

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

// ParseMap reads a map CSV. Column names and element kinds are matched
// case-insensitively; pitch is required meaningfully only for AGVs and
// defaults to Right when the column is empty.
func ParseMap(r io.Reader) ([]core.MapElement, error) {
	rows, col, err := readTable(r, "type", "name", "x", "y")
	if err != nil {
		return nil, fmt.Errorf("scenario: map: %w", err)
	}

	var elements []core.MapElement
	for _, row := range rows {
		e := core.MapElement{Name: row.field(col, "name")}

		switch strings.ToLower(row.field(col, "type")) {
		case "startpoint", "start_point":
			e.Kind = core.KindStartPoint
		case "endpoint", "end_point":
			e.Kind = core.KindEndPoint
		case "agv":
			e.Kind = core.KindAGV
		default:
			return nil, fmt.Errorf("scenario: map line %d: unknown element type %q", row.line, row.field(col, "type"))
		}

		if e.Pos.X, err = strconv.Atoi(row.field(col, "x")); err != nil {
			return nil, fmt.Errorf("scenario: map line %d: bad x: %w", row.line, err)
		}
		if e.Pos.Y, err = strconv.Atoi(row.field(col, "y")); err != nil {
			return nil, fmt.Errorf("scenario: map line %d: bad y: %w", row.line, err)
		}

		if e.Kind == core.KindAGV {
			pitch := row.field(col, "pitch")
			if pitch == "" {
				e.Pitch = geom.Right
			} else {
				deg, err := strconv.Atoi(pitch)
				if err != nil {
					return nil, fmt.Errorf("scenario: map line %d: bad pitch: %w", row.line, err)
				}
				if e.Pitch, err = geom.DirectionFromDegrees(deg); err != nil {
					return nil, fmt.Errorf("scenario: map line %d: %w", row.line, err)
				}
			}
		}

		elements = append(elements, e)
	}

	return elements, nil
}

// ParseTasks reads a task CSV. Priority parsing is lenient: High (or
// the legacy numeral 1) means High, everything else including the
// legacy Medium/Low values maps to Normal. remaining_time is an
// optional deadline in seconds; empty or None means absent.
func ParseTasks(r io.Reader) ([]core.TaskRecord, error) {
	rows, col, err := readTable(r, "start_point", "end_point")
	if err != nil {
		return nil, fmt.Errorf("scenario: tasks: %w", err)
	}

	var records []core.TaskRecord
	for _, row := range rows {
		rec := core.TaskRecord{
			ID:         row.field(col, "id"),
			StartPoint: row.field(col, "start_point"),
			EndPoint:   row.field(col, "end_point"),
		}
		if rec.ID == "" {
			rec.ID = row.field(col, "task_id")
		}

		switch strings.ToLower(row.field(col, "priority")) {
		case "high", "1":
			rec.Priority = core.High
		default:
			rec.Priority = core.Normal
		}

		if rt := row.field(col, "remaining_time"); rt != "" && !strings.EqualFold(rt, "none") {
			deadline, err := strconv.Atoi(rt)
			if err != nil {
				return nil, fmt.Errorf("scenario: tasks line %d: bad remaining_time: %w", row.line, err)
			}
			rec.Deadline = deadline
		}

		records = append(records, rec)
	}

	return records, nil
}

// LoadFiles parses a map file and a task file from disk.
func LoadFiles(mapPath, taskPath string) ([]core.MapElement, []core.TaskRecord, error) {
	mf, err := os.Open(mapPath)
	if err != nil {
		return nil, nil, fmt.Errorf("scenario: %w", err)
	}
	defer mf.Close()
	elements, err := ParseMap(mf)
	if err != nil {
		return nil, nil, err
	}

	tf, err := os.Open(taskPath)
	if err != nil {
		return nil, nil, fmt.Errorf("scenario: %w", err)
	}
	defer tf.Close()
	records, err := ParseTasks(tf)
	if err != nil {
		return nil, nil, err
	}

	return elements, records, nil
}

// tableRow is one parsed CSV record with its 1-based line number.
type tableRow struct {
	line   int
	record []string
}

func (r tableRow) field(col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// readTable reads a header-keyed CSV, lower-casing column names and
// requiring the listed columns.
func readTable(r io.Reader, required ...string) ([]tableRow, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}

	var rows []tableRow
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, tableRow{line: line, record: record})
	}

	return rows, col, nil
}
