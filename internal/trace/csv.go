package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var csvHeader = []string{"timestamp", "name", "X", "Y", "pitch", "loaded", "destination", "Emergency", "TaskId"}

// WriteCSV writes the trajectory rows with the standard header.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Timestamp),
			r.Name,
			strconv.Itoa(r.X),
			strconv.Itoa(r.Y),
			strconv.Itoa(r.Pitch),
			strconv.FormatBool(r.Loaded),
			r.Destination,
			strconv.FormatBool(r.Emergency),
			r.TaskID,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the trajectory to a file.
func SaveCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, rows)
}

// ReadCSV parses a trajectory file. Column names are matched
// case-insensitively; booleans accept any case. The trailing id column
// is optional for compatibility with older recordings.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("trace: reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"timestamp", "name", "x", "y", "pitch", "loaded"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("trace: missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", line+1, err)
		}
		line++

		row := Row{
			Name:        field(record, "name"),
			Destination: field(record, "destination"),
		}
		if row.Timestamp, err = strconv.Atoi(field(record, "timestamp")); err != nil {
			return nil, fmt.Errorf("trace: line %d: bad timestamp: %w", line, err)
		}
		if row.X, err = strconv.Atoi(field(record, "x")); err != nil {
			return nil, fmt.Errorf("trace: line %d: bad X: %w", line, err)
		}
		if row.Y, err = strconv.Atoi(field(record, "y")); err != nil {
			return nil, fmt.Errorf("trace: line %d: bad Y: %w", line, err)
		}
		if row.Pitch, err = strconv.Atoi(field(record, "pitch")); err != nil {
			return nil, fmt.Errorf("trace: line %d: bad pitch: %w", line, err)
		}
		row.Loaded = parseBool(field(record, "loaded"))
		row.Emergency = parseBool(field(record, "emergency"))
		if id := field(record, "taskid"); id != "" {
			row.TaskID = id
		} else {
			row.TaskID = field(record, "id")
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true")
}
