package scenario

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
)

//go:embed data/map_data.csv data/task_data.csv
var dataFS embed.FS

// LoadEmbedded returns the production scenario compiled into the
// binary: a 20x20 warehouse with 6 start points, 10 end points, 12
// AGVs and 100 tasks.
func LoadEmbedded() ([]core.MapElement, []core.TaskRecord, error) {
	mapData, err := dataFS.ReadFile("data/map_data.csv")
	if err != nil {
		return nil, nil, fmt.Errorf("scenario: embedded map: %w", err)
	}
	elements, err := ParseMap(bytes.NewReader(mapData))
	if err != nil {
		return nil, nil, err
	}

	taskData, err := dataFS.ReadFile("data/task_data.csv")
	if err != nil {
		return nil, nil, fmt.Errorf("scenario: embedded tasks: %w", err)
	}
	records, err := ParseTasks(bytes.NewReader(taskData))
	if err != nil {
		return nil, nil, err
	}

	return elements, records, nil
}
