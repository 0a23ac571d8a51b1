package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/geom"
)

func task(t *testing.T, priority core.Priority, deadline int) *core.Task {
	t.Helper()
	rec := core.TaskRecord{ID: "T", Priority: priority, Deadline: deadline}
	return core.NewTask(0, rec, geom.Point{X: 1, Y: 5}, geom.Point{X: 8, Y: 3})
}

func completed(t *testing.T, priority core.Priority, deadline, completeTS int) *core.Task {
	done := task(t, priority, deadline)
	done.LoadBy(0, completeTS-10)
	done.Unload(completeTS)
	return done
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		tasks []*core.Task
		want  int
	}{
		{"empty", nil, 0},
		{"normal delivered", []*core.Task{completed(t, core.Normal, 0, 30)}, 1},
		{"pending ignored", []*core.Task{task(t, core.Normal, 0)}, 0},
		{"high on time", []*core.Task{completed(t, core.High, 100, 90)}, 11},
		{"high late", []*core.Task{completed(t, core.High, 100, 110)}, -4},
		{"high without deadline", []*core.Task{completed(t, core.High, 0, 250)}, 11},
		{"mixed", []*core.Task{
			completed(t, core.Normal, 0, 20),
			completed(t, core.Normal, 0, 40),
			completed(t, core.High, 100, 60),
			completed(t, core.High, 50, 80),
		}, 2 + 11 - 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.tasks))
		})
	}
}
