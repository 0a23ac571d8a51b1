package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	return s
}

func TestSaveAndLoadRun(t *testing.T) {
	s := testStore(t)

	rows := []trace.Row{
		{Timestamp: 0, Name: "A01", X: 2, Y: 5, Pitch: 0},
		{Timestamp: 1, Name: "A01", X: 3, Y: 5, Pitch: 0, Loaded: true, Destination: "EP01", TaskID: "T1"},
	}

	id, err := s.SaveRun(Run{Seed: 5555, Ticks: 120, Completed: 100, Total: 100, Score: 120}, rows)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(5555), runs[0].Seed)
	assert.Equal(t, 120, runs[0].Score)

	loaded, err := s.Trajectory(id)
	require.NoError(t, err)
	assert.Equal(t, rows, loaded)
}

func TestRecentRunsOrdering(t *testing.T) {
	s := testStore(t)

	for i := 0; i < 3; i++ {
		_, err := s.SaveRun(Run{Seed: int64(i)}, nil)
		require.NoError(t, err)
	}

	runs, err := s.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(2), runs[0].Seed, "newest run first")
	assert.Equal(t, int64(1), runs[1].Seed)
}
