package scenario

import (
	"math/rand"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
)

// ShuffleTasks returns a deterministically permuted copy of the task
// list for a given seed. Used by the stress runs; the input is never
// mutated.
func ShuffleTasks(records []core.TaskRecord, seed int64) []core.TaskRecord {
	shuffled := make([]core.TaskRecord, len(records))
	copy(shuffled, records)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
