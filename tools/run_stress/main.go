// Command run_stress executes many seeded production runs in parallel
// and reports completion time, validation and score per seed. Each run
// owns its own context, so the workload is embarrassingly parallel.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/scenario"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/sched"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/score"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/validate"
)

type result struct {
	seed       int64
	ticks      int
	completed  int
	violations int
	score      int
	err        error
}

func main() {
	var (
		from     = flag.Int64("from", 5555, "first seed")
		to       = flag.Int64("to", 5586, "last seed (inclusive)")
		parallel = flag.Int("parallel", 8, "concurrent runs")
	)
	flag.Parse()

	elements, records, err := scenario.LoadEmbedded()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var mu sync.Mutex
	var results []result

	var g errgroup.Group
	g.SetLimit(*parallel)

	for seed := *from; seed <= *to; seed++ {
		seed := seed
		g.Go(func() error {
			r := runSeed(elements, records, seed, logger)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].seed < results[j].seed })

	failures := 0
	fmt.Println("seed   ticks  completed  violations  score")
	for _, r := range results {
		if r.err != nil {
			failures++
			fmt.Printf("%d  FAILED: %v\n", r.seed, r.err)
			continue
		}
		if r.violations > 0 || r.completed != len(records) {
			failures++
		}
		fmt.Printf("%d  %5d  %9d  %10d  %5d\n", r.seed, r.ticks, r.completed, r.violations, r.score)
	}

	fmt.Printf("\n%d runs, %d failures\n", len(results), failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func runSeed(elements []core.MapElement, records []core.TaskRecord, seed int64, logger *slog.Logger) result {
	shuffled := scenario.ShuffleTasks(records, seed)

	ctx, err := core.NewContext(elements, shuffled)
	if err != nil {
		return result{seed: seed, err: err}
	}
	rec := trace.NewRecorder(ctx)
	s := sched.New(ctx, rec, logger)

	if err := s.ProcessToComplete(); err != nil {
		return result{seed: seed, err: err}
	}

	violations := validate.Check(elements, shuffled, rec.Rows())
	return result{
		seed:       seed,
		ticks:      s.Timestamp,
		completed:  len(ctx.CompletedTasks()),
		violations: len(violations),
		score:      score.Of(ctx.Tasks),
	}
}
