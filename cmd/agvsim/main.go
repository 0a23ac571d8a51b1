// Command agvsim runs the warehouse simulation to completion, writes
// the trajectory CSV, validates it and prints the score.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/config"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/logging"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/scenario"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/sched"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/score"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/store"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/stream"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/validate"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "YAML config file")
		mapPath  = flag.String("map", "", "map CSV (default: embedded scenario)")
		taskPath = flag.String("tasks", "", "task CSV (default: embedded scenario)")
		outPath  = flag.String("out", "", "trajectory CSV output")
		seed     = flag.Int64("seed", 0, "shuffle task order with this seed")
		noCheck  = flag.Bool("no-validate", false, "skip trajectory validation")
	)
	flag.Parse()

	cfg, err := config.LoadWithDotenv(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *mapPath != "" {
		cfg.Data.MapPath = *mapPath
	}
	if *taskPath != "" {
		cfg.Data.TaskPath = *taskPath
	}
	if *outPath != "" {
		cfg.Output.TrajectoryPath = *outPath
	}

	logger := logging.Init(cfg.Log.Level)

	if err := run(cfg, logger, *seed, !*noCheck); err != nil {
		logger.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger, seed int64, check bool) error {
	elements, records, err := loadScenario(cfg)
	if err != nil {
		return err
	}
	if seed != 0 {
		records = scenario.ShuffleTasks(records, seed)
	}
	fmt.Printf("Loaded %d map elements, %d tasks\n", len(elements), len(records))

	ctx, err := core.NewContext(elements, records)
	if err != nil {
		return err
	}
	rec := trace.NewRecorder(ctx)
	s := sched.New(ctx, rec, logger)
	fmt.Printf("Context ready: %d AGVs\n", len(ctx.AGVs))

	runID := uuid.NewString()
	var publisher *stream.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = stream.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, runID, logger)
		defer publisher.Close()
	}

	runErr := processAll(s, rec, publisher)

	sum := s.Summary()
	fmt.Printf("Finished: %d/%d tasks in %d seconds\n", sum.CompletedTasks, sum.TotalTasks, sum.Ticks)

	if err := trace.SaveCSV(cfg.Output.TrajectoryPath, rec.Rows()); err != nil {
		return err
	}
	fmt.Printf("Trajectory saved: %s (%d rows)\n", cfg.Output.TrajectoryPath, rec.Len())
	if cfg.Output.SummaryPath != "" {
		if err := sum.Export(cfg.Output.SummaryPath); err != nil {
			return err
		}
	}

	if check {
		results := validate.Check(elements, records, rec.Rows())
		if validate.Clean(results) {
			fmt.Println("Validation: clean")
		} else {
			fmt.Printf("Validation: %d violations\n", len(results))
			for i, r := range results {
				if i >= 10 {
					fmt.Printf("  ... and %d more\n", len(results)-10)
					break
				}
				fmt.Printf("  ts=%d agv=%s %s\n", r.Timestamp, r.AGVName, r.Message)
			}
		}
	}

	total := score.Of(ctx.Tasks)
	fmt.Printf("Score: %d\n", total)

	if cfg.Store.DSN != "" {
		db, err := store.Open(cfg.Store.DSN)
		if err != nil {
			return err
		}
		_, err = db.SaveRun(store.Run{
			ID:        runID,
			Seed:      seed,
			Ticks:     sum.Ticks,
			Completed: sum.CompletedTasks,
			Total:     sum.TotalTasks,
			Score:     total,
			TimedOut:  runErr != nil,
		}, rec.Rows())
		if err != nil {
			return err
		}
		fmt.Printf("Run persisted: %s\n", runID)
	}

	return runErr
}

// processAll ticks to completion, streaming each tick when a publisher
// is configured.
func processAll(s *sched.Scheduler, rec *trace.Recorder, publisher *stream.Publisher) error {
	agvCount := len(s.Context().AGVs)
	bg := context.Background()

	if publisher != nil {
		// Ship the initial snapshot.
		if err := publisher.PublishTick(bg, rec.Rows()[:agvCount]); err != nil {
			return err
		}
	}

	for !s.Context().AllTasksCompleted() {
		if err := s.Process(); err != nil {
			return err
		}
		if publisher != nil {
			rows := rec.Rows()
			if err := publisher.PublishTick(bg, rows[len(rows)-agvCount:]); err != nil {
				return err
			}
		}
	}
	return nil
}

func loadScenario(cfg config.Config) ([]core.MapElement, []core.TaskRecord, error) {
	if cfg.Data.MapPath != "" && cfg.Data.TaskPath != "" {
		return scenario.LoadFiles(cfg.Data.MapPath, cfg.Data.TaskPath)
	}
	return scenario.LoadEmbedded()
}
