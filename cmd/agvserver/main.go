// Command agvserver serves a simulation over HTTP and websocket for
// interactive playback clients, with Prometheus metrics on a side
// listener.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/config"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/core"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/logging"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/scenario"
	"github.com/elektrokombinacija/agv-fleet-sim/internal/server"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "YAML config file")
		mapPath  = flag.String("map", "", "map CSV (default: embedded scenario)")
		taskPath = flag.String("tasks", "", "task CSV (default: embedded scenario)")
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

	logger := logging.Init(cfg.Log.Level)

	var elements []core.MapElement
	var records []core.TaskRecord
	fileBased := cfg.Data.MapPath != "" && cfg.Data.TaskPath != ""
	if fileBased {
		elements, records, err = scenario.LoadFiles(cfg.Data.MapPath, cfg.Data.TaskPath)
	} else {
		elements, records, err = scenario.LoadEmbedded()
	}
	if err != nil {
		logger.Error("loading scenario", slog.Any("error", err))
		os.Exit(1)
	}

	sim, err := server.NewSimulation(elements, records, logger)
	if err != nil {
		logger.Error("building simulation", slog.Any("error", err))
		os.Exit(1)
	}

	metrics, registry := server.NewMetrics()
	srv := server.New(cfg, sim, metrics, logger)

	if fileBased {
		stop, err := server.WatchScenario(srv, cfg.Data.MapPath, cfg.Data.TaskPath, logger)
		if err != nil {
			logger.Warn("scenario watch unavailable", slog.Any("error", err))
		} else {
			defer stop()
		}
	}

	go func() {
		logger.Info("metrics listening", slog.String("addr", cfg.Server.MetricsAddr))
		if err := server.ServeMetrics(cfg.Server.MetricsAddr, registry); err != nil {
			logger.Error("metrics listener", slog.Any("error", err))
		}
	}()

	if err := srv.Listen(); err != nil {
		logger.Error("server", slog.Any("error", err))
		os.Exit(1)
	}
}
