package server

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/scenario"
)

// WatchScenario reloads the simulation whenever the map or task file
// changes on disk, broadcasting the fresh state to connected clients.
// Returns a stop function. Only used for file-based scenarios.
func WatchScenario(s *Server, mapPath, taskPath string, logger *slog.Logger) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	log := logger.With(slog.String("component", "scenario-watch"))

	for _, path := range []string{mapPath, taskPath} {
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				log.Info("scenario changed, reloading", slog.String("file", event.Name))

				elements, records, err := scenario.LoadFiles(mapPath, taskPath)
				if err != nil {
					log.Error("reload failed", slog.Any("error", err))
					continue
				}
				state, err := s.sim.Reload(elements, records)
				if err != nil {
					log.Error("rebuild failed", slog.Any("error", err))
					continue
				}
				s.Broadcast(state)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("watch error", slog.Any("error", err))
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
