// Package server exposes a simulation over HTTP and websocket: REST
// endpoints for stepping and inspection, a websocket channel that
// mirrors the playback UI's keyboard surface (step, reset, heatmap,
// overlay), and Prometheus metrics on a side listener.
package server

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/config"
)

// Server wires the simulation to its transports.
type Server struct {
	cfg     config.Config
	log     *slog.Logger
	sim     *Simulation
	hub     *Hub
	metrics *Metrics
	app     *fiber.App
}

// clientCommand is what a playback client sends over the websocket.
// The types mirror the UI keys: step (Space), reset (Esc), heatmap
// (F1), overlay (F2).
type clientCommand struct {
	Type string `json:"type"`
}

// New assembles the fiber app around a simulation.
func New(cfg config.Config, sim *Simulation, metrics *Metrics, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		log:     logger.With(slog.String("component", "server")),
		sim:     sim,
		hub:     NewHub(logger),
		metrics: metrics,
		app:     fiber.New(fiber.Config{DisableStartupMessage: true}),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "OK",
			"clients": s.hub.Count(),
		})
	})

	api.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(s.sim.State())
	})

	api.Post("/step", func(c *fiber.Ctx) error {
		state, err := s.step()
		if err != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "state": state})
		}
		return c.JSON(state)
	})

	api.Post("/reset", func(c *fiber.Ctx) error {
		state, err := s.reset()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(state)
	})

	api.Get("/validate", func(c *fiber.Ctx) error {
		results := s.sim.Validate()
		return c.JSON(fiber.Map{
			"clean":      len(results) == 0,
			"violations": results,
		})
	})

	api.Get("/trajectory", func(c *fiber.Ctx) error {
		return c.JSON(s.sim.Rows())
	})

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleWS))
}

// handleWS serves one playback client until it disconnects.
func (s *Server) handleWS(c *websocket.Conn) {
	s.hub.Register(c)
	s.metrics.Clients.Set(float64(s.hub.Count()))
	defer func() {
		s.hub.Unregister(c)
		s.metrics.Clients.Set(float64(s.hub.Count()))
		c.Close()
	}()

	// Greet the client with the current state.
	if data, err := json.Marshal(s.sim.State()); err == nil {
		_ = c.WriteMessage(websocket.TextMessage, data)
	}

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(msg, &cmd); err != nil {
			s.log.Warn("bad client command", slog.Any("error", err))
			continue
		}

		switch cmd.Type {
		case "step":
			if state, err := s.step(); err != nil {
				s.log.Warn("step failed", slog.Any("error", err))
			} else {
				s.hub.Broadcast(state)
			}
		case "reset":
			if state, err := s.reset(); err == nil {
				s.hub.Broadcast(state)
			}
		case "heatmap":
			s.hub.Broadcast(s.sim.ToggleHeatmap())
		case "overlay":
			s.hub.Broadcast(s.sim.ToggleOverlay())
		default:
			s.log.Warn("unknown command", slog.String("type", cmd.Type))
		}
	}
}

func (s *Server) step() (FleetState, error) {
	state, err := s.sim.Step()
	if err != nil {
		return state, err
	}
	s.metrics.TicksTotal.Inc()
	s.metrics.TasksCompleted.Set(float64(state.Completed))
	return state, nil
}

func (s *Server) reset() (FleetState, error) {
	state, err := s.sim.Reset()
	if err != nil {
		return state, err
	}
	s.metrics.Resets.Inc()
	s.metrics.TasksCompleted.Set(0)
	return state, nil
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Broadcast pushes a state to all clients; used by the file watcher.
func (s *Server) Broadcast(state FleetState) { s.hub.Broadcast(state) }

// Listen blocks serving the API on the configured address.
func (s *Server) Listen() error {
	s.log.Info("listening", slog.String("addr", s.cfg.Server.Addr))
	return s.app.Listen(s.cfg.Server.Addr)
}
