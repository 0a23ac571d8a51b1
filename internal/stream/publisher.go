// Package stream publishes per-tick trajectory rows to Kafka for
// external dashboards. The simulator only produces; no consumer lives
// in this repository.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
)

// TickMessage is the JSON payload for one AGV observation.
type TickMessage struct {
	Run         string `json:"run"`
	Timestamp   int    `json:"timestamp"`
	Name        string `json:"name"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Pitch       int    `json:"pitch"`
	Loaded      bool   `json:"loaded"`
	Destination string `json:"destination,omitempty"`
	Emergency   bool   `json:"emergency"`
	TaskID      string `json:"task_id,omitempty"`
}

// Publisher streams trajectory rows to one topic.
type Publisher struct {
	w   *kafka.Writer
	run string
	log *slog.Logger
}

// NewPublisher creates a Kafka writer for the given brokers and topic.
func NewPublisher(brokers []string, topic, runID string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		run: runID,
		log: logger.With(slog.String("component", "trajectory-stream")),
	}
}

// PublishTick sends every row of one tick, keyed by AGV name so a
// vehicle's rows stay ordered within a partition.
func (p *Publisher) PublishTick(ctx context.Context, rows []trace.Row) error {
	msgs := make([]kafka.Message, 0, len(rows))
	for _, row := range rows {
		payload, err := json.Marshal(EncodeRow(p.run, row))
		if err != nil {
			return fmt.Errorf("stream: encoding row: %w", err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(row.Name), Value: payload})
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("stream: writing tick: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}

// EncodeRow converts a trace row into its wire payload.
func EncodeRow(run string, row trace.Row) TickMessage {
	return TickMessage{
		Run:         run,
		Timestamp:   row.Timestamp,
		Name:        row.Name,
		X:           row.X,
		Y:           row.Y,
		Pitch:       row.Pitch,
		Loaded:      row.Loaded,
		Destination: row.Destination,
		Emergency:   row.Emergency,
		TaskID:      row.TaskID,
	}
}
