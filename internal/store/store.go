// Package store persists finished runs and their trajectories to an
// embedded sqlite database.
package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/elektrokombinacija/agv-fleet-sim/internal/trace"
)

// Run is one completed (or aborted) simulation.
type Run struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Seed      int64
	Ticks     int
	Completed int
	Total     int
	Score     int
	TimedOut  bool
}

// TrajectoryRow mirrors trace.Row for persistence.
type TrajectoryRow struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	RunID       string `gorm:"index"`
	Timestamp   int
	Name        string
	X, Y        int
	Pitch       int
	Loaded      bool
	Destination string
	Emergency   bool
	TaskID      string
}

// Store wraps the database handle.
type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite file and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dsn, err)
	}
	if err := db.AutoMigrate(&Run{}, &TrajectoryRow{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun persists a run and its trajectory, returning the run id.
func (s *Store) SaveRun(run Run, rows []trace.Row) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	if err := s.db.Create(&run).Error; err != nil {
		return "", fmt.Errorf("store: saving run: %w", err)
	}

	batch := make([]TrajectoryRow, len(rows))
	for i, r := range rows {
		batch[i] = TrajectoryRow{
			RunID:       run.ID,
			Timestamp:   r.Timestamp,
			Name:        r.Name,
			X:           r.X,
			Y:           r.Y,
			Pitch:       r.Pitch,
			Loaded:      r.Loaded,
			Destination: r.Destination,
			Emergency:   r.Emergency,
			TaskID:      r.TaskID,
		}
	}
	if len(batch) > 0 {
		if err := s.db.CreateInBatches(batch, 500).Error; err != nil {
			return "", fmt.Errorf("store: saving trajectory: %w", err)
		}
	}

	return run.ID, nil
}

// RecentRuns returns the newest runs first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := s.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// Trajectory loads a run's recorded rows in insertion order.
func (s *Store) Trajectory(runID string) ([]trace.Row, error) {
	var stored []TrajectoryRow
	if err := s.db.Where("run_id = ?", runID).Order("id").Find(&stored).Error; err != nil {
		return nil, err
	}

	rows := make([]trace.Row, len(stored))
	for i, r := range stored {
		rows[i] = trace.Row{
			Timestamp:   r.Timestamp,
			Name:        r.Name,
			X:           r.X,
			Y:           r.Y,
			Pitch:       r.Pitch,
			Loaded:      r.Loaded,
			Destination: r.Destination,
			Emergency:   r.Emergency,
			TaskID:      r.TaskID,
		}
	}
	return rows, nil
}
