// Package config loads simulator settings from an optional YAML file
// with environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the simulator and its surrounding
// services. Zero values are filled by Default.
type Config struct {
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Data struct {
		MapPath  string `yaml:"map_path"`  // empty: embedded scenario
		TaskPath string `yaml:"task_path"` // empty: embedded scenario
	} `yaml:"data"`

	Output struct {
		TrajectoryPath string `yaml:"trajectory_path"`
		SummaryPath    string `yaml:"summary_path"`
	} `yaml:"output"`

	Server struct {
		Addr        string `yaml:"addr"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"server"`

	Store struct {
		DSN string `yaml:"dsn"` // empty: persistence disabled
	} `yaml:"store"`

	Kafka struct {
		Brokers []string `yaml:"brokers"` // empty: streaming disabled
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
}

// Default returns the production defaults.
func Default() Config {
	var cfg Config
	cfg.Log.Level = "info"
	cfg.Output.TrajectoryPath = "agv_trajectory.csv"
	cfg.Server.Addr = ":3000"
	cfg.Server.MetricsAddr = ":9091"
	cfg.Kafka.Topic = "agv.trajectory"
	return cfg
}

// Load reads the YAML file when present, then applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return cfg, fmt.Errorf("config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadWithDotenv loads .env into the environment first, then the
// config file.
func LoadWithDotenv(path string) (Config, error) {
	_ = godotenv.Load()
	return Load(path)
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Log.Level, "AGVSIM_LOG_LEVEL")
	set(&c.Data.MapPath, "AGVSIM_MAP")
	set(&c.Data.TaskPath, "AGVSIM_TASKS")
	set(&c.Output.TrajectoryPath, "AGVSIM_TRAJECTORY")
	set(&c.Server.Addr, "AGVSIM_ADDR")
	set(&c.Server.MetricsAddr, "AGVSIM_METRICS_ADDR")
	set(&c.Store.DSN, "AGVSIM_SQLITE")
	set(&c.Kafka.Topic, "AGVSIM_KAFKA_TOPIC")
	if v := os.Getenv("AGVSIM_KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}
