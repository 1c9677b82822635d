package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/skirmish/internal/combat"
	"github.com/udisondev/skirmish/internal/steer"
)

// Sim holds runtime configuration of the simulation runner.
type Sim struct {
	LogLevel string `yaml:"log_level"`
	Seed     uint64 `yaml:"seed"`

	// Tick rates
	PhysicsHz int `yaml:"physics_hz"`
	FrameHz   int `yaml:"frame_hz"`

	// Batched services (seconds of simulation time)
	SpatialInterval   float64 `yaml:"spatial_interval"`
	TargetingInterval float64 `yaml:"targeting_interval"`
	TargetingBudget   int     `yaml:"targeting_budget"`
	CellSize          float64 `yaml:"cell_size"`
	NavCellSize       float64 `yaml:"nav_cell_size"`

	// Lifecycle
	DeathGrace    float64 `yaml:"death_grace"`
	TeleportSpeed float64 `yaml:"teleport_speed"`

	Combat   combat.Config  `yaml:"combat"`
	Steering steer.Config   `yaml:"steering"`
	Director DirectorConfig `yaml:"director"`

	Database DatabaseConfig `yaml:"database"`
	Journal  JournalConfig  `yaml:"journal"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// DirectorConfig tunes the wave director.
type DirectorConfig struct {
	Enabled               bool    `yaml:"enabled"`
	WeightIncreasePerSkip float64 `yaml:"weight_increase_per_skip"`
	RetryDelay            float64 `yaml:"retry_delay"`
	MinWait               float64 `yaml:"min_wait"`
}

// JournalConfig controls the combat journal writer.
type JournalConfig struct {
	Enabled       bool          `yaml:"enabled"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BatchSize     int           `yaml:"batch_size"`
}

// SnapshotConfig controls render frame output. Empty path disables it.
type SnapshotConfig struct {
	Path  string `yaml:"path"`
	Every int    `yaml:"every"` // physics ticks between frames
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// PhysicsStep returns the fixed physics timestep in seconds.
func (s Sim) PhysicsStep() float64 {
	if s.PhysicsHz <= 0 {
		return 1.0 / 50
	}
	return 1.0 / float64(s.PhysicsHz)
}

// FrameStep returns the frame timestep in seconds.
func (s Sim) FrameStep() float64 {
	if s.FrameHz <= 0 {
		return 1.0 / 60
	}
	return 1.0 / float64(s.FrameHz)
}

// DefaultSim returns Sim config with the stock tuning.
func DefaultSim() Sim {
	return Sim{
		LogLevel:          "info",
		Seed:              1,
		PhysicsHz:         50,
		FrameHz:           60,
		SpatialInterval:   0.1,
		TargetingInterval: 0.2,
		TargetingBudget:   50,
		CellSize:          4,
		NavCellSize:       1,
		DeathGrace:        1.0,
		TeleportSpeed:     6,
		Combat:            combat.DefaultConfig(),
		Steering:          steer.DefaultConfig(),
		Director: DirectorConfig{
			Enabled:               true,
			WeightIncreasePerSkip: 2,
			RetryDelay:            0.5,
			MinWait:               0.1,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "skirmish",
			Password: "skirmish",
			DBName:   "skirmish",
			SSLMode:  "disable",
		},
		Journal: JournalConfig{
			FlushInterval: time.Second,
			BatchSize:     512,
		},
		Snapshot: SnapshotConfig{Every: 5},
	}
}

// LoadSim loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSim(path string) (Sim, error) {
	cfg := DefaultSim()
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadYAML decodes path over out. A missing file leaves out untouched.
func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}
