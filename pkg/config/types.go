package config

import (
	"time"
)

// Config represents the service configuration
type Config struct {
	ListenAddr     string        `yaml:"listenAddr"`
	MinFloor       int           `yaml:"minFloor"`
	MaxFloor       int           `yaml:"maxFloor"`
	DefaultPolicy  string        `yaml:"defaultPolicy"`
	SessionTimeout time.Duration `yaml:"sessionTimeout"`
	SweepInterval  time.Duration `yaml:"sweepInterval"`
	CORSOrigins    []string      `yaml:"corsOrigins"`
	LogLevel       string        `yaml:"logLevel"`

	// Directory of a built frontend served at /, if set
	StaticDir string `yaml:"staticDir,omitempty"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		ListenAddr:     ":8000",
		MinFloor:       0,
		MaxFloor:       10,
		DefaultPolicy:  "scan",
		SessionTimeout: 30 * time.Minute,
		SweepInterval:  5 * time.Minute,
		CORSOrigins:    []string{"http://localhost:5173", "http://localhost:8000"},
		LogLevel:       "info",
	}
}

// Scenario describes an offline simulation run
type Scenario struct {
	Name         string        `yaml:"name"`
	Policies     []string      `yaml:"policies"`
	MinFloor     int           `yaml:"minFloor"`
	MaxFloor     int           `yaml:"maxFloor"`
	MaxTicks     int           `yaml:"maxTicks"`
	TickDuration time.Duration `yaml:"tickDuration"`
	Start        time.Time     `yaml:"start"`
	Streams      []Stream      `yaml:"streams"`

	// Passengers waiting longer than this many ticks raise a warning
	MaxWaitTicks int `yaml:"maxWaitTicks"`
}

// Stream is a source of passenger requests within a scenario
type Stream struct {
	Name        string      `yaml:"name"`
	TriggerType TriggerType `yaml:"triggerType"`
	Origin      int         `yaml:"origin"`
	Destination int         `yaml:"destination"`

	// For fixed streams
	Ticks []int `yaml:"ticks,omitempty"`

	// For cron streams, evaluated against start + tick * tickDuration
	CronSchedule string `yaml:"cronSchedule,omitempty"`

	// For random streams: Count trips with random floors spread over the
	// first Window ticks
	Count  int   `yaml:"count,omitempty"`
	Window int   `yaml:"window,omitempty"`
	Seed   int64 `yaml:"seed,omitempty"`
}

// TriggerType defines how a stream produces requests
type TriggerType string

const (
	TriggerTypeFixed  TriggerType = "fixed"
	TriggerTypeCron   TriggerType = "cron"
	TriggerTypeRandom TriggerType = "random"
)

const (
	DefaultMaxTicks     = 500
	DefaultTickDuration = time.Minute
	DefaultMaxWaitTicks = 30
)

// DefaultStart is the simulated wall-clock time of tick 0
var DefaultStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
