package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gnahuy123/liftSim/pkg/policy"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads the service configuration. An empty filename uses the
// defaults; values from envFile and the process environment are applied on top.
func LoadConfig(filename, envFile string) (*Config, error) {
	config := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(config, envFile); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.ListenAddr == "" {
		return errors.New("listenAddr is required")
	}

	if config.MinFloor >= config.MaxFloor {
		return fmt.Errorf("minFloor (%d) must be below maxFloor (%d)", config.MinFloor, config.MaxFloor)
	}

	if config.SessionTimeout <= 0 {
		return errors.New("sessionTimeout must be greater than 0")
	}

	if config.SweepInterval <= 0 {
		return errors.New("sweepInterval must be greater than 0")
	}

	return nil
}

// LoadScenario loads and validates a scenario file
func LoadScenario(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	scenario.applyDefaults()
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func (s *Scenario) applyDefaults() {
	if len(s.Policies) == 0 {
		s.Policies = []string{policy.DefaultName}
	}
	if s.MinFloor == 0 && s.MaxFloor == 0 {
		s.MaxFloor = 10
	}
	if s.MaxTicks == 0 {
		s.MaxTicks = DefaultMaxTicks
	}
	if s.TickDuration == 0 {
		s.TickDuration = DefaultTickDuration
	}
	if s.Start.IsZero() {
		s.Start = DefaultStart
	}
	if s.MaxWaitTicks == 0 {
		s.MaxWaitTicks = DefaultMaxWaitTicks
	}
	for i := range s.Streams {
		if s.Streams[i].TriggerType == TriggerTypeRandom && s.Streams[i].Window == 0 {
			s.Streams[i].Window = s.MaxTicks / 2
		}
	}
}

// validateScenario validates a scenario after defaults are applied
func validateScenario(s *Scenario) error {
	if len(s.Policies) > 2 {
		return fmt.Errorf("at most two policies can be compared, got %d", len(s.Policies))
	}

	if s.MinFloor >= s.MaxFloor {
		return fmt.Errorf("minFloor (%d) must be below maxFloor (%d)", s.MinFloor, s.MaxFloor)
	}

	if s.MaxTicks < 0 || s.TickDuration < 0 || s.MaxWaitTicks < 0 {
		return errors.New("maxTicks, tickDuration and maxWaitTicks must not be negative")
	}

	if len(s.Streams) == 0 {
		return errors.New("at least one stream must be defined")
	}

	inBounds := func(floor int) bool { return floor >= s.MinFloor && floor <= s.MaxFloor }

	for i, stream := range s.Streams {
		if stream.Name == "" {
			return fmt.Errorf("stream %d: name is required", i)
		}

		switch stream.TriggerType {
		case TriggerTypeFixed, TriggerTypeCron:
			if stream.Origin == stream.Destination {
				return fmt.Errorf("stream %s: origin and destination must differ", stream.Name)
			}
			if !inBounds(stream.Origin) || !inBounds(stream.Destination) {
				return fmt.Errorf("stream %s: floors must be within [%d, %d]", stream.Name, s.MinFloor, s.MaxFloor)
			}
		case TriggerTypeRandom:
			if stream.Count <= 0 {
				return fmt.Errorf("stream %s: count must be greater than 0", stream.Name)
			}
			if stream.Window <= 0 {
				return fmt.Errorf("stream %s: window must be greater than 0", stream.Name)
			}
		default:
			return fmt.Errorf("stream %s: triggerType must be one of 'fixed', 'cron' or 'random'", stream.Name)
		}

		if stream.TriggerType == TriggerTypeFixed {
			if len(stream.Ticks) == 0 {
				return fmt.Errorf("stream %s: ticks are required for fixed streams", stream.Name)
			}
			for _, tick := range stream.Ticks {
				if tick < 0 {
					return fmt.Errorf("stream %s: tick %d is negative", stream.Name, tick)
				}
			}
		}

		if stream.TriggerType == TriggerTypeCron && stream.CronSchedule == "" {
			return fmt.Errorf("stream %s: cronSchedule is required for cron streams", stream.Name)
		}
	}

	return nil
}
