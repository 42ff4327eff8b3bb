package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinFloor != 0 || cfg.MaxFloor != 10 || cfg.DefaultPolicy != "scan" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTimeout != 30*time.Minute {
		t.Errorf("session timeout = %s", cfg.SessionTimeout)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
listenAddr: ":9090"
maxFloor: 20
sessionTimeout: 10m
corsOrigins:
  - https://lifts.example
`)
	cfg, err := LoadConfig(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":9090" || cfg.MaxFloor != 20 || cfg.SessionTimeout != 10*time.Minute {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://lifts.example" {
		t.Errorf("cors origins = %v", cfg.CORSOrigins)
	}
	// untouched keys keep their defaults
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("sweep interval = %s", cfg.SweepInterval)
	}
}

func TestLoadConfigEnvOverlay(t *testing.T) {
	envFile := writeFile(t, ".env", "LIFTSIM_MAX_FLOOR=15\nLIFTSIM_DEFAULT_POLICY=sstf\nCORS_ORIGINS=http://a.test, http://b.test\n")
	t.Setenv(EnvDefaultPolicy, "nearest")

	cfg, err := LoadConfig("", envFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxFloor != 15 {
		t.Errorf("max floor = %d, want 15 from .env", cfg.MaxFloor)
	}
	if cfg.DefaultPolicy != "nearest" {
		t.Errorf("default policy = %q, process env should win", cfg.DefaultPolicy)
	}
	if strings.Join(cfg.CORSOrigins, "|") != "http://a.test|http://b.test" {
		t.Errorf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigMissingEnvFileIsIgnored(t *testing.T) {
	if _, err := LoadConfig("", filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"inverted floors": "minFloor: 5\nmaxFloor: 5\n",
		"bad timeout":     "sessionTimeout: -1m\n",
		"not yaml":        "listenAddr: [unterminated\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeFile(t, "config.yaml", content), ""); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadConfigBadEnvValue(t *testing.T) {
	t.Setenv(EnvSessionTimeout, "forever")
	if _, err := LoadConfig("", ""); err == nil {
		t.Error("expected an error for an unparsable duration")
	}
}

func TestLoadScenario(t *testing.T) {
	path := writeFile(t, "scenario.yaml", `
name: morning rush
policies: [scan, sstf]
streams:
  - name: lobby
    triggerType: cron
    cronSchedule: "*/5 * * * *"
    origin: 0
    destination: 8
  - name: visitors
    triggerType: fixed
    origin: 3
    destination: 1
    ticks: [0, 4]
  - name: background
    triggerType: random
    count: 10
    seed: 7
`)
	s, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxFloor != 10 || s.MaxTicks != DefaultMaxTicks || s.TickDuration != time.Minute {
		t.Errorf("defaults not applied: %+v", s)
	}
	if !s.Start.Equal(DefaultStart) {
		t.Errorf("start = %s", s.Start)
	}
	if s.Streams[2].Window != DefaultMaxTicks/2 {
		t.Errorf("random window = %d", s.Streams[2].Window)
	}
	if len(s.Policies) != 2 || s.Policies[1] != "sstf" {
		t.Errorf("policies = %v", s.Policies)
	}
}

func TestLoadScenarioInvalid(t *testing.T) {
	tests := map[string]string{
		"no streams":       "name: empty\n",
		"three policies":   "policies: [scan, sstf, nearest]\nstreams: [{name: a, triggerType: fixed, origin: 0, destination: 1, ticks: [0]}]\n",
		"same floors":      "streams: [{name: a, triggerType: fixed, origin: 2, destination: 2, ticks: [0]}]\n",
		"out of bounds":    "streams: [{name: a, triggerType: cron, cronSchedule: '* * * * *', origin: 0, destination: 11}]\n",
		"cron no schedule": "streams: [{name: a, triggerType: cron, origin: 0, destination: 1}]\n",
		"fixed no ticks":   "streams: [{name: a, triggerType: fixed, origin: 0, destination: 1}]\n",
		"random no count":  "streams: [{name: a, triggerType: random}]\n",
		"unknown trigger":  "streams: [{name: a, triggerType: poisson, origin: 0, destination: 1}]\n",
		"missing name":     "streams: [{triggerType: fixed, origin: 0, destination: 1, ticks: [0]}]\n",
		"negative tick":    "streams: [{name: a, triggerType: fixed, origin: 0, destination: 1, ticks: [-2]}]\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadScenario(writeFile(t, "scenario.yaml", content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
