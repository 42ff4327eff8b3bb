package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognised on top of the config file
const (
	EnvListenAddr     = "LIFTSIM_LISTEN_ADDR"
	EnvMaxFloor       = "LIFTSIM_MAX_FLOOR"
	EnvDefaultPolicy  = "LIFTSIM_DEFAULT_POLICY"
	EnvSessionTimeout = "LIFTSIM_SESSION_TIMEOUT"
	EnvLogLevel       = "LIFTSIM_LOG_LEVEL"
	EnvCORSOrigins    = "CORS_ORIGINS"
)

// applyEnv overlays values from envFile and then the process environment.
// A missing envFile is not an error.
func applyEnv(config *Config, envFile string) error {
	values := map[string]string{}
	if envFile != "" {
		fileValues, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}

	if v, ok := lookup(EnvListenAddr); ok {
		config.ListenAddr = v
	}
	if v, ok := lookup(EnvDefaultPolicy); ok {
		config.DefaultPolicy = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		config.LogLevel = v
	}
	if v, ok := lookup(EnvMaxFloor); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxFloor, err)
		}
		config.MaxFloor = n
	}
	if v, ok := lookup(EnvSessionTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSessionTimeout, err)
		}
		config.SessionTimeout = d
	}
	if v, ok := lookup(EnvCORSOrigins); ok {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		config.CORSOrigins = origins
	}

	return nil
}
