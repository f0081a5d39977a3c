// Package config reads the server's runtime settings from the environment.
package config

import (
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvLogLevel = "IMAGE_EFFECTS_LOG_LEVEL"
	EnvWorkers  = "IMAGE_EFFECTS_WORKERS"
	EnvSeed     = "IMAGE_EFFECTS_SEED"
)

// Config holds the settings of one server process.
type Config struct {
	// Debug enables verbose logging in the server and the render core.
	Debug bool

	// Workers bounds the goroutines used by parallel renders (GOMAXPROCS).
	Workers int

	// Seed is the default frosted-glass seed. Zero means seed from the clock.
	Seed uint64
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{Workers: runtime.NumCPU()}
}

// Load reads the configuration from the process environment.
func Load() Config {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a configuration from an environment lookup function.
// Unparseable values are logged and replaced by their defaults.
func FromLookup(lookup func(string) (string, bool)) Config {
	cfg := Default()

	if v, ok := lookup(EnvLogLevel); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "debug":
			cfg.Debug = true
		case "", "info", "warn", "error":
		default:
			log.Printf("config: unknown %s %q, using info", EnvLogLevel, v)
		}
	}

	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 {
			log.Printf("config: invalid %s %q, using %d", EnvWorkers, v, cfg.Workers)
		} else {
			cfg.Workers = n
		}
	}

	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			log.Printf("config: invalid %s %q, seeding from the clock", EnvSeed, v)
		} else {
			cfg.Seed = seed
		}
	}

	return cfg
}
