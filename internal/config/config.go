// Package config holds the lockstep configuration, loaded through viper
// from a config file, environment variables and flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config represents the complete lockstep configuration
type Config struct {
	Runner  RunnerConfig  `mapstructure:"runner"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Sim     SimConfig     `mapstructure:"sim"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RunnerConfig controls how a tick's batch is dispatched
type RunnerConfig struct {
	// Workers is the worker pool size for the parallel runner.
	// 0 means "number of CPUs".
	Workers int `mapstructure:"workers"`
	// Serial switches to the serial runner, executing systems in
	// registration order on one goroutine. Useful for debugging.
	Serial bool `mapstructure:"serial"`
}

// EngineConfig controls the tick loop
type EngineConfig struct {
	// Ticks is the number of simulation ticks to run
	Ticks int64 `mapstructure:"ticks"`
	// SnapshotInterval takes a state snapshot every N ticks (0 = disabled)
	SnapshotInterval int64 `mapstructure:"snapshot_interval"`
}

// SimConfig controls the demo simulation built by the CLI
type SimConfig struct {
	// Systems is the number of demo systems to register
	Systems int `mapstructure:"systems"`
	// Seed seeds the demo systems' random walks
	Seed int64 `mapstructure:"seed"`
}

// LoggingConfig controls the structured run log
type LoggingConfig struct {
	// Level is the log level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Dir is the run directory for run.log; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Runner: RunnerConfig{
			Workers: runtime.GOMAXPROCS(0),
			Serial:  false,
		},
		Engine: EngineConfig{
			Ticks:            100,
			SnapshotInterval: 50,
		},
		Sim: SimConfig{
			Systems: 8,
			Seed:    1,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
	}
}

// SetDefaults registers the default values with viper so they apply
// even without a config file
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("runner.workers", defaults.Runner.Workers)
	viper.SetDefault("runner.serial", defaults.Runner.Serial)

	viper.SetDefault("engine.ticks", defaults.Engine.Ticks)
	viper.SetDefault("engine.snapshot_interval", defaults.Engine.SnapshotInterval)

	viper.SetDefault("sim.systems", defaults.Sim.Systems)
	viper.SetDefault("sim.seed", defaults.Sim.Seed)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load unmarshals and validates the current viper state
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lockstep")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lockstep"
	}
	return filepath.Join(home, ".config", "lockstep")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
