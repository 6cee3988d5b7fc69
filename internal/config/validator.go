package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "runner.workers")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all
// validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.validateRunner()...)
	errors = append(errors, c.validateEngine()...)
	errors = append(errors, c.validateSim()...)
	errors = append(errors, c.validateLogging()...)
	return errors
}

func (c *Config) validateRunner() []ValidationError {
	var errors []ValidationError
	if c.Runner.Workers < 0 {
		errors = append(errors, ValidationError{
			Field:   "runner.workers",
			Value:   c.Runner.Workers,
			Message: "must be zero (auto) or positive",
		})
	}
	return errors
}

func (c *Config) validateEngine() []ValidationError {
	var errors []ValidationError
	if c.Engine.Ticks < 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.ticks",
			Value:   c.Engine.Ticks,
			Message: "must be zero or positive",
		})
	}
	if c.Engine.SnapshotInterval < 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.snapshot_interval",
			Value:   c.Engine.SnapshotInterval,
			Message: "must be zero (disabled) or positive",
		})
	}
	return errors
}

func (c *Config) validateSim() []ValidationError {
	var errors []ValidationError
	if c.Sim.Systems < 0 {
		errors = append(errors, ValidationError{
			Field:   "sim.systems",
			Value:   c.Sim.Systems,
			Message: "must be zero or positive",
		})
	}
	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	return errors
}
