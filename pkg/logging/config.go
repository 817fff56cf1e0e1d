package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// LogFormat represents the output format for logs
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// LogOutput represents the destination for logs
type LogOutput string

const (
	LogOutputStdout LogOutput = "stdout"
	LogOutputStderr LogOutput = "stderr"
	LogOutputFile   LogOutput = "file"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Config represents the logging configuration
type Config struct {
	Level  LogLevel  `yaml:"level" json:"level"`
	Format LogFormat `yaml:"format" json:"format"`
	Output LogOutput `yaml:"output" json:"output"`

	// FilePath is used when Output is "file"
	FilePath string `yaml:"filePath,omitempty" json:"filePath,omitempty"`

	// Component-specific log levels
	ComponentLevels map[string]LogLevel `yaml:"componentLevels,omitempty" json:"componentLevels,omitempty"`

	// Request tracking
	EnableRequestID bool `yaml:"enableRequestId" json:"enableRequestId"`

	// Development settings
	EnableCaller bool `yaml:"enableCaller" json:"enableCaller"`
}

// DefaultConfig returns a default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:           LogLevelInfo,
		Format:          LogFormatJSON,
		Output:          LogOutputStderr,
		EnableRequestID: true,
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, "":
	default:
		return fmt.Errorf("invalid log level: %s", c.Level)
	}

	switch c.Format {
	case LogFormatJSON, LogFormatText, "":
	default:
		return fmt.Errorf("invalid log format: %s", c.Format)
	}

	switch c.Output {
	case LogOutputStdout, LogOutputStderr, "":
	case LogOutputFile:
		if c.FilePath == "" {
			return fmt.Errorf("filePath is required when output is file")
		}
	default:
		return fmt.Errorf("invalid log output: %s", c.Output)
	}

	for component, level := range c.ComponentLevels {
		switch level {
		case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		default:
			return fmt.Errorf("invalid log level %q for component %q", level, component)
		}
	}

	return nil
}

// GetLevelForComponent returns the effective level for a component
func (c *Config) GetLevelForComponent(component string) LogLevel {
	if level, exists := c.ComponentLevels[component]; exists {
		return level
	}
	return c.Level
}

// ParseLevel converts a level string to a LogLevel, defaulting to info
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LogLevelDebug
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// SlogLevel converts a LogLevel to the slog equivalent
func SlogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
