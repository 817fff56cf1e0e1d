package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Factory creates and manages loggers for different components
type Factory struct {
	config  *Config
	loggers map[string]*slog.Logger
	mu      sync.RWMutex

	handler slog.Handler
	file    *os.File
}

// NewFactory creates a new logger factory
func NewFactory(config *Config) (*Factory, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	f := &Factory{
		config:  config,
		loggers: make(map[string]*slog.Logger),
	}

	if err := f.initializeHandler(); err != nil {
		return nil, fmt.Errorf("failed to initialize handler: %w", err)
	}

	return f, nil
}

// initializeHandler creates the base slog handler
func (f *Factory) initializeHandler() error {
	var writer io.Writer

	switch f.config.Output {
	case LogOutputStdout:
		writer = os.Stdout
	case LogOutputFile:
		file, err := os.OpenFile(f.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		f.file = file
		writer = file
	default:
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     SlogLevel(f.config.Level),
		AddSource: f.config.EnableCaller,
	}

	switch f.config.Format {
	case LogFormatText:
		f.handler = slog.NewTextHandler(writer, opts)
	default:
		f.handler = slog.NewJSONHandler(writer, opts)
	}

	return nil
}

// GetLogger returns a logger for a specific component
func (f *Factory) GetLogger(component string) *slog.Logger {
	f.mu.RLock()
	if logger, exists := f.loggers[component]; exists {
		f.mu.RUnlock()
		return logger
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring write lock
	if logger, exists := f.loggers[component]; exists {
		return logger
	}

	level := f.config.GetLevelForComponent(component)
	handler := f.handler

	// If component has a different level, wrap the handler
	if level != f.config.Level {
		handler = NewLevelHandler(handler, SlogLevel(level))
	}

	logger := slog.New(handler).With(
		slog.String("component", component),
	)

	f.loggers[component] = logger
	return logger
}

// Close releases resources held by the factory
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file != nil {
		err := f.file.Close()
		f.file = nil
		return err
	}
	return nil
}

// Global factory instance
var (
	globalFactory *Factory
	globalMu      sync.RWMutex
)

// Initialize sets up the global logger factory
func Initialize(config *Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalFactory != nil {
		if err := globalFactory.Close(); err != nil {
			return fmt.Errorf("failed to close existing factory: %w", err)
		}
	}

	factory, err := NewFactory(config)
	if err != nil {
		return err
	}

	globalFactory = factory
	return nil
}

// GetGlobalLogger returns a logger from the global factory
func GetGlobalLogger(component string) *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	if globalFactory == nil {
		// Return default logger if not initialized
		return slog.Default()
	}

	return globalFactory.GetLogger(component)
}

// Shutdown gracefully shuts down the global logging factory
func Shutdown() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalFactory == nil {
		return nil
	}

	err := globalFactory.Close()
	globalFactory = nil
	return err
}
