package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	StorageType string         `yaml:"storageType"`
	StoragePath string         `yaml:"storagePath"`
	HTTPPort    int            `yaml:"httpPort"`
	LogLevel    string         `yaml:"logLevel"`
	Sqlite      SqliteSettings `yaml:"sqlite"`
	Query       QuerySettings  `yaml:"query"`
	HTTP        HTTPSettings   `yaml:"http"`
}

// HTTPSettings tunes the HTTP transport. Timeouts are in seconds.
type HTTPSettings struct {
	Host         string `yaml:"host"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	EnableCORS   bool   `yaml:"enableCors"`
}

type SqliteSettings struct {
	WALMode bool `yaml:"walMode"`
}

// QuerySettings tunes the graph-search engine.
type QuerySettings struct {
	// MaxConcurrentFetches bounds how many relation lookups a single
	// traversal may have in flight at once. Zero uses the default.
	MaxConcurrentFetches int `yaml:"maxConcurrentFetches"`
}

// DefaultMaxConcurrentFetches is used when the setting is absent.
const DefaultMaxConcurrentFetches = 16

// Validate validates the configuration settings
func (s *Settings) Validate() error {
	// Validate LogLevel - must be one of [debug, info, warn, error] (case-insensitive)
	// Empty log level is allowed and will use default
	if s.LogLevel != "" {
		validLogLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		normalizedLogLevel := strings.ToLower(s.LogLevel)
		if !validLogLevels[normalizedLogLevel] {
			return fmt.Errorf("logLevel must be one of [debug, info, warn, error], got '%s'", s.LogLevel)
		}
		s.LogLevel = normalizedLogLevel
	}

	// Validate StorageType - must be one of [memory, sqlite] (case-insensitive)
	validStorageTypes := map[string]bool{
		"memory": true,
		"sqlite": true,
		"":       true, // Empty defaults to memory
	}
	normalizedStorageType := strings.ToLower(s.StorageType)
	if !validStorageTypes[normalizedStorageType] {
		return fmt.Errorf("storageType must be one of [memory, sqlite], got '%s'", s.StorageType)
	}
	s.StorageType = normalizedStorageType

	if s.HTTPPort < 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("httpPort must be between 0 and 65535, got %d", s.HTTPPort)
	}

	if normalizedStorageType == "sqlite" && strings.TrimSpace(s.StoragePath) == "" {
		return fmt.Errorf("storagePath cannot be empty when storageType is sqlite")
	}

	if s.HTTP.ReadTimeout < 0 || s.HTTP.WriteTimeout < 0 {
		return fmt.Errorf("http timeouts cannot be negative")
	}
	if s.HTTP.ReadTimeout == 0 {
		s.HTTP.ReadTimeout = 30
	}
	if s.HTTP.WriteTimeout == 0 {
		s.HTTP.WriteTimeout = 30
	}

	if s.Query.MaxConcurrentFetches < 0 {
		return fmt.Errorf("query.maxConcurrentFetches cannot be negative, got %d", s.Query.MaxConcurrentFetches)
	}
	if s.Query.MaxConcurrentFetches == 0 {
		s.Query.MaxConcurrentFetches = DefaultMaxConcurrentFetches
	}

	return nil
}

func Load(path string) (*Settings, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	err = yaml.Unmarshal(bytes, &settings)
	if err != nil {
		return nil, err
	}

	// Validate the configuration after unmarshaling
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &settings, nil
}
