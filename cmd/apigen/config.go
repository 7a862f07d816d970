package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tjoosten/ApiGen/pkg/templating"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// GeneratorConfig holds the inputs of the generator.
type GeneratorConfig struct {
	LogLevel string `json:"log_level" yaml:"log_level"`
	// DatabasePath is the SQLite catalog store.
	DatabasePath string `json:"database_path" yaml:"database_path"`
	// CatalogPath is a JSON or YAML catalog snapshot. When set, it is read
	// instead of the database.
	CatalogPath string `json:"catalog_path" yaml:"catalog_path"`
	// SourceDir is the root the catalog's file names are relative to.
	SourceDir   string `json:"source_dir" yaml:"source_dir"`
	TemplateDir string `json:"template_dir" yaml:"template_dir"`
}

// ServerConfig holds the configuration of the preview server.
type ServerConfig struct {
	Addr           string `json:"addr" yaml:"addr"`
	WatchTemplates bool   `json:"watch_templates" yaml:"watch_templates"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Generator *GeneratorConfig           `json:"generator_config" yaml:"generator_config"`
	Templates *templating.TemplateConfig `json:"template_config" yaml:"template_config"`
	Server    *ServerConfig              `json:"server_config" yaml:"server_config"`
}

// DefaultGeneratorConfig creates a generator configuration with default values.
func DefaultGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		LogLevel:     "info",
		DatabasePath: "./data/catalog.db",
		CatalogPath:  "",
		SourceDir:    ".",
		TemplateDir:  "./templates",
	}
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:           ":7280",
		WatchTemplates: true,
	}
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	templates := templating.DefaultConfig()
	return &Config{
		Generator: DefaultGeneratorConfig(),
		Templates: &templates,
		Server:    DefaultServerConfig(),
	}
}

// isYAML reports whether path names a YAML file.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig reads the configuration from a JSON or YAML file at the given
// path. Settings missing from the file keep their defaults. If the file
// doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = marshalConfig(config, isYAML(path))
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The generator can still run with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(file, config)
	} else {
		err = json.Unmarshal(file, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Sections set to null in the file fall back to their defaults.
	if config.Generator == nil {
		config.Generator = DefaultGeneratorConfig()
	}
	if config.Templates == nil {
		templates := templating.DefaultConfig()
		config.Templates = &templates
	}
	if config.Server == nil {
		config.Server = DefaultServerConfig()
	}
	return config, nil
}

func marshalConfig(config *Config, asYAML bool) ([]byte, error) {
	if !asYAML {
		return json.MarshalIndent(config, "", "  ")
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(config); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
