// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format  string `yaml:"format"`
		Verbose bool   `yaml:"verbose"`
		Debug   bool   `yaml:"debug"`
		NoColor bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Redaction configurations
	Redaction struct {
		Label        string  `yaml:"label"`
		BorderExpand float64 `yaml:"border_expand"`
		PreviewZoom  float64 `yaml:"preview_zoom"`
	} `yaml:"redaction"`

	// Upload and processing limits
	Limits struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"limits"`

	// HTTP server settings
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	// Result storage settings
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.Verbose = false
	config.Defaults.Debug = false
	config.Defaults.NoColor = false
	config.Redaction.Label = "[REDACTED]"
	config.Redaction.BorderExpand = 2.0
	config.Redaction.PreviewZoom = 2.0
	config.Limits.MaxFileSizeMB = 50
	config.Server.Host = "0.0.0.0"
	config.Server.Port = 8080
	config.Storage.Path = "docuscrub.db"

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfig checks the configuration for values the application
// cannot run with.
func ValidateConfig(config *Config) error {
	switch config.Defaults.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", config.Defaults.Format)
	}
	if config.Redaction.Label == "" {
		return fmt.Errorf("redaction label must not be empty")
	}
	if config.Redaction.BorderExpand < 0 {
		return fmt.Errorf("redaction border_expand must not be negative")
	}
	if config.Redaction.PreviewZoom <= 0 {
		return fmt.Errorf("redaction preview_zoom must be positive")
	}
	if config.Limits.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive")
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}
	if config.Storage.Path == "" {
		return fmt.Errorf("storage path must not be empty")
	}
	return nil
}

// MaxFileSizeBytes converts the configured limit to bytes
func (c *Config) MaxFileSizeBytes() int {
	return c.Limits.MaxFileSizeMB * 1024 * 1024
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first
	if fileExists("config.yaml") {
		return "config.yaml"
	}
	if fileExists("docuscrub.yaml") {
		return "docuscrub.yaml"
	}
	if fileExists("docuscrub.yml") {
		return "docuscrub.yml"
	}
	if fileExists(".docuscrub.yaml") {
		return ".docuscrub.yaml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// Check XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	xdgConfigFile := filepath.Join(xdgConfig, "docuscrub", "config.yaml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}

	homeConfig := filepath.Join(home, ".docuscrub.yaml")
	if fileExists(homeConfig) {
		return homeConfig
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
