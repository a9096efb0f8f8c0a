// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Defaults.Format)
	assert.Equal(t, "[REDACTED]", cfg.Redaction.Label)
	assert.Equal(t, 2.0, cfg.Redaction.BorderExpand)
	assert.Equal(t, 2.0, cfg.Redaction.PreviewZoom)
	assert.Equal(t, 50, cfg.Limits.MaxFileSizeMB)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "docuscrub.db", cfg.Storage.Path)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
defaults:
  format: json
  debug: true
redaction:
  label: "[HIDDEN]"
  border_expand: 3.5
limits:
  max_file_size_mb: 10
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Defaults.Format)
	assert.True(t, cfg.Defaults.Debug)
	assert.Equal(t, "[HIDDEN]", cfg.Redaction.Label)
	assert.Equal(t, 3.5, cfg.Redaction.BorderExpand)
	assert.Equal(t, 10, cfg.Limits.MaxFileSizeMB)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Values absent from the file keep their defaults.
	assert.Equal(t, 2.0, cfg.Redaction.PreviewZoom)
	assert.Equal(t, "docuscrub.db", cfg.Storage.Path)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults: [not a map"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad format", func(c *Config) { c.Defaults.Format = "xml" }, true},
		{"empty label", func(c *Config) { c.Redaction.Label = "" }, true},
		{"negative border", func(c *Config) { c.Redaction.BorderExpand = -1 }, true},
		{"zero zoom", func(c *Config) { c.Redaction.PreviewZoom = 0 }, true},
		{"zero size limit", func(c *Config) { c.Limits.MaxFileSizeMB = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty storage path", func(c *Config) { c.Storage.Path = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaxFileSizeBytes(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 50*1024*1024, cfg.MaxFileSizeBytes())
}
