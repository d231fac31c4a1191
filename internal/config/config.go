// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for onexport.
//
// Configuration file location (in order of precedence):
//   - the path given with --config
//   - $ONEXPORT_CONFIG_DIR/config.toml
//   - ~/.onexport/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/onexport/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete onexport configuration.
type Config struct {
	Backup  BackupConfig  `toml:"backup"`
	Export  ExportConfig  `toml:"export"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// BackupConfig describes where and how backups are discovered.
type BackupConfig struct {
	// Root is the application's backup directory.
	// Empty means the platform default (see DefaultBackupRoot).
	Root string `toml:"root"`
	// Markers are the localized words between "(" and the backup label,
	// e.g. "于" for the Chinese UI. Tried in order.
	Markers []string `toml:"markers"`
	// Strict aborts a scan on the first malformed backup file name
	// instead of reporting it and continuing.
	Strict bool `toml:"strict"`
}

// ExportConfig controls the export executor.
type ExportConfig struct {
	// Concurrency is the maximum number of files copied at once.
	Concurrency int `toml:"concurrency"`
	// DefaultDestination is offered when the destination prompt is left empty.
	DefaultDestination string `toml:"default_destination"`
}

// HistoryConfig controls the export run log.
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
	// Path is the SQLite database file (empty = ~/.onexport/history.db).
	Path string `toml:"path"`
}

// LogConfig controls the diagnostic log.
type LogConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `toml:"level"`
	// File is the log file (empty = ~/.onexport/onexport.log).
	File string `toml:"file"`
}

// UIConfig contains terminal output settings.
type UIConfig struct {
	NoColor bool `toml:"no_color"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

const (
	// DefaultConcurrency is the default number of parallel copies.
	DefaultConcurrency = 8

	// MaxConcurrency caps export.concurrency.
	MaxConcurrency = 256
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backup: BackupConfig{
			Root:    "",
			Markers: []string{"于"},
			Strict:  false,
		},
		Export: ExportConfig{
			Concurrency: DefaultConcurrency,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the onexport configuration directory path.
// ONEXPORT_CONFIG_DIR overrides the default ~/.onexport.
func ConfigDir() (string, error) {
	if dir := os.Getenv("ONEXPORT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".onexport"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the resolved history database location.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogPath returns the resolved log file location.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "onexport.log"), nil
}

// BackupRoot returns the configured backup root, falling back to the
// platform default.
func (c *Config) BackupRoot() (string, error) {
	if c.Backup.Root != "" {
		return c.Backup.Root, nil
	}
	return DefaultBackupRoot()
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file, falling back to
// defaults when it does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return LoadFromPath(path)
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return fillDefaults(cfg)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if len(cfg.Backup.Markers) == 0 {
		cfg.Backup.Markers = defaults.Backup.Markers
	}
	if cfg.Export.Concurrency == 0 {
		cfg.Export.Concurrency = defaults.Export.Concurrency
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
// RELIABILITY: Atomic write with fsync prevents a truncated config on crash
func SaveTOML(cfg *Config, path string) error {
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Encode renders the configuration as commented TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# onexport configuration file")
	fmt.Fprintln(&buf, "# Generated by onexport - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Backup.Root != "" && !filepath.IsAbs(c.Backup.Root) {
		errs = append(errs, ValidationError{
			Field:   "backup.root",
			Message: fmt.Sprintf("'%s' is not an absolute path", c.Backup.Root),
		})
	}

	for i, m := range c.Backup.Markers {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("backup.markers[%d]", i),
				Message: "marker cannot be empty",
			})
		}
		if strings.ContainsAny(m, "()") {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("backup.markers[%d]", i),
				Message: "marker cannot contain parentheses",
			})
		}
	}

	if c.Export.Concurrency < 1 || c.Export.Concurrency > MaxConcurrency {
		errs = append(errs, ValidationError{
			Field:   "export.concurrency",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", MaxConcurrency, c.Export.Concurrency),
		})
	}

	if c.Export.DefaultDestination != "" && !filepath.IsAbs(c.Export.DefaultDestination) {
		errs = append(errs, ValidationError{
			Field:   "export.default_destination",
			Message: fmt.Sprintf("'%s' is not an absolute path", c.Export.DefaultDestination),
		})
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - ONEXPORT_BACKUP_ROOT: overrides backup.root
//   - ONEXPORT_CONCURRENCY: overrides export.concurrency
//   - ONEXPORT_LOG_LEVEL: overrides log.level
//   - ONEXPORT_NO_HISTORY: "1" or "true" disables the history log
//   - NO_COLOR: any non-empty value sets ui.no_color
func (c *Config) ApplyEnvOverrides() {
	if root := os.Getenv("ONEXPORT_BACKUP_ROOT"); root != "" {
		c.Backup.Root = root
	}

	if v := os.Getenv("ONEXPORT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Export.Concurrency = n
		}
	}

	if level := os.Getenv("ONEXPORT_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}

	if v := os.Getenv("ONEXPORT_NO_HISTORY"); v == "1" || strings.EqualFold(v, "true") {
		c.History.Enabled = false
	}

	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}
}

// ErrNoBackupRoot is returned on platforms without a default backup root
// when none is configured.
var ErrNoBackupRoot = errors.New("no backup root configured; set backup.root, ONEXPORT_BACKUP_ROOT or --root")
