// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for onexport.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackupConfig: Backup root, filename markers, strict scanning
//   - ExportConfig: Copy concurrency and default destination
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (--root, --no-color, --verbose)
//   - Environment variables (ONEXPORT_*, NO_COLOR)
//   - ~/.onexport/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	root, err := cfg.BackupRoot()
package config
