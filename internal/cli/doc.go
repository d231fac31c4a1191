// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the onexport command line.
//
// The root command runs the interactive export Session: pick a notebook,
// pick a backup version, pick a destination, confirm, copy. The
// non-interactive commands report on the same data.
//
// # Commands Overview
//
//   - onexport: interactive export
//   - list [notebook]: notebooks, or the backup versions of one notebook
//   - history [--limit N]: recorded export runs
//   - config show|init|path: configuration file management
//   - version: build information
//
// Persistent flags: --config, --root, --verbose, --no-color.
//
// # Output
//
// User-facing output is plain text styled with lipgloss; colors follow
// NO_COLOR, FORCE_COLOR, --no-color and TTY detection. Diagnostics go to
// the zap log file, and to stderr with --verbose.
//
// # Exit Codes
//
//   - 0: success, or the user cancelled or declined
//   - 1: general error (including a failed copy)
//   - 2: usage error
//   - 3: configuration error
//   - 7: backup root or notebook not found
package cli
