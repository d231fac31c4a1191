// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows

package config

// DefaultBackupRoot has no value outside Windows; the desktop application
// only runs there. Backups copied to another machine need backup.root.
func DefaultBackupRoot() (string, error) {
	return "", ErrNoBackupRoot
}
