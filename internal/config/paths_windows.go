// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows

package config

import (
	"os"
	"path/filepath"
)

// DefaultBackupRoot returns the folder OneNote 2016 writes automatic
// backups to: %LOCALAPPDATA%\Microsoft\OneNote\16.0\备份.
func DefaultBackupRoot() (string, error) {
	local := os.Getenv("LOCALAPPDATA")
	if local == "" {
		return "", ErrNoBackupRoot
	}
	return filepath.Join(local, "Microsoft", "OneNote", "16.0", "备份"), nil
}
