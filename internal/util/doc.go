// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides file and string helpers shared by onexport.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//   - AtomicCopyFile: Crash-safe file copy, creating parent directories
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//
// # Usage
//
//	// Copy a section file without ever leaving a half-written target
//	n, err := util.AtomicCopyFile(src, dst, 0644)
//
//	// Truncate long section names safely for display
//	display := util.TruncateRunes(section.FullName(), 50)
package util
