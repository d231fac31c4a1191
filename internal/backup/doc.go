// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backup discovers the section backups OneNote keeps on disk.
//
// The application stores backups as
//
//	<root>/<notebook>/<folder>/.../<section>.one (<marker> <label>).one
//
// where <marker> is a localized word ("于" in the Chinese UI) and <label>
// identifies the snapshot, usually a date.
//
// # Key Types
//
//   - Section: one backed-up section file
//   - Parser: splits backup file names into name and label
//   - Scanner: lists notebooks and walks a notebook depth first
//
// # Usage
//
//	scanner := backup.NewScanner(root, backup.NewParser(), logger)
//	result, err := scanner.Scan("Work")
//	versions := backup.BackupVersions(result.Sections)
//	selected := backup.FilterByVersion(result.Sections, versions[0])
package backup
