// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backup

// =============================================================================
// CATALOG
// =============================================================================

// BackupVersions returns the distinct backup labels of sections in
// first-seen order.
func BackupVersions(sections []Section) []string {
	seen := make(map[string]struct{})
	var versions []string
	for _, s := range sections {
		if _, ok := seen[s.Backup]; ok {
			continue
		}
		seen[s.Backup] = struct{}{}
		versions = append(versions, s.Backup)
	}
	return versions
}

// FilterByVersion returns the sections whose label equals version,
// in their original relative order.
func FilterByVersion(sections []Section, version string) []Section {
	var out []Section
	for _, s := range sections {
		if s.Backup == version {
			out = append(out, s)
		}
	}
	return out
}

// CountByVersion returns how many sections each backup label has.
func CountByVersion(sections []Section) map[string]int {
	counts := make(map[string]int)
	for _, s := range sections {
		counts[s.Backup]++
	}
	return counts
}
