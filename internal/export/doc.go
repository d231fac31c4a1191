// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export copies selected backup sections into a destination tree.
//
// # Key Types
//
//   - Executor: bounded concurrent copier
//   - Progress: per-section completion event ("k of n")
//   - CopyError: the section whose copy failed
//
// # Layout
//
//	<backupRoot>/<notebook>/<hierarchy...>/<name>.one (<marker> <label>).one
//	    -> <destRoot>/<notebook>/<hierarchy...>/<name>.one
//
// # Usage
//
//	exec := export.New(backupRoot, export.Options{Concurrency: 8}, logger)
//	result, err := exec.ExportAll(ctx, sections, dest, func(p export.Progress) {
//	    fmt.Printf("[%d/%d] %s\n", p.Completed, p.Total, p.Section.FullName())
//	})
//
// Exports are not transactional: on failure the files already copied stay
// in place and nothing is retried.
package export
