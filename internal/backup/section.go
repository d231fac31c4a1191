// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backup

import (
	"path/filepath"
	"strings"
)

// =============================================================================
// SECTION
// =============================================================================

// Section is one backed-up section file of a notebook.
// Sections are built by a Scanner and never mutated afterwards.
type Section struct {
	// Notebook is the owning notebook (directory under the backup root).
	Notebook string

	// Hierarchy is the folder path from the notebook root to the section's
	// parent folder. It never contains the notebook name.
	Hierarchy []string

	// Name is the section display name.
	Name string

	// Backup is the opaque version label embedded in the file name.
	Backup string

	// Marker is the localized word between the parenthesis and the label.
	Marker string
}

// FullNameSeparator joins hierarchy elements and the name in FullName.
const FullNameSeparator = " / "

// FullName returns the hierarchy and name joined for display,
// e.g. "Projects / 2023 / Planning".
func (s Section) FullName() string {
	parts := make([]string, 0, len(s.Hierarchy)+1)
	parts = append(parts, s.Hierarchy...)
	parts = append(parts, s.Name)
	return strings.Join(parts, FullNameSeparator)
}

// FileName returns the name of the backup file this section was parsed from.
func (s Section) FileName() string {
	return FormatFileName(s.Name, s.Marker, s.Backup)
}

// ExportFileName returns the file name used at the export destination.
// The backup label is dropped.
func (s Section) ExportFileName() string {
	return s.Name + FileSuffix
}

// SourcePath reconstructs the absolute location of the backup file.
func (s Section) SourcePath(backupRoot string) string {
	return s.path(backupRoot, s.FileName())
}

// DestinationPath returns where the section is written under destRoot.
func (s Section) DestinationPath(destRoot string) string {
	return s.path(destRoot, s.ExportFileName())
}

func (s Section) path(root, file string) string {
	elems := make([]string, 0, len(s.Hierarchy)+3)
	elems = append(elems, root, s.Notebook)
	elems = append(elems, s.Hierarchy...)
	elems = append(elems, file)
	return filepath.Join(elems...)
}
