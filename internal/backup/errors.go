// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backup

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when the backup root or a notebook directory
	// is missing or cannot be read.
	ErrNotFound = errors.New("backup directory not found")

	// ErrEmpty is returned when the backup root holds no notebooks.
	ErrEmpty = errors.New("no notebooks in backup directory")

	// ErrMalformedName matches every *MalformedNameError.
	ErrMalformedName = errors.New("malformed backup file name")
)

// MalformedNameError describes a backup-suffixed file whose name does not
// follow the "<name>.one (<marker> <label>).one" pattern.
type MalformedNameError struct {
	// Path is the file location, when known (set by the Scanner).
	Path     string
	FileName string
	Reason   string
}

func (e *MalformedNameError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed backup file name %q (%s): %s", e.FileName, e.Path, e.Reason)
	}
	return fmt.Sprintf("malformed backup file name %q: %s", e.FileName, e.Reason)
}

// Is lets errors.Is(err, ErrMalformedName) match.
func (e *MalformedNameError) Is(target error) bool {
	return target == ErrMalformedName
}
