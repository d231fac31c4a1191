// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error values and exit codes shared by all onexport commands.
//
// Commands always return errors; Execute decides how to display them and
// which exit code to use.

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/onexport/internal/backup"
	"github.com/jeranaias/onexport/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution (including a cancelled session)
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNotFoundError indicates the backup root or a notebook was not found
	ExitNotFoundError = 7
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrCancelled is returned when the user aborts a prompt (Ctrl-C or EOF).
var ErrCancelled = errors.New("cancelled")

// UsageError represents invalid command usage.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return e.Reason
}

// NewUsageError creates a UsageError with a formatted reason.
func NewUsageError(format string, args ...any) error {
	return &UsageError{Reason: fmt.Sprintf(format, args...)}
}

// GetExitCode determines the exit code for an error returned by a command.
func GetExitCode(err error) int {
	if err == nil || errors.Is(err, ErrCancelled) {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var validationErrs config.ValidateErrors
	var validationErr config.ValidationError
	if errors.As(err, &validationErrs) || errors.As(err, &validationErr) ||
		errors.Is(err, config.ErrNoBackupRoot) {
		return ExitConfigError
	}

	if errors.Is(err, backup.ErrNotFound) {
		return ExitNotFoundError
	}

	return ExitGeneralError
}
