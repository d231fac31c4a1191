// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build unix

package backup

import (
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Scan_SkipsNamedPipe(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "Work/Intro.one (于 2023-01-01).one")
	pipe := filepath.Join(root, "Work", "Pipe.one (于 2023-01-01).one")
	if err := syscall.Mkfifo(pipe, 0644); err != nil {
		t.Skipf("mkfifo unavailable: %v", err)
	}

	result, err := NewScanner(root, nil, nil).Scan("Work")
	require.NoError(t, err)
	require.Len(t, result.Sections, 1)
	assert.Equal(t, "Intro", result.Sections[0].Name)
	assert.Empty(t, result.Malformed)
}
