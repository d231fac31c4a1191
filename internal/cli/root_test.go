// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/onexport/internal/backup"
	"github.com/jeranaias/onexport/internal/config"
)

// isolate points the config directory at a temp dir and clears the
// environment overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ONEXPORT_CONFIG_DIR", dir)
	for _, key := range []string{"ONEXPORT_BACKUP_ROOT", "ONEXPORT_CONCURRENCY", "ONEXPORT_LOG_LEVEL", "ONEXPORT_NO_HISTORY", "NO_COLOR"} {
		t.Setenv(key, "")
	}
	return dir
}

type runResult struct {
	code   int
	stdout string
	stderr string
}

// run executes the command line with answers fed to any interactive prompt.
func run(t *testing.T, args []string, answers ...string) runResult {
	t.Helper()
	a := newApp()
	reader := script(answers...)
	a.newReader = func() LineReader { return reader }

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), a, args, &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// =============================================================================
// INTERACTIVE
// =============================================================================

func TestRoot_InteractiveExportThenHistory(t *testing.T) {
	cfgDir := isolate(t)
	root := workAndPersonal(t)
	dest := t.TempDir()

	res := run(t, []string{"--root", root}, "2", "2", dest, "")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "All 1 sections exported")
	assert.FileExists(t, filepath.Join(dest, "Work", "Intro.one"))
	assert.FileExists(t, filepath.Join(cfgDir, "onexport.log"))

	res = run(t, []string{"history"})
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "NOTEBOOK")
	assert.Contains(t, res.stdout, "Work")
	assert.Contains(t, res.stdout, "2023-02-01")
	assert.Contains(t, res.stdout, "succeeded")
}

func TestRoot_CancelledSessionExitsCleanly(t *testing.T) {
	isolate(t)
	root := workAndPersonal(t)

	res := run(t, []string{"--root", root}, "1")
	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "Cancelled.")
}

func TestRoot_NoHistoryWhenDisabled(t *testing.T) {
	cfgDir := isolate(t)
	t.Setenv("ONEXPORT_NO_HISTORY", "1")
	root := workAndPersonal(t)

	res := run(t, []string{"--root", root}, "1", "1", t.TempDir(), "")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.NoFileExists(t, filepath.Join(cfgDir, "history.db"))

	res = run(t, []string{"history"})
	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "History is disabled")
}

func TestRoot_MissingBackupRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows has a default backup root")
	}
	isolate(t)

	res := run(t, []string{})
	assert.Equal(t, ExitConfigError, res.code)
	assert.Contains(t, res.stderr, "no backup root configured")
}

// =============================================================================
// LIST
// =============================================================================

func TestList_Notebooks(t *testing.T) {
	isolate(t)
	root := workAndPersonal(t)

	res := run(t, []string{"list", "--root", root})
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "NOTEBOOK")
	assert.Contains(t, res.stdout, "Personal")
	assert.Contains(t, res.stdout, "Work")
}

func TestList_Versions(t *testing.T) {
	isolate(t)
	root := workAndPersonal(t)

	res := run(t, []string{"list", "Work", "--root", root})
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "2023-01-01")
	assert.Contains(t, res.stdout, "2023-02-01")
	assert.Contains(t, res.stdout, "3 sections in")
}

func TestList_Errors(t *testing.T) {
	isolate(t)
	root := workAndPersonal(t)

	res := run(t, []string{"list", "Nope", "--root", root})
	assert.Equal(t, ExitNotFoundError, res.code)

	res = run(t, []string{"list", "a", "b", "--root", root})
	assert.Equal(t, ExitUsageError, res.code)
	assert.Contains(t, res.stderr, "onexport --help")

	res = run(t, []string{"list", "--bogus"})
	assert.Equal(t, ExitUsageError, res.code)
}

// =============================================================================
// CONFIG AND VERSION
// =============================================================================

func TestConfig_InitShowPath(t *testing.T) {
	cfgDir := isolate(t)
	path := filepath.Join(cfgDir, "config.toml")

	res := run(t, []string{"config", "path"})
	require.Equal(t, ExitSuccess, res.code)
	assert.Equal(t, path+"\n", res.stdout)

	res = run(t, []string{"config", "init"})
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.FileExists(t, path)

	res = run(t, []string{"config", "init"})
	assert.Equal(t, ExitUsageError, res.code)
	assert.Contains(t, res.stderr, "already exists")

	res = run(t, []string{"config", "init", "--force"})
	assert.Equal(t, ExitSuccess, res.code)

	res = run(t, []string{"config", "show"})
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "[export]")
	assert.Contains(t, res.stdout, "concurrency = 8")
}

func TestConfig_ExplicitPathAndInvalidFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[export]\nconcurrency = 4\n"), 0600))

	res := run(t, []string{"config", "show", "--config", path})
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "concurrency = 4")

	require.NoError(t, os.WriteFile(path, []byte("[export]\nconcurrency = 0\nworkers = 2\n"), 0600))
	res = run(t, []string{"config", "show", "--config", path})
	assert.Equal(t, ExitGeneralError, res.code, "unknown keys are a load error")
	assert.Contains(t, res.stderr, "unknown config keys")

	require.NoError(t, os.WriteFile(path, []byte("[export]\nconcurrency = 1000\n"), 0600))
	res = run(t, []string{"config", "show", "--config", path})
	assert.Equal(t, ExitConfigError, res.code)
}

func TestVersion(t *testing.T) {
	isolate(t)
	res := run(t, []string{"version"})
	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "onexport "+Version)
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"cancelled", ErrCancelled, ExitSuccess},
		{"usage", NewUsageError("bad"), ExitUsageError},
		{"config", config.ValidateErrors{{Field: "log.level", Message: "bad"}}, ExitConfigError},
		{"no root", config.ErrNoBackupRoot, ExitConfigError},
		{"not found", backup.ErrNotFound, ExitNotFoundError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}
