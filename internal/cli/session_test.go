// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/onexport/internal/backup"
	"github.com/jeranaias/onexport/internal/export"
	"github.com/jeranaias/onexport/internal/history"
)

func TestMain(m *testing.M) {
	ForceColorsEnabled(false)
	os.Exit(m.Run())
}

// =============================================================================
// TEST HELPERS
// =============================================================================

// scriptedReader answers prompts from a fixed script and reports EOF when
// the script runs out.
type scriptedReader struct {
	answers []string
	prompts []string
	closed  bool
}

func script(answers ...string) *scriptedReader {
	return &scriptedReader{answers: answers}
}

func (r *scriptedReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.answers) == 0 {
		return "", io.EOF
	}
	answer := r.answers[0]
	r.answers = r.answers[1:]
	return answer, nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

// writeBackup creates backup files (relative slash paths) under root,
// each holding its own path as content.
func writeBackup(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(p), 0644))
	}
}

// workAndPersonal builds the two-notebook backup root used across tests.
// ListNotebooks returns them in directory order: [1] Personal, [2] Work.
func workAndPersonal(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeBackup(t, root,
		"Work/Intro.one (于 2023-01-01).one",
		"Work/Sub/Detail.one (于 2023-01-01).one",
		"Work/Intro.one (于 2023-02-01).one",
		"Personal/Diary.one (于 2023-03-01).one",
	)
	return root
}

type sessionFixture struct {
	session *Session
	reader  *scriptedReader
	out     *bytes.Buffer
}

func newSessionFixture(t *testing.T, root string, opts SessionOptions, answers ...string) *sessionFixture {
	t.Helper()
	if opts.Scanner == nil {
		opts.Scanner = backup.NewScanner(root, nil, nil)
	}
	if opts.Executor == nil {
		opts.Executor = export.New(root, export.Options{Concurrency: 1}, nil)
	}
	reader := script(answers...)
	out := &bytes.Buffer{}
	return &sessionFixture{
		session: NewSession(opts, reader, out),
		reader:  reader,
		out:     out,
	}
}

// =============================================================================
// WORKFLOW
// =============================================================================

func TestSession_ExportsChosenVersion(t *testing.T) {
	root := workAndPersonal(t)
	dest := t.TempDir()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	f := newSessionFixture(t, root, SessionOptions{History: store}, "2", "1", dest, "")
	require.NoError(t, f.session.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, Title)
	assert.Contains(t, out, "[1] Personal")
	assert.Contains(t, out, "[2] Work")
	assert.Contains(t, out, "[1] 2023-01-01")
	assert.Contains(t, out, "[2] 2023-02-01")
	assert.Contains(t, out, "\tIntro\n")
	assert.Contains(t, out, "\tSub / Detail\n")
	assert.Contains(t, out, "[OK] [1/2]")
	assert.Contains(t, out, "[OK] [2/2]")
	assert.Contains(t, out, "All 2 sections exported")

	content, err := os.ReadFile(filepath.Join(dest, "Work", "Intro.one"))
	require.NoError(t, err)
	assert.Equal(t, "Work/Intro.one (于 2023-01-01).one", string(content))
	assert.FileExists(t, filepath.Join(dest, "Work", "Sub", "Detail.one"))

	runs, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusSucceeded, runs[0].Status)
	assert.Equal(t, "Work", runs[0].Notebook)
	assert.Equal(t, "2023-01-01", runs[0].Backup)
	assert.Equal(t, 2, runs[0].Copied)
}

func TestSession_InvalidChoiceReprompts(t *testing.T) {
	root := workAndPersonal(t)
	dest := t.TempDir()

	f := newSessionFixture(t, root, SessionOptions{}, "0", "abc", "2", "3", "2", dest, "")
	require.NoError(t, f.session.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, `"0" is not a valid number; choose 1-2`)
	assert.Contains(t, out, `"abc" is not a valid number`)
	assert.Contains(t, out, `"3" is not a valid number; choose 1-2`)
	assert.FileExists(t, filepath.Join(dest, "Work", "Intro.one"))
	assert.NoFileExists(t, filepath.Join(dest, "Work", "Sub", "Detail.one"), "2023-02-01 has no Detail section")
}

// =============================================================================
// DESTINATION
// =============================================================================

func TestSession_DeclineCreateHasNoSideEffects(t *testing.T) {
	root := workAndPersonal(t)
	dest := filepath.Join(t.TempDir(), "missing")

	f := newSessionFixture(t, root, SessionOptions{}, "2", "1", dest, "maybe", "n")
	require.NoError(t, f.session.Run(context.Background()))

	assert.NoDirExists(t, dest)
	out := f.out.String()
	assert.Contains(t, out, `"maybe" is not a valid answer`)
	assert.Contains(t, out, "Nothing was exported.")
	assert.NotContains(t, out, "[OK]")
}

func TestSession_CreatesMissingDestination(t *testing.T) {
	root := workAndPersonal(t)
	dest := filepath.Join(t.TempDir(), "a", "b")

	f := newSessionFixture(t, root, SessionOptions{}, "2", "1", dest, "y", "")
	require.NoError(t, f.session.Run(context.Background()))

	assert.DirExists(t, dest)
	assert.FileExists(t, filepath.Join(dest, "Work", "Sub", "Detail.one"))
}

func TestSession_RejectsRelativeAndFileDestinations(t *testing.T) {
	root := workAndPersonal(t)
	dest := t.TempDir()
	file := filepath.Join(dest, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	f := newSessionFixture(t, root, SessionOptions{}, "2", "1", "relative/dir", "", file, dest, "")
	require.NoError(t, f.session.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, `"relative/dir" is not an absolute path`)
	assert.Contains(t, out, "An export directory is required.")
	assert.Contains(t, out, "exists and is not a directory")
	assert.FileExists(t, filepath.Join(dest, "Work", "Intro.one"))
}

func TestSession_EmptyAnswerUsesDefaultDestination(t *testing.T) {
	root := workAndPersonal(t)
	dest := t.TempDir()

	f := newSessionFixture(t, root, SessionOptions{DefaultDestination: dest}, "1", "1", "", "")
	require.NoError(t, f.session.Run(context.Background()))

	assert.FileExists(t, filepath.Join(dest, "Personal", "Diary.one"))
	assert.Contains(t, f.reader.prompts[2], "["+dest+"]")
}

// =============================================================================
// EARLY EXITS
// =============================================================================

func TestSession_CancelledAtPrompt(t *testing.T) {
	root := workAndPersonal(t)

	f := newSessionFixture(t, root, SessionOptions{}, "2")
	err := f.session.Run(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestSession_EmptyBackupRoot(t *testing.T) {
	root := t.TempDir()

	f := newSessionFixture(t, root, SessionOptions{})
	require.NoError(t, f.session.Run(context.Background()))
	assert.Contains(t, f.out.String(), "[INFO]")
	assert.Contains(t, f.out.String(), "no backed up notebooks")
	assert.Empty(t, f.reader.prompts)
}

func TestSession_MissingBackupRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nope")

	f := newSessionFixture(t, root, SessionOptions{})
	err := f.session.Run(context.Background())
	assert.ErrorIs(t, err, backup.ErrNotFound)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestSession_NotebookWithoutSections(t *testing.T) {
	root := t.TempDir()
	writeBackup(t, root, "Scratch/Loose.one", "Scratch/notes.txt")

	f := newSessionFixture(t, root, SessionOptions{}, "1")
	require.NoError(t, f.session.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "[NOTE] skipped")
	assert.Contains(t, out, "no backup label delimiter")
	assert.Contains(t, out, `Notebook "Scratch" has no backed up sections.`)
}

// =============================================================================
// FAILURES
// =============================================================================

func TestSession_CopyFailureIsReportedAndRecorded(t *testing.T) {
	root := workAndPersonal(t)
	dest := t.TempDir()
	// A plain file where the notebook folder should go makes every copy fail.
	require.NoError(t, os.WriteFile(filepath.Join(dest, "Work"), []byte("x"), 0644))

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	f := newSessionFixture(t, root, SessionOptions{History: store}, "2", "1", dest, "")
	err = f.session.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, export.ErrCopyFailed)
	assert.Equal(t, ExitGeneralError, GetExitCode(err))
	assert.Contains(t, f.out.String(), "0 of 2 sections were exported before the failure")

	runs, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusFailed, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)
}
