// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	older := Run{
		Notebook: "Work", Backup: "2023-01-01", Destination: "/tmp/out",
		Sections: 2, Copied: 2, Bytes: 2048, Status: StatusSucceeded,
		StartedAt: base, FinishedAt: base.Add(time.Second),
	}
	newer := Run{
		Notebook: "Personal", Backup: "2023-02-01", Destination: "/tmp/out",
		Sections: 3, Copied: 1, Bytes: 10, Status: StatusFailed, Error: "failed to export section Intro",
		StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + 2*time.Second),
	}

	id, err := store.Record(ctx, older)
	require.NoError(t, err)
	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr, "generated IDs are UUIDs")

	_, err = store.Record(ctx, newer)
	require.NoError(t, err)

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "Personal", runs[0].Notebook)
	assert.Equal(t, StatusFailed, runs[0].Status)
	assert.Equal(t, "failed to export section Intro", runs[0].Error)
	assert.Equal(t, 2*time.Second, runs[0].Duration())
	assert.Equal(t, id, runs[1].ID)
	assert.True(t, runs[1].StartedAt.Equal(base))

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Personal", limited[0].Notebook)
}

func TestStore_RecordKeepsExplicitID(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	id, err := store.Record(context.Background(), Run{
		ID: "fixed-id", Notebook: "Work", Backup: "v1", Status: StatusSucceeded,
		StartedAt: now, FinishedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
}

func TestStore_RecordRejectsInvalid(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Record(ctx, Run{Backup: "v1", Status: StatusSucceeded})
	assert.ErrorIs(t, err, ErrInvalidRun)

	_, err = store.Record(ctx, Run{Notebook: "Work", Backup: "v1", Status: "done"})
	assert.ErrorIs(t, err, ErrInvalidRun)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	now := time.Now()

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Record(context.Background(), Run{Notebook: "Work", Backup: "v1", Status: StatusSucceeded, StartedAt: now, FinishedAt: now})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
