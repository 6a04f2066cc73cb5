package history

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/ask-user/internal/db"
	"github.com/strrl/ask-user/pkg/models"
)

func TestAppendWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.jsonl")
	store := New(path)
	store.now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 123456789, time.UTC) }

	first, err := store.Append(models.HistoryEntry{Prompt: "Name?", Status: models.StatusSubmitted, Content: "Ada", Countdown: 60})
	require.NoError(t, err)
	_, err = store.Append(models.HistoryEntry{Prompt: "Again?", Status: models.StatusCancelled})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, time.Date(2026, 10, 17, 9, 30, 0, 123456000, time.UTC), first.CreatedAt)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		lines = append(lines, r)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, first.ID, lines[0].ID)
	assert.Equal(t, "submitted", lines[0].Status)
	assert.Equal(t, "2026-10-17T09:30:00.123456Z", lines[0].CreatedAt)
	assert.Equal(t, "cancelled", lines[1].Status)
}

func TestAppendWithoutPath(t *testing.T) {
	_, err := New("").Append(models.HistoryEntry{})
	require.Error(t, err)
}

func TestRecentMissingFile(t *testing.T) {
	entries, err := New(filepath.Join(t.TempDir(), "none.jsonl")).Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = New(filepath.Join(t.TempDir(), "none.jsonl")).Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecentAndGetThroughDuckDB(t *testing.T) {
	if _, err := db.GetDB(); err != nil {
		t.Skipf("Skipping test, DuckDB JSON extension unavailable: %v", err)
	}

	store := New(filepath.Join(t.TempDir(), "history.jsonl"))
	base := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	var ids []string
	for i, status := range []models.Status{models.StatusSubmitted, models.StatusCancelled, models.StatusAutoSubmitted} {
		e, err := store.Append(models.HistoryEntry{
			Prompt:    "prompt",
			Status:    status,
			Content:   "it's content",
			Countdown: 2,
			Piped:     i == 2,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ids[2], entries[0].ID, "newest first")
	assert.Equal(t, models.StatusAutoSubmitted, entries[0].Status)
	assert.True(t, entries[0].Piped)
	assert.Equal(t, ids[1], entries[1].ID)

	got, err := store.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "it's content", got.Content)
	assert.Equal(t, 2, got.Countdown)
	assert.True(t, got.CreatedAt.Equal(base))

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
