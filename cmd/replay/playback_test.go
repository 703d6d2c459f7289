package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hetfly/snake-demo/pkg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frames struct {
	shown []game.Snapshot
}

func (f *frames) Render(s game.Snapshot, _ ...string) {
	f.shown = append(f.shown, s)
}

func TestListRecordingsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "game_aaaa_100.jsonl")
	newer := filepath.Join(dir, "game_bbbb_200.jsonl")
	require.NoError(t, os.WriteFile(older, []byte("{}\n"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("{}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	records, err := listRecordings(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer, records[0].Path)
	assert.Equal(t, "bbbb", records[0].SessionID)
	assert.Equal(t, "aaaa", records[1].SessionID)
}

func TestListRecordingsMissingDir(t *testing.T) {
	records, err := listRecordings(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFrameDelay(t *testing.T) {
	start := time.Now()
	steps := []game.StepRecord{
		{Step: 1, Time: start, Snapshot: game.Snapshot{Speed: 150 * time.Millisecond}},
		{Step: 2, Time: start.Add(140 * time.Millisecond), Snapshot: game.Snapshot{Speed: 145 * time.Millisecond}},
	}

	assert.Equal(t, 140*time.Millisecond, frameDelay(steps, 0, 1))
	assert.Equal(t, 70*time.Millisecond, frameDelay(steps, 0, 2))
	// The last step has no successor and uses its speed
	assert.Equal(t, 145*time.Millisecond, frameDelay(steps, 1, 1))
	assert.Equal(t, 145*time.Millisecond, frameDelay(steps, 1, 0))
}

func TestPlayShowsEveryStep(t *testing.T) {
	steps := []game.StepRecord{
		{Step: 1, Snapshot: game.Snapshot{Score: 0, Speed: time.Millisecond}},
		{Step: 2, Snapshot: game.Snapshot{Score: 1, Speed: time.Millisecond}},
		{Step: 3, Snapshot: game.Snapshot{Score: 2, Speed: time.Millisecond}},
	}
	var f frames
	require.NoError(t, play(context.Background(), steps, 1, &f))
	require.Len(t, f.shown, 3)
	assert.Equal(t, 2, f.shown[2].Score)
}

func TestPlayStopsOnCancel(t *testing.T) {
	steps := []game.StepRecord{
		{Step: 1, Snapshot: game.Snapshot{Speed: time.Hour}},
		{Step: 2, Snapshot: game.Snapshot{Speed: time.Hour}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var f frames
	assert.ErrorIs(t, play(ctx, steps, 1, &f), context.Canceled)
	assert.Len(t, f.shown, 1)
}
