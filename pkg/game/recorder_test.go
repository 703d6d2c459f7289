package game

import (
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, "test", nil)
	require.NoError(t, err)

	g := NewGame(0, rand.New(rand.NewSource(9)))
	g.Start()
	for step := 1; step <= 5; step++ {
		g.Tick()
		rec.RecordStep(StepRecord{Step: step, Time: time.Now(), Snapshot: g.Snapshot()})
	}
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close(), "second close is a no-op")

	// Records after close are dropped silently
	rec.RecordStep(StepRecord{Step: 99})

	f, err := os.Open(rec.Path())
	require.NoError(t, err)
	defer f.Close()

	records, skipped, err := ReadRecording(f)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, records, 5)
	assert.Equal(t, 5, records[4].Step)
	assert.Equal(t, g.Snapshot(), records[4].Snapshot)
}

func TestReadRecordingSkipsBadLines(t *testing.T) {
	input := `{"step":1,"snapshot":{"snake":[{"x":1,"y":1}],"status":"playing","direction":"UP"}}
not json

{"step":2,"snapshot":{"snake":[{"x":1,"y":0}],"status":"gameOver","direction":"UP"}}
`
	records, skipped, err := ReadRecording(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, StatusGameOver, records[1].Snapshot.Status)
	assert.Equal(t, Up, records[1].Snapshot.Direction)
}
