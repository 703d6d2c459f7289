package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hetfly/snake-demo/pkg/game"
)

// RecordFile describes one recording on disk
type RecordFile struct {
	Path      string
	Size      int64
	Time      time.Time
	SessionID string
}

// listRecordings returns the .jsonl files in dir, newest first. A missing
// dir has no recordings.
func listRecordings(dir string) ([]RecordFile, error) {
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var records []RecordFile
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".jsonl" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		// game_{sessionID}_{timestamp}.jsonl
		sessID := ""
		if parts := strings.Split(f.Name(), "_"); len(parts) >= 3 {
			sessID = parts[1]
		}
		records = append(records, RecordFile{
			Path:      filepath.Join(dir, f.Name()),
			Size:      info.Size(),
			Time:      info.ModTime(),
			SessionID: sessID,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Time.After(records[j].Time)
	})
	return records, nil
}

// frameDelay is how long step i stays on screen: the recorded gap to the
// next step, or the snapshot speed when the gap is unknown.
func frameDelay(steps []game.StepRecord, i int, speed float64) time.Duration {
	if speed <= 0 {
		speed = 1
	}
	d := steps[i].Snapshot.Speed
	if i+1 < len(steps) {
		if gap := steps[i+1].Time.Sub(steps[i].Time); gap > 0 {
			d = gap
		}
	}
	return time.Duration(float64(d) / speed)
}

// frameRenderer draws one snapshot
type frameRenderer interface {
	Render(s game.Snapshot, extra ...string)
}

// play shows every step in order and returns ctx.Err() when interrupted.
func play(ctx context.Context, steps []game.StepRecord, speed float64, r frameRenderer) error {
	for i, st := range steps {
		r.Render(st.Snapshot, fmt.Sprintf("📼 Step %d/%d", i+1, len(steps)))

		timer := time.NewTimer(frameDelay(steps, i, speed))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
