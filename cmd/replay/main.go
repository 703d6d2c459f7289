package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/game"
	"github.com/hetfly/snake-demo/pkg/renderer"
)

func main() {
	var (
		envFile = flag.String("env", ".env", "env file with SNAKE_* settings")
		speed   = flag.Float64("speed", 1, "playback speed multiplier")
		list    = flag.Bool("list", false, "list recordings and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [recording.jsonl]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	settings, warnings, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading settings:", err)
		os.Exit(1)
	}
	log := config.NewLogger(settings.LogLevel, settings.LogFormat)
	for _, w := range warnings {
		log.Warn(w)
	}

	records, err := listRecordings(settings.RecordDir)
	if err != nil {
		log.WithError(err).Warn("Could not list recordings")
	}
	if *list {
		for _, r := range records {
			fmt.Printf("%s  %s  %6d bytes  session %s\n", r.Time.Format("2006-01-02 15:04:05"), r.Path, r.Size, r.SessionID)
		}
		return
	}

	path := flag.Arg(0)
	if path == "" {
		if len(records) == 0 {
			log.WithField("dir", settings.RecordDir).Fatal("No recordings found")
		}
		path = records[0].Path
	}

	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Fatal("Failed to open recording")
	}
	steps, skipped, err := game.ReadRecording(f)
	f.Close()
	if err != nil {
		log.WithError(err).Fatal("Failed to read recording")
	}
	if skipped > 0 {
		log.WithField("skipped", skipped).Warn("Skipped unreadable lines")
	}
	log.WithField("steps", len(steps)).Infof("📼 Replaying %s", path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	render := renderer.NewTerminalRenderer(config.GridSize)
	render.HideCursor()
	defer render.ShowCursor()

	if err := play(ctx, steps, *speed, render); err != nil {
		fmt.Println("\n  Replay stopped.")
		return
	}
	fmt.Println("\n  End of recording.")
}
