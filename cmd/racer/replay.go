package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-racer/internal/platform/tui"
	"github.com/vovakirdan/lane-racer/internal/replay"
)

var flagHeadless bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Watch a recorded session",
	Long: `Play back a session recorded with 'racer play --record'.

The recording carries its own configuration and seed, so playback
reproduces the original run exactly. Scores reached during playback
are never saved.

Examples:
  racer replay run.rpl
  racer replay run.rpl --headless`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Simulate without a display and print the result")
	replayCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

func runReplay(_ *cobra.Command, args []string) error {
	rec, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	if flagHeadless {
		logger := newLogger(os.Stderr)
		res, err := replay.Run(rec, logger)
		if err != nil {
			return err
		}
		fmt.Printf("Track:      %s\n", rec.Header.Track)
		if rec.Header.Difficulty != "" {
			fmt.Printf("Difficulty: %s\n", rec.Header.Difficulty)
		}
		fmt.Printf("Seed:       %d\n", rec.Header.Seed)
		fmt.Printf("Frames:     %d (%s)\n", res.Frames, res.Duration)
		fmt.Printf("State:      %s\n", res.State)
		fmt.Printf("Score:      %d\n", res.Score)
		fmt.Printf("Last score: %d\n", res.LastScore)
		return nil
	}

	logger, closeLog := newFileLogger()
	defer closeLog()

	sink, closeAudio := openAudio(logger)
	defer closeAudio()

	machine, err := replay.NewMachine(rec, sink, logger)
	if err != nil {
		return err
	}

	width, height := terminalSize()
	tickRate := rec.Header.TickRate
	if tickRate <= 0 {
		tickRate = flagFPS
	}
	return tui.Run(machine, tui.ModelOptions{
		TickRate: tickRate,
		Width:    width,
		Height:   height,
		Playback: rec.Cursor(),
	})
}
