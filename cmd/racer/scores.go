package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-racer/internal/platform/tui"
	"github.com/vovakirdan/lane-racer/internal/registry"
	"github.com/vovakirdan/lane-racer/internal/storage"
)

var (
	flagScoresTrack string
	flagBrowse      bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top 10 high scores of every track, or of one track.

Examples:
  racer scores
  racer scores --track highway
  racer scores --browse
  racer scores --track classic --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresTrack, "track", "", "Only show this track")
	scoresCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the scores of --track")
}

func runScores(_ *cobra.Command, _ []string) error {
	if flagScoresTrack != "" && !registry.Exists(flagScoresTrack) {
		return fmt.Errorf("unknown track %q, run 'racer list' to see available tracks", flagScoresTrack)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open scores database: %w", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		if flagScoresTrack == "" {
			return fmt.Errorf("--clear needs --track")
		}
		if err := store.ClearScores(flagScoresTrack); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s\n", flagScoresTrack)
		return nil

	case flagBrowse:
		width, height := terminalSize()
		_, err := tui.RunScoreboard(store, width, height)
		return err
	}

	if flagScoresTrack != "" {
		t, err := registry.Get(flagScoresTrack)
		if err != nil {
			return err
		}
		stats, err := store.GetTrackStats(t.ID)
		if err != nil {
			return err
		}
		return printScores(store, t, stats)
	}

	all, err := store.GetAllTrackStats()
	if err != nil {
		return err
	}
	for i, t := range registry.List() {
		if i > 0 {
			fmt.Println()
		}
		if err := printScores(store, t, all[t.ID]); err != nil {
			return err
		}
	}
	return nil
}

// printScores prints the top table of one track. stats may be nil.
func printScores(store *storage.Store, t registry.Track, stats *storage.TrackStats) error {
	scores, err := store.TopScores(t.ID, 10)
	if err != nil {
		return fmt.Errorf("cannot retrieve scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", t.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Printf("Play 'racer play --track %s' to set the first high score!\n", t.ID)
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %-10s  %s\n", "Rank", "Name", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %-10s  %s\n", "----", "----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10s  %-10d  %s\n", i+1, entry.Name, entry.Score, dateStr)
	}

	if stats != nil {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Average: %.0f\n", stats.HighScore, stats.RunsCount, stats.AvgScore)
	}
	return nil
}
