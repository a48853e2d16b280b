package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-racer/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all track layouts",
	Long:  `Shows a list of all track layouts registered in the racer.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	tracks := registry.List()

	if len(tracks) == 0 {
		fmt.Println("No tracks available.")
		return
	}

	fmt.Println("Available tracks:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, t := range tracks {
		if len(t.ID) > maxIDLen {
			maxIDLen = len(t.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "ID", "Lanes", "Title")
	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "--", "-----", "-----")

	// Print tracks
	for _, t := range tracks {
		id := t.ID
		if id == registry.DefaultTrack {
			id += "*"
		}
		fmt.Printf("  %-*s  %-5d  %s\n", maxIDLen+1, id, len(t.Lanes), t.Title)
	}

	fmt.Println()
	fmt.Println("* default track")
	fmt.Println("Run 'racer play --track <id>' to race on a track.")
}
