package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scanline/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all built-in demos",
	Long:  `Shows a list of all demos registered in scanline.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	demos := registry.List()

	if len(demos) == 0 {
		fmt.Println("No demos available.")
		return
	}

	fmt.Println("Available demos:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, d := range demos {
		if len(d.ID) > maxIDLen {
			maxIDLen = len(d.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, d := range demos {
		fmt.Printf("  %-*s  %s\n", maxIDLen, d.ID, d.Title)
	}

	fmt.Println()
	fmt.Println("Run 'scanline run <id>' to show a demo.")
}
