package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/scanline/internal/platform/tui"
)

var flagInteractive bool

var historyCmd = &cobra.Command{
	Use:   "history [demo]",
	Short: "Show recorded benchmark runs",
	Long: `Display the most recent benchmark runs for a demo or scene, or browse
all of them with -i.

Examples:
  scanline history mode7
  scanline history -i`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse runs in a table")
}

// terminalSize returns the size of stdout, or 80x24.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Open benchmark storage
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening benchmark database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInteractive || len(args) == 0 {
		width, height := terminalSize()
		if _, err := tui.RunBenchboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		return
	}

	demoID := args[0]
	runs, err := store.RecentRuns(demoID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		store.Close()
		os.Exit(1)
	}

	fmt.Printf("Benchmarks - %s\n", demoID)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'scanline bench %s' to record one.\n", demoID)
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-9s  %-7s  %-8s  %-9s  %s\n", "Date", "Size", "Frames", "FPS", "ms/frame", "Aborted")
	fmt.Printf("  %-16s  %-9s  %-7s  %-8s  %-9s  %s\n", "----", "----", "------", "---", "--------", "-------")

	for _, r := range runs {
		fmt.Printf("  %-16s  %-9s  %-7d  %-8.1f  %-9.2f  %d\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			r.Frames,
			r.FPS(),
			float64(r.FrameTime().Microseconds())/1000,
			r.Aborted,
		)
	}

	// Show best run
	fmt.Println()
	if best, err := store.BestFPS(demoID); err == nil {
		fmt.Printf("Best: %.1f fps\n", best)
	}
}
