// scanline is a 2D scanline compositor with terminal and window presenters.
//
// Usage:
//
//	scanline list                        - List built-in demos
//	scanline run <demo>                  - Show a demo in the terminal
//	scanline run --scene <file.yaml>     - Show a scene file in the terminal
//	scanline window <demo>               - Show a demo in a desktop window
//	scanline render <demo> --out f.png   - Render frames headless and save a PNG
//	scanline bench <demo>                - Time headless frames and record the run
//	scanline history [demo]              - Show recorded benchmark runs
//	scanline menu                        - Pick demos interactively
//
// Global flags:
//
//	--config <path>     - Engine config YAML (default: ~/.scanline/configs/engine.yaml)
//	--fps <rate>        - Target frame rate, 0 for unthrottled
//	--seed <value>      - RNG seed for demos that use randomness
//	--db <path>         - Benchmark database (default: ~/.scanline/bench.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import demos to register them
	_ "github.com/vovakirdan/scanline/internal/demos/bars"
	_ "github.com/vovakirdan/scanline/internal/demos/cycle"
	_ "github.com/vovakirdan/scanline/internal/demos/mode7"
	_ "github.com/vovakirdan/scanline/internal/demos/mosaic"
	_ "github.com/vovakirdan/scanline/internal/demos/ripple"
	_ "github.com/vovakirdan/scanline/internal/demos/sprites"
	_ "github.com/vovakirdan/scanline/internal/demos/wobble"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scanline",
	Short: "Scanline - a 2D raster compositor",
	Long: `Scanline composes tile layers, bitmaps and sprites one scanline at a
time, with per-line callbacks for raster effects.

Available commands:
  list     - Show all built-in demos
  run      - Show a demo or scene in the terminal
  window   - Show a demo or scene in a desktop window
  render   - Render headless and write a PNG
  bench    - Time headless rendering and record the run
  history  - Browse recorded benchmark runs
  menu     - Interactive demo picker

Examples:
  scanline list
  scanline run mode7
  scanline run --scene ./scenes/forest.yaml
  scanline window bars --fps 30
  scanline render ripple --frames 30 --out ripple.png --scale 3
  scanline bench sprites --frames 600`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Target frame rate (0 = unthrottled)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to benchmark database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(menuCmd)
}
