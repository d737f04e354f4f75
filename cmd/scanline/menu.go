package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scanline/internal/platform/tui"
	"github.com/vovakirdan/scanline/internal/runner"
	"github.com/vovakirdan/scanline/internal/scene"
)

var flagScenes string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick demos and scenes interactively",
	Long: `Start scanline in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to run a demo, Tab to browse the
benchmark history. After a demo ends, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Run demo
  Tab          - Benchmark history
  Q            - Quit

Examples:
  scanline menu
  scanline menu --scenes ./scenes
  scanline menu --fps 30`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagScenes, "scenes", "scenes", "Directory of scene YAML files")
}

func runMenu(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, closeLog := fileLogger(cfg)
	defer closeLog()

	// Open benchmark storage
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open benchmark database: %v\n", err)
		store = nil
	}

	// Scenes are optional; a missing directory just leaves them out.
	loader := scene.NewLoader(flagScenes)
	scenes, err := loader.LoadAll()
	if err != nil {
		logger.Debug("no scenes loaded", "dir", flagScenes, "err", err)
	}
	paths := make(map[string]string, len(scenes))
	items := make([]tui.MenuItem, 0, len(scenes))
	for _, sc := range scenes {
		paths[sc.ID()] = sc.FilePath
		items = append(items, tui.MenuItem{ID: sc.ID(), Title: sc.Title()})
	}

	width, height := terminalSize()
	seedGiven := cmd.Flags().Changed("seed")

	// Menu loop
	for {
		result, err := tui.RunMenu(items, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		if result.Quit {
			break
		}

		// Check if user wants benchmark history
		if result.WantsHistory {
			goBack, hErr := tui.RunBenchboard(store, width, height)
			if hErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", hErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from history
		}

		var args []string
		scenePath := ""
		if result.Item.Scene {
			scenePath = paths[result.Item.ID]
		} else {
			args = []string{result.Item.ID}
		}

		// Fresh seed for each run unless one was given
		if !seedGiven {
			flagSeed = time.Now().UnixNano()
		}

		s, err := startSession(cfg, logger, args, scenePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		runErr := present(s, func(ctx context.Context, r *runner.Runner) error {
			return tui.Run(ctx, r, tui.Options{
				ID:      s.demo.ID(),
				Title:   s.demo.Title(),
				ShotDir: screenshotDir(),
			})
		})
		s.Close()
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running demo: %v\n", runErr)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
