package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scanline/internal/platform/tui"
	"github.com/vovakirdan/scanline/internal/platform/window"
	"github.com/vovakirdan/scanline/internal/runner"
)

var (
	flagScene string
	flagScale float64
)

var runCmd = &cobra.Command{
	Use:   "run [demo]",
	Short: "Show a demo or scene in the terminal",
	Long: `Render a demo on its own goroutine and show it in the terminal with
truecolor half-block cells.

Controls:
  Arrows/WASD  - Move
  Z/Space      - Button 1
  X            - Button 2
  Enter        - Start
  P            - Pause
  Ctrl+S       - Save a PNG screenshot
  Q/Esc        - Quit

Examples:
  scanline run mode7
  scanline run bars --fps 30
  scanline run --scene ./scenes/forest.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

var windowCmd = &cobra.Command{
	Use:   "window [demo]",
	Short: "Show a demo or scene in a desktop window",
	Long: `Render a demo on its own goroutine and show it in a resizable window.

Controls are the same as 'scanline run'; F12 saves a screenshot.

Examples:
  scanline window mode7
  scanline window sprites --scale 3
  scanline window --scene ./scenes/forest.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWindow,
}

func init() {
	runCmd.Flags().StringVar(&flagScene, "scene", "", "Path to a scene YAML file")
	windowCmd.Flags().StringVar(&flagScene, "scene", "", "Path to a scene YAML file")
	windowCmd.Flags().Float64Var(&flagScale, "scale", 0, "Window scale (0 = config scale)")
}

// present runs the session on a background goroutine while show blocks.
func present(s *session, show func(ctx context.Context, r *runner.Runner) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := s.newRunner(0)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := r.Run(ctx); err != nil {
			s.logger.Error("runner failed", "err", err)
		}
	}()

	err := show(ctx, r)
	cancel()
	wg.Wait()

	stats := r.Stats()
	s.logger.Info("session ended", "source", s.demo.ID(), "frames", stats.Frames, "aborted", stats.Aborted)
	return err
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, closeLog := fileLogger(cfg)
	defer closeLog()

	s, err := startSession(cfg, logger, args, flagScene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	runErr := present(s, func(ctx context.Context, r *runner.Runner) error {
		return tui.Run(ctx, r, tui.Options{
			ID:      s.demo.ID(),
			Title:   s.demo.Title(),
			ShotDir: screenshotDir(),
		})
	})
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running demo: %v\n", runErr)
		s.Close()
		os.Exit(1)
	}
}

func runWindow(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagScale > 0 {
		cfg.Scale = flagScale
	}
	logger := newLogger(cfg, os.Stderr)

	s, err := startSession(cfg, logger, args, flagScene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	runErr := present(s, func(ctx context.Context, r *runner.Runner) error {
		return window.Run(ctx, r, window.Options{
			ID:      s.demo.ID(),
			Title:   "scanline - " + s.demo.Title(),
			Scale:   cfg.Scale,
			ShotDir: screenshotDir(),
		})
	})
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running demo: %v\n", runErr)
		s.Close()
		os.Exit(1)
	}
}
