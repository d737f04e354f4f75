package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/storage"
)

var (
	flagBenchFrames int
	flagNoSave      bool
)

var benchCmd = &cobra.Command{
	Use:   "bench [demo]",
	Short: "Time headless rendering and record the run",
	Long: `Render frames as fast as possible without a presenter and report the
frame rate. Runs are stored in the benchmark database unless --no-save is set.

Examples:
  scanline bench mode7
  scanline bench sprites --frames 2000
  scanline bench --scene ./scenes/forest.yaml --no-save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBench,
}

func init() {
	benchCmd.Flags().StringVar(&flagScene, "scene", "", "Path to a scene YAML file")
	benchCmd.Flags().IntVar(&flagBenchFrames, "frames", 600, "Frames to render")
	benchCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runBench(cmd *cobra.Command, args []string) {
	if flagBenchFrames <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --frames must be positive")
		os.Exit(1)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg, os.Stderr)

	s, err := startSession(cfg, logger, args, flagScene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	// Benchmarks are never throttled.
	s.runtime.FPS = 0
	r := s.newRunner(flagBenchFrames)
	if err := r.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		s.Close()
		os.Exit(1)
	}

	stats := r.Stats()
	run := storage.BenchRun{
		DemoID:  s.demo.ID(),
		Width:   r.Width(),
		Height:  r.Height(),
		Frames:  stats.Frames,
		Aborted: stats.Aborted,
		Elapsed: stats.Elapsed,
		Version: engine.Version(),
	}

	fmt.Printf("Benchmark - %s (%dx%d)\n", s.demo.Title(), run.Width, run.Height)
	fmt.Println()
	fmt.Printf("  Frames:    %d\n", run.Frames)
	fmt.Printf("  Aborted:   %d\n", run.Aborted)
	fmt.Printf("  Elapsed:   %s\n", run.Elapsed)
	fmt.Printf("  FPS:       %.1f\n", run.FPS())
	fmt.Printf("  Per frame: %s\n", run.FrameTime())

	if flagNoSave {
		return
	}

	// Open benchmark storage
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open benchmark database: %v\n", err)
		return
	}
	defer store.Close()

	best, err := store.BestFPS(run.DemoID)
	if err != nil {
		logger.Warn("could not read best run", "err", err)
	}
	if _, err := store.SaveRun(run); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
		return
	}

	fmt.Println()
	if best > 0 && run.FPS() > best {
		fmt.Printf("New best! Previous: %.1f fps\n", best)
	} else if best > 0 {
		fmt.Printf("Best: %.1f fps\n", best)
	}
}
