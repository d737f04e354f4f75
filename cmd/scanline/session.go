package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/scanline/internal/config"
	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/registry"
	"github.com/vovakirdan/scanline/internal/runner"
	"github.com/vovakirdan/scanline/internal/scene"
	"github.com/vovakirdan/scanline/internal/storage"
)

// session is a demo or scene set up on a fresh engine.
type session struct {
	cfg     config.EngineConfig
	runtime core.RuntimeConfig
	logger  *log.Logger
	demo    registry.Demo
	eng     *engine.Engine
}

// loadConfig reads the engine config and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (config.EngineConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = flagFPS
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	return cfg, cfg.Validate()
}

// newLogger creates the command logger writing to w.
func newLogger(cfg config.EngineConfig, w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "scanline",
	})
	lvl, _ := config.ParseLevel(cfg.LogLevel)
	logger.SetLevel(lvl)
	return logger
}

// fileLogger logs to ~/.scanline/scanline.log while a full-screen
// presenter owns the terminal.
func fileLogger(cfg config.EngineConfig) (*log.Logger, func()) {
	dir := config.DataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newLogger(cfg, io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "scanline.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return newLogger(cfg, io.Discard), func() {}
	}
	return newLogger(cfg, f), func() { f.Close() }
}

// openSource creates the named demo, or loads scenePath when it is set.
func openSource(args []string, scenePath string, logger *log.Logger) (registry.Demo, *scene.Scene, error) {
	if scenePath != "" {
		sc, err := scene.Load(scenePath)
		if err != nil {
			return nil, nil, err
		}
		sc.SetLogger(logger)
		return sc, sc, nil
	}
	if len(args) != 1 {
		return nil, nil, fmt.Errorf("expected a demo id or --scene")
	}
	if !registry.Exists(args[0]) {
		return nil, nil, fmt.Errorf("unknown demo %q (run 'scanline list' to see available demos)", args[0])
	}
	d, err := registry.Create(args[0])
	return d, nil, err
}

// startSession builds the engine for a demo or scene and runs its Setup.
func startSession(cfg config.EngineConfig, logger *log.Logger, args []string, scenePath string) (*session, error) {
	d, sc, err := openSource(args, scenePath, logger)
	if err != nil {
		return nil, err
	}

	rc := cfg.Runtime()
	rc.Seed = flagSeed
	if sc != nil {
		rc = sc.Config(rc)
	}

	e, err := registry.Start(d, rc,
		engine.WithLogger(logger),
		engine.WithBGColor(cfg.BackgroundColor()),
	)
	if err != nil {
		d.Close()
		return nil, err
	}
	logger.Debug("session started", "source", d.ID(), "width", rc.Width, "height", rc.Height)
	return &session{cfg: cfg, runtime: rc, logger: logger, demo: d, eng: e}, nil
}

// newRunner drives the session engine with the demo's Update.
func (s *session) newRunner(maxFrames int) *runner.Runner {
	return runner.New(s.eng, s.demo.Update, runner.Options{
		FPS:       s.runtime.FPS,
		MaxFrames: maxFrames,
		Logger:    s.logger,
	})
}

// Close releases the demo resources.
func (s *session) Close() {
	s.demo.Close()
}

// openStore opens the benchmark database named by the config.
func openStore(cfg config.EngineConfig) (*storage.Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}
	return storage.Open(path)
}

// screenshotDir is where presenters save screenshots.
func screenshotDir() string {
	return filepath.Join(config.DataDir(), "screenshots")
}
