package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scanline/internal/core"
)

// isolate points HOME and the working directory at empty temp dirs.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func write(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoadEmbeddedDefault(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != DefaultEngineConfig() {
		t.Errorf("Load() = %+v, expected %+v", cfg, DefaultEngineConfig())
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home, work := isolate(t)
	write(t, filepath.Join(work, "configs", "engine.yaml"), "width: 320\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("local config size = %dx%d, expected 320x240", cfg.Width, cfg.Height)
	}

	write(t, filepath.Join(home, ".scanline", "configs", "engine.yaml"), "width: 256\nheight: 224\n")
	cfg, _ = Load("")
	if cfg.Width != 256 || cfg.Height != 224 {
		t.Errorf("user config size = %dx%d, expected 256x224", cfg.Width, cfg.Height)
	}

	custom := filepath.Join(t.TempDir(), "mine.yaml")
	write(t, custom, "fps: 30\nlayers: 2\n")
	cfg, err = Load(custom)
	if err != nil {
		t.Fatalf("Load(custom) error = %v", err)
	}
	if cfg.FPS != 30 || cfg.Layers != 2 || cfg.Width != 400 {
		t.Errorf("custom config = %+v", cfg)
	}
}

func TestLoadSkipsInvalidUserFile(t *testing.T) {
	home, _ := isolate(t)
	write(t, filepath.Join(home, ".scanline", "configs", "engine.yaml"), "width: -5\n")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != 400 {
		t.Errorf("Width = %d, expected default 400", cfg.Width)
	}
}

func TestLoadCustomErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) expected error")
	}
	bad := filepath.Join(dir, "bad.yaml")
	write(t, bad, "width: [1, 2\n")
	if _, err := Load(bad); err == nil {
		t.Error("Load(bad yaml) expected error")
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	write(t, invalid, "log_level: chatty\n")
	if _, err := Load(invalid); err == nil {
		t.Error("Load(invalid level) expected error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "engine.yaml")
	cfg := DefaultEngineConfig()
	cfg.Background = "#102030"
	cfg.Scale = 3
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != cfg {
		t.Errorf("Load() = %+v, expected %+v", got, cfg)
	}
	if got.BackgroundColor() != core.RGB(0x10, 0x20, 0x30) {
		t.Errorf("BackgroundColor() = %v", got.BackgroundColor())
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		preset ScreenPreset
		w, h   int
	}{
		{PresetDefault, 400, 240},
		{PresetSNES, 256, 224},
		{PresetGBA, 240, 160},
		{PresetMD, 320, 224},
		{PresetHD, 640, 360},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultEngineConfig()
			if err := ApplyPreset(&cfg, tt.preset); err != nil {
				t.Fatalf("ApplyPreset() error = %v", err)
			}
			if cfg.Width != tt.w || cfg.Height != tt.h {
				t.Errorf("size = %dx%d, expected %dx%d", cfg.Width, cfg.Height, tt.w, tt.h)
			}
		})
	}
	if len(Presets()) != len(tests) {
		t.Errorf("Presets() = %d entries, expected %d", len(Presets()), len(tests))
	}
	cfg := DefaultEngineConfig()
	if err := ApplyPreset(&cfg, "c64"); err == nil {
		t.Error("ApplyPreset(c64) expected error")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"WARN", log.WarnLevel},
		{"error", log.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.name, got, tt.want)
		}
	}
}

func TestRuntime(t *testing.T) {
	rc := DefaultEngineConfig().Runtime()
	if rc.Width != 400 || rc.Sprites != 64 || rc.FPS != 60 {
		t.Errorf("Runtime() = %+v", rc)
	}
}
