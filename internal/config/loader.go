package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the engine configuration.
// Search order: customPath -> ~/.scanline/configs/engine.yaml -> ./configs/engine.yaml -> embedded default
//
// Files are layered over the defaults, so a file only needs the keys it
// changes.
func Load(customPath string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()

	// Embedded YAML is the base for every file
	if err := yaml.Unmarshal(defaultEngineYAML, &cfg); err != nil {
		cfg = DefaultEngineConfig() // Fallback to hardcoded if embed fails
	}

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath("engine.yaml"), filepath.Join("configs", "engine.yaml")} {
		if path == "" {
			continue
		}
		if c, ok := tryFile(path, cfg); ok {
			return c, nil
		}
	}
	return cfg, nil
}

// tryFile layers path over base. Unreadable or invalid files are skipped.
func tryFile(path string, base EngineConfig) (EngineConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, false
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, false
	}
	if err := cfg.Validate(); err != nil {
		return base, false
	}
	return cfg, true
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg EngineConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// DataDir returns ~/.scanline, or ".scanline" if home is unavailable.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scanline"
	}
	return filepath.Join(home, ".scanline")
}

// UserConfigPath returns the per-user engine config location.
func UserConfigPath() string {
	return userConfigPath("engine.yaml")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".scanline", "configs", filename)
}

// DefaultDBPath returns the benchmark database path used when db_path is empty.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "bench.db")
}
