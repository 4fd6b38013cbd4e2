package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadPlanner loads the planner configuration.
// Search order: customPath -> ~/.lander/configs/planner.yaml -> ./configs/planner.yaml -> embedded default
//
// Files are decoded over the defaults, so a file only needs the keys it changes.
// A custom path that cannot be read, parsed or validated is an error; the
// implicit locations are skipped when unusable.
func LoadPlanner(customPath string) (PlannerConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return PlannerConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parsePlanner(data)
		if err != nil {
			return PlannerConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("planner.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parsePlanner(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "planner.yaml")); err == nil {
		if cfg, err := parsePlanner(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parsePlanner(defaultPlannerYAML)
	if err != nil {
		return DefaultPlannerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parsePlanner decodes YAML over the hardcoded defaults and validates the result.
func parsePlanner(data []byte) (PlannerConfig, error) {
	cfg := DefaultPlannerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return PlannerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return PlannerConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lander", "configs", filename)
}
