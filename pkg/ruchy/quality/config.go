// Package quality computes source quality metrics: lint findings, a
// maintainability score, a provability estimate, and a runtime
// complexity estimate. Thresholds come from an optional .ruchy.yaml
// project file.
package quality

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds project quality settings loaded from .ruchy.yaml.
type Config struct {
	Score struct {
		// minimum score for quality-gate to pass, 0.0 to 1.0
		Threshold float64 `yaml:"threshold"`
	} `yaml:"score"`
	Lint struct {
		MaxFunctionLines int      `yaml:"max_function_lines"`
		MaxNestingDepth  int      `yaml:"max_nesting_depth"`
		MaxParams        int      `yaml:"max_params"`
		Disabled         []string `yaml:"disabled"`
	} `yaml:"lint"`
}

// DefaultConfig returns the settings used when no .ruchy.yaml exists.
func DefaultConfig() Config {
	var cfg Config
	cfg.Score.Threshold = 0.8
	cfg.Lint.MaxFunctionLines = 50
	cfg.Lint.MaxNestingDepth = 4
	cfg.Lint.MaxParams = 5
	return cfg
}

// LoadConfig reads .ruchy.yaml from dir, walking up to parent
// directories the way git finds its repository root. Missing files fall
// back to defaults; a malformed file is an error.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	for {
		path := filepath.Join(dir, ".ruchy.yaml")
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cfg, nil
		}
		dir = parent
	}
}

func (c Config) lintEnabled(rule string) bool {
	for _, disabled := range c.Lint.Disabled {
		if disabled == rule {
			return false
		}
	}
	return true
}
