// Package config loads lucimaudit configuration from defaults, global and
// local config files, and environment variables, in ascending priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the lucimaudit CLI tool configuration.
type Configuration struct {
	OutDir         string   `koanf:"out_dir" validate:"required"`
	ReportFormats  []string `koanf:"report_formats" validate:"required,min=1,dive,oneof=json markdown"`
	FailOnWarnings bool     `koanf:"fail_on_warnings"` // Exit non-zero on warning violations (the verdict itself is unchanged)
	MaxViolations  int      `koanf:"max_violations" validate:"min=0"` // Truncate displayed violation lists; 0 = unlimited
	ShowProgress   bool     `koanf:"show_progress"` // Show spinner during batch audits
}

// Load loads configuration from global, local, and environment sources.
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	// Load global config if it exists
	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(homeDir, ".lucimaudit", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load local config if it exists
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	k.Load(env.Provider("LUCIMAUDIT_", ".", envTransform), nil)

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.OutDir = expandHomePath(cfg.OutDir)

	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: LUCIMAUDIT_FAIL_ON_WARNINGS -> fail_on_warnings
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "LUCIMAUDIT_"))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
