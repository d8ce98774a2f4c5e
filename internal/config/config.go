// Package config provides hierarchical configuration management for claude-config using koanf.
// Configuration is loaded with priority: environment variables > project config (.claude-config.yml)
// > user config (~/.config/claude-config/config.yml) > defaults. A legacy JSON project config
// (.claude-config.json) is still read, with a warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "CLAUDE_CONFIG_"

// Configuration represents the claude-config CLI configuration
type Configuration struct {
	// SourceDir is a configs directory to install from instead of the bundled configs.
	// Can be set via CLAUDE_CONFIG_SOURCE_DIR env var.
	SourceDir string `koanf:"source_dir"`
	// TargetDir is the install destination. Empty means <project>/.claude.
	TargetDir         string `koanf:"target_dir"`
	SkipConfirmations bool   `koanf:"skip_confirmations"` // Install everything without prompting (also CLAUDE_CONFIG_YES)
	// UseRepoRoot resolves the default target against the enclosing git
	// repository instead of the working directory.
	UseRepoRoot bool `koanf:"use_repo_root"`
	// WatchDebounce is how long watch waits for file events to settle before reinstalling.
	WatchDebounce time.Duration `koanf:"watch_debounce" validate:"min=0,max=1m"`
	// StateDir holds the install history. Empty means the platform state directory.
	StateDir string `koanf:"state_dir"`
	// MaxHistoryEntries caps the install history; 0 keeps every entry.
	MaxHistoryEntries int `koanf:"max_history_entries" validate:"min=0"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .claude-config.yml)
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
// Each layer overrides the keys set by the layers before it.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	warnings := opts.WarningWriter
	if warnings == nil {
		warnings = os.Stderr
	}
	if opts.SkipWarnings {
		warnings = io.Discard
	}

	k := koanf.New(".")
	layers := []func(*koanf.Koanf) error{
		loadDefaults,
		loadUserConfig,
		func(k *koanf.Koanf) error { return loadProjectConfig(k, opts.ProjectConfigPath, warnings) },
		loadEnvironmentConfig,
	}
	for _, load := range layers {
		if err := load(k); err != nil {
			return nil, err
		}
	}

	return finalizeConfig(k)
}

func loadDefaults(k *koanf.Koanf) error {
	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("setting default %s: %w", key, err)
		}
	}
	return nil
}

// loadUserConfig loads the user config file if it exists.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	return loadYAMLConfig(k, path, "user")
}

// loadProjectConfig loads the project config. The YAML file wins over a
// legacy JSON file; either situation involving the JSON file is warned about.
func loadProjectConfig(k *koanf.Koanf, customPath string, warnings io.Writer) error {
	yamlPath := ProjectConfigPath()
	if customPath != "" {
		yamlPath = customPath
	}
	legacyPath := LegacyProjectConfigPath()
	hasLegacy := fileExists(legacyPath)

	if fileExists(yamlPath) {
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return err
		}
		if hasLegacy {
			fmt.Fprintf(warnings, "Warning: %s is ignored because %s exists; delete it\n\n", legacyPath, yamlPath)
		}
		return nil
	}

	if !hasLegacy {
		return nil
	}
	if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
		return fmt.Errorf("loading legacy project config %s: %w", legacyPath, err)
	}
	fmt.Fprintf(warnings, "Warning: %s uses the deprecated JSON format\n", legacyPath)
	fmt.Fprintf(warnings, "  Convert it to YAML and save it as %s.\n\n", ProjectConfigPath())
	return nil
}

// loadYAMLConfig checks the YAML syntax first so errors carry a line number.
func loadYAMLConfig(k *koanf.Koanf, path, scope string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("%s config: %w", scope, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading %s config %s: %w", scope, path, err)
	}
	return nil
}

// loadEnvironmentConfig applies CLAUDE_CONFIG_* overrides.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("loading environment config: %w", err)
	}
	return nil
}

// finalizeConfig decodes and validates the merged layers and expands ~ in paths.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, err
	}

	cfg.SourceDir = expandHomePath(cfg.SourceDir)
	cfg.TargetDir = expandHomePath(cfg.TargetDir)
	cfg.StateDir = expandHomePath(cfg.StateDir)

	if os.Getenv(EnvPrefix+"YES") != "" {
		cfg.SkipConfirmations = true
	}

	return &cfg, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: CLAUDE_CONFIG_SOURCE_DIR -> source_dir
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands a leading ~/ to the user's home directory.
func expandHomePath(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
