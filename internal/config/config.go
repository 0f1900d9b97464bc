// Package config resolves tm's configuration from defaults, JSONC config
// files and command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDataFileEmpty      = errors.New("data-file cannot be empty")
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DataFile    string `json:"data_file"`
	LockTimeout string `json:"lock_timeout,omitempty"`
	LogLevel    string `json:"log_level,omitempty"`
	LogFormat   string `json:"log_format,omitempty"`

	// Resolved values (computed, not serialized)
	EffectiveCwd string        `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	DataFileAbs  string        `json:"-"` // Absolute path to the task file
	LockWait     time.Duration `json:"-"` // Parsed LockTimeout

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataFile:    filepath.Join("misc", "task_data.csv"),
		LockTimeout: "2s",
		LogLevel:    "warn",
		LogFormat:   "text",
	}
}

// FileName is the project config file name.
const FileName = ".tm.json"

// globalPath returns $XDG_CONFIG_HOME/tm/config.json, falling back to
// ~/.config/tm/config.json. Empty if neither variable is set.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "tm", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "tm", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride  string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath       string            // -c/--config flag value
	DataFileOverride *string           // --data-file flag value; nil means not given
	Verbose          bool              // -v/--verbose forces log_level=debug
	Env              map[string]string // environment variables
}

// Load resolves configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Global user config (~/.config/tm/config.json or $XDG_CONFIG_HOME/tm/config.json)
//  3. Project config file (.tm.json in the working directory, if it exists)
//  4. Explicit config file via ConfigPath (replaces 3)
//  5. CLI overrides
//
// Every file is checked against the config schema before it is merged.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg := Default()

	globalCfg, globalFile, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalFile
	cfg = merge(cfg, globalCfg)

	projectCfg, projectFile, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectFile
	cfg = merge(cfg, projectCfg)

	if input.DataFileOverride != nil {
		if *input.DataFileOverride == "" {
			return Config{}, ErrDataFileEmpty
		}

		cfg.DataFile = *input.DataFileOverride
	}

	if input.Verbose {
		cfg.LogLevel = "debug"
	}

	cfg.LockWait, err = time.ParseDuration(cfg.LockTimeout)
	if err != nil || cfg.LockWait <= 0 {
		return Config{}, fmt.Errorf("%w: lock_timeout %q must be a positive duration", ErrConfigInvalid, cfg.LockTimeout)
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.DataFile) {
		cfg.DataFileAbs = filepath.Clean(cfg.DataFile)
	} else {
		cfg.DataFileAbs = filepath.Join(workDir, cfg.DataFile)
	}

	return cfg, nil
}

func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadProject loads .tm.json from workDir, or the explicit config file when
// configPath is set. An explicit file must exist.
func loadProject(workDir, configPath string) (Config, string, error) {
	path := filepath.Join(workDir, FileName)
	mustExist := false

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		if _, err := os.Stat(path); err != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	}

	cfg, loaded, err := loadFile(path, mustExist)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadFile reads, validates and decodes one config file. A missing optional
// file is not an error.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

// Parse decodes a JSONC config document after validating it against the
// config schema.
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var doc any

	if err := json.Unmarshal(standardized, &doc); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := validate(doc); err != nil {
		return Config{}, err
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataFile != "" {
		base.DataFile = overlay.DataFile
	}

	if overlay.LockTimeout != "" {
		base.LockTimeout = overlay.LockTimeout
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.LogFormat != "" {
		base.LogFormat = overlay.LogFormat
	}

	return base
}

// Format renders the serializable part of cfg as indented JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}

	return string(data), nil
}
