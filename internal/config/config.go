// Package config resolves the data directory and loads config.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	dirName        = ".todo"
	configFileName = "config.toml"
	taskFileName   = "tasks.json"
)

// Environment variables understood by Load and DataDir.
const (
	EnvHome     = "TODO_HOME"
	EnvConfig   = "TODO_CONFIG"
	EnvTaskFile = "TODO_TASK_FILE"
	EnvColor    = "TODO_COLOR"
	EnvNoColor  = "NO_COLOR"
)

// Config holds the application configuration.
type Config struct {
	ColorEnabled bool   `toml:"color_enabled"`
	TaskFile     string `toml:"task_file"`
}

// Default returns the configuration used when no file exists.
func Default(dataDir string) *Config {
	return &Config{
		ColorEnabled: true,
		TaskFile:     filepath.Join(dataDir, taskFileName),
	}
}

// DataDir returns the directory holding config.toml and the default task file:
// $TODO_HOME, else <project root>/.todo inside a git repository, else ~/.todo.
// It does not create anything; see Init.
func DataDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return filepath.Abs(expandPath(dir))
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working dir: %w", err)
	}
	if root, rootErr := FindProjectRoot(cwd); rootErr == nil {
		return filepath.Join(root, dirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Init creates the data directory.
func Init(dataDir string) error {
	//nolint:gosec // G301: 0755 is appropriate for user-accessible data directory
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// Path returns the config file location: $TODO_CONFIG, else override, else
// config.toml inside dataDir.
func Path(dataDir, override string) string {
	if p := os.Getenv(EnvConfig); p != "" {
		return expandPath(p)
	}
	if override != "" {
		return expandPath(override)
	}
	return filepath.Join(dataDir, configFileName)
}

// Load reads the config file at path, writing one with defaults if it does
// not exist, and then applies environment overrides. Overrides are never
// written back.
func Load(path, dataDir string) (*Config, error) {
	cfg := Default(dataDir)

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err = cfg.SaveTo(path); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if _, err = toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if cfg.TaskFile == "" {
		cfg.TaskFile = Default(dataDir).TaskFile
	}
	cfg.TaskFile = resolvePath(cfg.TaskFile, dataDir)

	if err = cfg.applyEnv(dataDir); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(dataDir string) error {
	if p := os.Getenv(EnvTaskFile); p != "" {
		c.TaskFile = resolvePath(p, dataDir)
	}
	if v := os.Getenv(EnvColor); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvColor, err)
		}
		c.ColorEnabled = enabled
	}
	if os.Getenv(EnvNoColor) != "" {
		c.ColorEnabled = false
	}
	return nil
}

// resolvePath expands ~ and anchors relative paths at dataDir.
func resolvePath(p, dataDir string) string {
	p = expandPath(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(dataDir, p)
	}
	return filepath.Clean(p)
}

// SaveTo writes the configuration as TOML, creating parent directories.
func (c *Config) SaveTo(path string) error {
	//nolint:gosec // G301: 0755 is appropriate for user-accessible config directory
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	if err = toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
