// Package config handles loading tasktree configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/amonks/tasktree/internal/paths"
	"github.com/amonks/tasktree/todo"
)

// ProjectFile is the name of the per-directory configuration file.
const ProjectFile = ".tasktree.toml"

// DataEnv overrides the configured document path.
const DataEnv = "TASKTREE_DATA"

// Defaults.
const (
	DefaultServerAddr  = "127.0.0.1:5000"
	DefaultPaddingDays = 2
)

// Config represents a tasktree configuration file.
type Config struct {
	Store    Store    `toml:"store"`
	Server   Server   `toml:"server"`
	Timeline Timeline `toml:"timeline"`
}

// Store configures the JSON document.
type Store struct {
	// Path is the document location. A leading "~/" expands to the home
	// directory.
	Path string `toml:"path"`

	// Seed writes default categories and tags into a new document.
	Seed *bool `toml:"seed"`
}

// Server configures `tt serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Timeline configures the gantt views.
type Timeline struct {
	PaddingDays *int `toml:"padding-days"`
}

// Load loads configuration from dir and the global config file.
// Returns an empty config if no config files exist.
func Load(dir string) (*Config, error) {
	return load(filepath.Join(dir, ProjectFile))
}

// LoadFile loads the global config file merged with the project config at
// path, which must exist.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return load(path)
}

func load(projectPath string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(projectPath)
	if err != nil {
		return nil, err
	}

	return mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta), nil
}

// DataPath returns the document path: TASKTREE_DATA, then store.path, then
// the default state location.
func (c *Config) DataPath() (string, error) {
	if env := strings.TrimSpace(os.Getenv(DataEnv)); env != "" {
		return expandHome(env)
	}
	if c.Store.Path != "" {
		return expandHome(c.Store.Path)
	}
	return paths.DefaultDataPath()
}

// SeedEnabled reports whether new documents get the default categories and
// tags. Defaults to true.
func (c *Config) SeedEnabled() bool {
	return c.Store.Seed == nil || *c.Store.Seed
}

// ServerAddr returns the configured listen address or the default.
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// PaddingDays returns the configured gantt padding or the default.
// Values are clamped to 0..todo.MaxPaddingDays.
func (c *Config) PaddingDays() int {
	if c.Timeline.PaddingDays == nil {
		return DefaultPaddingDays
	}
	return min(max(*c.Timeline.PaddingDays, 0), todo.MaxPaddingDays)
}

func globalConfigPath() (string, error) {
	homeDir, err := paths.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tasktree", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Store.Path = mergeString(projectMeta.IsDefined("store", "path"), projectCfg.Store.Path, globalCfg.Store.Path)
	merged.Server.Addr = mergeString(projectMeta.IsDefined("server", "addr"), projectCfg.Server.Addr, globalCfg.Server.Addr)
	merged.Store.Seed = mergePointer(projectMeta.IsDefined("store", "seed"), globalMeta.IsDefined("store", "seed"), projectCfg.Store.Seed, globalCfg.Store.Seed)
	merged.Timeline.PaddingDays = mergePointer(projectMeta.IsDefined("timeline", "padding-days"), globalMeta.IsDefined("timeline", "padding-days"), projectCfg.Timeline.PaddingDays, globalCfg.Timeline.PaddingDays)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func mergePointer[T any](projectDefined, globalDefined bool, projectValue, globalValue *T) *T {
	var source *T
	switch {
	case projectDefined:
		source = projectValue
	case globalDefined:
		source = globalValue
	}
	if source == nil {
		return nil
	}
	value := *source
	return &value
}

func expandHome(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := paths.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
