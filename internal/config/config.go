// Package config loads ticketdash settings from YAML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ticketdash/internal/logging"
)

// RepoFile is the name of the repo-local config file.
const RepoFile = ".ticketdash.yaml"

// DefaultRefresh is the background refresh period.
const DefaultRefresh = 30 * time.Second

// Environment overrides.
const (
	EnvLinearAPIKey = "LINEAR_API_KEY"
	EnvInitScript   = "TICKETDASH_INIT_SCRIPT"
	EnvEditor       = "TICKETDASH_EDITOR"
	EnvRefresh      = "TICKETDASH_REFRESH"
)

type Linear struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
	Team     string `yaml:"team"`
}

type Worktree struct {
	// Dir holds new worktrees. Empty means a sibling "<repo>.worktrees".
	Dir          string `yaml:"dir"`
	BranchPrefix string `yaml:"branch_prefix"`
}

type Agent struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Config holds ticketdash settings.
type Config struct {
	Linear     Linear         `yaml:"linear"`
	Worktree   Worktree       `yaml:"worktree"`
	InitScript string         `yaml:"init_script"`
	Agent      Agent          `yaml:"agent"`
	Editor     string         `yaml:"editor"`
	Refresh    Duration       `yaml:"refresh_interval"`
	Logging    logging.Config `yaml:"logging"`
}

// Duration is a time.Duration written as a Go duration string ("45s").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("refresh_interval: %w", err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Agent:   Agent{Command: "claude"},
		Refresh: Duration(DefaultRefresh),
	}
}

// RefreshInterval returns the refresh period, never below one second.
func (c Config) RefreshInterval() time.Duration {
	d := time.Duration(c.Refresh)
	if d < time.Second {
		return DefaultRefresh
	}
	return d
}

// GlobalPath is ~/.config/ticketdash/config.yaml (or the platform
// equivalent).
func GlobalPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ticketdash", "config.yaml")
}

// Load layers, lowest precedence first: defaults, the global file (or
// explicit when non-empty), the closest .ticketdash.yaml at or above
// repoRoot, then the environment.
func Load(repoRoot, explicit string) (Config, error) {
	cfg := Default()

	global := explicit
	if global == "" {
		global = GlobalPath()
	}
	if global != "" {
		err := loadFile(global, &cfg)
		if err != nil && (explicit != "" || !errors.Is(err, os.ErrNotExist)) {
			return Config{}, err
		}
	}

	if local := FindRepoFile(repoRoot); local != "" {
		if err := loadFile(local, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FindRepoFile walks up from dir looking for RepoFile.
func FindRepoFile(dir string) string {
	if dir == "" {
		return ""
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, RepoFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFile decodes path over cfg; keys absent from the file keep their
// current values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvLinearAPIKey)); v != "" {
		cfg.Linear.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvInitScript)); v != "" {
		cfg.InitScript = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEditor)); v != "" {
		cfg.Editor = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRefresh)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRefresh, err)
		}
		cfg.Refresh = Duration(d)
	}
	return nil
}
