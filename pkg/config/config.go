// Package config loads vppsh settings from an optional YAML file, VPPSH_*
// environment variables and command-line flags, in increasing priority.
//
// Search order for the file (first existing wins):
//  1. the explicit --config path (must exist when given)
//  2. $VPPSH_CONFIG
//  3. $XDG_CONFIG_HOME/vppsh/config.yaml
//  4. ~/.config/vppsh/config.yaml
//
// A missing file is not an error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appDirName     = "vppsh"
	configFilename = "config.yaml"
	envPrefix      = "VPPSH"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the resolved application configuration.
type Config struct {
	Socket           string          `mapstructure:"socket" yaml:"socket"`
	Prompt           string          `mapstructure:"prompt" yaml:"prompt"`
	Locale           string          `mapstructure:"locale" yaml:"locale"`
	Term             string          `mapstructure:"term" yaml:"term"`
	Theme            string          `mapstructure:"theme" yaml:"theme"`
	LogFile          string          `mapstructure:"log_file" yaml:"log_file"`
	LogLevel         string          `mapstructure:"log_level" yaml:"log_level"`
	SnapshotDir      string          `mapstructure:"snapshot_dir" yaml:"snapshot_dir"`
	MaxCommandLen    int             `mapstructure:"max_command_len" yaml:"max_command_len"`
	ConnectTimeout   time.Duration   `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	ExecTimeout      time.Duration   `mapstructure:"exec_timeout" yaml:"exec_timeout"`
	Reconnect        ReconnectConfig `mapstructure:"reconnect" yaml:"reconnect"`
	UndeleteToOrigin bool            `mapstructure:"undelete_to_origin" yaml:"undelete_to_origin"`
}

// ReconnectConfig controls what happens after the CLI socket closes.
type ReconnectConfig struct {
	Attempts int           `mapstructure:"attempts" yaml:"attempts"`
	Backoff  time.Duration `mapstructure:"backoff" yaml:"backoff"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Socket:         "/run/vpp/cli.sock",
		Prompt:         "vpp# ",
		Locale:         "sys",
		Theme:          "auto",
		LogLevel:       "info",
		SnapshotDir:    defaultSnapshotDir(),
		MaxCommandLen:  4096,
		ConnectTimeout: 5 * time.Second,
		ExecTimeout:    30 * time.Second,
		Reconnect:      ReconnectConfig{Attempts: 1},
	}
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"socket":    "socket",
	"locale":    "locale",
	"log-file":  "log_file",
	"log-level": "log_level",
}

// Load resolves the configuration. explicitPath may be empty. flags may be
// nil; flags that were set on the command line override file and environment.
// It returns the configuration and the file it was read from ("" if none).
func Load(explicitPath string, flags *pflag.FlagSet) (Config, string, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("socket", def.Socket)
	v.SetDefault("prompt", def.Prompt)
	v.SetDefault("locale", def.Locale)
	v.SetDefault("term", def.Term)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("snapshot_dir", def.SnapshotDir)
	v.SetDefault("max_command_len", def.MaxCommandLen)
	v.SetDefault("connect_timeout", def.ConnectTimeout)
	v.SetDefault("exec_timeout", def.ExecTimeout)
	v.SetDefault("reconnect.attempts", def.Reconnect.Attempts)
	v.SetDefault("reconnect.backoff", def.Reconnect.Backoff)
	v.SetDefault("undelete_to_origin", def.UndeleteToOrigin)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, "", fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	used, err := findConfigFile(explicitPath)
	if err != nil {
		return Config{}, "", err
	}
	if used != "" {
		v.SetConfigFile(used)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, used, fmt.Errorf("read config %s: %w", used, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, used, fmt.Errorf("decode config %s: %w", used, err)
	}
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.SnapshotDir = expandPath(cfg.SnapshotDir)
	cfg.Socket = expandPath(cfg.Socket)
	if err := cfg.Validate(); err != nil {
		return Config{}, used, err
	}
	return cfg, used, nil
}

// ConfigPathCandidates returns possible configuration file paths, in priority order.
// If explicitPath is provided, it is returned first.
func ConfigPathCandidates(explicitPath string) []string {
	var out []string
	if explicitPath != "" {
		out = append(out, explicitPath)
	}
	if env := os.Getenv("VPPSH_CONFIG"); env != "" {
		out = append(out, env)
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg != "" {
		out = append(out, filepath.Join(xdg, appDirName, configFilename))
	}
	home, _ := os.UserHomeDir()
	if home != "" {
		out = append(out, filepath.Join(home, ".config", appDirName, configFilename))
	}
	return out
}

func findConfigFile(explicitPath string) (string, error) {
	if p := expandPath(strings.TrimSpace(explicitPath)); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("config %s: %w", p, err)
		}
		return p, nil
	}
	for _, p := range ConfigPathCandidates("") {
		p = expandPath(p)
		if p == "" {
			continue
		}
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	return "", nil
}

// DefaultConfigDir returns the directory path for this application's config.
// Precedence:
//  1. $XDG_CONFIG_HOME/vppsh
//  2. ~/.config/vppsh
func DefaultConfigDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", appDirName), nil
}

func defaultSnapshotDir() string {
	dir, err := DefaultConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName, "snapshots")
	}
	return filepath.Join(dir, "snapshots")
}

// Validate performs basic sanity checks on the configuration.
//
// - socket and prompt must be non-empty.
// - locale must be one of: ru | en | sys
// - log_level must be one of: trace | debug | info | warn | error
// - theme must be one of: auto | dark | light | none
// - max_command_len must leave room for at least one byte after the prompt.
// - reconnect.attempts must be >= 1; durations must be >= 0.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Socket) == "" {
		return fmt.Errorf("%w: socket is required", ErrInvalid)
	}
	if c.Prompt == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalid)
	}
	switch strings.ToLower(strings.TrimSpace(c.Locale)) {
	case "ru", "en", "sys":
	default:
		return fmt.Errorf("%w: invalid locale %q (expected: ru|en|sys)", ErrInvalid, c.Locale)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log_level %q (expected: trace|debug|info|warn|error)", ErrInvalid, c.LogLevel)
	}
	switch strings.ToLower(strings.TrimSpace(c.Theme)) {
	case "auto", "dark", "light", "none":
	default:
		return fmt.Errorf("%w: invalid theme %q (expected: auto|dark|light|none)", ErrInvalid, c.Theme)
	}
	if c.MaxCommandLen <= len(c.Prompt) {
		return fmt.Errorf("%w: max_command_len %d must exceed prompt length %d", ErrInvalid, c.MaxCommandLen, len(c.Prompt))
	}
	if c.Reconnect.Attempts < 1 {
		return fmt.Errorf("%w: reconnect.attempts must be >= 1", ErrInvalid)
	}
	if c.ConnectTimeout < 0 {
		return fmt.Errorf("%w: connect_timeout must be >= 0", ErrInvalid)
	}
	if c.ExecTimeout < 0 {
		return fmt.Errorf("%w: exec_timeout must be >= 0", ErrInvalid)
	}
	if c.Reconnect.Backoff < 0 {
		return fmt.Errorf("%w: reconnect.backoff must be >= 0", ErrInvalid)
	}
	return nil
}

// expandPath expands leading "~" and environment variables in a path.
// If the input is empty, returns "".
func expandPath(p string) string {
	if p == "" {
		return ""
	}
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~") {
		home, _ := os.UserHomeDir()
		if home != "" {
			if p == "~" {
				p = home
			} else if strings.HasPrefix(p, "~/") {
				p = filepath.Join(home, p[2:])
			}
		}
	}
	return p
}
