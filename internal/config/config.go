package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved application configuration.
type Config struct {
	// Theme name: "dark" (default), "light", or path to custom theme.
	Theme string `mapstructure:"theme"`
	// Editor to use for commit messages (falls back to $EDITOR).
	Editor string `mapstructure:"editor"`
	// MaxLogEntries is the default number of log entries to load per page.
	MaxLogEntries int `mapstructure:"max_log_entries"`
	// ConfirmDestructive prompts before force push, discard, etc.
	ConfirmDestructive bool `mapstructure:"confirm_destructive"`
	// DiffContextLines is the number of context lines in diffs.
	DiffContextLines int `mapstructure:"diff_context_lines"`
	// SideBySideDiff enables side-by-side diff mode by default.
	SideBySideDiff bool `mapstructure:"side_by_side_diff"`
	// BackendCacheTTL bounds how long gitcli.CachedRepo serves stale reads.
	BackendCacheTTL time.Duration `mapstructure:"backend_cache_ttl"`
	// WatchDebounce and WatchMaxDelay tune internal/watch's debouncer.
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
	WatchMaxDelay time.Duration `mapstructure:"watch_max_delay"`
	// LogLevel controls internal/obslog's logrus level.
	LogLevel string `mapstructure:"log_level"`
	// ExecutorPoolSize is the worker count for the executor.Pool. 0 lets
	// the pool pick executor.Pool's own default (max(minWorkers, NumCPU)).
	ExecutorPoolSize int `mapstructure:"executor_pool_size"`
	// DiagnosticsCap, CommandLogCap, NotificationsCap bound the
	// corresponding per-repo/app-wide ring buffers in internal/store.
	DiagnosticsCap   int `mapstructure:"diagnostics_cap"`
	CommandLogCap    int `mapstructure:"command_log_cap"`
	NotificationsCap int `mapstructure:"notifications_cap"`
}

// Load reads configuration from $XDG_CONFIG_HOME/gitcore/config.yaml (or TOML/JSON).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configDir := configDirectory()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("GITCORE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine — use defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", "dark")
	v.SetDefault("editor", "")
	v.SetDefault("max_log_entries", 200)
	v.SetDefault("confirm_destructive", true)
	v.SetDefault("diff_context_lines", 3)
	v.SetDefault("side_by_side_diff", false)
	v.SetDefault("backend_cache_ttl", 1500*time.Millisecond)
	v.SetDefault("watch_debounce", 250*time.Millisecond)
	v.SetDefault("watch_max_delay", 2*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("executor_pool_size", 0)
	v.SetDefault("diagnostics_cap", 200)
	v.SetDefault("command_log_cap", 200)
	v.SetDefault("notifications_cap", 200)
}

func configDirectory() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitcore")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gitcore")
}
