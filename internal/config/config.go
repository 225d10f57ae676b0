// Package config loads settings for the tasks program.
//
// Sources, lowest priority first: defaults, the user config file
// (<user config dir>/tasks/config.toml), the project file (.tasks.toml in the
// working directory), TASKS_* environment variables, then flags.
package config

import "time"

const (
	DefaultDataDir      = ".tasks"
	DefaultSlot         = "tasks"
	DefaultTheme        = "classic"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultLogFileName  = "tasks.log"
	DefaultRepeatWindow = "250ms"

	ProjectConfigFile = ".tasks.toml"
	UserConfigFile    = "config.toml"
	appDirName        = "tasks"
)

// Config is the merged configuration.
type Config struct {
	// DataDir holds the key/value storage file. Relative paths resolve
	// against the working directory.
	DataDir string `toml:"data_dir"`
	// Slot is the storage key the task list is saved under.
	Slot string `toml:"slot"`
	// Theme styles non-interactive output: classic, neon or mono.
	Theme string `toml:"theme"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	// LogFile defaults to tasks.log inside DataDir.
	LogFile string `toml:"log_file"`

	// RepeatWindow is how close two identical key presses must be to count
	// as one held key, e.g. "250ms". "0" disables repeat detection.
	RepeatWindow string `toml:"repeat_window"`

	// Derived in finalize.
	RepeatDelay time.Duration `toml:"-"`
	ProjectRoot string        `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Slot = DefaultSlot
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.RepeatWindow = DefaultRepeatWindow
}
