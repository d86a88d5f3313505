// Package config loads the dcshell configuration file and the desktop
// settings store.
package config

// Config is the application configuration read from config.toml.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" toml:"logging"`
	Paths   PathsConfig   `mapstructure:"paths" toml:"paths"`
	Sandbox SandboxConfig `mapstructure:"sandbox" toml:"sandbox"`
	Bridge  BridgeConfig  `mapstructure:"bridge" toml:"bridge"`
	// Theme is a built-in theme name or the name of <config>/themes/<name>.css.
	Theme string `mapstructure:"theme" toml:"theme"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
	// File is the rotating log file. Empty disables file logging.
	File       string `mapstructure:"file" toml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" toml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" toml:"compress"`
}

// PathsConfig holds the directories dcshell reads and writes.
// Empty values are derived from the XDG data directory.
type PathsConfig struct {
	AppLocalData string `mapstructure:"app_local_data" toml:"app_local_data"`
	AccountsDir  string `mapstructure:"accounts_dir" toml:"accounts_dir"`
	TempDir      string `mapstructure:"temp_dir" toml:"temp_dir"`
}

// SandboxConfig tunes webxdc windows and the scheme dispatcher.
type SandboxConfig struct {
	MaxConcurrentSchemeRequests int64   `mapstructure:"max_concurrent_scheme_requests" toml:"max_concurrent_scheme_requests"`
	DevTools                    bool    `mapstructure:"dev_tools" toml:"dev_tools"`
	CloseDelayMs                int     `mapstructure:"close_delay_ms" toml:"close_delay_ms"`
	WindowWidth                 float64 `mapstructure:"window_width" toml:"window_width"`
	WindowHeight                float64 `mapstructure:"window_height" toml:"window_height"`
}

// BridgeConfig configures the loopback HTTP scheme bridge.
type BridgeConfig struct {
	Listen string `mapstructure:"listen" toml:"listen"`
	// AllowedOrigins are the main window origins allowed to read responses.
	AllowedOrigins []string `mapstructure:"allowed_origins" toml:"allowed_origins"`
}
