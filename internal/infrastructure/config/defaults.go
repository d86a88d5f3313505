package config

import "time"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Built-in theme names.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// DefaultCloseDelay is how long a closed webxdc window stays hidden before
// it is destroyed.
const DefaultCloseDelay = 300 * time.Millisecond

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Sandbox: SandboxConfig{
			MaxConcurrentSchemeRequests: 16,
			CloseDelayMs:                int(DefaultCloseDelay / time.Millisecond),
			WindowWidth:                 375,
			WindowHeight:                667,
		},
		Bridge: BridgeConfig{
			Listen:         "127.0.0.1:0",
			AllowedOrigins: []string{},
		},
		Theme: ThemeSystem,
	}
}

func (m *Manager) setDefaults() {
	d := DefaultConfig()

	m.viper.SetDefault("logging.level", d.Logging.Level)
	m.viper.SetDefault("logging.format", d.Logging.Format)
	m.viper.SetDefault("logging.file", d.Logging.File)
	m.viper.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	m.viper.SetDefault("logging.compress", d.Logging.Compress)

	m.viper.SetDefault("paths.app_local_data", d.Paths.AppLocalData)
	m.viper.SetDefault("paths.accounts_dir", d.Paths.AccountsDir)
	m.viper.SetDefault("paths.temp_dir", d.Paths.TempDir)

	m.viper.SetDefault("sandbox.max_concurrent_scheme_requests", d.Sandbox.MaxConcurrentSchemeRequests)
	m.viper.SetDefault("sandbox.dev_tools", d.Sandbox.DevTools)
	m.viper.SetDefault("sandbox.close_delay_ms", d.Sandbox.CloseDelayMs)
	m.viper.SetDefault("sandbox.window_width", d.Sandbox.WindowWidth)
	m.viper.SetDefault("sandbox.window_height", d.Sandbox.WindowHeight)

	m.viper.SetDefault("bridge.listen", d.Bridge.Listen)
	m.viper.SetDefault("bridge.allowed_origins", d.Bridge.AllowedOrigins)
	m.viper.SetDefault("theme", d.Theme)
}
