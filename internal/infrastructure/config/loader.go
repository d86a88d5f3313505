package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/spf13/viper"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	paths     port.XDGPaths
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a configuration manager. configFile overrides the
// default location <config dir>/config.toml when set.
func NewManager(paths port.XDGPaths, configFile string) (*Manager, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		configDir, err := paths.ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
		}
		v.SetConfigFile(filepath.Join(configDir, FileName))
	}

	// DCSHELL_SANDBOX_DEV_TOOLS, DCSHELL_BRIDGE_LISTEN, ...
	v.SetEnvPrefix("DCSHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "DCSHELL_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind DCSHELL_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "DCSHELL_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind DCSHELL_LOG_FORMAT: %w", err)
	}

	return &Manager{viper: v, paths: paths}, nil
}

// Load reads the config file, creating it with defaults when missing.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.reload(false)
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.ConfigFile(), err)
	}

	if err := m.createDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create default config at %s: %w", m.ConfigFile(), err)
	}
	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read newly created config file: %w", err)
	}
	return nil
}

// reload unmarshals viper state into a fresh Config. Must be called with the
// write lock held.
func (m *Manager) reload(readFile bool) error {
	if readFile {
		if err := m.viper.ReadInConfig(); err != nil {
			return err
		}
	}

	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches", m.ConfigFile(), err)
	}
	if err := m.resolvePaths(cfg); err != nil {
		return err
	}
	normalizeConfig(cfg)

	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	m.config = cfg
	return nil
}

func (m *Manager) resolvePaths(cfg *Config) error {
	if cfg.Paths.AppLocalData == "" {
		dataDir, err := m.paths.DataDir()
		if err != nil {
			return fmt.Errorf("failed to determine data directory: %w", err)
		}
		cfg.Paths.AppLocalData = dataDir
	}
	if cfg.Paths.AccountsDir == "" {
		cfg.Paths.AccountsDir = filepath.Join(cfg.Paths.AppLocalData, "accounts")
	}
	if cfg.Paths.TempDir == "" {
		cfg.Paths.TempDir = filepath.Join(os.TempDir(), "dcshell")
	}
	return nil
}

func normalizeConfig(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	switch strings.ToLower(cfg.Logging.Format) {
	case "json":
		cfg.Logging.Format = "json"
	default:
		cfg.Logging.Format = "console"
	}
	cfg.Theme = strings.TrimSpace(cfg.Theme)
	if cfg.Theme == "" {
		cfg.Theme = ThemeSystem
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	return &configCopy
}

// ConfigFile returns the path of the config file.
func (m *Manager) ConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// ConfigDir is the directory holding the config file and user themes.
func (m *Manager) ConfigDir() string {
	return filepath.Dir(m.ConfigFile())
}

// CloseDelay is the configured close delay of webxdc windows.
func (c *Config) CloseDelay() time.Duration {
	return time.Duration(c.Sandbox.CloseDelayMs) * time.Millisecond
}

func (m *Manager) createDefaultConfig() error {
	path := m.ConfigFile()
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}
	return WriteConfig(DefaultConfig(), path)
}
