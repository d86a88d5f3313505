// Package cli holds the shared state of the dcshell commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/dcshell/internal/cli/styles"
	"github.com/bnema/dcshell/internal/domain/build"
	"github.com/bnema/dcshell/internal/infrastructure/config"
	"github.com/bnema/dcshell/internal/infrastructure/xdg"
	"github.com/bnema/dcshell/internal/logging"
)

// ErrUnknownTheme is returned for a theme that is neither built in nor a
// CSS file in the themes directory.
var ErrUnknownTheme = errors.New("unknown theme")

// AppOptions are the persistent flags of the root command. Empty values
// keep what the config file says.
type AppOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Theme      string
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Settings  *config.DesktopSettings
	Theme     *styles.Theme
	BuildInfo build.Info

	ctx context.Context
}

// NewApp loads the config, builds the logger and validates the theme.
func NewApp(opts AppOptions) (*App, error) {
	mgr, err := config.NewManager(xdg.New(), opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Logging.Format = opts.LogFormat
	}
	if opts.Theme != "" {
		cfg.Theme = opts.Theme
	}

	logger := logging.New(loggingConfig(cfg.Logging))
	ctx := logging.WithContext(context.Background(), logger)

	if err := ValidateTheme(cfg.Theme, mgr.ConfigDir()); err != nil {
		return nil, err
	}

	settings, err := config.NewDesktopSettings(filepath.Join(cfg.Paths.AppLocalData, config.SettingsFileName))
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("config_file", mgr.ConfigFile()).
		Str("theme", cfg.Theme).
		Msg("cli app ready")

	return &App{
		Config:   cfg,
		Manager:  mgr,
		Settings: settings,
		Theme:    styles.NewTheme(cfg.Theme),
		ctx:      ctx,
	}, nil
}

func loggingConfig(c config.LoggingConfig) logging.Config {
	lc := logging.Config{
		Level:      logging.ParseLevel(c.Level),
		Format:     c.Format,
		TimeFormat: time.TimeOnly,
	}
	if c.File != "" {
		lc.File = &logging.FileConfig{
			Path:       c.File,
			MaxSizeMB:  c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAgeDays: c.MaxAgeDays,
			Compress:   c.Compress,
		}
	}
	return lc
}

// ValidateTheme accepts the built-in themes and any name with a matching
// <configDir>/themes/<name>.css file.
func ValidateTheme(name, configDir string) error {
	switch name {
	case config.ThemeSystem, config.ThemeLight, config.ThemeDark:
		return nil
	}
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	info, err := os.Stat(filepath.Join(configDir, "themes", name+".css"))
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %q (no themes/%s.css in %s)", ErrUnknownTheme, name, name, configDir)
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// WithContext replaces the application context, keeping its logger.
func (a *App) WithContext(ctx context.Context) {
	a.ctx = logging.WithContext(ctx, *logging.FromContext(a.ctx))
}
