// Package bootstrap wires the shell core: the account engine, the window
// host, both viewers, the scheme dispatcher and the HTTP bridge.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/application/registry"
	"github.com/bnema/dcshell/internal/application/usecase"
	"github.com/bnema/dcshell/internal/infrastructure/accounts"
	"github.com/bnema/dcshell/internal/infrastructure/browser"
	"github.com/bnema/dcshell/internal/infrastructure/config"
	"github.com/bnema/dcshell/internal/infrastructure/filesystem"
	"github.com/bnema/dcshell/internal/infrastructure/headless"
	"github.com/bnema/dcshell/internal/infrastructure/httpbridge"
	"github.com/bnema/dcshell/internal/infrastructure/i18n"
	"github.com/bnema/dcshell/internal/infrastructure/idn"
	"github.com/bnema/dcshell/internal/infrastructure/partition"
	"github.com/bnema/dcshell/internal/infrastructure/proxy"
	"github.com/bnema/dcshell/internal/infrastructure/scheme"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 5 * time.Second

// ShellOptions are the collaborators the caller picks. Nil fields get the
// headless defaults: dialogs that cancel, English strings, the OS browser
// and the shared blackhole proxy.
type ShellOptions struct {
	Config     *config.Config
	Settings   port.SettingsStore
	Dialogs    port.DialogPresenter
	Translator port.Translator
	Opener     port.URLOpener
	Proxy      port.ProxyProvider
}

// Shell is the running shell core.
type Shell struct {
	Engine     *accounts.LocalEngine
	Host       *headless.Host
	Webxdcs    *registry.WebxdcInstances
	Emails     *registry.HTMLEmailInstances
	Webxdc     *usecase.ManageWebxdcUseCase
	HTMLEmail  *usecase.ManageHTMLEmailUseCase
	Dispatcher *scheme.Dispatcher
	Bridge     *httpbridge.Server
	Registry   *prometheus.Registry

	cfg *config.Config
}

// NewShell opens the account engine and wires every component around it.
func NewShell(ctx context.Context, opts ShellOptions) (*Shell, error) {
	if opts.Config == nil {
		return nil, errors.New("shell config is required")
	}
	if opts.Settings == nil {
		return nil, errors.New("shell settings store is required")
	}
	if opts.Dialogs == nil {
		opts.Dialogs = headless.NewDialogs(false)
	}
	if opts.Translator == nil {
		opts.Translator = i18n.NewEnglish()
	}
	if opts.Opener == nil {
		opts.Opener = browser.NewOpener()
	}
	if opts.Proxy == nil {
		opts.Proxy = proxy.Shared()
	}
	cfg := opts.Config
	log := logging.FromContext(ctx).With().Str("component", "bootstrap").Logger()

	engine, err := accounts.Open(ctx, cfg.Paths.AccountsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open accounts: %w", err)
	}

	fs := filesystem.New()
	host := headless.NewHost()
	s := &Shell{
		Engine:   engine,
		Host:     host,
		Webxdcs:  registry.NewWebxdcInstances(),
		Emails:   registry.NewHTMLEmailInstances(),
		Registry: prometheus.NewRegistry(),
		cfg:      cfg,
	}

	s.Webxdc, err = usecase.NewManageWebxdcUseCase(
		engine,
		host,
		s.Webxdcs,
		partition.NewDefault(cfg.Paths.AppLocalData, fs, host),
		opts.Proxy,
		opts.Settings,
		usecase.WebxdcConfig{
			Width:      cfg.Sandbox.WindowWidth,
			Height:     cfg.Sandbox.WindowHeight,
			CloseDelay: cfg.CloseDelay(),
			DevTools:   cfg.Sandbox.DevTools,
		},
	)
	if err != nil {
		_ = engine.Close()
		return nil, err
	}

	s.HTMLEmail, err = usecase.NewManageHTMLEmailUseCase(
		engine,
		host,
		s.Emails,
		opts.Settings,
		opts.Dialogs,
		opts.Opener,
		opts.Translator,
		idn.Checker{},
		fs,
		usecase.HTMLEmailConfig{TempDir: cfg.Paths.TempDir},
	)
	if err != nil {
		_ = engine.Close()
		return nil, err
	}

	s.Registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "dcshell",
			Subsystem: "webxdc",
			Name:      "open_instances",
			Help:      "Webxdc instances with a live window.",
		}, func() float64 { return float64(s.Webxdcs.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "dcshell",
			Subsystem: "html_email",
			Name:      "open_windows",
			Help:      "HTML email viewer windows.",
		}, func() float64 { return float64(len(s.Emails.Labels())) }),
	)

	s.Dispatcher = scheme.NewDispatcher(ctx, cfg.Sandbox.MaxConcurrentSchemeRequests, scheme.NewMetrics(s.Registry))
	s.Dispatcher.Register(scheme.NewBlobHandler(engine))
	s.Dispatcher.Register(scheme.NewStickerHandler(engine))
	s.Dispatcher.Register(scheme.NewBackgroundHandler(cfg.Paths.AppLocalData))
	s.Dispatcher.Register(scheme.NewIconHandler(engine))
	s.Dispatcher.Register(scheme.NewWebxdcHandler(s.Webxdcs, engine))
	s.Dispatcher.Register(scheme.NewEmailHandler(s.Emails))

	s.Bridge = httpbridge.New(ctx, s.Dispatcher, s.Registry, httpbridge.Options{
		AllowedOrigins: cfg.Bridge.AllowedOrigins,
	})

	log.Debug().
		Str("accounts_dir", cfg.Paths.AccountsDir).
		Strs("schemes", s.Dispatcher.Schemes()).
		Msg("shell wired")
	return s, nil
}

// Start binds the HTTP bridge and returns its address. An empty listen
// address leaves the bridge off.
func (s *Shell) Start() (string, error) {
	if s.cfg.Bridge.Listen == "" {
		return "", nil
	}
	return s.Bridge.Start(s.cfg.Bridge.Listen)
}

// Run forwards engine events to open instances until ctx is cancelled, then
// tears every window down and waits for in-flight work.
func (s *Shell) Run(ctx context.Context) error {
	log := logging.FromContext(ctx).With().Str("component", "bootstrap").Logger()

	s.Webxdc.RunEventLoop(ctx, s.Engine)

	log.Info().Msg("shutting down shell")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.Bridge.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop bridge: %w", err))
	}
	s.Webxdc.CloseAll(shutdownCtx)
	s.HTMLEmail.CloseAll(shutdownCtx)
	s.HTMLEmail.Wait()
	s.Dispatcher.Wait()
	return errors.Join(errs...)
}

// Close releases the account engine.
func (s *Shell) Close() error {
	return s.Engine.Close()
}
