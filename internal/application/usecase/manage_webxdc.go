package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/application/registry"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/rs/zerolog"
)

// DefaultWebxdcBaseURL is the fixed origin every webxdc app is served from.
const DefaultWebxdcBaseURL = "webxdc://dummy.host"

// webrtcInitScript removes the WebRTC peer connection constructors before
// any app script runs. The CSP webrtc directive is not enforced everywhere.
const webrtcInitScript = `(() => {
  const disabled = function () { throw new Error('WebRTC is disabled') }
  for (const name of ['RTCPeerConnection', 'webkitRTCPeerConnection']) {
    try {
      Object.defineProperty(window, name, { value: disabled, writable: false, configurable: false })
    } catch (_) {}
  }
})()`

// noHostRules maps every host name to NOTFOUND, so the engine resolves
// nothing and connects nowhere.
const noHostRules = "MAP * ~NOTFOUND"

// hardeningBrowserArgs disables DNS and non-proxied WebRTC on Chromium
// based hosts and forces all traffic, loopback included, to proxyURL.
func hardeningBrowserArgs(proxyURL *url.URL) []string {
	return []string{
		`--host-resolver-rules="` + noHostRules + `"`,
		`--host-rules="` + noHostRules + `"`,
		"--webrtc-ip-handling-policy=disable_non_proxied_udp",
		"--force-webrtc-ip-handling-policy=disable_non_proxied_udp",
		`--proxy-server="` + proxyURL.String() + `"`,
		"--proxy-bypass-list=<-loopback>",
	}
}

// WebxdcConfig holds window defaults for webxdc apps.
type WebxdcConfig struct {
	// BaseURL is the app origin, webxdc://dummy.host or http://webxdc.localhost.
	BaseURL    string
	Width      float64
	Height     float64
	CloseDelay time.Duration
	// DevTools enables the inspector regardless of the desktop setting.
	DevTools bool
}

// OpenWebxdcInput identifies the app to open.
type OpenWebxdcInput struct {
	AccountID uint32
	MessageID uint32
	// Href is an optional path relative to the app root, e.g. "page.html#top".
	Href string
}

// ManageWebxdcUseCase opens webxdc apps in sandboxed windows and tracks
// them until they are destroyed.
type ManageWebxdcUseCase struct {
	engine     port.AccountEngine
	host       port.WindowHost
	instances  *registry.WebxdcInstances
	partitions port.StoragePartitioner
	proxy      port.ProxyProvider
	settings   port.SettingsStore
	cfg        WebxdcConfig
	base       *url.URL
	opening    keyedMutex
}

// NewManageWebxdcUseCase creates the webxdc use case.
func NewManageWebxdcUseCase(
	engine port.AccountEngine,
	host port.WindowHost,
	instances *registry.WebxdcInstances,
	partitions port.StoragePartitioner,
	proxy port.ProxyProvider,
	settings port.SettingsStore,
	cfg WebxdcConfig,
) (*ManageWebxdcUseCase, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultWebxdcBaseURL
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 375, 667
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webxdc base url: %w", err)
	}
	if base.Port() != "" || base.Host == "" {
		return nil, fmt.Errorf("webxdc base url %s must have a host and no port", cfg.BaseURL)
	}
	base.Path, base.RawQuery, base.Fragment = "", "", ""

	return &ManageWebxdcUseCase{
		engine:     engine,
		host:       host,
		instances:  instances,
		partitions: partitions,
		proxy:      proxy,
		settings:   settings,
		cfg:        cfg,
		base:       base,
	}, nil
}

// Open opens the webxdc app of a message, or focuses its window when it is
// already open. It returns the window label.
func (uc *ManageWebxdcUseCase) Open(ctx context.Context, in OpenWebxdcInput) (string, error) {
	log := logging.FromContext(ctx).With().
		Uint32("account_id", in.AccountID).
		Uint32("message_id", in.MessageID).
		Logger()

	// Find, register and build run under one lock per (account, message),
	// so a concurrent open waits and then focuses the new window.
	unlock := uc.opening.Lock(entity.InstanceKey{AccountID: in.AccountID, MessageID: in.MessageID})
	defer unlock()

	label := entity.NewEmbeddedLabel()

	if existing, ok := uc.instances.Find(in.AccountID, in.MessageID); ok {
		return existing.Label, uc.focusExisting(existing, in.Href, log)
	}

	account, err := uc.engine.Account(ctx, in.AccountID)
	if err != nil {
		return "", err
	}
	msg, err := account.Message(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, entity.ErrMessageNotFound) {
			return "", fmt.Errorf("%w: %w", entity.ErrInstanceNotFound, err)
		}
		return "", err
	}
	if !msg.IsWebxdc() {
		return "", fmt.Errorf("%w: message %d is not a webxdc app", entity.ErrInstanceNotFound, in.MessageID)
	}

	target, err := uc.resolveHref(in.Href)
	if err != nil {
		return "", err
	}
	proxyURL, err := uc.proxy.URL()
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrBlackholeProxyUnavailable, err)
	}

	info, err := account.WebxdcInfo(ctx, msg)
	if err != nil {
		return "", err
	}
	chatName, err := account.ChatName(ctx, msg.ChatID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load chat name for window title")
	}

	// Scheme requests may race window creation, so the instance is
	// registered first.
	if err := uc.instances.Add(entity.Instance{
		Label:     label,
		AccountID: in.AccountID,
		MessageID: in.MessageID,
		Message:   *msg,
	}); err != nil {
		return "", err
	}

	windowCtx := logging.WithContext(context.WithoutCancel(ctx), log.With().Str("window_label", label).Logger())
	onEvent := uc.windowEventHandler(windowCtx, label, account, in.MessageID)

	w, err := uc.buildWindow(ctx, label, in, target, proxyURL, entity.WebxdcTitle(*info, chatName), onEvent)
	if err != nil {
		uc.instances.Remove(label)
		return "", err
	}

	uc.applyWindowPolicy(ctx, w, log)

	log.Info().Str("window_label", label).Str("url", target.String()).Msg("webxdc app opened")
	return label, nil
}

func (uc *ManageWebxdcUseCase) focusExisting(inst entity.Instance, href string, log zerolog.Logger) error {
	w, ok := uc.host.Window(inst.Label)
	if !ok {
		uc.instances.Remove(inst.Label)
		return fmt.Errorf("%w: %s", entity.ErrInstanceExistsButWindowMissing, inst.Label)
	}
	if err := w.Focus(); err != nil {
		log.Warn().Err(err).Str("window_label", inst.Label).Msg("failed to focus webxdc window")
	}
	if href == "" {
		return nil
	}

	target, err := uc.resolveHref(href)
	if err != nil {
		return err
	}
	wv, ok := w.Webview(inst.Label)
	if !ok {
		return fmt.Errorf("%w: webview of %s", entity.ErrInstanceExistsButWindowMissing, inst.Label)
	}
	return wv.Navigate(target)
}

// resolveHref copies path, query and fragment of href onto the base URL.
// Scheme and host of href are ignored.
func (uc *ManageWebxdcUseCase) resolveHref(href string) (*url.URL, error) {
	target := *uc.base
	if href == "" {
		target.Path = "/index.html"
		return &target, nil
	}
	rel, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("%w: href %q: %w", entity.ErrInvalidPath, href, err)
	}
	target.Path = "/" + strings.TrimLeft(rel.Path, "/")
	target.RawQuery = rel.RawQuery
	target.Fragment = rel.Fragment
	return &target, nil
}

// sameOrigin compares scheme, host and port with the base origin.
func (uc *ManageWebxdcUseCase) sameOrigin(u *url.URL) bool {
	return u != nil &&
		strings.EqualFold(u.Scheme, uc.base.Scheme) &&
		strings.EqualFold(u.Hostname(), uc.base.Hostname()) &&
		u.Port() == ""
}

func (uc *ManageWebxdcUseCase) buildWindow(
	ctx context.Context,
	label string,
	in OpenWebxdcInput,
	target, proxyURL *url.URL,
	title string,
	onEvent func(port.WindowEvent),
) (port.Window, error) {
	log := logging.FromContext(ctx)

	zoom, err := uc.settings.GetFloat(ctx, port.SettingWebxdcZoomFactor)
	if err != nil || zoom <= 0 {
		zoom = 1
	}
	devTools, err := uc.settings.GetBool(ctx, port.SettingWebxdcDevTools)
	if err != nil {
		log.Debug().Err(err).Msg("dev tools setting unavailable")
	}

	opts := port.WebviewOptions{
		Label:      label,
		URL:        target,
		InitScript: webrtcInitScript,
		ProxyURL:   proxyURL,
		DevTools:   devTools || uc.cfg.DevTools,
		Zoom:       zoom,
		// Hosts skip the proxy for loopback unless told otherwise.
		BrowserArgs:        hardeningBrowserArgs(proxyURL),
		DisableLinkPreview: true,
		OnNavigation: func(next *url.URL) bool {
			if uc.sameOrigin(next) {
				return true
			}
			log.Warn().Str("window_label", label).Str("target", next.Redacted()).Msg("blocked navigation away from webxdc origin")
			return false
		},
	}
	if err := uc.partitions.Attach(ctx, &opts, in.AccountID, in.MessageID); err != nil {
		return nil, fmt.Errorf("failed to attach storage partition: %w", err)
	}

	return uc.host.CreateWindow(ctx, port.WindowOptions{
		Label:   label,
		Title:   title,
		Width:   uc.cfg.Width,
		Height:  uc.cfg.Height,
		Webview: &opts,
		OnEvent: onEvent,
	})
}

func (uc *ManageWebxdcUseCase) applyWindowPolicy(ctx context.Context, w port.Window, log zerolog.Logger) {
	protect, err := uc.settings.GetBool(ctx, port.SettingContentProtection)
	if err != nil {
		log.Debug().Err(err).Msg("content protection setting unavailable")
	}
	if err := w.SetContentProtected(protect); err != nil {
		log.Warn().Err(err).Msg("failed to set content protection")
	}

	if main, ok := uc.host.Window(entity.MainWindowLabel); ok {
		onTop, err := main.IsAlwaysOnTop()
		if err == nil && onTop {
			if err := w.SetAlwaysOnTop(true); err != nil {
				log.Warn().Err(err).Msg("failed to follow always-on-top of main window")
			}
		}
	}
}

// windowEventHandler unloads the app on the first close request, hides the
// window and destroys it after the close delay. A second close request,
// or a failed unload, lets the close go through. Destruction removes the
// registry entry and leaves the realtime channel.
func (uc *ManageWebxdcUseCase) windowEventHandler(ctx context.Context, label string, account port.Account, messageID uint32) func(port.WindowEvent) {
	var closing atomic.Bool
	return func(ev port.WindowEvent) {
		log := logging.FromContext(ctx)
		switch ev.Kind {
		case port.WindowCloseRequested:
			if closing.Swap(true) {
				log.Debug().Msg("second close request on webxdc window, closing now")
				return
			}
			w, ok := uc.host.Window(label)
			if !ok {
				return
			}
			wv, ok := w.Webview(label)
			if !ok {
				return
			}
			unload := *uc.base
			unload.Path = "/webxdc.js"
			if err := wv.Navigate(&unload); err != nil {
				log.Error().Err(err).Msg("failed to unload webxdc app before close, closing without delay")
				return
			}
			ev.PreventClose()
			if err := w.Hide(); err != nil {
				log.Debug().Err(err).Msg("failed to hide webxdc window")
			}
			time.AfterFunc(uc.cfg.CloseDelay, func() {
				if err := w.Destroy(); err != nil {
					log.Warn().Err(err).Msg("failed to destroy webxdc window")
				}
			})

		case port.WindowDestroyed:
			uc.instances.Remove(label)
			if err := account.LeaveRealtime(ctx, messageID); err != nil {
				log.Warn().Err(err).Msg("failed to leave realtime channel")
			}
			log.Info().Msg("webxdc window destroyed")
		}
	}
}

// refreshTitle rebuilds the window title from a fresh message snapshot.
func (uc *ManageWebxdcUseCase) refreshTitle(ctx context.Context, inst entity.Instance) error {
	account, err := uc.engine.Account(ctx, inst.AccountID)
	if err != nil {
		return err
	}
	msg, err := account.Message(ctx, inst.MessageID)
	if err != nil {
		return err
	}
	uc.instances.UpdateMessage(inst.Label, *msg)

	info, err := account.WebxdcInfo(ctx, msg)
	if err != nil {
		return err
	}
	chatName, err := account.ChatName(ctx, msg.ChatID)
	if err != nil {
		return err
	}
	w, ok := uc.host.Window(inst.Label)
	if !ok {
		return fmt.Errorf("%w: %s", entity.ErrInstanceExistsButWindowMissing, inst.Label)
	}
	return w.SetTitle(entity.WebxdcTitle(*info, chatName))
}
