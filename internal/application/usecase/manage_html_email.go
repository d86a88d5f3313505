package usecase

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/application/registry"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultEmailBaseURL is the origin HTML email content is served from.
	DefaultEmailBaseURL = "email://dummy.host"
	// DefaultEmailHeaderURL is the app page rendering the email header pane.
	DefaultEmailHeaderURL = "app://localhost/html_email_view.html"

	emailHeaderHeight  = 100
	emailWindowWidth   = 800
	emailWindowHeight  = 600
	emailSubjectRunes  = 42
	emailSenderRunes   = 40
	emailTempDirPrefix = "html-email"
)

// Translation keys used by the HTML email viewer.
const (
	TrLoadRemoteContent               = "load_remote_content"
	TrLoadRemoteContentBlockedByProxy = "load_remote_content_blocked_by_proxy"
	TrLoadRemoteContentAsk            = "load_remote_content_ask"
	TrPunycodeWarningHeader           = "puny_code_warning_header"
	TrPunycodeWarningQuestion         = "puny_code_warning_question"
	TrPunycodeWarningDescription      = "puny_code_warning_description"
	TrOpen                            = "open"
	TrCancel                          = "cancel"
)

// HTMLEmailConfig holds URLs and directories of the HTML email viewer.
type HTMLEmailConfig struct {
	BaseURL   string
	HeaderURL string
	// TempDir holds the private data directories of content webviews.
	TempDir string
}

// OpenHTMLEmailInput is what the host knows about the email to display.
type OpenHTMLEmailInput struct {
	AccountID        uint32
	MessageID        uint32
	IsContactRequest bool
	Subject          string
	Sender           string
	ReceiveTime      string
	HTMLContent      []byte
}

// HTMLEmailInfo feeds the header pane of a viewer window.
type HTMLEmailInfo struct {
	Subject                string `json:"subject"`
	Sender                 string `json:"sender"`
	ReceiveTime            string `json:"receiveTime"`
	ToggleNetwork          bool   `json:"toggleNetwork"`
	NetworkButtonLabelText string `json:"networkButtonLabelText"`
	BlockedByProxy         bool   `json:"blockedByProxy"`
}

// ManageHTMLEmailUseCase shows HTML emails in two-pane viewer windows and
// gates their remote content.
type ManageHTMLEmailUseCase struct {
	engine     port.AccountEngine
	host       port.WindowHost
	instances  *registry.HTMLEmailInstances
	settings   port.SettingsStore
	dialogs    port.DialogPresenter
	opener     port.URLOpener
	translator port.Translator
	checker    port.HostnameChecker
	fs         port.FileSystem
	cfg        HTMLEmailConfig
	base       *url.URL
	header     *url.URL

	// links tracks external link handling started by navigation guards.
	links sync.WaitGroup
}

// NewManageHTMLEmailUseCase creates the HTML email use case.
func NewManageHTMLEmailUseCase(
	engine port.AccountEngine,
	host port.WindowHost,
	instances *registry.HTMLEmailInstances,
	settings port.SettingsStore,
	dialogs port.DialogPresenter,
	opener port.URLOpener,
	translator port.Translator,
	checker port.HostnameChecker,
	fs port.FileSystem,
	cfg HTMLEmailConfig,
) (*ManageHTMLEmailUseCase, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultEmailBaseURL
	}
	if cfg.HeaderURL == "" {
		cfg.HeaderURL = DefaultEmailHeaderURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid email base url %q", cfg.BaseURL)
	}
	header, err := url.Parse(cfg.HeaderURL)
	if err != nil {
		return nil, fmt.Errorf("invalid email header url: %w", err)
	}
	base.Path, base.RawQuery, base.Fragment = "", "", ""

	return &ManageHTMLEmailUseCase{
		engine:     engine,
		host:       host,
		instances:  instances,
		settings:   settings,
		dialogs:    dialogs,
		opener:     opener,
		translator: translator,
		checker:    checker,
		fs:         fs,
		cfg:        cfg,
		base:       base,
		header:     header,
	}, nil
}

// Open shows the email in a new viewer window, or focuses the viewer that
// is already open for the message. It returns the window label.
func (uc *ManageHTMLEmailUseCase) Open(ctx context.Context, in OpenHTMLEmailInput) (string, error) {
	log := logging.FromContext(ctx).With().
		Uint32("account_id", in.AccountID).
		Uint32("message_id", in.MessageID).
		Logger()

	if label, ok := uc.instances.Find(in.AccountID, in.MessageID); ok {
		w, ok := uc.host.Window(label)
		if ok {
			if err := w.Show(); err != nil {
				log.Debug().Err(err).Msg("failed to show html email window")
			}
			return label, w.Focus()
		}
		uc.instances.Remove(label)
	}

	blocked, err := uc.blockedByProxy(ctx, in.AccountID)
	if err != nil {
		return "", err
	}
	alwaysAllow, err := uc.settings.GetBool(ctx, port.SettingAlwaysAllowRemoteContent)
	if err != nil {
		log.Debug().Err(err).Msg("remote content setting unavailable")
	}

	label := entity.NewHTMLWindowLabel()
	inst := entity.NewHTMLEmailInstance(label, in.AccountID, in.MessageID, in.IsContactRequest, alwaysAllow, blocked)
	inst.Subject = in.Subject
	inst.Sender = in.Sender
	inst.ReceiveTime = in.ReceiveTime
	inst.HTMLContent = in.HTMLContent
	if err := uc.instances.Add(inst); err != nil {
		return "", err
	}

	dataDir := filepath.Join(uc.cfg.TempDir, emailTempDirPrefix, uuid.NewString())
	w, err := uc.buildWindow(ctx, label, in, dataDir)
	if err != nil {
		uc.instances.Remove(label)
		if rmErr := uc.fs.RemoveAll(ctx, dataDir); rmErr != nil {
			log.Debug().Err(rmErr).Msg("failed to remove html email data directory")
		}
		return "", err
	}

	windowCtx := logging.WithContext(context.WithoutCancel(ctx), log.With().Str("window_label", label).Logger())
	w.OnEvent(uc.windowEventHandler(windowCtx, w, dataDir))

	uc.applyWindowPolicy(ctx, w, log)

	log.Info().Str("window_label", label).Bool("blocked_by_proxy", blocked).Msg("html email opened")
	return label, nil
}

// blockedByProxy reports whether the account or the desktop routes traffic
// through a proxy. Remote content would bypass it.
func (uc *ManageHTMLEmailUseCase) blockedByProxy(ctx context.Context, accountID uint32) (bool, error) {
	account, err := uc.engine.Account(ctx, accountID)
	if err != nil {
		return false, err
	}
	enabled, err := account.ProxyEnabled(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read proxy setting of account %d: %w", accountID, err)
	}
	if enabled {
		return true, nil
	}
	desktop, err := uc.settings.GetBool(ctx, port.SettingProxyEnabled)
	if err != nil {
		return false, fmt.Errorf("failed to read desktop proxy setting: %w", err)
	}
	return desktop, nil
}

func (uc *ManageHTMLEmailUseCase) buildWindow(ctx context.Context, label string, in OpenHTMLEmailInput, dataDir string) (port.Window, error) {
	if err := uc.fs.MkdirAll(ctx, dataDir); err != nil {
		return nil, fmt.Errorf("failed to create html email data directory: %w", err)
	}

	zoom, err := uc.settings.GetFloat(ctx, port.SettingWebxdcZoomFactor)
	if err != nil || zoom <= 0 {
		zoom = 1
	}

	w, err := uc.host.CreateWindow(ctx, port.WindowOptions{
		Label:  label,
		Title:  entity.Truncate(in.Subject, emailSubjectRunes) + " - " + entity.Truncate(in.Sender, emailSenderRunes),
		Width:  emailWindowWidth,
		Height: emailWindowHeight,
	})
	if err != nil {
		return nil, err
	}

	top, bottom := entity.SplitTop(entity.Size{Width: emailWindowWidth, Height: emailWindowHeight}, emailHeaderHeight)
	if _, err := w.AddWebview(port.WebviewOptions{
		Label:              label + entity.HTMLHeaderSuffix,
		URL:                uc.header,
		Zoom:               zoom,
		DisableLinkPreview: true,
	}, top); err != nil {
		_ = w.Destroy()
		return nil, err
	}

	content := *uc.base
	content.Path = "/index.html"
	if _, err := w.AddWebview(port.WebviewOptions{
		Label:              label + entity.HTMLContentSuffix,
		URL:                &content,
		DataDirectory:      dataDir,
		Incognito:          true,
		JavaScriptDisabled: true,
		DisableLinkPreview: true,
		Zoom:               zoom,
		OnNavigation:       uc.navigationGuard(ctx, label),
	}, bottom); err != nil {
		_ = w.Destroy()
		return nil, err
	}
	return w, nil
}

func (uc *ManageHTMLEmailUseCase) applyWindowPolicy(ctx context.Context, w port.Window, log zerolog.Logger) {
	protect, err := uc.settings.GetBool(ctx, port.SettingContentProtection)
	if err != nil {
		log.Debug().Err(err).Msg("content protection setting unavailable")
	}
	if protect {
		if err := w.SetContentProtected(true); err != nil {
			log.Warn().Err(err).Msg("failed to set content protection")
		}
	}
	if main, ok := uc.host.Window(entity.MainWindowLabel); ok {
		if onTop, err := main.IsAlwaysOnTop(); err == nil && onTop {
			if err := w.SetAlwaysOnTop(true); err != nil {
				log.Warn().Err(err).Msg("failed to follow always-on-top of main window")
			}
		}
	}
}

// windowEventHandler keeps the header pane 100px tall on resize and wipes
// the content pane data when the window is destroyed.
func (uc *ManageHTMLEmailUseCase) windowEventHandler(ctx context.Context, w port.Window, dataDir string) func(port.WindowEvent) {
	label := w.Label()
	return func(ev port.WindowEvent) {
		log := logging.FromContext(ctx)
		switch ev.Kind {
		case port.WindowResized, port.WindowScaleFactorChanged:
			size, err := w.InnerSize()
			if err != nil {
				log.Debug().Err(err).Msg("failed to read html email window size")
				return
			}
			top, bottom := entity.SplitTop(size, emailHeaderHeight)
			if wv, ok := w.Webview(label + entity.HTMLHeaderSuffix); ok {
				if err := wv.SetBounds(top); err != nil {
					log.Debug().Err(err).Msg("failed to resize header pane")
				}
			}
			if wv, ok := w.Webview(label + entity.HTMLContentSuffix); ok {
				if err := wv.SetBounds(bottom); err != nil {
					log.Debug().Err(err).Msg("failed to resize content pane")
				}
			}

		case port.WindowDestroyed:
			if wv, ok := w.Webview(label + entity.HTMLContentSuffix); ok {
				if err := wv.ClearBrowsingData(); err != nil {
					log.Error().Err(err).Msg("failed to clear browsing data after html email window closed")
				}
			}
			if err := uc.fs.RemoveAll(ctx, dataDir); err != nil {
				log.Error().Err(err).Msg("failed to remove html email data directory")
			}
			uc.instances.Remove(label)
			log.Info().Msg("html email window destroyed")
		}
	}
}

// GetInfo returns the header data of the viewer window label.
func (uc *ManageHTMLEmailUseCase) GetInfo(_ context.Context, label string) (HTMLEmailInfo, error) {
	inst, ok := uc.instances.Get(label)
	if !ok {
		return HTMLEmailInfo{}, fmt.Errorf("%w: %s", entity.ErrHTMLInstanceNotFound, label)
	}
	key := TrLoadRemoteContent
	if inst.BlockedByProxy {
		key = TrLoadRemoteContentBlockedByProxy
	}
	return HTMLEmailInfo{
		Subject:                inst.Subject,
		Sender:                 inst.Sender,
		ReceiveTime:            inst.ReceiveTime,
		ToggleNetwork:          inst.NetworkAllowState,
		NetworkButtonLabelText: uc.translator.Translate(key),
		BlockedByProxy:         inst.BlockedByProxy,
	}, nil
}

// SetLoadRemoteContent toggles remote content of a viewer and reloads its
// content pane. Enabling asks for confirmation while the warning setting
// is on.
func (uc *ManageHTMLEmailUseCase) SetLoadRemoteContent(ctx context.Context, label string, allow bool) error {
	log := logging.FromContext(ctx).With().Str("window_label", label).Logger()

	inst, ok := uc.instances.Get(label)
	if !ok {
		return fmt.Errorf("%w: %s", entity.ErrHTMLInstanceNotFound, label)
	}
	if allow && inst.BlockedByProxy {
		log.Warn().Msg("remote content requested on a proxied account")
		return entity.ErrProxyBlocksRemoteContent
	}

	if allow {
		warn, err := uc.settings.GetBool(ctx, port.SettingHTMLEmailWarning)
		if err != nil {
			warn = true
		}
		if warn {
			ok, err := uc.dialogs.Confirm(ctx, port.ConfirmRequest{
				ParentLabel: label,
				Message:     uc.translator.Translate(TrLoadRemoteContentAsk),
				OKLabel:     uc.translator.Translate(TrOpen),
				CancelLabel: uc.translator.Translate(TrCancel),
			})
			if err != nil {
				return fmt.Errorf("failed to confirm remote content: %w", err)
			}
			if !ok {
				return entity.ErrUserCanceled
			}
		}
	}

	if err := uc.instances.SetNetworkAllowState(label, allow); err != nil {
		return err
	}

	w, ok := uc.host.Window(label)
	if !ok {
		return nil
	}
	for _, wv := range w.Webviews() {
		if strings.HasSuffix(wv.Label(), entity.HTMLContentSuffix) {
			if err := wv.Reload(); err != nil {
				return fmt.Errorf("failed to reload email content: %w", err)
			}
		}
	}
	log.Info().Bool("allow", allow).Msg("remote content state changed")
	return nil
}

// navigationGuard keeps the content pane on the email origin. Other links
// are handed to the OS browser in the background.
func (uc *ManageHTMLEmailUseCase) navigationGuard(ctx context.Context, label string) port.NavigationGuard {
	guardCtx := context.WithoutCancel(ctx)
	return func(target *url.URL) bool {
		if target == nil {
			return false
		}
		if target.String() == "about:blank" {
			return true
		}
		if uc.sameOrigin(target) {
			return true
		}
		link := *target
		uc.links.Add(1)
		go func() {
			defer uc.links.Done()
			if err := uc.HandleExternalLink(guardCtx, label, &link); err != nil {
				logging.FromContext(guardCtx).Warn().Err(err).Str("window_label", label).Msg("failed to open link")
			}
		}()
		return false
	}
}

func (uc *ManageHTMLEmailUseCase) sameOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, uc.base.Scheme) &&
		strings.EqualFold(u.Hostname(), uc.base.Hostname()) &&
		u.Port() == uc.base.Port()
}

// HandleExternalLink opens an off-origin link. Links to hosts whose ASCII
// and Unicode forms differ are only opened after the user confirms the
// ASCII form.
func (uc *ManageHTMLEmailUseCase) HandleExternalLink(ctx context.Context, label string, target *url.URL) error {
	host := target.Hostname()
	if host != "" {
		if ascii, ambiguous := uc.checker.Check(host); ambiguous {
			shown := ascii
			if shown == "" {
				shown = host
			}
			ok, err := uc.dialogs.Confirm(ctx, port.ConfirmRequest{
				ParentLabel: label,
				Title:       uc.translator.Translate(TrPunycodeWarningHeader),
				Message: uc.translator.Translate(TrPunycodeWarningQuestion, shown) + "\n\n" +
					uc.translator.Translate(TrPunycodeWarningDescription, shown),
				OKLabel:     uc.translator.Translate(TrOpen),
				CancelLabel: uc.translator.Translate(TrCancel),
			})
			if err != nil {
				return fmt.Errorf("failed to confirm link: %w", err)
			}
			if !ok {
				return nil
			}
		}
	}
	return uc.opener.OpenURL(ctx, target.String())
}

// Wait blocks until every external link started by a navigation guard has
// been handled.
func (uc *ManageHTMLEmailUseCase) Wait() {
	uc.links.Wait()
}

// CloseAll destroys every open viewer window.
func (uc *ManageHTMLEmailUseCase) CloseAll(ctx context.Context) {
	log := logging.FromContext(ctx)
	for _, label := range uc.instances.Labels() {
		if w, ok := uc.host.Window(label); ok {
			if err := w.Destroy(); err != nil {
				log.Warn().Err(err).Str("window_label", label).Msg("failed to close html email window")
			}
		}
		uc.instances.Remove(label)
	}
}
