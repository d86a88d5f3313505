package port

import (
	"context"
	"net/url"

	"github.com/bnema/dcshell/internal/domain/entity"
)

// NavigationGuard decides whether a webview may navigate to target.
type NavigationGuard func(target *url.URL) bool

// WebviewOptions configures a webview before it is created.
type WebviewOptions struct {
	Label string
	URL   *url.URL
	// InitScript runs before any page script on every navigation.
	InitScript string
	// ProxyURL is applied to all network traffic of the webview.
	ProxyURL *url.URL
	// DataDirectory is a filesystem storage partition.
	DataDirectory string
	// DataStoreID is a native storage partition identifier.
	DataStoreID        *entity.PartitionID
	Incognito          bool
	JavaScriptDisabled bool
	DevTools           bool
	Zoom               float64
	OnNavigation       NavigationGuard
	// BrowserArgs are extra engine switches for Chromium based hosts.
	// Other hosts ignore them.
	BrowserArgs []string
	// DisableLinkPreview turns off link previews on hosts that have them.
	DisableLinkPreview bool
}

// WindowOptions configures a new top-level window.
type WindowOptions struct {
	Label  string
	Title  string
	Width  float64
	Height float64
	// Webview is the webview filling the window. A nil value creates an empty
	// window for child webviews.
	Webview *WebviewOptions
	// OnEvent is registered before the window becomes visible to other
	// callers, so no event is missed.
	OnEvent func(WindowEvent)
}

// WindowEventKind identifies window events.
type WindowEventKind int

const (
	WindowResized WindowEventKind = iota
	WindowScaleFactorChanged
	WindowCloseRequested
	WindowDestroyed
)

// WindowEvent is delivered to window event handlers.
type WindowEvent struct {
	Kind WindowEventKind
	Size entity.Size
	// PreventClose is set for WindowCloseRequested events.
	PreventClose func()
}

// WindowHost is the host window system. UI calls are expected to be
// marshalled to the OS main thread by the implementation.
type WindowHost interface {
	CreateWindow(ctx context.Context, opts WindowOptions) (Window, error)
	// Window finds a live window by label.
	Window(label string) (Window, bool)
}

// Window is a top-level OS window.
type Window interface {
	Label() string
	SetTitle(title string) error
	Show() error
	Hide() error
	Focus() error
	// Close requests closing, which triggers WindowCloseRequested.
	Close() error
	// Destroy tears the window down without a close request.
	Destroy() error
	SetContentProtected(enabled bool) error
	IsAlwaysOnTop() (bool, error)
	SetAlwaysOnTop(enabled bool) error
	InnerSize() (entity.Size, error)

	// AddWebview attaches a child webview at bounds.
	AddWebview(opts WebviewOptions, bounds entity.Rect) (Webview, error)
	// Webview finds a webview of this window by label.
	Webview(label string) (Webview, bool)
	// Webviews lists the webviews of the window in creation order.
	Webviews() []Webview

	// OnEvent registers a window event handler.
	OnEvent(handler func(WindowEvent))
}

// Webview is a web content view inside a window.
type Webview interface {
	Label() string
	URL() *url.URL
	Navigate(target *url.URL) error
	Reload() error
	SetBounds(bounds entity.Rect) error
	ClearBrowsingData() error
}
