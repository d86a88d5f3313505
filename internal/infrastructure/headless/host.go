// Package headless is an in-process window host. It keeps window and
// webview state in memory and fires the same events a desktop host would,
// which lets the shell core run without a display.
package headless

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
)

var (
	ErrDuplicateLabel    = errors.New("label already in use")
	ErrWindowDestroyed   = errors.New("window destroyed")
	ErrNavigationBlocked = errors.New("navigation blocked")
)

// Host implements port.WindowHost.
type Host struct {
	mu      sync.Mutex
	windows map[string]*Window
	stores  map[entity.PartitionID]struct{}
}

func NewHost() *Host {
	return &Host{
		windows: make(map[string]*Window),
		stores:  make(map[entity.PartitionID]struct{}),
	}
}

func (h *Host) CreateWindow(ctx context.Context, opts port.WindowOptions) (port.Window, error) {
	w, err := h.createWindow(ctx, opts)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (h *Host) createWindow(ctx context.Context, opts port.WindowOptions) (*Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.windows[opts.Label]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateLabel, opts.Label)
	}
	w := &Window{
		host:    h,
		label:   opts.Label,
		title:   opts.Title,
		size:    entity.Size{Width: opts.Width, Height: opts.Height},
		visible: true,
	}
	if opts.Webview != nil {
		wv, err := newWebview(*opts.Webview, entity.Rect{Width: opts.Width, Height: opts.Height})
		if err != nil {
			return nil, err
		}
		w.webviews = append(w.webviews, wv)
		h.trackStore(*opts.Webview)
	}
	if opts.OnEvent != nil {
		w.handlers = append(w.handlers, opts.OnEvent)
	}
	h.windows[opts.Label] = w

	logging.FromContext(ctx).Debug().
		Str("component", "headless-host").
		Str("window_label", opts.Label).
		Msg("window created")
	return w, nil
}

func (h *Host) Window(label string) (port.Window, bool) {
	w, ok := h.Lookup(label)
	if !ok {
		return nil, false
	}
	return w, true
}

// Lookup returns the concrete window, for state inspection.
func (h *Host) Lookup(label string) (*Window, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.windows[label]
	return w, ok
}

// Labels lists the labels of live windows.
func (h *Host) Labels() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	labels := make([]string, 0, len(h.windows))
	for l := range h.windows {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func (h *Host) forget(label string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.windows, label)
}

// Window implements port.Window.
type Window struct {
	host  *Host
	label string

	mu               sync.Mutex
	title            string
	size             entity.Size
	visible          bool
	focused          int
	contentProtected bool
	alwaysOnTop      bool
	destroyed        bool
	webviews         []*Webview
	handlers         []func(port.WindowEvent)
}

func (w *Window) Label() string { return w.label }

func (w *Window) SetTitle(title string) error {
	return w.update(func() { w.title = title })
}

func (w *Window) Show() error {
	return w.update(func() { w.visible = true })
}

func (w *Window) Hide() error {
	return w.update(func() { w.visible = false })
}

func (w *Window) Focus() error {
	return w.update(func() {
		w.visible = true
		w.focused++
	})
}

func (w *Window) SetContentProtected(enabled bool) error {
	return w.update(func() { w.contentProtected = enabled })
}

func (w *Window) IsAlwaysOnTop() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return false, ErrWindowDestroyed
	}
	return w.alwaysOnTop, nil
}

func (w *Window) SetAlwaysOnTop(enabled bool) error {
	return w.update(func() { w.alwaysOnTop = enabled })
}

func (w *Window) InnerSize() (entity.Size, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return entity.Size{}, ErrWindowDestroyed
	}
	return w.size, nil
}

func (w *Window) update(fn func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWindowDestroyed
	}
	fn()
	return nil
}

func (w *Window) AddWebview(opts port.WebviewOptions, bounds entity.Rect) (port.Webview, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return nil, ErrWindowDestroyed
	}
	for _, wv := range w.webviews {
		if wv.label == opts.Label {
			return nil, fmt.Errorf("%w: webview %s", ErrDuplicateLabel, opts.Label)
		}
	}
	wv, err := newWebview(opts, bounds)
	if err != nil {
		return nil, err
	}
	w.webviews = append(w.webviews, wv)
	w.host.mu.Lock()
	w.host.trackStore(opts)
	w.host.mu.Unlock()
	return wv, nil
}

func (w *Window) Webview(label string) (port.Webview, bool) {
	wv, ok := w.LookupWebview(label)
	if !ok {
		return nil, false
	}
	return wv, true
}

// LookupWebview returns the concrete webview, for state inspection.
func (w *Window) LookupWebview(label string) (*Webview, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, wv := range w.webviews {
		if wv.label == label {
			return wv, true
		}
	}
	return nil, false
}

func (w *Window) Webviews() []port.Webview {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]port.Webview, len(w.webviews))
	for i, wv := range w.webviews {
		out[i] = wv
	}
	return out
}

func (w *Window) OnEvent(handler func(port.WindowEvent)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Close fires WindowCloseRequested and destroys the window unless a
// handler prevented it.
func (w *Window) Close() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return ErrWindowDestroyed
	}
	w.mu.Unlock()

	prevented := false
	w.emit(port.WindowEvent{Kind: port.WindowCloseRequested, PreventClose: func() { prevented = true }})
	if prevented {
		return nil
	}
	return w.Destroy()
}

// Destroy removes the window from the host and fires WindowDestroyed once.
func (w *Window) Destroy() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return nil
	}
	w.destroyed = true
	w.mu.Unlock()

	w.host.forget(w.label)
	w.emit(port.WindowEvent{Kind: port.WindowDestroyed})
	return nil
}

// Resize changes the inner size and fires WindowResized.
func (w *Window) Resize(size entity.Size) {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.size = size
	w.mu.Unlock()
	w.emit(port.WindowEvent{Kind: port.WindowResized, Size: size})
}

func (w *Window) emit(ev port.WindowEvent) {
	w.mu.Lock()
	handlers := append([]func(port.WindowEvent){}, w.handlers...)
	w.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

// Title returns the current window title.
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// Visible reports whether the window is shown.
func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// FocusCount counts Focus calls.
func (w *Window) FocusCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

// ContentProtected reports the content protection flag.
func (w *Window) ContentProtected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.contentProtected
}

// Destroyed reports whether the window was torn down.
func (w *Window) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// Webview implements port.Webview.
type Webview struct {
	label string
	opts  port.WebviewOptions

	mu      sync.Mutex
	url     *url.URL
	bounds  entity.Rect
	reloads int
	cleared int
	history []string
}

func newWebview(opts port.WebviewOptions, bounds entity.Rect) (*Webview, error) {
	if opts.Label == "" {
		return nil, errors.New("webview label is required")
	}
	wv := &Webview{label: opts.Label, opts: opts, bounds: bounds}
	if opts.URL != nil {
		u := *opts.URL
		wv.url = &u
		wv.history = append(wv.history, u.String())
	}
	return wv, nil
}

func (v *Webview) Label() string { return v.label }

func (v *Webview) URL() *url.URL {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.url == nil {
		return nil
	}
	u := *v.url
	return &u
}

// Navigate loads target after consulting the navigation guard.
func (v *Webview) Navigate(target *url.URL) error {
	if v.opts.OnNavigation != nil && !v.opts.OnNavigation(target) {
		return fmt.Errorf("%w: %s", ErrNavigationBlocked, target)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	u := *target
	v.url = &u
	v.history = append(v.history, u.String())
	return nil
}

func (v *Webview) Reload() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reloads++
	return nil
}

func (v *Webview) SetBounds(bounds entity.Rect) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bounds = bounds
	return nil
}

func (v *Webview) ClearBrowsingData() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cleared++
	return nil
}

// Options returns the options the webview was created with.
func (v *Webview) Options() port.WebviewOptions { return v.opts }

// Bounds returns the current bounds.
func (v *Webview) Bounds() entity.Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bounds
}

// Reloads counts Reload calls.
func (v *Webview) Reloads() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reloads
}

// History lists every URL loaded, oldest first.
func (v *Webview) History() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.history...)
}

var (
	_ port.WindowHost = (*Host)(nil)
	_ port.Window     = (*Window)(nil)
	_ port.Webview    = (*Webview)(nil)
)

// Cleared counts ClearBrowsingData calls.
func (v *Webview) Cleared() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cleared
}
