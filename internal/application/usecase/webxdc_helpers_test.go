package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/application/port/mocks"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/infrastructure/headless"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/stretchr/testify/mock"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

type fixedProxy struct {
	url *url.URL
	err error
}

func (p fixedProxy) URL() (*url.URL, error) {
	if p.err != nil {
		return nil, p.err
	}
	u := *p.url
	return &u, nil
}

func blackholeURL() *url.URL {
	return &url.URL{Scheme: "socks5", Host: "127.0.0.1:1080"}
}

// settingsFor returns a settings store answering the given booleans and
// falling back to false and a zoom factor of 1.
func settingsFor(t *testing.T, bools map[string]bool) *mocks.MockSettingsStore {
	t.Helper()
	s := mocks.NewMockSettingsStore(t)
	for key, value := range bools {
		s.EXPECT().GetBool(mock.Anything, key).Return(value, nil).Maybe()
	}
	s.EXPECT().GetBool(mock.Anything, mock.Anything).Return(false, nil).Maybe()
	s.EXPECT().GetFloat(mock.Anything, mock.Anything).Return(1.0, nil).Maybe()
	return s
}

type recordingSink struct {
	mu      sync.Mutex
	updates []entity.WebxdcUpdate
}

func (s *recordingSink) Send(update entity.WebxdcUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, update)
	return nil
}

func (s *recordingSink) received() []entity.WebxdcUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.WebxdcUpdate(nil), s.updates...)
}

type eventChannel chan port.EngineEvent

func (c eventChannel) Events() <-chan port.EngineEvent { return c }

// keyTranslator renders a key followed by its arguments.
type keyTranslator struct{}

func (keyTranslator) Translate(key string, args ...string) string {
	if len(args) == 0 {
		return key
	}
	return key + "(" + strings.Join(args, ",") + ")"
}

// slowHost holds the first window creation until release is closed.
type slowHost struct {
	*headless.Host
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newSlowHost(h *headless.Host) *slowHost {
	return &slowHost{Host: h, entered: make(chan struct{}), release: make(chan struct{})}
}

func (h *slowHost) CreateWindow(ctx context.Context, opts port.WindowOptions) (port.Window, error) {
	h.once.Do(func() { close(h.entered) })
	<-h.release
	return h.Host.CreateWindow(ctx, opts)
}

// destroyingHost destroys every window before CreateWindow returns.
type destroyingHost struct {
	*headless.Host
}

func (h destroyingHost) CreateWindow(ctx context.Context, opts port.WindowOptions) (port.Window, error) {
	w, err := h.Host.CreateWindow(ctx, opts)
	if err != nil {
		return nil, err
	}
	_ = w.Destroy()
	return w, nil
}

// unloadFailingHost hands out webviews whose navigation always fails.
type unloadFailingHost struct {
	*headless.Host
}

func (h unloadFailingHost) Window(label string) (port.Window, bool) {
	w, ok := h.Host.Window(label)
	if !ok {
		return nil, false
	}
	return unloadFailingWindow{Window: w}, true
}

type unloadFailingWindow struct {
	port.Window
}

func (w unloadFailingWindow) Webview(label string) (port.Webview, bool) {
	wv, ok := w.Window.Webview(label)
	if !ok {
		return nil, false
	}
	return unloadFailingWebview{Webview: wv}, true
}

type unloadFailingWebview struct {
	port.Webview
}

func (unloadFailingWebview) Navigate(*url.URL) error {
	return errors.New("renderer gone")
}
