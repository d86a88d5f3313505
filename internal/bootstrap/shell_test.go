package bootstrap_test

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/dcshell/internal/application/usecase"
	"github.com/bnema/dcshell/internal/bootstrap"
	"github.com/bnema/dcshell/internal/infrastructure/accounts/accountstest"
	"github.com/bnema/dcshell/internal/infrastructure/config"
	"github.com/bnema/dcshell/internal/infrastructure/scheme"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
}

func newShell(t *testing.T) *bootstrap.Shell {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Paths = config.PathsConfig{
		AppLocalData: filepath.Join(dir, "data"),
		AccountsDir:  filepath.Join(dir, "accounts"),
		TempDir:      filepath.Join(dir, "tmp"),
	}
	settings, err := config.NewDesktopSettings(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)

	shell, err := bootstrap.NewShell(testCtx(), bootstrap.ShellOptions{Config: cfg, Settings: settings})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shell.Close() })
	return shell
}

func TestNewShell_RequiresConfig(t *testing.T) {
	_, err := bootstrap.NewShell(testCtx(), bootstrap.ShellOptions{})
	require.Error(t, err)
}

func TestShell_ServesOpenApp(t *testing.T) {
	shell := newShell(t)
	account := accountstest.NewAccount(t, shell.Engine, "alice@example.org")
	app := accountstest.AddApp(t, account, "Team", accountstest.DefaultApp("Poll"))

	label, err := shell.Webxdc.Open(testCtx(), usecase.OpenWebxdcInput{AccountID: account.ID(), MessageID: app.MessageID})
	require.NoError(t, err)

	req, err := scheme.NewRequest(label, "webxdc://dummy.host/index.html", http.MethodGet)
	require.NoError(t, err)
	got := make(chan *scheme.Response, 1)
	require.NoError(t, shell.Dispatcher.Dispatch(testCtx(), req, scheme.ResponderFunc(func(r *scheme.Response) { got <- r })))

	select {
	case resp := <-got:
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(resp.Body), "Poll")
	case <-time.After(2 * time.Second):
		t.Fatal("no response")
	}
}

func TestShell_RunClosesWindowsOnCancel(t *testing.T) {
	shell := newShell(t)
	account := accountstest.NewAccount(t, shell.Engine, "alice@example.org")
	app := accountstest.AddApp(t, account, "Team", accountstest.DefaultApp("Poll"))

	addr, err := shell.Start()
	require.NoError(t, err)
	require.NotEmpty(t, addr)

	label, err := shell.Webxdc.Open(testCtx(), usecase.OpenWebxdcInput{AccountID: account.ID(), MessageID: app.MessageID})
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/" + shell.Bridge.Token() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "dcshell_webxdc_open_instances 1")

	ctx, cancel := context.WithCancel(testCtx())
	done := make(chan error, 1)
	go func() { done <- shell.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}

	assert.Equal(t, 0, shell.Webxdcs.Len())
	w, ok := shell.Host.Lookup(label)
	if ok {
		assert.True(t, w.Destroyed())
	}
}
