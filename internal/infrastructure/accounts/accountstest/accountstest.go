// Package accountstest builds local account engines and webxdc archives for tests.
package accountstest

import (
	"bytes"
	"context"
	"testing"

	"github.com/bnema/dcshell/internal/infrastructure/accounts"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// NewEngine opens an empty engine in a temp directory and closes it on cleanup.
func NewEngine(t testing.TB) *accounts.LocalEngine {
	t.Helper()
	engine, err := accounts.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

// Xdc builds a webxdc archive from name to content pairs.
func Xdc(t testing.TB, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// App is a webxdc message created by AddApp.
type App struct {
	Account   *accounts.Account
	ChatID    uint32
	MessageID uint32
}

// DefaultApp is a minimal webxdc archive with a manifest, an index and an icon.
func DefaultApp(name string) map[string]string {
	return map[string]string{
		"manifest.toml": "name = \"" + name + "\"\nsource_code_url = \"https://example.org/src\"\n",
		"index.html":    "<!doctype html><html><body><script src=\"webxdc.js\"></script>" + name + "</body></html>",
		"app.js":        "console.log('hi')",
		"icon.png":      "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR",
	}
}

// AddApp creates a chat named chatName in account and imports files as a webxdc message.
func AddApp(t testing.TB, account *accounts.Account, chatName string, files map[string]string) App {
	t.Helper()
	ctx := context.Background()
	chatID, err := account.CreateChat(ctx, chatName)
	require.NoError(t, err)
	msgID, err := account.ImportWebxdc(ctx, chatID, bytes.NewReader(Xdc(t, files)))
	require.NoError(t, err)
	return App{Account: account, ChatID: chatID, MessageID: msgID}
}

// NewAccount creates an account with a configured address.
func NewAccount(t testing.TB, engine *accounts.LocalEngine, addr string) *accounts.Account {
	t.Helper()
	ctx := context.Background()
	account, err := engine.CreateAccount(ctx)
	require.NoError(t, err)
	require.NoError(t, account.SetConfig(ctx, accounts.ConfigAddr, addr))
	return account
}
