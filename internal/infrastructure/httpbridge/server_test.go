package httpbridge_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/dcshell/internal/infrastructure/accounts/accountstest"
	"github.com/bnema/dcshell/internal/infrastructure/httpbridge"
	"github.com/bnema/dcshell/internal/infrastructure/scheme"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBridge(t *testing.T) (*httpbridge.Server, string) {
	t.Helper()
	ctx := logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))

	engine := accountstest.NewEngine(t)
	account := accountstest.NewAccount(t, engine, "alice@example.org")
	require.NoError(t, os.WriteFile(filepath.Join(account.BlobDir(), "note.txt"), []byte("hello"), 0o600))

	reg := prometheus.NewRegistry()
	d := scheme.NewDispatcher(ctx, 4, scheme.NewMetrics(reg))
	d.Register(scheme.NewBlobHandler(engine))
	d.Register(scheme.NewWebxdcHandler(nil, engine))

	return httpbridge.New(ctx, d, reg, httpbridge.Options{AllowedOrigins: []string{"tauri://localhost"}}), filepath.Base(filepath.Dir(account.BlobDir()))
}

func do(t *testing.T, srv *httpbridge.Server, method, host, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "http://"+host+path, nil)
	req.Host = host
	req.Header.Set(httpbridge.TokenHeader, srv.Token())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestBridge_ServesBlob(t *testing.T) {
	srv, folder := newBridge(t)

	rec := do(t, srv, http.MethodGet, "blob.localhost:8080", "/"+folder+"/note.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, srv, http.MethodHead, "blob.localhost", "/"+folder+"/note.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "blob.localhost", "/acc-folder/..%2F..%2Fetc%2Fpasswd")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "failed to parse requested url", rec.Body.String())
}

func TestBridge_TokenAsPathPrefix(t *testing.T) {
	srv, folder := newBridge(t)

	req := httptest.NewRequest(http.MethodGet, "http://blob.localhost/"+srv.Token()+"/"+folder+"/note.txt", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestBridge_RefusesRequestsWithoutToken(t *testing.T) {
	srv, folder := newBridge(t)

	tests := []struct {
		name  string
		path  string
		token string
	}{
		{name: "no token", path: "/" + folder + "/note.txt"},
		{name: "wrong header", path: "/" + folder + "/note.txt", token: "guess"},
		{name: "wrong prefix", path: "/guess/" + folder + "/note.txt"},
		{name: "metrics", path: "/metrics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := "blob.localhost"
			if tt.path == "/metrics" {
				host = "127.0.0.1:1234"
			}
			req := httptest.NewRequest(http.MethodGet, "http://"+host+tt.path, nil)
			if tt.token != "" {
				req.Header.Set(httpbridge.TokenHeader, tt.token)
			}
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.NotContains(t, rec.Body.String(), "hello")
		})
	}
}

func TestBridge_Origins(t *testing.T) {
	srv, folder := newBridge(t)

	get := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "http://blob.localhost/"+folder+"/note.txt", nil)
		req.Header.Set(httpbridge.TokenHeader, srv.Token())
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec := get("https://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get("tauri://localhost")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tauri://localhost", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBridge_TokensDiffer(t *testing.T) {
	a, _ := newBridge(t)
	b, _ := newBridge(t)
	assert.Len(t, a.Token(), 64)
	assert.NotEqual(t, a.Token(), b.Token())
}

func TestBridge_DeniedAndUnknown(t *testing.T) {
	srv, _ := newBridge(t)

	rec := do(t, srv, http.MethodGet, "webxdc.localhost", "/index.html")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "nope.localhost", "/x")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBridge_AdminRoutes(t *testing.T) {
	srv, folder := newBridge(t)
	do(t, srv, http.MethodGet, "blob.localhost", "/"+folder+"/note.txt")

	req := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:1234/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "127.0.0.1:1234", "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dcshell_scheme_requests_total{code="200",scheme="blob"} 1`)
}

func TestBridge_StartAndShutdown(t *testing.T) {
	srv, folder := newBridge(t)
	addr, err := srv.Start("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	fetch := func(path string, header bool) (int, string, string) {
		req, err := http.NewRequest(http.MethodGet, "http://"+addr+path, nil)
		require.NoError(t, err)
		req.Host = "blob.localhost"
		req.Header.Set("Origin", "https://evil.example")
		if header {
			req.Header.Set(httpbridge.TokenHeader, srv.Token())
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, resp.Header.Get("Access-Control-Allow-Origin"), string(body)
	}

	status, acao, body := fetch("/"+folder+"/note.txt", false)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Empty(t, acao)
	assert.NotContains(t, body, "hello")

	status, _, _ = fetch("/"+folder+"/note.txt", true)
	assert.Equal(t, http.StatusForbidden, status)

	req, err := http.NewRequest(http.MethodGet, "http://"+addr+"/"+srv.Token()+"/"+folder+"/note.txt", nil)
	require.NoError(t, err)
	req.Host = "blob.localhost"
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", string(data))
}
