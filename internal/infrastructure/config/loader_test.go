package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaths struct{ dir string }

func (f fakePaths) ConfigDir() (string, error) { return filepath.Join(f.dir, "config"), nil }
func (f fakePaths) DataDir() (string, error)   { return filepath.Join(f.dir, "data"), nil }

func TestManager_LoadCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(fakePaths{dir: dir}, "")
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.FileExists(t, filepath.Join(dir, "config", FileName))
	cfg := mgr.Get()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, int64(16), cfg.Sandbox.MaxConcurrentSchemeRequests)
	assert.Equal(t, DefaultCloseDelay, cfg.CloseDelay())
	assert.Equal(t, 375.0, cfg.Sandbox.WindowWidth)
	assert.Equal(t, 667.0, cfg.Sandbox.WindowHeight)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.Paths.AppLocalData)
	assert.Equal(t, filepath.Join(dir, "data", "accounts"), cfg.Paths.AccountsDir)
	assert.Equal(t, ThemeSystem, cfg.Theme)
	assert.Equal(t, filepath.Join(dir, "config"), mgr.ConfigDir())
}

func TestManager_LoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
theme = "dark"

[logging]
format = "JSON"

[sandbox]
close_delay_ms = 50
dev_tools = true

[paths]
app_local_data = "/srv/dcshell"
`), 0o600))
	t.Setenv("DCSHELL_LOG_LEVEL", "debug")
	t.Setenv("DCSHELL_BRIDGE_LISTEN", "127.0.0.1:9999")

	mgr, err := NewManager(fakePaths{dir: dir}, file)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 50, cfg.Sandbox.CloseDelayMs)
	assert.True(t, cfg.Sandbox.DevTools)
	assert.Equal(t, "/srv/dcshell", cfg.Paths.AppLocalData)
	assert.Equal(t, filepath.Join("/srv/dcshell", "accounts"), cfg.Paths.AccountsDir)
	assert.Equal(t, "127.0.0.1:9999", cfg.Bridge.Listen)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, file, mgr.ConfigFile())
}

func TestManager_LoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("[bridge]\nlisten = \"0.0.0.0:80\"\n"), 0o600))

	mgr, err := NewManager(fakePaths{dir: dir}, file)
	require.NoError(t, err)
	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loopback")
}

func TestManager_LoadRejectsBrokenToml(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("[logging\n"), 0o600))

	mgr, err := NewManager(fakePaths{dir: dir}, file)
	require.NoError(t, err)
	require.Error(t, mgr.Load())
}

func TestValidateConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bridge.Listen = "localhost:0"
	require.NoError(t, validateConfig(cfg))

	cfg.Sandbox.MaxConcurrentSchemeRequests = 0
	cfg.Sandbox.CloseDelayMs = -1
	cfg.Logging.Level = "loud"
	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sandbox.max_concurrent_scheme_requests")
	assert.Contains(t, err.Error(), "sandbox.close_delay_ms")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidateConfig_Bridge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bridge.Listen = ""
	cfg.Bridge.AllowedOrigins = []string{"tauri://localhost"}
	require.NoError(t, validateConfig(cfg))

	cfg.Bridge.AllowedOrigins = []string{"*"}
	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bridge.allowed_origins")
}
