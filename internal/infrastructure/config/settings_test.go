package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesktopSettings_Defaults(t *testing.T) {
	ctx := context.Background()
	s, err := NewDesktopSettings(filepath.Join(t.TempDir(), SettingsFileName))
	require.NoError(t, err)

	warn, err := s.GetBool(ctx, port.SettingHTMLEmailWarning)
	require.NoError(t, err)
	assert.True(t, warn)

	allow, err := s.GetBool(ctx, port.SettingAlwaysAllowRemoteContent)
	require.NoError(t, err)
	assert.False(t, allow)

	zoom, err := s.GetFloat(ctx, port.SettingWebxdcZoomFactor)
	require.NoError(t, err)
	assert.Equal(t, 1.0, zoom)

	_, err = s.GetBool(ctx, "nope")
	require.ErrorIs(t, err, ErrUnknownSetting)
	require.ErrorIs(t, s.SetBool(ctx, "nope", true), ErrUnknownSetting)
}

func TestDesktopSettings_Persist(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", SettingsFileName)

	s, err := NewDesktopSettings(path)
	require.NoError(t, err)
	require.NoError(t, s.SetBool(ctx, port.SettingHTMLEmailWarning, false))
	require.FileExists(t, path)

	reopened, err := NewDesktopSettings(path)
	require.NoError(t, err)
	warn, err := reopened.GetBool(ctx, port.SettingHTMLEmailWarning)
	require.NoError(t, err)
	assert.False(t, warn)
}

func TestDesktopSettings_ReadsExistingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"webxdcZoomFactor": 1.5, "enableWebxdcDevTools": true}`), 0o600))

	s, err := NewDesktopSettings(path)
	require.NoError(t, err)
	zoom, err := s.GetFloat(ctx, port.SettingWebxdcZoomFactor)
	require.NoError(t, err)
	assert.Equal(t, 1.5, zoom)
	dev, err := s.GetBool(ctx, port.SettingWebxdcDevTools)
	require.NoError(t, err)
	assert.True(t, dev)

	_, err = NewDesktopSettings(writeFile(t, "{broken"))
	require.Error(t, err)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
