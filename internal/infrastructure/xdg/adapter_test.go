package xdg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_UsesEnvironment(t *testing.T) {
	adapter := New()
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	dir, err := adapter.ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom/config", AppName), dir)

	dir, err = adapter.DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom/data", AppName), dir)
}

func TestAdapter_FallsBackToHome(t *testing.T) {
	adapter := New()
	t.Setenv("HOME", "/home/tester")
	t.Setenv("XDG_DATA_HOME", "")

	dir, err := adapter.DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".local", "share", AppName), dir)
}
