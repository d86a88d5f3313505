package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter(t *testing.T) {
	ctx := context.Background()
	a := New()
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b")

	ok, err := a.Exists(ctx, dir)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.MkdirAll(ctx, dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0o600))

	ok, err = a.Exists(ctx, dir)
	require.NoError(t, err)
	assert.True(t, ok)

	names, err := a.ReadDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"f"}, names)

	require.NoError(t, a.RemoveAll(ctx, filepath.Join(root, "a")))
	require.NoError(t, a.RemoveAll(ctx, filepath.Join(root, "a")))

	names, err = a.ReadDir(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, names)
}
