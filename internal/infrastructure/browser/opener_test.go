package browser_test

import (
	"context"
	"testing"

	"github.com/bnema/dcshell/internal/infrastructure/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpener_OpenURL(t *testing.T) {
	var opened []string
	o := browser.NewOpenerFunc(func(u string) error {
		opened = append(opened, u)
		return nil
	})

	require.NoError(t, o.OpenURL(context.Background(), "https://example.org/a?b=c"))
	require.NoError(t, o.OpenURL(context.Background(), "mailto:bob@example.org"))
	require.ErrorIs(t, o.OpenURL(context.Background(), "file:///etc/passwd"), browser.ErrUnsupportedScheme)
	require.ErrorIs(t, o.OpenURL(context.Background(), "javascript:alert(1)"), browser.ErrUnsupportedScheme)

	assert.Equal(t, []string{"https://example.org/a?b=c", "mailto:bob@example.org"}, opened)
}
