package headless_test

import (
	"context"
	"testing"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/infrastructure/headless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogs_Confirm(t *testing.T) {
	deny := headless.NewDialogs(false)
	ok, err := deny.Confirm(context.Background(), port.ConfirmRequest{ParentLabel: "html-window:1", Title: "Suspicious link"})
	require.NoError(t, err)
	assert.False(t, ok)

	accept := headless.NewDialogs(true)
	ok, err = accept.Confirm(context.Background(), port.ConfirmRequest{Message: "Continue?"})
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, deny.Requests(), 1)
	assert.Equal(t, "html-window:1", deny.Requests()[0].ParentLabel)
}

func TestDialogs_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := headless.NewDialogs(true).Confirm(ctx, port.ConfirmRequest{})
	require.ErrorIs(t, err, context.Canceled)
}
