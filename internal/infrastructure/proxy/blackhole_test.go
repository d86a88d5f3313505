package proxy

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlackhole_URLIsStable(t *testing.T) {
	b := NewBlackhole()

	first, err := b.URL()
	require.NoError(t, err)
	assert.Equal(t, "socks5", first.Scheme)
	assert.Equal(t, "127.0.0.1", first.Hostname())
	assert.NotEqual(t, "0", first.Port())

	second, err := b.URL()
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())

	// callers get their own copy
	second.Host = "changed"
	third, _ := b.URL()
	assert.Equal(t, first.String(), third.String())
}

func TestBlackhole_ConnectionsNeverAnswer(t *testing.T) {
	b := NewBlackhole()
	u, err := b.URL()
	require.NoError(t, err)

	conn, err := net.DialTimeout("tcp", u.Host, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	// SOCKS5 greeting: version 5, one method, no auth
	_, err = conn.Write([]byte{0x05, 0x01, 0x00})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	buf := make([]byte, 2)
	_, err = conn.Read(buf)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestBlackhole_BindFailureIsSticky(t *testing.T) {
	calls := 0
	b := &Blackhole{listen: func(string, string) (net.Listener, error) {
		calls++
		return nil, errors.New("address in use")
	}}

	_, err := b.URL()
	require.ErrorIs(t, err, entity.ErrBlackholeProxyUnavailable)

	_, err = b.URL()
	require.ErrorIs(t, err, entity.ErrBlackholeProxyUnavailable)
	assert.Equal(t, 1, calls)
}

func TestShared(t *testing.T) {
	assert.Same(t, Shared(), Shared())
}
