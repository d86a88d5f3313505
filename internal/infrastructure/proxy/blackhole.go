// Package proxy provides the blackhole SOCKS5 endpoint that isolates
// webviews from the network.
package proxy

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
)

// Blackhole holds a loopback TCP listener that never accepts a connection.
// Clients connect into the backlog and wait forever for a SOCKS5 reply, so
// webviews pointed at it cannot reach the network. UDP needs no listener:
// a SOCKS5 UDP association always starts over TCP.
type Blackhole struct {
	listen func(network, address string) (net.Listener, error)

	once     sync.Once
	listener net.Listener
	url      *url.URL
	err      error
}

// NewBlackhole creates an unbound blackhole. The port is bound on first use.
func NewBlackhole() *Blackhole {
	return &Blackhole{listen: net.Listen}
}

var (
	sharedOnce sync.Once
	shared     *Blackhole
)

// Shared returns the process-wide blackhole.
func Shared() *Blackhole {
	sharedOnce.Do(func() {
		shared = NewBlackhole()
	})
	return shared
}

// URL binds the listener on first call and returns socks5://127.0.0.1:<port>.
// A failed bind is sticky: every later call returns the same error.
func (b *Blackhole) URL() (*url.URL, error) {
	b.once.Do(b.bind)
	if b.err != nil {
		return nil, b.err
	}
	u := *b.url
	return &u, nil
}

func (b *Blackhole) bind() {
	ln, err := b.listen("tcp", "127.0.0.1:0")
	if err != nil {
		b.err = fmt.Errorf("%w: %w", entity.ErrBlackholeProxyUnavailable, err)
		return
	}
	addr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		_ = ln.Close()
		b.err = fmt.Errorf("%w: unexpected listener address %s", entity.ErrBlackholeProxyUnavailable, ln.Addr())
		return
	}
	b.listener = ln
	b.url = &url.URL{
		Scheme: "socks5",
		Host:   net.JoinHostPort("127.0.0.1", strconv.Itoa(addr.Port)),
	}
}

var _ port.ProxyProvider = (*Blackhole)(nil)
