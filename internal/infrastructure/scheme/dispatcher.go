package scheme

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/dcshell/internal/logging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Dispatcher routes scheme requests to their handler and serves them off
// the caller's goroutine.
type Dispatcher struct {
	handlers map[string]Handler
	sem      *semaphore.Weighted
	metrics  *Metrics
	logger   zerolog.Logger
	mu       sync.RWMutex
	inflight sync.WaitGroup
}

// NewDispatcher creates a dispatcher that serves at most maxConcurrent
// requests at a time. metrics may be nil.
func NewDispatcher(ctx context.Context, maxConcurrent int64, metrics *Metrics) *Dispatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 16
	}
	log := logging.FromContext(ctx)
	return &Dispatcher{
		handlers: make(map[string]Handler),
		sem:      semaphore.NewWeighted(maxConcurrent),
		metrics:  metrics,
		logger:   log.With().Str("component", "scheme-dispatcher").Logger(),
	}
}

// Register adds a handler for its scheme, replacing any previous one.
func (d *Dispatcher) Register(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[h.Scheme()] = h
	d.logger.Debug().Str("scheme", h.Scheme()).Msg("registered scheme handler")
}

// Schemes lists registered scheme names.
func (d *Dispatcher) Schemes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	return names
}

// Dispatch authorizes req and serves it asynchronously. Denied requests get
// no response at all and return ErrRequestDenied. If ctx is cancelled before
// the request is served, the responder is dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request, responder Responder) error {
	d.mu.RLock()
	h, ok := d.handlers[req.Scheme]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownScheme, req.Scheme)
	}

	if !h.Allow(req.WebviewLabel) {
		d.logger.Warn().
			Str("scheme", req.Scheme).
			Str("webview", req.WebviewLabel).
			Msg("prevented other webview from accessing scheme")
		d.metrics.observeDenied(req.Scheme)
		return fmt.Errorf("%w: %s from %s", ErrRequestDenied, req.Scheme, req.WebviewLabel)
	}

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		if err := d.sem.Acquire(ctx, 1); err != nil {
			d.logger.Debug().Err(err).Str("uri", req.URI.String()).Msg("scheme request cancelled")
			return
		}
		resp := h.Serve(logging.WithContext(ctx, d.logger), req)
		d.sem.Release(1)

		d.metrics.observe(req.Scheme, resp.StatusCode)
		responder.Respond(resp)
	}()
	return nil
}

// Wait blocks until all dispatched requests have been answered or dropped.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}
