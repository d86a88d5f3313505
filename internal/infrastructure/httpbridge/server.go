// Package httpbridge serves the http://<scheme>.localhost form of the custom
// schemes on a loopback listener, for hosts that cannot register schemes.
// Requests carrying the bridge token are routed as coming from the main
// window; everything else is refused.
package httpbridge

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/infrastructure/scheme"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// TokenHeader carries the bridge token. The token may instead be the first
// path segment: http://blob.localhost:port/<token>/<account>/<file>.
const TokenHeader = "X-Dcshell-Token"

// Options configures the bridge.
type Options struct {
	// AllowedOrigins lists the origins of the main window. Requests with any
	// other Origin header are refused.
	AllowedOrigins []string
}

// Dispatcher is the scheme dispatcher the bridge forwards to.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *scheme.Request, responder scheme.Responder) error
}

// Server is the loopback HTTP bridge.
type Server struct {
	dispatcher Dispatcher
	gatherer   prometheus.Gatherer
	token      string
	origins    map[string]struct{}
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	listener   net.Listener
}

// New creates a bridge with a fresh random token. gatherer may be nil to
// disable /metrics.
func New(ctx context.Context, dispatcher Dispatcher, gatherer prometheus.Gatherer, opts Options) *Server {
	s := &Server{
		dispatcher: dispatcher,
		gatherer:   gatherer,
		token:      newToken(),
		origins:    make(map[string]struct{}, len(opts.AllowedOrigins)),
		logger:     logging.FromContext(ctx).With().Str("component", "http-bridge").Logger(),
	}
	for _, o := range opts.AllowedOrigins {
		s.origins[strings.TrimRight(o, "/")] = struct{}{}
	}
	s.router = s.buildRouter()
	return s
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Token returns the secret the main window must present. Only the host
// main window may be given it.
func (s *Server) Token() string { return s.token }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	admin := chi.NewRouter()
	admin.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if s.gatherer != nil {
		admin.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		isScheme := schemeHost(req.Host)
		if !isScheme && req.URL.Path == "/healthz" {
			admin.ServeHTTP(w, req)
			return
		}
		req, origin, ok := s.authorize(req)
		if !ok {
			s.logger.Warn().
				Str("host", req.Host).
				Str("origin", req.Header.Get("Origin")).
				Msg("refused bridge request without token or from foreign origin")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if isScheme {
			s.serveScheme(w, req, origin)
			return
		}
		admin.ServeHTTP(w, req)
	}))
	return r
}

// authorize checks the Origin header and the token. A token passed as path
// prefix is stripped from the returned request. origin is the allowed
// Origin of the request, empty when none was sent.
func (s *Server) authorize(r *http.Request) (*http.Request, string, bool) {
	origin := strings.TrimRight(r.Header.Get("Origin"), "/")
	if origin != "" {
		if _, ok := s.origins[origin]; !ok {
			return r, "", false
		}
	}

	if got := r.Header.Get(TokenHeader); got != "" {
		return r, origin, s.validToken(got)
	}

	rest := strings.TrimPrefix(r.URL.Path, "/")
	first, tail, _ := strings.Cut(rest, "/")
	if !s.validToken(first) {
		return r, "", false
	}
	r2 := r.Clone(r.Context())
	r2.URL.Path = "/" + tail
	if r.URL.RawPath != "" {
		rawRest := strings.TrimPrefix(r.URL.RawPath, "/")
		_, rawTail, _ := strings.Cut(rawRest, "/")
		r2.URL.RawPath = "/" + rawTail
	}
	return r2, origin, true
}

func (s *Server) validToken(got string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) == 1
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func schemeHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	name, ok := strings.CutSuffix(host, ".localhost")
	return ok && name != ""
}

func (s *Server) serveScheme(w http.ResponseWriter, r *http.Request, origin string) {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	req, err := scheme.NewRequest(entity.MainWindowLabel, "http://"+host+r.URL.RequestURI(), r.Method)
	if err != nil {
		http.Error(w, "failed to parse requested url", http.StatusBadRequest)
		return
	}

	done := make(chan *scheme.Response, 1)
	err = s.dispatcher.Dispatch(r.Context(), req, scheme.ResponderFunc(func(resp *scheme.Response) {
		done <- resp
	}))
	switch {
	case errors.Is(err, scheme.ErrUnknownScheme):
		http.Error(w, "not found", http.StatusNotFound)
		return
	case errors.Is(err, scheme.ErrRequestDenied):
		w.WriteHeader(http.StatusForbidden)
		return
	case err != nil:
		http.Error(w, "failed to load, look inside logfile for more info", http.StatusInternalServerError)
		return
	}

	select {
	case resp := <-done:
		for k, vs := range resp.Header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		// Only the main window origin may read responses cross-origin.
		w.Header().Del("Access-Control-Allow-Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.WriteHeader(resp.StatusCode)
		if r.Method != http.MethodHead {
			_, _ = w.Write(resp.Body)
		}
	case <-r.Context().Done():
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("host", r.Host).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("bridge request")
	})
}

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when addr uses port 0.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("bridge server stopped")
		}
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("http scheme bridge listening")
	return ln.Addr().String(), nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
